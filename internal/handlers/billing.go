package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"formdesk-backend/internal/billing"
	"formdesk-backend/internal/intake"
	"formdesk-backend/internal/models"
	"formdesk-backend/internal/session"
	"formdesk-backend/internal/storage"
)

// Renderer turns an invoice document into bytes.
type Renderer interface {
	Render(w io.Writer, doc billing.Document) error
}

// BillingHandler serves the billing form and its invoice export.
type BillingHandler struct {
	store    *session.Store
	renderer Renderer
	archive  storage.Store // nil disables archiving
	now      func() time.Time
}

// NewBillingHandler creates a BillingHandler. archive may be nil.
func NewBillingHandler(store *session.Store, renderer Renderer, archive storage.Store) *BillingHandler {
	return &BillingHandler{
		store:    store,
		renderer: renderer,
		archive:  archive,
		now:      time.Now,
	}
}

// ── Form ─────────────────────────────────────────────────────────

// Get returns the invoice snapshot.
func (h *BillingHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, func(*billing.Invoice) {})
}

// SetCustomer updates the customer name and mobile number.
func (h *BillingHandler) SetCustomer(w http.ResponseWriter, r *http.Request) {
	var req models.SetCustomerRequest
	if !decode(w, r, &req) {
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		validationFailed(w, errs)
		return
	}
	h.update(w, r, func(inv *billing.Invoice) {
		inv.SetCustomer(req.CustomerName, req.MobileNumber)
	})
}

// AddItem appends an empty line item.
func (h *BillingHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, func(inv *billing.Invoice) {
		inv.AddItem()
	})
}

// RemoveItem deletes a line item. A stale index is ignored and the current
// state is returned unchanged.
// URL: DELETE /api/billing/items/{index}
func (h *BillingHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	index, ok := itemIndex(w, r)
	if !ok {
		return
	}
	h.update(w, r, func(inv *billing.Invoice) {
		inv.RemoveItem(index)
	})
}

// SetItemField writes raw input into one field of one item.
// URL: PUT /api/billing/items/{index}
func (h *BillingHandler) SetItemField(w http.ResponseWriter, r *http.Request) {
	index, ok := itemIndex(w, r)
	if !ok {
		return
	}
	var req models.SetItemFieldRequest
	if !decode(w, r, &req) {
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		validationFailed(w, errs)
		return
	}

	sess, ok := currentSession(w, r, h.store)
	if !ok {
		return
	}
	var (
		state billing.State
		err   error
	)
	sess.Do(func(_ *intake.Form, inv *billing.Invoice) {
		err = inv.SetItemField(index, req.Field, req.Value)
		state = inv.State()
	})
	switch {
	case errors.Is(err, billing.ErrItemNotFound):
		JSONError(w, http.StatusNotFound, "Item not found")
	case errors.Is(err, billing.ErrUnknownItemField):
		JSONError(w, http.StatusBadRequest, "Unknown item field")
	case err != nil:
		JSONError(w, http.StatusBadRequest, err.Error())
	default:
		JSON(w, http.StatusOK, state)
	}
}

// Submit validates the invoice. It answers 422 with every failing field
// until the invoice is complete.
func (h *BillingHandler) Submit(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r, h.store)
	if !ok {
		return
	}
	var (
		valid bool
		errs  []billing.FieldError
		state billing.State
	)
	sess.Do(func(_ *intake.Form, inv *billing.Invoice) {
		valid, errs = inv.Validate()
		state = inv.State()
	})
	if !valid {
		validationFailed(w, errs)
		return
	}
	JSON(w, http.StatusOK, state)
}

// ── Export ───────────────────────────────────────────────────────

// Document returns the invoice content model as JSON.
func (h *BillingHandler) Document(w http.ResponseWriter, r *http.Request) {
	doc, _, ok := h.buildDocument(w, r)
	if !ok {
		return
	}
	JSON(w, http.StatusOK, doc)
}

// DocumentPDF renders the invoice and sends it as a download. When an
// archive is configured a copy is stored as well; archive failures are
// logged and never fail the download.
func (h *BillingHandler) DocumentPDF(w http.ResponseWriter, r *http.Request) {
	doc, issuedAt, ok := h.buildDocument(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, doc); err != nil {
		log.Printf("[export] render %s: %v", doc.Meta.ReceiptNo, err)
		JSONError(w, http.StatusInternalServerError, "Failed to render invoice")
		return
	}

	var archived string
	if h.archive != nil {
		archived = h.archiveCopy(r.Context(), doc, issuedAt, buf.Bytes())
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.FileName()))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Printf("[export] write %s: %v", doc.Meta.ReceiptNo, err)
		// The client never got this copy; don't keep an archive of it.
		if archived != "" {
			if err := h.archive.Delete(context.WithoutCancel(r.Context()), archived); err != nil {
				log.Printf("[export] drop %s: %v", archived, err)
			}
		}
	}
}

// archiveCopy stores pdf and returns its archive path, or "" when saving failed.
func (h *BillingHandler) archiveCopy(ctx context.Context, doc billing.Document, issuedAt time.Time, pdf []byte) string {
	path := archivePath(doc.Meta.ReceiptNo, issuedAt, h.now())
	info, err := h.archive.Save(ctx, path, bytes.NewReader(pdf), "application/pdf")
	if err != nil {
		log.Printf("[export] archive %s: %v", path, err)
		return ""
	}
	log.Printf("[export] archived %s (%d bytes) at %s", doc.Meta.ReceiptNo, info.FileSize, info.URL)
	return path
}

// archivePath is invoices/{year}/{receipt digits}_{unix}.pdf. The timestamp
// keeps repeated exports of one receipt apart.
func archivePath(receiptNo string, issuedAt, now time.Time) string {
	return fmt.Sprintf("invoices/%d/%s_%d.pdf", issuedAt.Year(), strings.TrimPrefix(receiptNo, "#"), now.Unix())
}

// buildDocument validates the invoice and derives its document. Invalid
// invoices get the same 422 a failed submit does.
func (h *BillingHandler) buildDocument(w http.ResponseWriter, r *http.Request) (billing.Document, time.Time, bool) {
	sess, ok := currentSession(w, r, h.store)
	if !ok {
		return billing.Document{}, time.Time{}, false
	}
	var (
		doc      billing.Document
		issuedAt time.Time
		errs     []billing.FieldError
		err      error
	)
	sess.Do(func(_ *intake.Form, inv *billing.Invoice) {
		if _, errs = inv.Validate(); len(errs) > 0 {
			return
		}
		doc, err = inv.BuildInvoiceDocument()
		issuedAt = inv.IssuedAt
	})
	if len(errs) > 0 {
		validationFailed(w, errs)
		return billing.Document{}, time.Time{}, false
	}
	if err != nil {
		log.Printf("[export] build document: %v", err)
		JSONError(w, http.StatusInternalServerError, "Failed to build invoice")
		return billing.Document{}, time.Time{}, false
	}
	return doc, issuedAt, true
}

// ── Helpers ──────────────────────────────────────────────────────

// update applies fn to the caller's invoice and writes the resulting state.
func (h *BillingHandler) update(w http.ResponseWriter, r *http.Request, fn func(inv *billing.Invoice)) {
	sess, ok := currentSession(w, r, h.store)
	if !ok {
		return
	}
	var state billing.State
	sess.Do(func(_ *intake.Form, inv *billing.Invoice) {
		fn(inv)
		state = inv.State()
	})
	JSON(w, http.StatusOK, state)
}

func itemIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 {
		JSONError(w, http.StatusBadRequest, "Item index must be a non-negative integer")
		return 0, false
	}
	return index, true
}
