package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"formdesk-backend/internal/billing"
	"formdesk-backend/internal/intake"
	"formdesk-backend/internal/models"
	"formdesk-backend/internal/session"
	"formdesk-backend/internal/validation"
)

// IntakeHandler serves the education and employment history form.
type IntakeHandler struct {
	store *session.Store
}

// NewIntakeHandler creates an IntakeHandler.
func NewIntakeHandler(store *session.Store) *IntakeHandler {
	return &IntakeHandler{store: store}
}

// ── Reads ────────────────────────────────────────────────────────

// Get returns the form snapshot.
func (h *IntakeHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r, h.store)
	if !ok {
		return
	}
	var state models.IntakeState
	sess.Do(func(form *intake.Form, _ *billing.Invoice) {
		state = intakeState(form)
	})
	JSON(w, http.StatusOK, state)
}

// HasError answers whether a field currently displays an error of a kind.
// Query: ?path=employer.address.pincode&kind=pattern
func (h *IntakeHandler) HasError(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r, h.store)
	if !ok {
		return
	}

	path, err := intake.ParseFieldPath(r.URL.Query().Get("path"))
	if err != nil {
		JSONError(w, http.StatusBadRequest, "Unknown field path")
		return
	}
	kindParam := r.URL.Query().Get("kind")
	kind, ok := validation.ParseKind(kindParam)
	if !ok {
		JSONError(w, http.StatusBadRequest, "kind must be one of: required, pattern, min")
		return
	}

	var visible bool
	sess.Do(func(form *intake.Form, _ *billing.Invoice) {
		visible = form.FieldHasVisibleError(path, kind)
	})
	JSON(w, http.StatusOK, models.FieldErrorQuery{Path: string(path), Kind: kindParam, Visible: visible})
}

// ── Writes ───────────────────────────────────────────────────────

// Replace swaps in the whole set of values.
func (h *IntakeHandler) Replace(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r, h.store)
	if !ok {
		return
	}
	var values intake.Values
	if !decode(w, r, &values) {
		return
	}
	if errs := validateToggles(values); len(errs) > 0 {
		validationFailed(w, errs)
		return
	}

	var state models.IntakeState
	sess.Do(func(form *intake.Form, _ *billing.Invoice) {
		form.Replace(values)
		state = intakeState(form)
	})
	JSON(w, http.StatusOK, state)
}

// SetField writes one field. Toggle paths behave like SetSection.
func (h *IntakeHandler) SetField(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r, h.store)
	if !ok {
		return
	}
	var req models.SetFieldRequest
	if !decode(w, r, &req) {
		return
	}
	path, err := intake.ParseFieldPath(req.Path)
	if err != nil {
		JSONError(w, http.StatusBadRequest, "Unknown field path")
		return
	}

	var state models.IntakeState
	sess.Do(func(form *intake.Form, _ *billing.Invoice) {
		err = form.SetField(path, req.Value)
		state = intakeState(form)
	})
	if errors.Is(err, intake.ErrInvalidToggle) {
		validationFailed(w, map[string]string{"value": `Value must be "yes", "no" or empty`})
		return
	}
	if err != nil {
		JSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	JSON(w, http.StatusOK, state)
}

// Touch marks a field as interacted with, as a blur event does.
func (h *IntakeHandler) Touch(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r, h.store)
	if !ok {
		return
	}
	var req models.TouchRequest
	if !decode(w, r, &req) {
		return
	}
	path, err := intake.ParseFieldPath(req.Path)
	if err != nil {
		JSONError(w, http.StatusBadRequest, "Unknown field path")
		return
	}

	var state models.IntakeState
	sess.Do(func(form *intake.Form, _ *billing.Invoice) {
		_ = form.Touch(path)
		state = intakeState(form)
	})
	JSON(w, http.StatusOK, state)
}

// SetSection answers a section's yes/no question.
// URL: PUT /api/intake/sections/{section}
func (h *IntakeHandler) SetSection(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r, h.store)
	if !ok {
		return
	}
	id, err := intake.ParseSection(chi.URLParam(r, "section"))
	if err != nil {
		JSONError(w, http.StatusNotFound, "Unknown section")
		return
	}
	var req models.SetToggleRequest
	if !decode(w, r, &req) {
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		validationFailed(w, errs)
		return
	}

	var state models.IntakeState
	sess.Do(func(form *intake.Form, _ *billing.Invoice) {
		_ = form.SetToggle(id, intake.Toggle(req.Value))
		state = intakeState(form)
	})
	JSON(w, http.StatusOK, state)
}

// Submit validates the whole form. On success the response carries the
// read-only summary; otherwise 422 with every failing field.
func (h *IntakeHandler) Submit(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r, h.store)
	if !ok {
		return
	}

	var (
		valid   bool
		summary intake.Values
		errs    []intake.FieldError
	)
	sess.Do(func(form *intake.Form, _ *billing.Invoice) {
		valid = form.Submit()
		summary, _ = form.Summary()
		errs = form.Errors()
	})
	if !valid {
		validationFailed(w, errs)
		return
	}
	JSON(w, http.StatusOK, map[string]interface{}{
		"message": "Form submitted successfully",
		"summary": summary,
	})
}

// ── Helpers ──────────────────────────────────────────────────────

func intakeState(form *intake.Form) models.IntakeState {
	values := form.Values()
	state := models.IntakeState{
		Values:    values,
		Sections:  make(map[intake.SectionID]models.SectionState, len(intake.Sections)),
		Errors:    form.Errors(),
		Submitted: form.Submitted(),
		Valid:     form.Valid(),
	}
	for _, id := range intake.Sections {
		state.Sections[id] = models.SectionState{
			Toggle:  values.Toggle(id),
			Enabled: form.SectionEnabled(id),
		}
	}
	if summary, ok := form.Summary(); ok {
		state.Summary = &summary
	}
	return state
}

func validateToggles(v intake.Values) map[string]string {
	errs := make(map[string]string)
	for _, id := range intake.Sections {
		req := models.SetToggleRequest{Value: string(v.Toggle(id))}
		if msg, bad := req.Validate()["value"]; bad {
			errs[string(id)] = msg
		}
	}
	return errs
}
