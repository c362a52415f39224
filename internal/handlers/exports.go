package handlers

import (
	"net/http"
	"path/filepath"
	"strings"

	"formdesk-backend/internal/storage"
)

// ExportHandler serves archived invoices.
type ExportHandler struct {
	store storage.Store
	dir   string
}

// NewExportHandler creates an ExportHandler. dir is the local archive
// directory and is only read when the store does not hand out public URLs.
func NewExportHandler(store storage.Store, dir string) *ExportHandler {
	return &ExportHandler{store: store, dir: dir}
}

// ServeFile serves an archived invoice.
// For R2 storage, redirects to the public URL.
// For local storage, serves from disk.
func (h *ExportHandler) ServeFile(w http.ResponseWriter, r *http.Request) {
	filePath := strings.TrimPrefix(r.URL.Path, "/api/exports/")
	if filePath == "" || filePath == r.URL.Path {
		JSONError(w, http.StatusBadRequest, "File path required.")
		return
	}

	if url := h.store.URL(filePath); strings.HasPrefix(url, "https://") {
		http.Redirect(w, r, url, http.StatusTemporaryRedirect)
		return
	}

	http.ServeFile(w, r, filepath.Join(h.dir, filepath.Clean("/"+filePath)))
}
