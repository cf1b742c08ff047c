// internal/app/features/documents/list.go
package documents

import (
	"errors"
	"net/http"
	"strings"

	documentstore "github.com/courseforge/courseforge/internal/app/store/documents"
	"github.com/courseforge/courseforge/internal/app/system/httpapi"
	"github.com/courseforge/courseforge/internal/app/system/timeouts"
	"github.com/courseforge/courseforge/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ServeList returns the documents of one unit, newest first, without
// file content.
//
// GET /?course_id=...&unit=...
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	courseID, err := primitive.ObjectIDFromHex(r.URL.Query().Get("course_id"))
	if err != nil {
		httpapi.BadRequest(w, "invalid course_id")
		return
	}
	unitName := strings.TrimSpace(r.URL.Query().Get("unit"))
	if unitName == "" {
		httpapi.BadRequest(w, "unit is required")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "document list")
	defer cancel()

	docs, err := h.Repo.ListByUnit(ctx, courseID, unitName)
	if err != nil {
		h.Log.Error("document list failed", zap.Error(err))
		httpapi.Unavailable(w, "")
		return
	}
	if docs == nil {
		docs = []models.Document{}
	}
	httpapi.WriteJSON(w, http.StatusOK, docs)
}

// ServeGet returns one document by id, including text content.
//
// GET /{id}
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpapi.BadRequest(w, "invalid document id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "document get")
	defer cancel()

	doc, err := h.Repo.GetByID(ctx, id)
	if err != nil {
		httpapi.StoreError(w, err, documentstore.ErrNotFound, "document not found")
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, doc)
}

// HandleDownload streams the raw uploaded bytes of a file document.
//
// GET /{id}/download
func (h *Handler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpapi.BadRequest(w, "invalid document id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "document download")
	defer cancel()

	doc, err := h.Repo.GetByID(ctx, id)
	if err != nil {
		httpapi.StoreError(w, err, documentstore.ErrNotFound, "document not found")
		return
	}
	if !doc.HasFile() {
		httpapi.NotFound(w, "document has no file content")
		return
	}

	mt := doc.MimeType
	if mt == "" {
		mt = "application/octet-stream"
	}
	w.Header().Set("Content-Type", mt)
	w.Header().Set("Content-Disposition", `attachment; filename="`+doc.DisplayName+`"`)
	if _, err := w.Write(doc.FileContent.Data); err != nil && !errors.Is(err, http.ErrBodyNotAllowed) {
		h.Log.Debug("download write aborted", zap.Error(err))
	}
}
