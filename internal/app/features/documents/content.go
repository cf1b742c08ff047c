// internal/app/features/documents/content.go
package documents

import (
	"errors"
	"net/http"

	documentstore "github.com/courseforge/courseforge/internal/app/store/documents"
	"github.com/courseforge/courseforge/internal/app/system/httpapi"
	"github.com/courseforge/courseforge/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// HandleContentUpdate is the extraction collaborator's callback: it
// stores extracted text and marks the document parsed.
//
// POST /{id}/content with {"text": "..."}.
//
// A 404 here usually means the document was deleted while extraction
// was in flight. That race is expected; the collaborator drops the
// result and moves on.
func (h *Handler) HandleContentUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpapi.BadRequest(w, "invalid document id")
		return
	}

	var body struct {
		Text string `json:"text"`
	}
	if err := httpapi.Decode(w, r, &body); err != nil {
		httpapi.BadRequest(w, "invalid JSON body")
		return
	}
	if body.Text == "" {
		httpapi.BadRequest(w, "text is required")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "document content update")
	defer cancel()

	if err := h.Sync.UpdateExtractedText(ctx, id, body.Text); err != nil {
		httpapi.StoreError(w, err, documentstore.ErrNotFound, "document not found")
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]string{"status": "parsed"})
}

// HandleStatusUpdate moves a document to "parsing" or "error".
//
// POST /{id}/status with {"status": "..."}.
func (h *Handler) HandleStatusUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpapi.BadRequest(w, "invalid document id")
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := httpapi.Decode(w, r, &body); err != nil {
		httpapi.BadRequest(w, "invalid JSON body")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "document status update")
	defer cancel()

	if err := h.Repo.SetStatus(ctx, id, body.Status); err != nil {
		if errors.Is(err, documentstore.ErrNotFound) {
			httpapi.NotFound(w, "document not found")
			return
		}
		h.Log.Warn("document status update rejected", zap.Error(err))
		httpapi.BadRequest(w, err.Error())
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]string{"status": body.Status})
}
