// internal/app/features/documents/delete.go
package documents

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/courseforge/courseforge/internal/app/system/auth"
	"github.com/courseforge/courseforge/internal/app/system/contentsync"
	"github.com/courseforge/courseforge/internal/app/system/httpapi"
	"github.com/courseforge/courseforge/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HandleDelete removes a document and its course references.
//
// POST /{id}/delete. The body is optional; when the caller knows which
// unit holds the reference it can send {"course_id": "...",
// "unit_name": "..."} to scope the removal, otherwise every unit of the
// owning course is swept.
//
// Deletion is idempotent. A second delete of the same id reports
// deleted_count 0 with a 200, never a 404.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpapi.BadRequest(w, "invalid document id")
		return
	}

	req := contentsync.DeleteRequest{DocumentID: id}
	if actor, ok := auth.CurrentActor(r); ok {
		req.ActorID = actor.ID
	}

	var body struct {
		CourseID string `json:"course_id"`
		UnitName string `json:"unit_name"`
	}
	switch err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&body); err {
	case nil:
		if body.CourseID != "" {
			cid, err := primitive.ObjectIDFromHex(body.CourseID)
			if err != nil {
				httpapi.BadRequest(w, "invalid course_id")
				return
			}
			req.CourseID = cid
		}
		req.UnitName = body.UnitName
	case io.EOF:
		// empty body is fine
	default:
		httpapi.BadRequest(w, "invalid JSON body")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "document delete")
	defer cancel()

	res, err := h.Sync.DeleteDocument(ctx, req)
	if err != nil {
		httpapi.Unavailable(w, "delete failed")
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, res)
}
