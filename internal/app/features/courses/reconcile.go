// internal/app/features/courses/reconcile.go
package courses

import (
	"errors"
	"net/http"

	coursestore "github.com/courseforge/courseforge/internal/app/store/courses"
	"github.com/courseforge/courseforge/internal/app/system/httpapi"
	"github.com/courseforge/courseforge/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HandleReconcile sweeps one course for references to documents that no
// longer exist and drops them. Safe to call at any time; a clean course
// reports zero removals.
func (h *Handler) HandleReconcile(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpapi.BadRequest(w, "invalid course id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Batch(), h.Log, "course reconcile")
	defer cancel()

	res, err := h.Reconcile.Reconcile(ctx, id)
	if err != nil {
		if errors.Is(err, coursestore.ErrNotFound) {
			httpapi.NotFound(w, "course not found")
			return
		}
		httpapi.Unavailable(w, "reconcile failed")
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, res)
}
