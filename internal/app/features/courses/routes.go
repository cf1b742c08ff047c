// internal/app/features/courses/routes.go
package courses

import (
	"github.com/courseforge/courseforge/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the course endpoints. Reads are open; writes require an
// authenticated actor, and course creation/deletion additionally require
// an owner or admin role.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/{id}", h.ServeGet)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireActor)

		r.With(auth.RequireRole(auth.RoleOwner, auth.RoleAdmin)).Post("/", h.HandleCreate)
		r.With(auth.RequireRole(auth.RoleOwner, auth.RoleAdmin)).Post("/{id}/delete", h.HandleDelete)

		r.Post("/{id}/units/{unit}/publish", h.HandlePublish)
		r.Post("/{id}/units/{unit}/objectives", h.HandleObjectives)
		r.Post("/{id}/units/{unit}/threshold", h.HandleThreshold)
		r.Post("/{id}/units/{unit}/questions", h.HandleUpsertQuestion)
		r.Post("/{id}/units/{unit}/questions/{qid}/delete", h.HandleDeleteQuestion)

		r.Post("/{id}/reconcile", h.HandleReconcile)
	})

	return r
}
