// internal/app/features/documents/routes.go
package documents

import (
	"github.com/courseforge/courseforge/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the document API under whatever base path the caller
// chooses (typically "/documents" from bootstrap).
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// Reads need no identity; the read surface is scoped by the caller.
	r.Get("/", h.ServeList)
	r.Get("/{id}", h.ServeGet)
	r.Get("/{id}/download", h.HandleDownload)

	// Mutations require the upstream-supplied actor.
	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireActor)

		pr.Post("/", h.HandleUpload)
		pr.Post("/text", h.HandleCreateText)
		pr.Post("/{id}/delete", h.HandleDelete)
	})

	// Extraction collaborator callbacks. The collaborator authenticates
	// upstream like any other caller.
	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireActor)

		pr.Post("/{id}/content", h.HandleContentUpdate)
		pr.Post("/{id}/status", h.HandleStatusUpdate)
	})

	return r
}
