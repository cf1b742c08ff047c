// internal/app/features/courses/create.go
package courses

import (
	"errors"
	"net/http"
	"strings"

	coursestore "github.com/courseforge/courseforge/internal/app/store/courses"
	"github.com/courseforge/courseforge/internal/app/system/auth"
	"github.com/courseforge/courseforge/internal/app/system/htmlsanitize"
	"github.com/courseforge/courseforge/internal/app/system/httpapi"
	"github.com/courseforge/courseforge/internal/app/system/timeouts"
	"github.com/courseforge/courseforge/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type createRequest struct {
	Name      string   `json:"name"`
	StaffIDs  []string `json:"staff_ids"`
	UnitNames []string `json:"unit_names"`
}

// HandleCreate provisions a course with its full unit list. Units are
// created here and only here; later mutations address existing units by
// name.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := httpapi.Decode(w, r, &req); err != nil {
		httpapi.BadRequest(w, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		httpapi.BadRequest(w, "name is required")
		return
	}
	if len(req.UnitNames) == 0 {
		httpapi.BadRequest(w, "at least one unit is required")
		return
	}

	actor, _ := auth.CurrentActor(r)

	c := models.Course{
		Name:     htmlsanitize.Strict(req.Name),
		OwnerID:  actor.ID,
		StaffIDs: req.StaffIDs,
		Units:    make([]models.Unit, 0, len(req.UnitNames)),
	}
	for _, name := range req.UnitNames {
		c.Units = append(c.Units, models.Unit{Name: htmlsanitize.Strict(name)})
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "course create")
	defer cancel()

	created, err := h.Courses.Create(ctx, c)
	if err != nil {
		switch {
		case errors.Is(err, coursestore.ErrEmptyName), errors.Is(err, coursestore.ErrDuplicateUnitName):
			httpapi.BadRequest(w, err.Error())
		default:
			httpapi.Unavailable(w, "course create failed")
		}
		return
	}
	httpapi.WriteJSON(w, http.StatusCreated, created)
}

// ServeGet returns the full course aggregate, embedded refs included.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpapi.BadRequest(w, "invalid course id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "course get")
	defer cancel()

	c, err := h.Courses.GetByID(ctx, id)
	if err != nil {
		httpapi.StoreError(w, err, coursestore.ErrNotFound, "course not found")
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, c)
}

// HandleDelete removes the aggregate. Idempotent: a repeat delete
// reports deleted_count 0 with a 200.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpapi.BadRequest(w, "invalid course id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "course delete")
	defer cancel()

	n, err := h.Courses.Delete(ctx, id)
	if err != nil {
		httpapi.Unavailable(w, "course delete failed")
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]int64{"deleted_count": n})
}
