// internal/app/features/courses/units.go
package courses

import (
	"net/http"

	coursestore "github.com/courseforge/courseforge/internal/app/store/courses"
	"github.com/courseforge/courseforge/internal/app/system/auth"
	"github.com/courseforge/courseforge/internal/app/system/htmlsanitize"
	"github.com/courseforge/courseforge/internal/app/system/httpapi"
	"github.com/courseforge/courseforge/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// unitTarget pulls the (courseID, unitName) pair every unit mutation is
// addressed by out of the URL.
func unitTarget(r *http.Request) (primitive.ObjectID, string, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		return primitive.NilObjectID, "", false
	}
	unit := chi.URLParam(r, "unit")
	if unit == "" {
		return primitive.NilObjectID, "", false
	}
	return id, unit, true
}

// HandlePublish flips a unit's visibility flag.
//
// POST /{id}/units/{unit}/publish with {"is_published": true|false}.
func (h *Handler) HandlePublish(w http.ResponseWriter, r *http.Request) {
	courseID, unit, ok := unitTarget(r)
	if !ok {
		httpapi.BadRequest(w, "invalid course id or unit name")
		return
	}

	var body struct {
		IsPublished bool `json:"is_published"`
	}
	if err := httpapi.Decode(w, r, &body); err != nil {
		httpapi.BadRequest(w, "invalid JSON body")
		return
	}

	actor, _ := auth.CurrentActor(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "unit publish")
	defer cancel()

	if err := h.Courses.SetPublishState(ctx, courseID, unit, body.IsPublished, actor.ID); err != nil {
		httpapi.StoreError(w, err, coursestore.ErrNotFound, "course or unit not found")
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]bool{"is_published": body.IsPublished})
}

// HandleObjectives replaces a unit's learning objectives wholesale.
func (h *Handler) HandleObjectives(w http.ResponseWriter, r *http.Request) {
	courseID, unit, ok := unitTarget(r)
	if !ok {
		httpapi.BadRequest(w, "invalid course id or unit name")
		return
	}

	var body struct {
		Objectives []string `json:"objectives"`
	}
	if err := httpapi.Decode(w, r, &body); err != nil {
		httpapi.BadRequest(w, "invalid JSON body")
		return
	}
	objectives := make([]string, 0, len(body.Objectives))
	for _, o := range body.Objectives {
		objectives = append(objectives, htmlsanitize.Strict(o))
	}

	actor, _ := auth.CurrentActor(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "unit objectives")
	defer cancel()

	if err := h.Courses.SetLearningObjectives(ctx, courseID, unit, objectives, actor.ID); err != nil {
		httpapi.StoreError(w, err, coursestore.ErrNotFound, "course or unit not found")
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string][]string{"objectives": objectives})
}

// HandleThreshold sets a unit's pass threshold. The value is stored as
// given; grading semantics (percent vs count) live with the assessment
// collaborator, so only negatives are rejected here.
func (h *Handler) HandleThreshold(w http.ResponseWriter, r *http.Request) {
	courseID, unit, ok := unitTarget(r)
	if !ok {
		httpapi.BadRequest(w, "invalid course id or unit name")
		return
	}

	var body struct {
		PassThreshold int `json:"pass_threshold"`
	}
	if err := httpapi.Decode(w, r, &body); err != nil {
		httpapi.BadRequest(w, "invalid JSON body")
		return
	}

	actor, _ := auth.CurrentActor(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "unit threshold")
	defer cancel()

	err := h.Courses.SetPassThreshold(ctx, courseID, unit, body.PassThreshold, actor.ID)
	switch {
	case err == nil:
		httpapi.WriteJSON(w, http.StatusOK, map[string]int{"pass_threshold": body.PassThreshold})
	case err == coursestore.ErrNegativeThreshold:
		httpapi.BadRequest(w, err.Error())
	default:
		httpapi.StoreError(w, err, coursestore.ErrNotFound, "course or unit not found")
	}
}
