// internal/app/features/courses/questions.go
package courses

import (
	"net/http"
	"strings"

	coursestore "github.com/courseforge/courseforge/internal/app/store/courses"
	"github.com/courseforge/courseforge/internal/app/system/auth"
	"github.com/courseforge/courseforge/internal/app/system/htmlsanitize"
	"github.com/courseforge/courseforge/internal/app/system/httpapi"
	"github.com/courseforge/courseforge/internal/app/system/timeouts"
	"github.com/courseforge/courseforge/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// HandleUpsertQuestion adds a question to a unit or replaces it in
// place. A question with no question_id is new and gets one assigned;
// a known question_id keeps its slot in the unit's question order.
func (h *Handler) HandleUpsertQuestion(w http.ResponseWriter, r *http.Request) {
	courseID, unit, ok := unitTarget(r)
	if !ok {
		httpapi.BadRequest(w, "invalid course id or unit name")
		return
	}

	var q models.AssessmentQuestion
	if err := httpapi.Decode(w, r, &q); err != nil {
		httpapi.BadRequest(w, "invalid JSON body")
		return
	}
	if strings.TrimSpace(q.Prompt) == "" {
		httpapi.BadRequest(w, "prompt is required")
		return
	}
	q.Prompt = htmlsanitize.Sanitize(q.Prompt)

	actor, _ := auth.CurrentActor(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "question upsert")
	defer cancel()

	saved, err := h.Courses.UpsertQuestion(ctx, courseID, unit, q, actor.ID)
	if err != nil {
		httpapi.StoreError(w, err, coursestore.ErrNotFound, "course or unit not found")
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, saved)
}

// HandleDeleteQuestion removes a question by id. Deleting an id that is
// not present is a no-op, not an error.
func (h *Handler) HandleDeleteQuestion(w http.ResponseWriter, r *http.Request) {
	courseID, unit, ok := unitTarget(r)
	if !ok {
		httpapi.BadRequest(w, "invalid course id or unit name")
		return
	}
	qid := chi.URLParam(r, "qid")
	if qid == "" {
		httpapi.BadRequest(w, "question id is required")
		return
	}

	actor, _ := auth.CurrentActor(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "question delete")
	defer cancel()

	if err := h.Courses.DeleteQuestion(ctx, courseID, unit, qid, actor.ID); err != nil {
		httpapi.StoreError(w, err, coursestore.ErrNotFound, "course or unit not found")
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
