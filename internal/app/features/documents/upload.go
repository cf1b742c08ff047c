// internal/app/features/documents/upload.go
package documents

import (
	"io"
	"net/http"
	"strings"

	"github.com/courseforge/courseforge/internal/app/system/auth"
	"github.com/courseforge/courseforge/internal/app/system/contentsync"
	"github.com/courseforge/courseforge/internal/app/system/httpapi"
	"github.com/courseforge/courseforge/internal/app/system/timeouts"
	"github.com/courseforge/courseforge/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// HandleUpload accepts a multipart file upload and links it into the
// course unit.
//
// POST / with form fields course_id, unit_name, display_name,
// description, tags, objectives and the file part "file".
//
// Responds 201 with {document_id, linked_to_course}. A false
// linked_to_course is not a failure: the document exists and a
// reconcile (or re-link) will surface it in the unit later.
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.CurrentActor(r)

	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.MaxUploadBytes); err != nil {
		httpapi.BadRequest(w, "invalid multipart form")
		return
	}

	courseID, err := primitive.ObjectIDFromHex(r.FormValue("course_id"))
	if err != nil {
		httpapi.BadRequest(w, "invalid course_id")
		return
	}
	unitName := strings.TrimSpace(r.FormValue("unit_name"))
	if unitName == "" {
		httpapi.BadRequest(w, "unit_name is required")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httpapi.BadRequest(w, "file part is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		httpapi.BadRequest(w, "unable to read file")
		return
	}

	displayName := strings.TrimSpace(r.FormValue("display_name"))
	if displayName == "" {
		displayName = header.Filename
	}
	mimeType := header.Header.Get("Content-Type")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "document upload")
	defer cancel()

	res, err := h.Sync.AddDocument(ctx, contentsync.AddRequest{
		CourseID:    courseID,
		UnitName:    unitName,
		ActorID:     actor.ID,
		DisplayName: displayName,
		ContentKind: models.ContentKindFile,
		MimeType:    mimeType,
		Metadata:    metaFromForm(r),
		File:        data,
	})
	if err != nil {
		h.Log.Error("document upload failed", zap.Error(err))
		httpapi.Unavailable(w, "")
		return
	}

	httpapi.WriteJSON(w, http.StatusCreated, res)
}

// HandleCreateText accepts authored text material.
//
// POST /text with a JSON body.
func (h *Handler) HandleCreateText(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.CurrentActor(r)

	var body struct {
		CourseID    string              `json:"course_id"`
		UnitName    string              `json:"unit_name"`
		DisplayName string              `json:"display_name"`
		Text        string              `json:"text"`
		Metadata    models.DocumentMeta `json:"metadata"`
	}
	if err := httpapi.Decode(w, r, &body); err != nil {
		httpapi.BadRequest(w, "invalid JSON body")
		return
	}

	courseID, err := primitive.ObjectIDFromHex(body.CourseID)
	if err != nil {
		httpapi.BadRequest(w, "invalid course_id")
		return
	}
	if strings.TrimSpace(body.UnitName) == "" {
		httpapi.BadRequest(w, "unit_name is required")
		return
	}
	if body.Text == "" {
		httpapi.BadRequest(w, "text is required")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "document text create")
	defer cancel()

	res, err := h.Sync.AddDocument(ctx, contentsync.AddRequest{
		CourseID:    courseID,
		UnitName:    strings.TrimSpace(body.UnitName),
		ActorID:     actor.ID,
		DisplayName: body.DisplayName,
		ContentKind: models.ContentKindText,
		MimeType:    "text/plain",
		Metadata:    body.Metadata,
		Text:        body.Text,
	})
	if err != nil {
		h.Log.Error("document text create failed", zap.Error(err))
		httpapi.Unavailable(w, "")
		return
	}

	httpapi.WriteJSON(w, http.StatusCreated, res)
}

// metaFromForm collects the free-form metadata fields. Tags and
// objectives are comma-separated in the form.
func metaFromForm(r *http.Request) models.DocumentMeta {
	meta := models.DocumentMeta{
		Description: r.FormValue("description"),
	}
	if tags := strings.TrimSpace(r.FormValue("tags")); tags != "" {
		for _, t := range strings.Split(tags, ",") {
			if t = strings.TrimSpace(t); t != "" {
				meta.Tags = append(meta.Tags, t)
			}
		}
	}
	if objs := strings.TrimSpace(r.FormValue("objectives")); objs != "" {
		for _, o := range strings.Split(objs, ",") {
			if o = strings.TrimSpace(o); o != "" {
				meta.Objectives = append(meta.Objectives, o)
			}
		}
	}
	return meta
}
