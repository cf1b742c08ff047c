package documents_test

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/courseforge/courseforge/internal/app/features/documents"
	documentstore "github.com/courseforge/courseforge/internal/app/store/documents"
	"github.com/courseforge/courseforge/internal/app/system/contentsync"
	"github.com/courseforge/courseforge/internal/domain/models"
	"github.com/courseforge/courseforge/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// fakeSyncer records the last request of each kind and returns canned
// results.
type fakeSyncer struct {
	addReq    contentsync.AddRequest
	addRes    contentsync.AddResult
	addErr    error
	updated   map[primitive.ObjectID]string
	updateErr error
	delReq    contentsync.DeleteRequest
	delRes    contentsync.DeleteResult
	delErr    error
}

func (f *fakeSyncer) AddDocument(ctx context.Context, req contentsync.AddRequest) (contentsync.AddResult, error) {
	f.addReq = req
	return f.addRes, f.addErr
}

func (f *fakeSyncer) UpdateExtractedText(ctx context.Context, id primitive.ObjectID, text string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if f.updated == nil {
		f.updated = make(map[primitive.ObjectID]string)
	}
	f.updated[id] = text
	return nil
}

func (f *fakeSyncer) DeleteDocument(ctx context.Context, req contentsync.DeleteRequest) (contentsync.DeleteResult, error) {
	f.delReq = req
	return f.delRes, f.delErr
}

// fakeRepo serves a fixed set of documents.
type fakeRepo struct {
	docs     map[primitive.ObjectID]models.Document
	statuses map[primitive.ObjectID]string
}

func newFakeRepo(docs ...models.Document) *fakeRepo {
	f := &fakeRepo{
		docs:     make(map[primitive.ObjectID]models.Document),
		statuses: make(map[primitive.ObjectID]string),
	}
	for _, d := range docs {
		f.docs[d.ID] = d
	}
	return f
}

func (f *fakeRepo) GetByID(ctx context.Context, id primitive.ObjectID) (models.Document, error) {
	d, ok := f.docs[id]
	if !ok {
		return models.Document{}, documentstore.ErrNotFound
	}
	return d, nil
}

func (f *fakeRepo) ListByUnit(ctx context.Context, courseID primitive.ObjectID, unitName string) ([]models.Document, error) {
	var out []models.Document
	for _, d := range f.docs {
		if d.CourseID == courseID && d.UnitName == unitName {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeRepo) SetStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	if _, ok := f.docs[id]; !ok {
		return documentstore.ErrNotFound
	}
	f.statuses[id] = status
	return nil
}

func newTestHandler(sync *fakeSyncer, repo *fakeRepo) *documents.Handler {
	return documents.NewHandler(sync, repo, zap.NewNop())
}

func multipartUpload(t *testing.T, fields map[string]string, fileName string, fileBody []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	fw, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write(fileBody); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/documents", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return testutil.WithActor(req, testutil.StaffActor())
}

func TestHandleUpload(t *testing.T) {
	sync := &fakeSyncer{addRes: contentsync.AddResult{DocumentID: primitive.NewObjectID(), LinkedToCourse: true}}
	h := newTestHandler(sync, newFakeRepo())

	courseID := primitive.NewObjectID()
	req := multipartUpload(t, map[string]string{
		"course_id":  courseID.Hex(),
		"unit_name":  "Week 1",
		"tags":       "go, concurrency",
		"objectives": "understand goroutines",
	}, "slides.pdf", []byte("%PDF-1.4 fake"))

	rec := testutil.NewRecorder()
	h.HandleUpload(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusCreated)
	rec.AssertContains(t, `"linked_to_course":true`)

	if sync.addReq.ContentKind != models.ContentKindFile {
		t.Errorf("content kind: got %q", sync.addReq.ContentKind)
	}
	if sync.addReq.DisplayName != "slides.pdf" {
		t.Errorf("display name: got %q", sync.addReq.DisplayName)
	}
	if sync.addReq.ActorID != "staff-1" {
		t.Errorf("actor: got %q", sync.addReq.ActorID)
	}
	if len(sync.addReq.Metadata.Tags) != 2 {
		t.Errorf("tags: got %v", sync.addReq.Metadata.Tags)
	}
}

func TestHandleUpload_MissingUnit(t *testing.T) {
	h := newTestHandler(&fakeSyncer{}, newFakeRepo())

	req := multipartUpload(t, map[string]string{
		"course_id": primitive.NewObjectID().Hex(),
	}, "slides.pdf", []byte("x"))

	rec := testutil.NewRecorder()
	h.HandleUpload(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestHandleCreateText(t *testing.T) {
	sync := &fakeSyncer{addRes: contentsync.AddResult{DocumentID: primitive.NewObjectID(), LinkedToCourse: true}}
	h := newTestHandler(sync, newFakeRepo())

	req := testutil.NewJSONRequest(http.MethodPost, "/documents/text", map[string]any{
		"course_id":    primitive.NewObjectID().Hex(),
		"unit_name":    "Week 1",
		"display_name": "Syllabus",
		"text":         "authored content",
	})
	req = testutil.WithActor(req, testutil.OwnerActor())

	rec := testutil.NewRecorder()
	h.HandleCreateText(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusCreated)
	if sync.addReq.ContentKind != models.ContentKindText {
		t.Errorf("content kind: got %q", sync.addReq.ContentKind)
	}
	if sync.addReq.Text != "authored content" {
		t.Errorf("text: got %q", sync.addReq.Text)
	}
}

func TestHandleCreateText_PartialLinkIsNotAnError(t *testing.T) {
	sync := &fakeSyncer{addRes: contentsync.AddResult{DocumentID: primitive.NewObjectID(), LinkedToCourse: false}}
	h := newTestHandler(sync, newFakeRepo())

	req := testutil.NewJSONRequest(http.MethodPost, "/documents/text", map[string]any{
		"course_id": primitive.NewObjectID().Hex(),
		"unit_name": "Week 1",
		"text":      "content",
	})
	req = testutil.WithActor(req, testutil.OwnerActor())

	rec := testutil.NewRecorder()
	h.HandleCreateText(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusCreated)
	rec.AssertContains(t, `"linked_to_course":false`)
}

func TestServeList(t *testing.T) {
	courseID := primitive.NewObjectID()
	doc := models.Document{
		ID: primitive.NewObjectID(), CourseID: courseID, UnitName: "Week 1",
		DisplayName: "notes.txt", Status: models.StatusParsed,
	}
	h := newTestHandler(&fakeSyncer{}, newFakeRepo(doc))

	req := httptest.NewRequest(http.MethodGet, "/documents?course_id="+courseID.Hex()+"&unit=Week+1", nil)
	rec := testutil.NewRecorder()
	h.ServeList(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "notes.txt")
}

func TestServeList_EmptyUnitIsEmptyArray(t *testing.T) {
	h := newTestHandler(&fakeSyncer{}, newFakeRepo())

	req := httptest.NewRequest(http.MethodGet, "/documents?course_id="+primitive.NewObjectID().Hex()+"&unit=Week+1", nil)
	rec := testutil.NewRecorder()
	h.ServeList(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusOK)
	if body := rec.Body.String(); body != "[]\n" {
		t.Errorf("expected empty JSON array, got %q", body)
	}
}

func TestServeGet_NotFound(t *testing.T) {
	h := newTestHandler(&fakeSyncer{}, newFakeRepo())

	req := httptest.NewRequest(http.MethodGet, "/documents/x", nil)
	req = testutil.WithChiURLParam(req, "id", primitive.NewObjectID().Hex())

	rec := testutil.NewRecorder()
	h.ServeGet(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusNotFound)
}

func TestHandleDownload(t *testing.T) {
	doc := models.Document{
		ID:          primitive.NewObjectID(),
		ContentKind: models.ContentKindFile,
		DisplayName: "slides.pdf",
		MimeType:    "application/pdf",
		FileContent: primitive.Binary{Data: []byte("%PDF-1.4 fake")},
	}
	h := newTestHandler(&fakeSyncer{}, newFakeRepo(doc))

	req := httptest.NewRequest(http.MethodGet, "/documents/x/download", nil)
	req = testutil.WithChiURLParam(req, "id", doc.ID.Hex())

	rec := testutil.NewRecorder()
	h.HandleDownload(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusOK)
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("content type: got %q", ct)
	}
	if !bytes.Equal(rec.Body.Bytes(), doc.FileContent.Data) {
		t.Error("file bytes did not round-trip")
	}
}

func TestHandleDownload_TextDocumentHasNoFile(t *testing.T) {
	doc := models.Document{
		ID:          primitive.NewObjectID(),
		ContentKind: models.ContentKindText,
		TextContent: "authored",
	}
	h := newTestHandler(&fakeSyncer{}, newFakeRepo(doc))

	req := httptest.NewRequest(http.MethodGet, "/documents/x/download", nil)
	req = testutil.WithChiURLParam(req, "id", doc.ID.Hex())

	rec := testutil.NewRecorder()
	h.HandleDownload(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusNotFound)
}

func TestHandleContentUpdate(t *testing.T) {
	sync := &fakeSyncer{}
	h := newTestHandler(sync, newFakeRepo())

	id := primitive.NewObjectID()
	req := testutil.NewJSONRequest(http.MethodPost, "/documents/x/content", map[string]string{"text": "extracted"})
	req = testutil.WithChiURLParam(req, "id", id.Hex())
	req = testutil.WithActor(req, testutil.StaffActor())

	rec := testutil.NewRecorder()
	h.HandleContentUpdate(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusOK)
	if sync.updated[id] != "extracted" {
		t.Errorf("updated text: got %q", sync.updated[id])
	}
}

func TestHandleContentUpdate_DeletedDocument(t *testing.T) {
	sync := &fakeSyncer{updateErr: documentstore.ErrNotFound}
	h := newTestHandler(sync, newFakeRepo())

	req := testutil.NewJSONRequest(http.MethodPost, "/documents/x/content", map[string]string{"text": "late"})
	req = testutil.WithChiURLParam(req, "id", primitive.NewObjectID().Hex())
	req = testutil.WithActor(req, testutil.StaffActor())

	rec := testutil.NewRecorder()
	h.HandleContentUpdate(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusNotFound)
}

func TestHandleStatusUpdate(t *testing.T) {
	doc := models.Document{ID: primitive.NewObjectID()}
	repo := newFakeRepo(doc)
	h := newTestHandler(&fakeSyncer{}, repo)

	req := testutil.NewJSONRequest(http.MethodPost, "/documents/x/status", map[string]string{"status": models.StatusParsing})
	req = testutil.WithChiURLParam(req, "id", doc.ID.Hex())
	req = testutil.WithActor(req, testutil.StaffActor())

	rec := testutil.NewRecorder()
	h.HandleStatusUpdate(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusOK)
	if repo.statuses[doc.ID] != models.StatusParsing {
		t.Errorf("status: got %q", repo.statuses[doc.ID])
	}
}

func TestHandleDelete(t *testing.T) {
	sync := &fakeSyncer{delRes: contentsync.DeleteResult{DeletedCount: 1, RemovedFromCourse: true}}
	h := newTestHandler(sync, newFakeRepo())

	id := primitive.NewObjectID()
	req := testutil.NewRequest(http.MethodPost, "/documents/x/delete")
	req = testutil.WithChiURLParam(req, "id", id.Hex())
	req = testutil.WithActor(req, testutil.OwnerActor())

	rec := testutil.NewRecorder()
	h.HandleDelete(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"deleted_count":1`)
	if sync.delReq.DocumentID != id {
		t.Errorf("document id: got %s", sync.delReq.DocumentID.Hex())
	}
	if sync.delReq.ActorID != "owner-1" {
		t.Errorf("actor: got %q", sync.delReq.ActorID)
	}
}

func TestHandleDelete_WithUnitHint(t *testing.T) {
	sync := &fakeSyncer{delRes: contentsync.DeleteResult{DeletedCount: 1, RemovedFromCourse: true}}
	h := newTestHandler(sync, newFakeRepo())

	id := primitive.NewObjectID()
	courseID := primitive.NewObjectID()
	req := testutil.NewJSONRequest(http.MethodPost, "/documents/x/delete", map[string]string{
		"course_id": courseID.Hex(),
		"unit_name": "Week 1",
	})
	req = testutil.WithChiURLParam(req, "id", id.Hex())
	req = testutil.WithActor(req, testutil.OwnerActor())

	rec := testutil.NewRecorder()
	h.HandleDelete(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusOK)
	if sync.delReq.CourseID != courseID || sync.delReq.UnitName != "Week 1" {
		t.Errorf("hints not forwarded: %+v", sync.delReq)
	}
}

func TestHandleDelete_StoreDown(t *testing.T) {
	sync := &fakeSyncer{delErr: errors.New("mongo down")}
	h := newTestHandler(sync, newFakeRepo())

	req := testutil.NewRequest(http.MethodPost, "/documents/x/delete")
	req = testutil.WithChiURLParam(req, "id", primitive.NewObjectID().Hex())
	req = testutil.WithActor(req, testutil.OwnerActor())

	rec := testutil.NewRecorder()
	h.HandleDelete(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusServiceUnavailable)
}
