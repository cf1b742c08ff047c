package documentstore_test

import (
	"errors"
	"testing"

	documentstore "github.com/courseforge/courseforge/internal/app/store/documents"
	"github.com/courseforge/courseforge/internal/domain/models"
	"github.com/courseforge/courseforge/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func textDoc(courseID primitive.ObjectID, unit, name, content string) models.Document {
	return models.Document{
		CourseID:    courseID,
		UnitName:    unit,
		ActorID:     "owner-1",
		ContentKind: models.ContentKindText,
		DisplayName: name,
		TextContent: content,
		MimeType:    "text/plain",
	}
}

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := documentstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, textDoc(primitive.NewObjectID(), "Week 1", "notes.txt", "hello"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.Status != models.StatusUploaded {
		t.Errorf("expected status %q, got %q", models.StatusUploaded, created.Status)
	}
	if created.SizeBytes != int64(len("hello")) {
		t.Errorf("SizeBytes: got %d, want %d", created.SizeBytes, len("hello"))
	}
	if created.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
	if created.LastModifiedAt != nil {
		t.Error("expected LastModifiedAt to be nil on create")
	}
}

func TestStore_Create_FileKind(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := documentstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	d := models.Document{
		CourseID:    primitive.NewObjectID(),
		UnitName:    "Week 1",
		ContentKind: models.ContentKindFile,
		DisplayName: "slides.pdf",
		FileContent: primitive.Binary{Data: []byte("%PDF-1.4 fake")},
		MimeType:    "application/pdf",
	}

	created, err := store.Create(ctx, d)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.SizeBytes != int64(len(d.FileContent.Data)) {
		t.Errorf("SizeBytes: got %d, want %d", created.SizeBytes, len(d.FileContent.Data))
	}

	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if string(got.FileContent.Data) != string(d.FileContent.Data) {
		t.Error("file content did not round-trip")
	}
}

func TestStore_Create_Invalid(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := documentstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	courseID := primitive.NewObjectID()

	cases := []struct {
		name string
		doc  models.Document
		want error
	}{
		{
			name: "missing display name",
			doc:  textDoc(courseID, "Week 1", "  ", "hello"),
			want: documentstore.ErrEmptyDisplayName,
		},
		{
			name: "unknown content kind",
			doc: models.Document{
				CourseID: courseID, UnitName: "Week 1",
				ContentKind: "binary", DisplayName: "x",
			},
			want: documentstore.ErrBadContentKind,
		},
		{
			name: "text kind with no text",
			doc: models.Document{
				CourseID: courseID, UnitName: "Week 1",
				ContentKind: models.ContentKindText, DisplayName: "x",
			},
			want: documentstore.ErrContentMismatch,
		},
		{
			name: "file kind with text content",
			doc: models.Document{
				CourseID: courseID, UnitName: "Week 1",
				ContentKind: models.ContentKindFile, DisplayName: "x",
				FileContent: primitive.Binary{Data: []byte("bytes")},
				TextContent: "also text",
			},
			want: documentstore.ErrContentMismatch,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := store.Create(ctx, tc.doc); !errors.Is(err, tc.want) {
				t.Errorf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestStore_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := documentstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.GetByID(ctx, primitive.NewObjectID())
	if !errors.Is(err, documentstore.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestStore_UpdateContent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := documentstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, textDoc(primitive.NewObjectID(), "Week 1", "notes.txt", "raw"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.UpdateContent(ctx, created.ID, "extracted text"); err != nil {
		t.Fatalf("UpdateContent failed: %v", err)
	}

	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != models.StatusParsed {
		t.Errorf("status: got %q, want %q", got.Status, models.StatusParsed)
	}
	if got.TextContent != "extracted text" {
		t.Errorf("text: got %q", got.TextContent)
	}
	if got.LastModifiedAt == nil {
		t.Error("expected LastModifiedAt to be set")
	}
}

func TestStore_UpdateContent_DeletedDocument(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := documentstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := store.UpdateContent(ctx, primitive.NewObjectID(), "late extraction result")
	if !errors.Is(err, documentstore.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestStore_SetStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := documentstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, textDoc(primitive.NewObjectID(), "Week 1", "notes.txt", "raw"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.SetStatus(ctx, created.ID, models.StatusParsing); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}

	// Parsed is reserved for UpdateContent.
	if err := store.SetStatus(ctx, created.ID, models.StatusParsed); err == nil {
		t.Error("expected SetStatus(parsed) to be rejected")
	}
	if err := store.SetStatus(ctx, created.ID, "bogus"); err == nil {
		t.Error("expected SetStatus(bogus) to be rejected")
	}
}

func TestStore_Delete_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := documentstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, textDoc(primitive.NewObjectID(), "Week 1", "notes.txt", "raw"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	n, err := store.Delete(ctx, created.ID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if n != 1 {
		t.Errorf("first delete: got %d, want 1", n)
	}

	n, err = store.Delete(ctx, created.ID)
	if err != nil {
		t.Fatalf("second Delete failed: %v", err)
	}
	if n != 0 {
		t.Errorf("second delete: got %d, want 0", n)
	}
}

func TestStore_ListByUnit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := documentstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	courseID := primitive.NewObjectID()
	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		if _, err := store.Create(ctx, textDoc(courseID, "Week 1", name, "content")); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}
	if _, err := store.Create(ctx, textDoc(courseID, "Week 2", "other.txt", "content")); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	docs, err := store.ListByUnit(ctx, courseID, "Week 1")
	if err != nil {
		t.Fatalf("ListByUnit failed: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("got %d documents, want 3", len(docs))
	}

	n, err := store.CountByUnit(ctx, courseID, "Week 1")
	if err != nil {
		t.Fatalf("CountByUnit failed: %v", err)
	}
	if n != 3 {
		t.Errorf("CountByUnit: got %d, want 3", n)
	}
}

func TestStore_GetByIDs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := documentstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	courseID := primitive.NewObjectID()
	a, _ := store.Create(ctx, textDoc(courseID, "Week 1", "a.txt", "aa"))
	b, _ := store.Create(ctx, textDoc(courseID, "Week 1", "b.txt", "bb"))

	got, err := store.GetByIDs(ctx, []primitive.ObjectID{a.ID, b.ID, primitive.NewObjectID()})
	if err != nil {
		t.Fatalf("GetByIDs failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("got %d documents, want 2", len(got))
	}

	got, err = store.GetByIDs(ctx, nil)
	if err != nil {
		t.Fatalf("GetByIDs(nil) failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("GetByIDs(nil): got %d documents, want 0", len(got))
	}
}
