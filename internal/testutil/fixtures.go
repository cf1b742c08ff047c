package testutil

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/courseforge/courseforge/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	if rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context); ok && rctx != nil {
		rctx.URLParams.Add(key, value)
		return r
	}
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateCourse creates a test course with a single unit named "Unit 1".
func (f *Fixtures) CreateCourse(ctx context.Context, name string) models.Course {
	return f.CreateCourseWithUnits(ctx, name, "Unit 1")
}

// CreateCourseWithUnits creates a test course with the given unit names.
func (f *Fixtures) CreateCourseWithUnits(ctx context.Context, name string, unitNames ...string) models.Course {
	f.t.Helper()

	now := time.Now().UTC()
	c := models.Course{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		OwnerID:   "owner-1",
		Units:     make([]models.Unit, 0, len(unitNames)),
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, un := range unitNames {
		c.Units = append(c.Units, models.Unit{Name: un})
	}

	_, err := f.db.Collection("courses").InsertOne(ctx, c)
	if err != nil {
		f.t.Fatalf("failed to create test course: %v", err)
	}
	return c
}

// CreateDocument creates a parsed text document in the given unit.
func (f *Fixtures) CreateDocument(ctx context.Context, courseID primitive.ObjectID, unitName, displayName string) models.Document {
	f.t.Helper()

	now := time.Now().UTC()
	content := fmt.Sprintf("content of %s", displayName)
	d := models.Document{
		ID:          primitive.NewObjectID(),
		CourseID:    courseID,
		UnitName:    unitName,
		ActorID:     "owner-1",
		ContentKind: models.ContentKindText,
		DisplayName: displayName,
		TextContent: content,
		MimeType:    "text/plain",
		SizeBytes:   int64(len(content)),
		Status:      models.StatusParsed,
		CreatedAt:   now,
	}

	_, err := f.db.Collection("documents").InsertOne(ctx, d)
	if err != nil {
		f.t.Fatalf("failed to create test document: %v", err)
	}
	return d
}

// LinkDocument embeds a reference to the document into the named unit,
// the same shape the synchronizer writes.
func (f *Fixtures) LinkDocument(ctx context.Context, courseID primitive.ObjectID, unitName string, d models.Document) {
	f.t.Helper()
	f.pushRef(ctx, courseID, unitName, models.NewDocumentRef(d))
}

// CreateDanglingRef embeds a reference to a document that does not
// exist in the repository. This is the state reconciliation cleans up.
func (f *Fixtures) CreateDanglingRef(ctx context.Context, courseID primitive.ObjectID, unitName string) models.DocumentRef {
	f.t.Helper()

	ref := models.DocumentRef{
		DocumentID:  primitive.NewObjectID(),
		DisplayName: "gone.pdf",
		MimeType:    "application/pdf",
		SizeBytes:   1024,
		Status:      models.StatusParsed,
	}
	f.pushRef(ctx, courseID, unitName, ref)
	return ref
}

func (f *Fixtures) pushRef(ctx context.Context, courseID primitive.ObjectID, unitName string, ref models.DocumentRef) {
	f.t.Helper()

	res, err := f.db.Collection("courses").UpdateOne(ctx,
		bson.M{"_id": courseID, "units.name": unitName},
		bson.M{"$push": bson.M{"units.$.document_refs": ref}},
	)
	if err != nil {
		f.t.Fatalf("failed to embed document ref: %v", err)
	}
	if res.MatchedCount == 0 {
		f.t.Fatalf("no unit %q in course %s", unitName, courseID.Hex())
	}
}
