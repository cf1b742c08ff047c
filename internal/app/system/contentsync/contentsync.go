// internal/app/system/contentsync/contentsync.go

// Package contentsync keeps the document repository and the course
// aggregates' embedded document references consistent.
//
// The two stores are joined by (courseID, unitName, documentID) with no
// database-enforced referential integrity, and there is no transaction
// spanning both. Every document lifecycle operation therefore runs as
// two sequential writes with a named partial-failure state instead of a
// pretended atomicity: the repository write is primary and aborts the
// operation on failure, the reference write is secondary and degrades to
// a flag on the result. Reconcile repairs the reference side afterwards.
package contentsync

import (
	"context"

	"github.com/courseforge/courseforge/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DocumentRepo is the slice of the document repository the synchronizer
// and the sweep depend on.
type DocumentRepo interface {
	Create(ctx context.Context, d models.Document) (models.Document, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Document, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Document, error)
	UpdateContent(ctx context.Context, id primitive.ObjectID, extractedText string) error
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
}

// CourseRefStore is the slice of the course aggregate store that handles
// embedded document references.
type CourseRefStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Course, error)
	UpsertDocumentRef(ctx context.Context, courseID primitive.ObjectID, unitName string, ref models.DocumentRef, actorID string) error
	RemoveDocumentRef(ctx context.Context, courseID primitive.ObjectID, unitName string, documentID primitive.ObjectID, actorID string) (bool, error)
	RemoveDocumentRefAllUnits(ctx context.Context, courseID primitive.ObjectID, documentID primitive.ObjectID, actorID string) (bool, error)
	ReplaceUnitDocumentRefs(ctx context.Context, courseID primitive.ObjectID, unitName string, refs []models.DocumentRef) error
}

// AddResult reports the outcome of AddDocument. LinkedToCourse=false is
// not an error: the document exists and is retrievable by id, it just
// does not surface in the unit's material list until reconciled.
type AddResult struct {
	DocumentID     primitive.ObjectID `json:"document_id"`
	LinkedToCourse bool               `json:"linked_to_course"`
}

// DeleteResult reports the outcome of DeleteDocument. DeletedCount is 0
// when the document was already gone; the call still succeeds.
type DeleteResult struct {
	DeletedCount      int64 `json:"deleted_count"`
	RemovedFromCourse bool  `json:"removed_from_course"`
}

// ReconcileResult reports one sweep over one course.
type ReconcileResult struct {
	OrphanReferencesRemoved int `json:"orphan_references_removed"`
	UnitsModified           int `json:"units_modified"`
}
