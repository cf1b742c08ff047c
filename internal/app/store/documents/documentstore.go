// internal/app/store/documents/documentstore.go
package documentstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/courseforge/courseforge/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store is the canonical repository of material documents. It has no
// knowledge of the course hierarchy beyond the denormalized
// (course_id, unit_name) join key stamped on each document.
type Store struct {
	c *mongo.Collection
}

var (
	// ErrNotFound is returned when the target document does not exist.
	ErrNotFound = errors.New("document not found")

	ErrEmptyDisplayName = errors.New("display_name is required")
	ErrBadContentKind   = errors.New("content_kind must be 'file' or 'text'")
	ErrContentMismatch  = errors.New("content must match content_kind: file bytes for 'file', text for 'text'")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("documents")}
}

// Create inserts a new Document, assigning its id and timestamps and
// forcing status to "uploaded". The id is never reused; deleting a
// document and re-uploading yields a fresh id.
func (s *Store) Create(ctx context.Context, d models.Document) (models.Document, error) {
	now := time.Now().UTC()

	d.ID = primitive.NewObjectID()
	d.Status = models.StatusUploaded
	d.CreatedAt = now
	d.LastModifiedAt = nil

	if strings.TrimSpace(d.DisplayName) == "" {
		return models.Document{}, ErrEmptyDisplayName
	}
	switch d.ContentKind {
	case models.ContentKindFile:
		if len(d.FileContent.Data) == 0 || d.TextContent != "" {
			return models.Document{}, ErrContentMismatch
		}
		d.SizeBytes = int64(len(d.FileContent.Data))
	case models.ContentKindText:
		if d.TextContent == "" || len(d.FileContent.Data) != 0 {
			return models.Document{}, ErrContentMismatch
		}
		d.SizeBytes = int64(len(d.TextContent))
	default:
		return models.Document{}, ErrBadContentKind
	}

	if _, err := s.c.InsertOne(ctx, d); err != nil {
		return models.Document{}, err
	}
	return d, nil
}

// GetByID returns a document by its id, including content.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Document, error) {
	var d models.Document
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&d)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Document{}, ErrNotFound
		}
		return models.Document{}, err
	}
	return d, nil
}

// GetByIDs returns the documents whose ids are in the given set, without
// file content. Used by reconciliation to verify references in one round
// trip instead of one lookup per reference.
func (s *Store) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Document, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	opts := options.Find().SetProjection(bson.M{"file_content": 0})
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.Document
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateContent stores extracted text and marks the document parsed.
//
// ErrNotFound here is a normal race: the document was deleted while
// extraction was in flight. Callers must treat it as benign.
func (s *Store) UpdateContent(ctx context.Context, id primitive.ObjectID, extractedText string) error {
	now := time.Now().UTC()
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"text_content":     extractedText,
		"status":           models.StatusParsed,
		"last_modified_at": now,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetStatus moves a document through the extraction lifecycle
// (parsing, error). Parsed is set via UpdateContent so the parsed
// invariant (non-empty text) holds.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	if !models.IsValidStatus(status) || status == models.StatusParsed {
		return errors.New("invalid status transition: " + status)
	}
	now := time.Now().UTC()
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"status":           status,
		"last_modified_at": now,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a document by id. Returns the number of documents
// deleted (0 or 1); deleting twice returns 0 the second time, not an
// error.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ListByUnit returns the documents of one unit, newest first. File
// content is never included in list results.
func (s *Store) ListByUnit(ctx context.Context, courseID primitive.ObjectID, unitName string) ([]models.Document, error) {
	opts := options.Find().
		SetProjection(bson.M{"file_content": 0}).
		SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"course_id": courseID, "unit_name": unitName}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.Document
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CountByUnit returns the number of documents in one unit.
func (s *Store) CountByUnit(ctx context.Context, courseID primitive.ObjectID, unitName string) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"course_id": courseID, "unit_name": unitName})
}
