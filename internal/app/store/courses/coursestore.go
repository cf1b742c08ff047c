// internal/app/store/courses/coursestore.go
package coursestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/courseforge/courseforge/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store holds one aggregate per course: course metadata plus the ordered
// unit list with embedded publish flags, objectives, questions, and
// document references.
//
// Every mutation is a scoped update addressed by (courseID, unitName)
// using Mongo's positional operators, so concurrent writers to different
// units of the same course never clobber each other. Two writers to the
// same unit's list field are last-writer-wins at the field level.
type Store struct {
	c *mongo.Collection
}

var (
	// ErrNotFound is returned when the target course or unit is absent.
	// Mutations perform no write in that case.
	ErrNotFound = errors.New("course or unit not found")

	ErrEmptyName         = errors.New("course name is required")
	ErrDuplicateUnitName = errors.New("unit names must be unique within a course")
	ErrNegativeThreshold = errors.New("pass threshold must be non-negative")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("courses")}
}

// unitFilter addresses exactly one unit of one course.
func unitFilter(courseID primitive.ObjectID, unitName string) bson.M {
	return bson.M{"_id": courseID, "units.name": unitName}
}

// Create provisions a course with its full unit list. Units are created
// here and only here; scoped updates never create one implicitly.
func (s *Store) Create(ctx context.Context, c models.Course) (models.Course, error) {
	now := time.Now().UTC()

	c.ID = primitive.NewObjectID()
	c.NameCI = text.Fold(c.Name)
	c.CreatedAt = now
	c.UpdatedAt = now

	if strings.TrimSpace(c.Name) == "" {
		return models.Course{}, ErrEmptyName
	}
	seen := make(map[string]struct{}, len(c.Units))
	for i := range c.Units {
		name := strings.TrimSpace(c.Units[i].Name)
		if name == "" {
			return models.Course{}, ErrDuplicateUnitName
		}
		if _, dup := seen[name]; dup {
			return models.Course{}, ErrDuplicateUnitName
		}
		seen[name] = struct{}{}
		c.Units[i].Name = name
	}
	if c.Units == nil {
		c.Units = []models.Unit{}
	}

	if _, err := s.c.InsertOne(ctx, c); err != nil {
		return models.Course{}, err
	}
	return c, nil
}

// GetByID returns the full course aggregate.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Course, error) {
	var c models.Course
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Course{}, ErrNotFound
		}
		return models.Course{}, err
	}
	return c, nil
}

// ListIDs returns the ids of all courses. Used by the periodic
// reconciliation worker.
func (s *Store) ListIDs(ctx context.Context) ([]primitive.ObjectID, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var rows []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	return ids, nil
}

// Delete removes a course aggregate. Returns the count deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// SetPublishState flips one unit's publish flag.
func (s *Store) SetPublishState(ctx context.Context, courseID primitive.ObjectID, unitName string, isPublished bool, actorID string) error {
	return s.setUnitField(ctx, courseID, unitName, "is_published", isPublished, actorID)
}

// SetLearningObjectives replaces one unit's objective list wholesale.
func (s *Store) SetLearningObjectives(ctx context.Context, courseID primitive.ObjectID, unitName string, objectives []string, actorID string) error {
	if objectives == nil {
		objectives = []string{}
	}
	return s.setUnitField(ctx, courseID, unitName, "learning_objectives", objectives, actorID)
}

// SetPassThreshold stores the threshold as given. The threshold is not
// checked against the unit's question count: authoring may legitimately
// set a threshold while the question set is still partial, and the
// display layer clamps it.
func (s *Store) SetPassThreshold(ctx context.Context, courseID primitive.ObjectID, unitName string, threshold int, actorID string) error {
	if threshold < 0 {
		return ErrNegativeThreshold
	}
	return s.setUnitField(ctx, courseID, unitName, "pass_threshold", threshold, actorID)
}

func (s *Store) setUnitField(ctx context.Context, courseID primitive.ObjectID, unitName, field string, value any, actorID string) error {
	now := time.Now().UTC()
	res, err := s.c.UpdateOne(ctx, unitFilter(courseID, unitName), bson.M{"$set": bson.M{
		"units.$." + field: value,
		"updated_at":       now,
		"updated_by_id":    actorID,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// UpsertQuestion replaces the unit's question with the same question_id
// in place (order preserved), or appends when no such id exists. An
// empty question_id gets a generated one. A caller passing an id that is
// not in the list gets an append, not an error.
func (s *Store) UpsertQuestion(ctx context.Context, courseID primitive.ObjectID, unitName string, q models.AssessmentQuestion, actorID string) (models.AssessmentQuestion, error) {
	if q.QuestionID == "" {
		q.QuestionID = uuid.NewString()
	}
	now := time.Now().UTC()

	// Replace in place when a question with this id already exists in
	// the unit. $elemMatch keeps both conditions on the same unit.
	replaceFilter := bson.M{
		"_id": courseID,
		"units": bson.M{"$elemMatch": bson.M{
			"name":                  unitName,
			"questions.question_id": q.QuestionID,
		}},
	}
	res, err := s.c.UpdateOne(ctx, replaceFilter,
		bson.M{"$set": bson.M{
			"units.$[u].questions.$[q]": q,
			"updated_at":                now,
			"updated_by_id":             actorID,
		}},
		options.Update().SetArrayFilters(options.ArrayFilters{Filters: []any{
			bson.M{"u.name": unitName},
			bson.M{"q.question_id": q.QuestionID},
		}}),
	)
	if err != nil {
		return models.AssessmentQuestion{}, err
	}
	if res.MatchedCount > 0 {
		return q, nil
	}

	// Not present: append to the unit's list.
	res, err = s.c.UpdateOne(ctx, unitFilter(courseID, unitName), bson.M{
		"$push": bson.M{"units.$.questions": q},
		"$set":  bson.M{"updated_at": now, "updated_by_id": actorID},
	})
	if err != nil {
		return models.AssessmentQuestion{}, err
	}
	if res.MatchedCount == 0 {
		return models.AssessmentQuestion{}, ErrNotFound
	}
	return q, nil
}

// DeleteQuestion removes a question by id. Removing an id that is not in
// the list is a no-op, not an error.
func (s *Store) DeleteQuestion(ctx context.Context, courseID primitive.ObjectID, unitName, questionID, actorID string) error {
	now := time.Now().UTC()
	res, err := s.c.UpdateOne(ctx, unitFilter(courseID, unitName), bson.M{
		"$pull": bson.M{"units.$.questions": bson.M{"question_id": questionID}},
		"$set":  bson.M{"updated_at": now, "updated_by_id": actorID},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// UpsertDocumentRef mirrors UpsertQuestion's upsert-or-append semantics,
// keyed by document_id.
func (s *Store) UpsertDocumentRef(ctx context.Context, courseID primitive.ObjectID, unitName string, ref models.DocumentRef, actorID string) error {
	now := time.Now().UTC()

	replaceFilter := bson.M{
		"_id": courseID,
		"units": bson.M{"$elemMatch": bson.M{
			"name":                      unitName,
			"document_refs.document_id": ref.DocumentID,
		}},
	}
	res, err := s.c.UpdateOne(ctx, replaceFilter,
		bson.M{"$set": bson.M{
			"units.$[u].document_refs.$[d]": ref,
			"updated_at":                    now,
			"updated_by_id":                 actorID,
		}},
		options.Update().SetArrayFilters(options.ArrayFilters{Filters: []any{
			bson.M{"u.name": unitName},
			bson.M{"d.document_id": ref.DocumentID},
		}}),
	)
	if err != nil {
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}

	res, err = s.c.UpdateOne(ctx, unitFilter(courseID, unitName), bson.M{
		"$push": bson.M{"units.$.document_refs": ref},
		"$set":  bson.M{"updated_at": now, "updated_by_id": actorID},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// RemoveDocumentRef removes a reference from one unit. Reports whether a
// reference was actually removed; removing an absent one is a no-op.
func (s *Store) RemoveDocumentRef(ctx context.Context, courseID primitive.ObjectID, unitName string, documentID primitive.ObjectID, actorID string) (bool, error) {
	now := time.Now().UTC()
	res, err := s.c.UpdateOne(ctx, unitFilter(courseID, unitName), bson.M{
		"$pull": bson.M{"units.$.document_refs": bson.M{"document_id": documentID}},
		"$set":  bson.M{"updated_at": now, "updated_by_id": actorID},
	})
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 0 {
		return false, ErrNotFound
	}
	return res.ModifiedCount > 0, nil
}

// RemoveDocumentRefAllUnits removes a document reference from whichever
// unit holds it. Fallback for callers that do not know the unit, and for
// cleaning up references left behind by inconsistent writers.
func (s *Store) RemoveDocumentRefAllUnits(ctx context.Context, courseID primitive.ObjectID, documentID primitive.ObjectID, actorID string) (bool, error) {
	now := time.Now().UTC()
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": courseID}, bson.M{
		"$pull": bson.M{"units.$[].document_refs": bson.M{"document_id": documentID}},
		"$set":  bson.M{"updated_at": now, "updated_by_id": actorID},
	})
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 0 {
		return false, ErrNotFound
	}
	return res.ModifiedCount > 0, nil
}

// ReplaceUnitDocumentRefs replaces one unit's reference list in a single
// write. Used by reconciliation to drop all dangling entries of a unit
// at once instead of issuing one pull per reference.
//
// The replace is not compare-and-swap protected: a reference added
// between a reader's load and this write can be dropped. The engine's
// contract is eventual consistency once concurrent writers quiesce.
func (s *Store) ReplaceUnitDocumentRefs(ctx context.Context, courseID primitive.ObjectID, unitName string, refs []models.DocumentRef) error {
	if refs == nil {
		refs = []models.DocumentRef{}
	}
	now := time.Now().UTC()
	res, err := s.c.UpdateOne(ctx, unitFilter(courseID, unitName), bson.M{"$set": bson.M{
		"units.$.document_refs": refs,
		"updated_at":            now,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
