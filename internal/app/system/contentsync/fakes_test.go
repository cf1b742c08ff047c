package contentsync_test

import (
	"context"
	"errors"
	"sync"

	coursestore "github.com/courseforge/courseforge/internal/app/store/courses"
	documentstore "github.com/courseforge/courseforge/internal/app/store/documents"
	"github.com/courseforge/courseforge/internal/app/system/indexing"
	"github.com/courseforge/courseforge/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeRepo is an in-memory DocumentRepo with switchable failure modes.
type fakeRepo struct {
	mu   sync.Mutex
	docs map[primitive.ObjectID]models.Document

	failCreate bool
	failDelete bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{docs: make(map[primitive.ObjectID]models.Document)}
}

func (f *fakeRepo) Create(ctx context.Context, d models.Document) (models.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate {
		return models.Document{}, errors.New("repo down")
	}
	d.ID = primitive.NewObjectID()
	d.Status = models.StatusUploaded
	f.docs[d.ID] = d
	return d, nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id primitive.ObjectID) (models.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.docs[id]
	if !ok {
		return models.Document{}, documentstore.ErrNotFound
	}
	return d, nil
}

func (f *fakeRepo) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Document
	for _, id := range ids {
		if d, ok := f.docs[id]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeRepo) UpdateContent(ctx context.Context, id primitive.ObjectID, extractedText string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.docs[id]
	if !ok {
		return documentstore.ErrNotFound
	}
	d.TextContent = extractedText
	d.Status = models.StatusParsed
	f.docs[id] = d
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDelete {
		return 0, errors.New("repo down")
	}
	if _, ok := f.docs[id]; !ok {
		return 0, nil
	}
	delete(f.docs, id)
	return 1, nil
}

// fakeCourses is an in-memory CourseRefStore with switchable failure
// modes for the reference writes.
type fakeCourses struct {
	mu      sync.Mutex
	courses map[primitive.ObjectID]models.Course

	failRefs bool
}

func newFakeCourses() *fakeCourses {
	return &fakeCourses{courses: make(map[primitive.ObjectID]models.Course)}
}

func (f *fakeCourses) add(c models.Course) models.Course {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	f.courses[c.ID] = c
	return c
}

func (f *fakeCourses) GetByID(ctx context.Context, id primitive.ObjectID) (models.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.courses[id]
	if !ok {
		return models.Course{}, coursestore.ErrNotFound
	}
	return c, nil
}

func (f *fakeCourses) UpsertDocumentRef(ctx context.Context, courseID primitive.ObjectID, unitName string, ref models.DocumentRef, actorID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failRefs {
		return errors.New("course store down")
	}
	c, ok := f.courses[courseID]
	if !ok {
		return coursestore.ErrNotFound
	}
	u := c.UnitByName(unitName)
	if u == nil {
		return coursestore.ErrNotFound
	}
	for i := range u.DocumentRefs {
		if u.DocumentRefs[i].DocumentID == ref.DocumentID {
			u.DocumentRefs[i] = ref
			f.courses[courseID] = c
			return nil
		}
	}
	u.DocumentRefs = append(u.DocumentRefs, ref)
	f.courses[courseID] = c
	return nil
}

func (f *fakeCourses) RemoveDocumentRef(ctx context.Context, courseID primitive.ObjectID, unitName string, documentID primitive.ObjectID, actorID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failRefs {
		return false, errors.New("course store down")
	}
	c, ok := f.courses[courseID]
	if !ok {
		return false, coursestore.ErrNotFound
	}
	u := c.UnitByName(unitName)
	if u == nil {
		return false, coursestore.ErrNotFound
	}
	removed := f.pull(u, documentID)
	f.courses[courseID] = c
	return removed, nil
}

func (f *fakeCourses) RemoveDocumentRefAllUnits(ctx context.Context, courseID primitive.ObjectID, documentID primitive.ObjectID, actorID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failRefs {
		return false, errors.New("course store down")
	}
	c, ok := f.courses[courseID]
	if !ok {
		return false, coursestore.ErrNotFound
	}
	removed := false
	for i := range c.Units {
		if f.pull(&c.Units[i], documentID) {
			removed = true
		}
	}
	f.courses[courseID] = c
	return removed, nil
}

func (f *fakeCourses) ReplaceUnitDocumentRefs(ctx context.Context, courseID primitive.ObjectID, unitName string, refs []models.DocumentRef) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.courses[courseID]
	if !ok {
		return coursestore.ErrNotFound
	}
	u := c.UnitByName(unitName)
	if u == nil {
		return coursestore.ErrNotFound
	}
	u.DocumentRefs = refs
	f.courses[courseID] = c
	return nil
}

func (f *fakeCourses) pull(u *models.Unit, documentID primitive.ObjectID) bool {
	kept := u.DocumentRefs[:0]
	removed := false
	for _, ref := range u.DocumentRefs {
		if ref.DocumentID == documentID {
			removed = true
			continue
		}
		kept = append(kept, ref)
	}
	u.DocumentRefs = kept
	return removed
}

// recordingIndexer records Index/Deindex calls and signals each one.
type recordingIndexer struct {
	mu        sync.Mutex
	indexed   []string
	deindexed []string
	calls     chan struct{}
}

func newRecordingIndexer() *recordingIndexer {
	return &recordingIndexer{calls: make(chan struct{}, 16)}
}

func (r *recordingIndexer) Index(ctx context.Context, job indexing.IndexJob) (indexing.IndexResult, error) {
	r.mu.Lock()
	r.indexed = append(r.indexed, job.DocumentID)
	r.mu.Unlock()
	r.calls <- struct{}{}
	return indexing.IndexResult{Success: true, ChunksStored: 1}, nil
}

func (r *recordingIndexer) Deindex(ctx context.Context, documentID string) error {
	r.mu.Lock()
	r.deindexed = append(r.deindexed, documentID)
	r.mu.Unlock()
	r.calls <- struct{}{}
	return nil
}

func (r *recordingIndexer) indexedIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.indexed...)
}

func (r *recordingIndexer) deindexedIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.deindexed...)
}
