// internal/app/system/contentsync/synchronizer.go
package contentsync

import (
	"context"
	"errors"
	"time"

	documentstore "github.com/courseforge/courseforge/internal/app/store/documents"
	"github.com/courseforge/courseforge/internal/app/system/htmlsanitize"
	"github.com/courseforge/courseforge/internal/app/system/indexing"
	"github.com/courseforge/courseforge/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// notifyTimeout bounds the detached indexing notification. It is
// generous because the notification runs off the request path.
const notifyTimeout = 15 * time.Second

// Synchronizer drives the two-store write sequence for document
// lifecycle events and makes partial failure observable.
type Synchronizer struct {
	repo    DocumentRepo
	courses CourseRefStore
	indexer indexing.Indexer
	log     *zap.Logger
}

// NewSynchronizer wires the synchronizer to its stores and the indexing
// collaborator.
func NewSynchronizer(repo DocumentRepo, courses CourseRefStore, idx indexing.Indexer, logger *zap.Logger) *Synchronizer {
	if idx == nil {
		idx = indexing.Nop{}
	}
	return &Synchronizer{repo: repo, courses: courses, indexer: idx, log: logger}
}

// AddRequest describes a new document. Exactly one of Text and File
// must be set, matching ContentKind.
type AddRequest struct {
	CourseID    primitive.ObjectID
	UnitName    string
	ActorID     string
	DisplayName string
	ContentKind string
	MimeType    string
	Metadata    models.DocumentMeta
	Text        string
	File        []byte
}

// AddDocument creates the document, then links it into the course unit.
//
// The repository create is primary: if it fails, nothing happened. The
// reference upsert is secondary: on failure the caller still gets the
// documentId with LinkedToCourse=false; upload success is never rolled
// back because the secondary index write failed. The indexing
// collaborator is notified off the request path when text is available.
func (s *Synchronizer) AddDocument(ctx context.Context, req AddRequest) (AddResult, error) {
	doc := models.Document{
		CourseID:    req.CourseID,
		UnitName:    req.UnitName,
		ActorID:     req.ActorID,
		ContentKind: req.ContentKind,
		DisplayName: req.DisplayName,
		MimeType:    req.MimeType,
		Metadata:    sanitizeMeta(req.Metadata),
		TextContent: req.Text,
	}
	if len(req.File) > 0 {
		doc.FileContent = primitive.Binary{Data: req.File}
	}

	created, err := s.repo.Create(ctx, doc)
	if err != nil {
		return AddResult{}, err
	}

	res := AddResult{DocumentID: created.ID}

	ref := models.NewDocumentRef(created)
	if err := s.courses.UpsertDocumentRef(ctx, req.CourseID, req.UnitName, ref, req.ActorID); err != nil {
		s.log.Warn("document created but course link failed; will surface after reconcile",
			zap.String("document_id", created.ID.Hex()),
			zap.String("course_id", req.CourseID.Hex()),
			zap.String("unit", req.UnitName),
			zap.Error(err))
	} else {
		res.LinkedToCourse = true
	}

	// Authored text is indexable immediately; file uploads are indexed
	// once the extraction collaborator reports their text.
	if created.ContentKind == models.ContentKindText {
		s.notifyIndex(created)
	}

	return res, nil
}

// UpdateExtractedText is called by the extraction collaborator when it
// finishes parsing a document. ErrNotFound is the delete-vs-extraction
// race and is benign: not retried, not logged as an error.
func (s *Synchronizer) UpdateExtractedText(ctx context.Context, documentID primitive.ObjectID, text string) error {
	if err := s.repo.UpdateContent(ctx, documentID, text); err != nil {
		if errors.Is(err, documentstore.ErrNotFound) {
			s.log.Debug("extraction finished for a deleted document",
				zap.String("document_id", documentID.Hex()))
		}
		return err
	}

	doc, err := s.repo.GetByID(ctx, documentID)
	if err != nil {
		// Deleted between the update and the read; nothing to index.
		return nil
	}
	s.notifyIndex(doc)
	return nil
}

// DeleteRequest identifies the document to delete. CourseID/UnitName are
// optional hints: when the caller does not know them the synchronizer
// recovers them from the document itself, and falls back to the
// course-wide reference removal when only the course is known.
type DeleteRequest struct {
	DocumentID primitive.ObjectID
	CourseID   primitive.ObjectID
	UnitName   string
	ActorID    string
}

// DeleteDocument removes the document, then its course reference, then
// notifies the indexing collaborator. Deleting an id that does not
// exist returns DeletedCount=0 and still attempts the reference removal
// (cleanup of a previously-dangling reference), so deletion is always
// idempotent from the caller's point of view.
func (s *Synchronizer) DeleteDocument(ctx context.Context, req DeleteRequest) (DeleteResult, error) {
	courseID := req.CourseID
	unitName := req.UnitName

	// Recover the join key before the document disappears.
	if courseID.IsZero() || unitName == "" {
		if doc, err := s.repo.GetByID(ctx, req.DocumentID); err == nil {
			if courseID.IsZero() {
				courseID = doc.CourseID
			}
			if unitName == "" {
				unitName = doc.UnitName
			}
		}
	}

	deleted, err := s.repo.Delete(ctx, req.DocumentID)
	if err != nil {
		return DeleteResult{}, err
	}
	res := DeleteResult{DeletedCount: deleted}

	switch {
	case courseID.IsZero():
		// Document already gone and the caller knew nothing; there is
		// no course to clean up.
	case unitName != "":
		removed, err := s.courses.RemoveDocumentRef(ctx, courseID, unitName, req.DocumentID, req.ActorID)
		if err != nil {
			s.logUnlinkFailure(req.DocumentID, courseID, err)
		} else {
			res.RemovedFromCourse = removed
		}
	default:
		removed, err := s.courses.RemoveDocumentRefAllUnits(ctx, courseID, req.DocumentID, req.ActorID)
		if err != nil {
			s.logUnlinkFailure(req.DocumentID, courseID, err)
		} else {
			res.RemovedFromCourse = removed
		}
	}

	s.notifyDeindex(req.DocumentID)
	return res, nil
}

func (s *Synchronizer) logUnlinkFailure(docID, courseID primitive.ObjectID, err error) {
	s.log.Warn("document deleted but reference removal failed; will drop at next reconcile",
		zap.String("document_id", docID.Hex()),
		zap.String("course_id", courseID.Hex()),
		zap.Error(err))
}

// notifyIndex dispatches an index notification without blocking the
// caller. Failures are logged and never surfaced or retried.
func (s *Synchronizer) notifyIndex(doc models.Document) {
	job := indexing.IndexJob{
		CourseID:   doc.CourseID.Hex(),
		UnitName:   doc.UnitName,
		DocumentID: doc.ID.Hex(),
		Text:       doc.TextContent,
	}
	if doc.HasFile() {
		job.FileName = doc.DisplayName
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if _, err := s.indexer.Index(ctx, job); err != nil {
			s.log.Warn("index notification failed",
				zap.String("document_id", job.DocumentID),
				zap.Error(err))
		}
	}()
}

func (s *Synchronizer) notifyDeindex(documentID primitive.ObjectID) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := s.indexer.Deindex(ctx, documentID.Hex()); err != nil {
			s.log.Warn("deindex notification failed",
				zap.String("document_id", documentID.Hex()),
				zap.Error(err))
		}
	}()
}

func sanitizeMeta(m models.DocumentMeta) models.DocumentMeta {
	m.Description = htmlsanitize.Strict(m.Description)
	for i, t := range m.Tags {
		m.Tags[i] = htmlsanitize.Strict(t)
	}
	for i, o := range m.Objectives {
		m.Objectives[i] = htmlsanitize.Strict(o)
	}
	return m
}
