// internal/app/features/documents/handler.go
package documents

import (
	"context"

	"github.com/courseforge/courseforge/internal/app/system/contentsync"
	"github.com/courseforge/courseforge/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// DefaultMaxUploadBytes caps multipart uploads unless configured.
const DefaultMaxUploadBytes = 32 << 20

// Syncer is the slice of the reference synchronizer the handlers use.
type Syncer interface {
	AddDocument(ctx context.Context, req contentsync.AddRequest) (contentsync.AddResult, error)
	UpdateExtractedText(ctx context.Context, documentID primitive.ObjectID, text string) error
	DeleteDocument(ctx context.Context, req contentsync.DeleteRequest) (contentsync.DeleteResult, error)
}

// Repo is the read/status slice of the document repository the handlers
// use directly, without going through the synchronizer.
type Repo interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Document, error)
	ListByUnit(ctx context.Context, courseID primitive.ObjectID, unitName string) ([]models.Document, error)
	SetStatus(ctx context.Context, id primitive.ObjectID, status string) error
}

// Handler owns the document API: upload, authored text, listing,
// download, the extraction-collaborator callbacks, and delete.
type Handler struct {
	Sync           Syncer
	Repo           Repo
	Log            *zap.Logger
	MaxUploadBytes int64
}

// NewHandler constructs a documents Handler.
func NewHandler(sync Syncer, repo Repo, logger *zap.Logger) *Handler {
	return &Handler{
		Sync:           sync,
		Repo:           repo,
		Log:            logger,
		MaxUploadBytes: DefaultMaxUploadBytes,
	}
}
