// internal/app/features/courses/handler.go
package courses

import (
	"context"

	"github.com/courseforge/courseforge/internal/app/system/contentsync"
	"github.com/courseforge/courseforge/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Store is the slice of the course store this feature needs.
type Store interface {
	Create(ctx context.Context, c models.Course) (models.Course, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Course, error)
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
	SetPublishState(ctx context.Context, courseID primitive.ObjectID, unitName string, isPublished bool, actorID string) error
	SetLearningObjectives(ctx context.Context, courseID primitive.ObjectID, unitName string, objectives []string, actorID string) error
	SetPassThreshold(ctx context.Context, courseID primitive.ObjectID, unitName string, threshold int, actorID string) error
	UpsertQuestion(ctx context.Context, courseID primitive.ObjectID, unitName string, q models.AssessmentQuestion, actorID string) (models.AssessmentQuestion, error)
	DeleteQuestion(ctx context.Context, courseID primitive.ObjectID, unitName, questionID, actorID string) error
}

// Reconciler runs the orphan-reference sweep for one course.
type Reconciler interface {
	Reconcile(ctx context.Context, courseID primitive.ObjectID) (contentsync.ReconcileResult, error)
}

// Handler serves course and unit authoring endpoints.
type Handler struct {
	Courses   Store
	Reconcile Reconciler
	Log       *zap.Logger
}

func NewHandler(courses Store, reconcile Reconciler, logger *zap.Logger) *Handler {
	return &Handler{Courses: courses, Reconcile: reconcile, Log: logger}
}
