// internal/app/system/contentsync/reconcile.go
package contentsync

import (
	"context"

	"github.com/courseforge/courseforge/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Reconciler is the on-demand repair pass that drops dangling document
// references from one course's units.
//
// The sweep corrects the aggregate side only. It never writes the
// repository and cannot add missing references: a document created
// without a reference (a true orphan) survives every sweep, because
// finding it would need a full repository scan the sweep deliberately
// avoids. That asymmetry is part of the contract, not a gap to fix.
type Reconciler struct {
	repo    DocumentRepo
	courses CourseRefStore
	log     *zap.Logger
}

// NewReconciler builds a sweep over the given stores.
func NewReconciler(repo DocumentRepo, courses CourseRefStore, logger *zap.Logger) *Reconciler {
	return &Reconciler{repo: repo, courses: courses, log: logger}
}

// Reconcile loads the course aggregate once, verifies every embedded
// document reference against the repository in one batched lookup, and
// rewrites each affected unit's reference list in a single write.
//
// Idempotent: a second sweep over an already-consistent course removes
// nothing. Not CAS-protected against concurrent unit mutation; the
// baseline contract is eventual consistency after writers quiesce.
func (r *Reconciler) Reconcile(ctx context.Context, courseID primitive.ObjectID) (ReconcileResult, error) {
	course, err := r.courses.GetByID(ctx, courseID)
	if err != nil {
		return ReconcileResult{}, err
	}

	ids := make([]primitive.ObjectID, 0)
	seen := make(map[primitive.ObjectID]struct{})
	for _, u := range course.Units {
		for _, ref := range u.DocumentRefs {
			if _, dup := seen[ref.DocumentID]; dup {
				continue
			}
			seen[ref.DocumentID] = struct{}{}
			ids = append(ids, ref.DocumentID)
		}
	}
	if len(ids) == 0 {
		return ReconcileResult{}, nil
	}

	// One $in lookup for the whole course bounds read amplification.
	docs, err := r.repo.GetByIDs(ctx, ids)
	if err != nil {
		return ReconcileResult{}, err
	}
	exists := make(map[primitive.ObjectID]struct{}, len(docs))
	for _, d := range docs {
		exists[d.ID] = struct{}{}
	}

	var res ReconcileResult
	for _, u := range course.Units {
		valid := make([]models.DocumentRef, 0, len(u.DocumentRefs))
		dangling := 0
		for _, ref := range u.DocumentRefs {
			if _, ok := exists[ref.DocumentID]; ok {
				valid = append(valid, ref)
			} else {
				dangling++
			}
		}
		if dangling == 0 {
			continue
		}
		// One replace per affected unit, not one pull per reference.
		if err := r.courses.ReplaceUnitDocumentRefs(ctx, courseID, u.Name, valid); err != nil {
			return res, err
		}
		res.OrphanReferencesRemoved += dangling
		res.UnitsModified++
		r.log.Info("dropped dangling document references",
			zap.String("course_id", courseID.Hex()),
			zap.String("unit", u.Name),
			zap.Int("removed", dangling))
	}
	return res, nil
}
