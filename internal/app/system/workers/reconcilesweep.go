// internal/app/system/workers/reconcilesweep.go
package workers

import (
	"context"
	"sync"
	"time"

	coursestore "github.com/courseforge/courseforge/internal/app/store/courses"
	"github.com/courseforge/courseforge/internal/app/system/contentsync"
	"github.com/courseforge/courseforge/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// ReconcileSweep is a background worker that periodically runs the
// reconciliation sweep over every course. The on-demand reconcile
// endpoint stays the primary trigger; this worker just keeps drift from
// accumulating on idle courses. Disabled when the interval is zero.
type ReconcileSweep struct {
	courses    *coursestore.Store
	reconciler *contentsync.Reconciler
	log        *zap.Logger
	interval   time.Duration
	stopCh     chan struct{}
	wg         sync.WaitGroup
}

// NewReconcileSweep creates the worker. Call Start to begin sweeping.
func NewReconcileSweep(courses *coursestore.Store, rec *contentsync.Reconciler, logger *zap.Logger, interval time.Duration) *ReconcileSweep {
	return &ReconcileSweep{
		courses:    courses,
		reconciler: rec,
		log:        logger,
		interval:   interval,
		stopCh:     make(chan struct{}),
	}
}

// Start begins the background sweep loop.
func (w *ReconcileSweep) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("reconcile sweep worker started", zap.Duration("interval", w.interval))
}

// Stop signals the worker to stop and waits for it to finish.
func (w *ReconcileSweep) Stop() {
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("reconcile sweep worker stopped")
}

func (w *ReconcileSweep) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.sweep()
		}
	}
}

func (w *ReconcileSweep) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), timeouts.Batch())
	defer cancel()

	ids, err := w.courses.ListIDs(ctx)
	if err != nil {
		w.log.Error("sweep: listing courses failed", zap.Error(err))
		return
	}

	removed, modified := 0, 0
	for _, id := range ids {
		res, err := w.reconciler.Reconcile(ctx, id)
		if err != nil {
			w.log.Warn("sweep: reconcile failed",
				zap.String("course_id", id.Hex()),
				zap.Error(err))
			continue
		}
		removed += res.OrphanReferencesRemoved
		modified += res.UnitsModified
	}

	if removed > 0 {
		w.log.Info("sweep: dropped dangling references",
			zap.Int("references_removed", removed),
			zap.Int("units_modified", modified),
			zap.Int("courses", len(ids)))
	}
}
