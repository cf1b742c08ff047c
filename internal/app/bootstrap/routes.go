// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	coursesfeature "github.com/courseforge/courseforge/internal/app/features/courses"
	documentsfeature "github.com/courseforge/courseforge/internal/app/features/documents"
	healthfeature "github.com/courseforge/courseforge/internal/app/features/health"
	coursestore "github.com/courseforge/courseforge/internal/app/store/courses"
	documentstore "github.com/courseforge/courseforge/internal/app/store/documents"
	"github.com/courseforge/courseforge/internal/app/system/auth"
	"github.com/courseforge/courseforge/internal/app/system/contentsync"
	"github.com/courseforge/courseforge/internal/app/system/indexing"
	"github.com/courseforge/courseforge/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// reconcileSweep is started in BuildHandler and stopped in Shutdown.
var reconcileSweep *workers.ReconcileSweep

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup,
// and the Startup hook have completed. It builds the stores over the
// connected database, the synchronizer and reconciler on top of them,
// and mounts the feature routers:
//
//	/health     liveness for load balancers
//	/documents  content repository operations
//	/courses    course aggregate authoring and reconciliation
//
// It also starts the periodic reconciliation sweep when the configured
// interval is non-zero.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	documents := documentstore.New(deps.MongoDatabase)
	courses := coursestore.New(deps.MongoDatabase)

	var indexer indexing.Indexer
	if deps.IndexQueue != nil {
		indexer = deps.IndexQueue
	}

	sync := contentsync.NewSynchronizer(documents, courses, indexer, logger)
	reconciler := contentsync.NewReconciler(documents, courses, logger)

	r := chi.NewRouter()

	// Identity arrives on trusted headers from the upstream auth proxy.
	r.Use(auth.LoadActor)

	var queuePing healthfeature.QueuePinger
	if deps.IndexQueue != nil {
		queuePing = deps.IndexQueue
	}
	healthHandler := healthfeature.NewHandler(deps.MongoClient, queuePing, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	docsHandler := documentsfeature.NewHandler(sync, documents, logger)
	docsHandler.MaxUploadBytes = appCfg.MaxUploadMB << 20
	r.Mount("/documents", documentsfeature.Routes(docsHandler))

	coursesHandler := coursesfeature.NewHandler(courses, reconciler, logger)
	r.Mount("/courses", coursesfeature.Routes(coursesHandler))

	if appCfg.ReconcileInterval > 0 {
		reconcileSweep = workers.NewReconcileSweep(courses, reconciler, logger, appCfg.ReconcileInterval)
		reconcileSweep.Start()
	}

	return r, nil
}
