// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shutdown cleanly tears down the sweep worker, the queue publisher,
// and the DB connection.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if reconcileSweep != nil {
		logger.Info("stopping reconcile sweep")
		reconcileSweep.Stop()
		reconcileSweep = nil
	}

	if deps.IndexQueue != nil {
		logger.Info("closing index queue publisher")
		if err := deps.IndexQueue.Close(); err != nil {
			logger.Error("index queue close failed", zap.Error(err))
		}
	}

	if deps.MongoClient != nil {
		logger.Info("disconnecting MongoDB client")
		if err := deps.MongoClient.Disconnect(ctx); err != nil {
			logger.Error("MongoDB disconnect failed", zap.Error(err))
			return err
		}
	}
	return nil
}
