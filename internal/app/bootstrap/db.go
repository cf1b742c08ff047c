// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/courseforge/courseforge/internal/app/system/indexing"
	"github.com/courseforge/courseforge/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB opens the MongoDB connection and, when configured, the
// indexing queue publisher. The queue is optional: a blank addr leaves
// deps.IndexQueue nil and index notifications become no-ops.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	connectCtx, cancel := context.WithTimeout(ctx, timeouts.Long())
	defer cancel()

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return DBDeps{}, fmt.Errorf("mongo ping: %w", err)
	}
	logger.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))

	deps := DBDeps{
		MongoClient:   client,
		MongoDatabase: client.Database(appCfg.MongoDatabase),
	}

	if appCfg.IndexQueueAddr != "" {
		queue, err := indexing.NewQueuePublisher(indexing.QueueConfig{
			Addr:     appCfg.IndexQueueAddr,
			Password: appCfg.IndexQueuePassword,
			Stream:   appCfg.IndexQueueStream,
			MaxLen:   appCfg.IndexQueueMaxLen,
		})
		if err != nil {
			_ = client.Disconnect(context.Background())
			return DBDeps{}, fmt.Errorf("index queue: %w", err)
		}
		// Reachability is advisory: the engine runs without the queue.
		if err := queue.Ping(connectCtx); err != nil {
			logger.Warn("index queue unreachable at startup", zap.Error(err))
		}
		deps.IndexQueue = queue
		logger.Info("index queue publisher ready",
			zap.String("addr", appCfg.IndexQueueAddr),
			zap.String("stream", appCfg.IndexQueueStream))
	}

	return deps, nil
}

// EnsureSchema creates the indexes the stores rely on.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	schemaCtx, cancel := context.WithTimeout(ctx, timeouts.Long())
	defer cancel()

	// Documents are always read per (course, unit), newest first.
	docs := deps.MongoDatabase.Collection("documents")
	_, err := docs.Indexes().CreateMany(schemaCtx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "course_id", Value: 1},
				{Key: "unit_name", Value: 1},
				{Key: "created_at", Value: -1},
			},
		},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("documents indexes: %w", err)
	}

	courses := deps.MongoDatabase.Collection("courses")
	_, err = courses.Indexes().CreateMany(schemaCtx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "name_ci", Value: 1}}},
		{Keys: bson.D{{Key: "units.document_refs.document_id", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("courses indexes: %w", err)
	}

	logger.Info("schema ensured")
	return nil
}
