// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for CourseForge.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, index_queue_addr, etc.
//   - Environment variables: COURSEFORGE_MONGO_URI, COURSEFORGE_INDEX_QUEUE_ADDR, etc.
//   - Command-line flags: --mongo_uri, --index_queue_addr, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "courseforge", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size"},

	// Indexing queue (Redis Streams). Blank addr disables publishing.
	{Name: "index_queue_addr", Default: "", Desc: "Redis address for the indexing queue (blank disables)"},
	{Name: "index_queue_password", Default: "", Desc: "Redis password for the indexing queue"},
	{Name: "index_queue_stream", Default: "courseforge:index", Desc: "Redis stream key for index jobs"},
	{Name: "index_queue_max_len", Default: 10000, Desc: "Approximate max length of the index stream"},

	// Reconciliation sweep
	{Name: "reconcile_interval", Default: "1h", Desc: "Background orphan-reference sweep interval (0 disables)"},

	// Upload limits
	{Name: "max_upload_mb", Default: 32, Desc: "Maximum document upload size in MB"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, COURSEFORGE_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "COURSEFORGE", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		IndexQueueAddr:     appValues.String("index_queue_addr"),
		IndexQueuePassword: appValues.String("index_queue_password"),
		IndexQueueStream:   appValues.String("index_queue_stream"),
		IndexQueueMaxLen:   int64(appValues.Int("index_queue_max_len")),

		ReconcileInterval: appValues.Duration("reconcile_interval", time.Hour),

		MaxUploadMB: int64(appValues.Int("max_upload_mb")),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// CourseForge validates the MongoDB URI format to catch configuration
// errors early, before attempting to connect.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if appCfg.IndexQueueAddr != "" && appCfg.IndexQueueStream == "" {
		return fmt.Errorf("index_queue_stream must be set when index_queue_addr is set")
	}

	if appCfg.MaxUploadMB <= 0 {
		return fmt.Errorf("max_upload_mb must be positive, got %d", appCfg.MaxUploadMB)
	}

	return nil
}
