// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like HTTP/HTTPS
// ports, TLS, logging level and format, CORS, and request body limits.
// AppConfig is where everything specific to this service lives.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Indexing queue configuration. A blank addr disables publishing;
	// index notifications are then dropped (the collaborator is optional
	// and never blocks content writes either way).
	IndexQueueAddr     string // Redis address (e.g., localhost:6379)
	IndexQueuePassword string
	IndexQueueStream   string // Stream key the indexing collaborator consumes
	IndexQueueMaxLen   int64  // Approximate stream length cap

	// Reconciliation sweep. Zero disables the background worker; the
	// per-course endpoint stays available regardless.
	ReconcileInterval time.Duration

	// Upload limits
	MaxUploadMB int64 // Per-request cap for document file uploads
}
