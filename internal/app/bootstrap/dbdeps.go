// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/courseforge/courseforge/internal/app/system/indexing"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// IndexQueue is nil when index_queue_addr is blank.
	IndexQueue *indexing.QueuePublisher
}
