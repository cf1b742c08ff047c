// internal/app/system/indexing/queue.go
package indexing

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Job operations carried on the stream.
const (
	opIndex   = "index"
	opDeindex = "deindex"
)

// QueuePublisher hands indexing work to the external collaborator over a
// Redis stream. Publishing is the whole contract here: consuming,
// chunking, and embedding all belong to the collaborator.
type QueuePublisher struct {
	client *redis.Client
	stream string
	maxLen int64
}

// QueueConfig configures the publisher.
type QueueConfig struct {
	Addr     string
	Password string
	Stream   string
	MaxLen   int64 // stream cap, approximate; 0 means 10000
}

// NewQueuePublisher builds a publisher and its Redis client.
func NewQueuePublisher(cfg QueueConfig) (*QueuePublisher, error) {
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return nil, errors.New("redis addr required")
	}
	stream := strings.TrimSpace(cfg.Stream)
	if stream == "" {
		return nil, errors.New("index stream required")
	}
	maxLen := cfg.MaxLen
	if maxLen <= 0 {
		maxLen = 10000
	}
	return &QueuePublisher{
		client: redis.NewClient(&redis.Options{Addr: addr, Password: cfg.Password}),
		stream: stream,
		maxLen: maxLen,
	}, nil
}

// Index enqueues an index job. The returned result is zero-valued: the
// collaborator processes the stream asynchronously.
func (p *QueuePublisher) Index(ctx context.Context, job IndexJob) (IndexResult, error) {
	err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: p.maxLen,
		Approx: true,
		Values: map[string]any{
			"op":          opIndex,
			"course_id":   job.CourseID,
			"unit_name":   job.UnitName,
			"document_id": job.DocumentID,
			"text":        job.Text,
			"file_name":   job.FileName,
			"enqueued_at": time.Now().UTC().Format(time.RFC3339Nano),
		},
	}).Err()
	if err != nil {
		return IndexResult{}, err
	}
	return IndexResult{}, nil
}

// Deindex enqueues a removal job for all index entries of a document.
func (p *QueuePublisher) Deindex(ctx context.Context, documentID string) error {
	return p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: p.maxLen,
		Approx: true,
		Values: map[string]any{
			"op":          opDeindex,
			"document_id": documentID,
			"enqueued_at": time.Now().UTC().Format(time.RFC3339Nano),
		},
	}).Err()
}

// Ping verifies the Redis connection. Used by the health endpoint.
func (p *QueuePublisher) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

// Close releases the underlying Redis client.
func (p *QueuePublisher) Close() error {
	return p.client.Close()
}
