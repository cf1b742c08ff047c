// internal/app/system/indexing/indexer.go

// Package indexing is the boundary to the external embedding/indexing
// collaborator. The engine only ever notifies it: every call is
// best-effort and its outcome never influences a caller's response.
package indexing

import "context"

// IndexJob carries the extracted text of one document to the indexing
// collaborator.
type IndexJob struct {
	CourseID   string `json:"course_id"`
	UnitName   string `json:"unit_name"`
	DocumentID string `json:"document_id"`
	Text       string `json:"text"`
	FileName   string `json:"file_name,omitempty"`
}

// IndexResult reports what the collaborator did with a job. Only
// populated by synchronous implementations; the queue publisher returns
// a zero result because the work happens later.
type IndexResult struct {
	Success      bool `json:"success"`
	ChunksStored int  `json:"chunks_stored"`
}

// Indexer is implemented by the indexing collaborator client.
type Indexer interface {
	// Index hands extracted text over for embedding and indexing.
	Index(ctx context.Context, job IndexJob) (IndexResult, error)
	// Deindex asks the collaborator to drop all index entries for a
	// deleted document.
	Deindex(ctx context.Context, documentID string) error
}

// Nop discards all notifications. Used when no indexing backend is
// configured, and in tests.
type Nop struct{}

func (Nop) Index(context.Context, IndexJob) (IndexResult, error) { return IndexResult{}, nil }
func (Nop) Deindex(context.Context, string) error                { return nil }
