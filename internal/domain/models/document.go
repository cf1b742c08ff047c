// internal/domain/models/document.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Document content kinds. A document carries either an uploaded file or
// authored text, never both.
const (
	ContentKindFile = "file"
	ContentKindText = "text"
)

// Document statuses. A document starts as "uploaded"; the extraction
// collaborator moves it through "parsing" to "parsed" (or "error").
const (
	StatusUploaded = "uploaded"
	StatusParsing  = "parsing"
	StatusParsed   = "parsed"
	StatusError    = "error"
)

// DocumentMeta holds free-form descriptive metadata authored alongside
// a document. All fields are optional and sanitized before storage.
type DocumentMeta struct {
	Description string   `bson:"description,omitempty" json:"description,omitempty"`
	Tags        []string `bson:"tags,omitempty" json:"tags,omitempty"`
	Objectives  []string `bson:"objectives,omitempty" json:"objectives,omitempty"`
}

// Document is the canonical record of one piece of uploaded or authored
// course material. The repository owns it; course aggregates hold only
// denormalized DocumentRef summaries of it.
//
// The (CourseID, UnitName) pair is the join key back to the course
// aggregate; there is no database-enforced referential integrity between
// the two collections.
type Document struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CourseID primitive.ObjectID `bson:"course_id" json:"course_id"`
	UnitName string             `bson:"unit_name" json:"unit_name"`
	ActorID  string             `bson:"actor_id" json:"actor_id"` // creator

	ContentKind string `bson:"content_kind" json:"content_kind"` // "file" or "text"
	DisplayName string `bson:"display_name" json:"display_name"`

	// Content: TextContent holds authored or extracted text; FileContent
	// holds raw uploaded bytes. ListByUnit never returns FileContent.
	TextContent string           `bson:"text_content,omitempty" json:"text_content,omitempty"`
	FileContent primitive.Binary `bson:"file_content,omitempty" json:"-"`

	MimeType  string `bson:"mime_type,omitempty" json:"mime_type,omitempty"`
	SizeBytes int64  `bson:"size_bytes" json:"size_bytes"`

	Status   string       `bson:"status" json:"status"`
	Metadata DocumentMeta `bson:"metadata,omitempty" json:"metadata,omitempty"`

	CreatedAt      time.Time  `bson:"created_at" json:"created_at"`
	LastModifiedAt *time.Time `bson:"last_modified_at,omitempty" json:"last_modified_at,omitempty"`
}

// HasFile reports whether this document carries uploaded file bytes.
func (d *Document) HasFile() bool {
	return d.ContentKind == ContentKindFile
}

// IsParsed reports whether extraction has completed for this document.
// A parsed document always has non-empty TextContent.
func (d *Document) IsParsed() bool {
	return d.Status == StatusParsed
}

// IsValidStatus reports whether s is one of the document lifecycle statuses.
func IsValidStatus(s string) bool {
	switch s {
	case StatusUploaded, StatusParsing, StatusParsed, StatusError:
		return true
	}
	return false
}
