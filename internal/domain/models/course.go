// internal/domain/models/course.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Course is one aggregate document: course metadata plus the full ordered
// unit list with per-unit authoring state embedded.
//
// NOTE:
//   - Units are provisioned at course-creation time; mutations never
//     implicitly create a unit.
//   - Unit names are unique within a course and are the join key to
//     Documents (not an opaque id).
type Course struct {
	ID       primitive.ObjectID `bson:"_id" json:"id"`
	Name     string             `bson:"name" json:"name"`
	NameCI   string             `bson:"name_ci" json:"name_ci"`
	OwnerID  string             `bson:"owner_id" json:"owner_id"`
	StaffIDs []string           `bson:"staff_ids,omitempty" json:"staff_ids,omitempty"`

	Units []Unit `bson:"units" json:"units"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`

	UpdatedByID string `bson:"updated_by_id,omitempty" json:"updated_by_id,omitempty"`
}

// Unit is a named subdivision of a course (e.g. a week) carrying its own
// publish state, objectives, assessment questions, and document references.
type Unit struct {
	Name               string               `bson:"name" json:"name"`
	IsPublished        bool                 `bson:"is_published" json:"is_published"`
	LearningObjectives []string             `bson:"learning_objectives,omitempty" json:"learning_objectives,omitempty"`
	PassThreshold      int                  `bson:"pass_threshold" json:"pass_threshold"`
	Questions          []AssessmentQuestion `bson:"questions,omitempty" json:"questions,omitempty"`
	DocumentRefs       []DocumentRef        `bson:"document_refs,omitempty" json:"document_refs,omitempty"`
}

// AssessmentQuestion is one authored question inside a unit. The payload
// fields (Options, Answer) are shaped by Type and not interpreted here.
type AssessmentQuestion struct {
	QuestionID string   `bson:"question_id" json:"question_id"`
	Type       string   `bson:"type" json:"type"` // e.g. "multiple_choice", "short_answer"
	Prompt     string   `bson:"prompt" json:"prompt"`
	Options    []string `bson:"options,omitempty" json:"options,omitempty"`
	Answer     string   `bson:"answer,omitempty" json:"answer,omitempty"`
}

// DocumentRef is the denormalized summary of a Document embedded in a
// unit, duplicated at write time for fast listing without a join. The
// repository remains the source of truth for the content itself; a ref
// whose target document is gone is a dangling reference and is the
// object of reconciliation.
type DocumentRef struct {
	DocumentID  primitive.ObjectID `bson:"document_id" json:"document_id"`
	DisplayName string             `bson:"display_name" json:"display_name"`
	MimeType    string             `bson:"mime_type,omitempty" json:"mime_type,omitempty"`
	SizeBytes   int64              `bson:"size_bytes" json:"size_bytes"`
	Status      string             `bson:"status" json:"status"`
	Metadata    DocumentMeta       `bson:"metadata,omitempty" json:"metadata,omitempty"`
}

// NewDocumentRef derives the embedded summary from a repository Document.
func NewDocumentRef(d Document) DocumentRef {
	return DocumentRef{
		DocumentID:  d.ID,
		DisplayName: d.DisplayName,
		MimeType:    d.MimeType,
		SizeBytes:   d.SizeBytes,
		Status:      d.Status,
		Metadata:    d.Metadata,
	}
}

// UnitByName returns a pointer to the named unit, or nil.
func (c *Course) UnitByName(name string) *Unit {
	for i := range c.Units {
		if c.Units[i].Name == name {
			return &c.Units[i]
		}
	}
	return nil
}
