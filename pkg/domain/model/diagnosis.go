package model

import (
	"strings"
	"time"

	"github.com/cropai/cropai/pkg/domain/types"
	"github.com/google/uuid"
)

// DefaultModelVersion is recorded when the submitter does not report one
const DefaultModelVersion = "1.0.0"

// DiagnosisID is a UUID-based identifier for DiagnosisRecord
type DiagnosisID string

// NewDiagnosisID generates a new UUID v4 DiagnosisID
func NewDiagnosisID() DiagnosisID {
	return DiagnosisID(uuid.New().String())
}

// String returns the string representation of DiagnosisID
func (id DiagnosisID) String() string {
	return string(id)
}

// DiagnosisPayload is the detected issue and what to do about it
type DiagnosisPayload struct {
	Issue           string
	Recommendations []string
}

// DiagnosisRecord is a saved crop diagnosis. Feedback fields are mutated later by
// the owning user; records are never deleted.
type DiagnosisRecord struct {
	ID           DiagnosisID
	OwnerID      string
	FieldID      string // optional
	ImageRef     string // optional
	ModelVersion string
	Diagnosis    DiagnosisPayload
	Notes        string
	CreatedAt    time.Time

	Feedback        types.Feedback // empty until the owner responds
	FeedbackComment string
	FeedbackAt      *time.Time
}

// HasFeedback reports whether the owner has rated the diagnosis
func (r *DiagnosisRecord) HasFeedback() bool {
	return r.Feedback != ""
}

// SearchText is the text the record is vectorized from: the issue label, each
// recommendation and the free-form notes joined with single spaces.
func (r *DiagnosisRecord) SearchText() string {
	return BuildSearchText(r.Diagnosis, r.Notes)
}

// BuildSearchText joins payload and notes the same way SearchText does
func BuildSearchText(payload DiagnosisPayload, notes string) string {
	parts := make([]string, 0, len(payload.Recommendations)+2)
	parts = append(parts, payload.Issue)
	parts = append(parts, payload.Recommendations...)
	parts = append(parts, notes)
	return strings.Join(parts, " ")
}

// Copy returns a deep copy of the record
func (r *DiagnosisRecord) Copy() *DiagnosisRecord {
	copied := *r
	if r.Diagnosis.Recommendations != nil {
		copied.Diagnosis.Recommendations = make([]string, len(r.Diagnosis.Recommendations))
		copy(copied.Diagnosis.Recommendations, r.Diagnosis.Recommendations)
	}
	if r.FeedbackAt != nil {
		at := *r.FeedbackAt
		copied.FeedbackAt = &at
	}
	return &copied
}
