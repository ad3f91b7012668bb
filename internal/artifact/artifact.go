package artifact

import (
	"time"

	"github.com/google/uuid"
)

// Type identifies the module that produced an artifact.
type Type string

const (
	// TypeMeetingAnalysis is output of the meeting analysis module.
	TypeMeetingAnalysis Type = "meeting_analysis"

	// TypeDocumentation is output of the documentation generator.
	TypeDocumentation Type = "documentation"

	// TypeReleaseNotes is output of the release notes generator.
	TypeReleaseNotes Type = "release_notes"

	// TypePrioritization is output of the backlog prioritization module.
	TypePrioritization Type = "prioritization"

	// TypeReview is the reserved tag for advisor review output.
	// Review artifacts are never eligible as context for another review;
	// see ContextEligible.
	TypeReview Type = "review"
)

// ContextEligible reports whether artifacts of this type may serve as
// grounding context for a review. Eligibility is a property of the type
// itself, not a string-equality check scattered across call sites: the
// review tag (and any unknown type) is excluded here, and ListActive
// builds its query from ContextEligibleTypes so the exclusion holds by
// construction.
func (t Type) ContextEligible() bool {
	switch t {
	case TypeMeetingAnalysis, TypeDocumentation, TypeReleaseNotes, TypePrioritization:
		return true
	case TypeReview:
		return false
	}
	return false
}

// ContextEligibleTypes returns the closed set of types admissible as
// review context.
func ContextEligibleTypes() []Type {
	return []Type{
		TypeMeetingAnalysis,
		TypeDocumentation,
		TypeReleaseNotes,
		TypePrioritization,
	}
}

// Status is the artifact lifecycle state. Only active artifacts are
// eligible as context or as a review target.
type Status string

const (
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
	StatusDeleted  Status = "deleted"
)

// Artifact is the unit of persisted work product.
//
// Lifecycle: created once by a producing module or by the review
// persister; mutated only to set AdvisorFeedback/AdvisorReviewedAt or to
// flip Status on archival; never otherwise mutated.
//
// Zero values:
//   - ID: uuid.Nil (invalid, generated on insert)
//   - ProjectID: uuid.Nil (invalid, required)
//   - Type: "" (invalid, must be a known Type)
//   - AdvisorFeedback / AdvisorReviewedAt: nil (not yet reviewed)
type Artifact struct {
	ID                uuid.UUID
	ProjectID         uuid.UUID
	ProjectName       string
	Type              Type
	Name              string
	InputData         map[string]any // structured record of what produced it
	OutputData        string         // the generated text
	Metadata          map[string]any // token usage, duration, model parameters
	AdvisorFeedback   *string
	AdvisorReviewedAt *time.Time
	Status            Status
	CreatedAt         time.Time
}
