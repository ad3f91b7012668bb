package advisor

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/prodsuite/advisor/internal/artifact"
)

// Store is the artifact store contract the pipeline consumes.
// Defined here, by the consumer; implemented by artifact.Store in
// production and by an in-memory fake in tests.
type Store interface {
	// ListActive returns the project's active, context-eligible artifacts
	// newest-first. Empty result is not an error.
	ListActive(ctx context.Context, projectID uuid.UUID) ([]artifact.Artifact, error)

	// Get resolves an active artifact by id within the project. Lookups
	// never cross the project boundary.
	Get(ctx context.Context, projectID, id uuid.UUID) (*artifact.Artifact, error)

	// Insert persists a new artifact and returns it with a generated id.
	Insert(ctx context.Context, a artifact.Artifact) (*artifact.Artifact, error)

	// PatchFeedback back-patches advisor feedback onto a reviewed artifact
	// within the project. Last write wins; no version check.
	PatchFeedback(ctx context.Context, projectID, id uuid.UUID, feedback string, reviewedAt time.Time) error
}

// Request is the input contract for one review invocation.
// Either ArtifactOutput or ArtifactID must resolve to non-empty text.
// Ephemeral: exists only for the duration of one pipeline run.
type Request struct {
	ProjectID       string   `json:"project_id"`
	ArtifactOutput  string   `json:"artifact_output,omitempty"`
	ArtifactID      string   `json:"artifact_id,omitempty"`
	ModuleType      string   `json:"module_type"`
	ProjectName     string   `json:"project_name,omitempty"`
	ArtifactType    string   `json:"artifact_type,omitempty"`
	SelectedOutputs []string `json:"selected_outputs,omitempty"`
	ArtifactName    string   `json:"artifact_name,omitempty"`
}

// Result is returned to the caller; the review artifact is the durable
// record. ArtifactID is nil when the insert failed; its absence is not a
// failure (availability over durability).
type Result struct {
	Output       string
	ArtifactID   *uuid.UUID
	ContextCount int
	Persistence  PersistOutcome
}

// Candidate is a read-only projection of an Artifact used only during
// selection. Never persisted.
type Candidate struct {
	ID        uuid.UUID
	Type      artifact.Type
	Name      string
	CreatedAt time.Time
	Output    string
}

// CandidatesFromArtifacts projects store rows into selection candidates.
func CandidatesFromArtifacts(arts []artifact.Artifact) []Candidate {
	candidates := make([]Candidate, len(arts))
	for i, a := range arts {
		candidates[i] = Candidate{
			ID:        a.ID,
			Type:      a.Type,
			Name:      a.Name,
			CreatedAt: a.CreatedAt,
			Output:    a.OutputData,
		}
	}
	return candidates
}
