package advisor

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/prodsuite/advisor/internal/artifact"
)

// PersistOutcome reports what happened to the durable side of a review.
// Both writes are best-effort; "succeeded but unpersisted" is an
// inspectable state, not an inference from a missing field.
type PersistOutcome struct {
	ArtifactID *uuid.UUID // set when the review artifact insert succeeded
	InsertErr  error      // insert failure: review text still returned to caller
	PatchErr   error      // backlink failure: logged only, never affects the response
}

// Persisted reports whether the review artifact was durably stored.
func (o PersistOutcome) Persisted() bool { return o.InsertErr == nil }

// Record bundles everything the persister stores about one review.
type Record struct {
	ReviewText  string
	Request     Request
	ProjectID   uuid.UUID
	TargetID    *uuid.UUID // reviewed artifact, when the request named one
	Index       Index
	Usage       Usage
	Duration    time.Duration
	Model       string
	Temperature float64
}

// Persister stores the review as a new review-tagged artifact and
// best-effort back-patches the reviewed artifact with a feedback
// reference.
type Persister struct {
	store  Store
	logger *slog.Logger
}

// NewPersister creates a Persister. A nil logger falls back to slog.Default.
func NewPersister(store Store, logger *slog.Logger) *Persister {
	if logger == nil {
		logger = slog.Default()
	}
	return &Persister{store: store, logger: logger}
}

// Persist inserts the review artifact, then back-patches the reviewed
// artifact when the request named one. Never returns an error: failures
// are recorded in the outcome and logged, because once the costly model
// call has produced correct output a storage hiccup should not waste that
// work from the caller's point of view.
//
// Creation is deliberately non-idempotent: reviewing the same target twice
// creates two distinct review artifacts.
func (p *Persister) Persist(ctx context.Context, rec Record) PersistOutcome {
	var outcome PersistOutcome

	inputData := map[string]any{
		"module_type": rec.Request.ModuleType,
	}
	if rec.Request.ArtifactType != "" {
		inputData["reviewed_artifact_type"] = rec.Request.ArtifactType
	}
	if rec.TargetID != nil {
		inputData["reviewed_artifact_id"] = rec.TargetID.String()
	}
	if len(rec.Request.SelectedOutputs) > 0 {
		inputData["selected_outputs"] = rec.Request.SelectedOutputs
	}

	refs := make([]string, len(rec.Index.IncludedRefs))
	for i, id := range rec.Index.IncludedRefs {
		refs[i] = id.String()
	}
	metadata := map[string]any{
		"context_artifact_count": len(rec.Index.IncludedRefs),
		"context_artifact_ids":   refs,
		"input_tokens":           rec.Usage.InputTokens,
		"output_tokens":          rec.Usage.OutputTokens,
		"total_tokens":           rec.Usage.TotalTokens,
		"duration_ms":            rec.Duration.Milliseconds(),
		"model":                  rec.Model,
		"temperature":            rec.Temperature,
	}

	name := rec.Request.ArtifactName
	if name == "" {
		name = "Advisor review (" + rec.Request.ModuleType + ")"
	}

	inserted, err := p.store.Insert(ctx, artifact.Artifact{
		ProjectID:   rec.ProjectID,
		ProjectName: rec.Request.ProjectName,
		Type:        artifact.TypeReview,
		Name:        name,
		InputData:   inputData,
		OutputData:  rec.ReviewText,
		Metadata:    metadata,
		Status:      artifact.StatusActive,
	})
	if err != nil {
		outcome.InsertErr = err
		p.logger.Warn("review artifact insert failed; returning review without artifact id",
			"project_id", rec.ProjectID,
			"error", err)
	} else {
		outcome.ArtifactID = &inserted.ID
	}

	// Backlink the reviewed artifact, scoped to the same project. Last
	// patch wins under concurrency.
	if rec.TargetID != nil {
		if err := p.store.PatchFeedback(ctx, rec.ProjectID, *rec.TargetID, rec.ReviewText, time.Now().UTC()); err != nil {
			outcome.PatchErr = err
			p.logger.Warn("advisor feedback backlink failed",
				"artifact_id", rec.TargetID,
				"error", err)
		}
	}

	return outcome
}
