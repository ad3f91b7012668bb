package advisor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/prodsuite/advisor/internal/artifact"
)

// Config contains all required parameters for the review pipeline.
type Config struct {
	Store   Store
	Invoker Invoker
	Logger  *slog.Logger

	// Model identity, recorded in review metadata.
	ModelName   string
	Temperature float64

	// Context selection budgets; zero values use the defaults.
	PerType  int
	MaxTotal int

	// Target compression limits; zero values use the defaults.
	CompressHead int
	CompressTail int

	// Resilience around the model call (zero value uses defaults).
	Retry       RetryConfig
	RateLimiter *rate.Limiter // nil = no proactive rate limiting
}

// validate checks if all required dependencies are present.
func (cfg Config) validate() error {
	if cfg.Store == nil {
		return fmt.Errorf("%w: store is required", ErrNotConfigured)
	}
	if cfg.Invoker == nil {
		return fmt.Errorf("%w: invoker is required", ErrNotConfigured)
	}
	if cfg.Logger == nil {
		return fmt.Errorf("%w: logger is required", ErrNotConfigured)
	}
	return nil
}

// Pipeline executes review requests. Each request is one independent,
// stateless invocation; all configuration is captured immutably at
// construction, so a Pipeline is safe for concurrent use.
type Pipeline struct {
	store     Store
	invoker   Invoker
	persister *Persister
	logger    *slog.Logger

	modelName   string
	temperature float64
	perType     int
	maxTotal    int
	head        int
	tail        int

	retry   RetryConfig
	limiter *rate.Limiter
}

// New creates a review pipeline with the given configuration.
func New(cfg Config) (*Pipeline, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	perType := cfg.PerType
	if perType <= 0 {
		perType = DefaultPerType
	}
	maxTotal := cfg.MaxTotal
	if maxTotal <= 0 {
		maxTotal = DefaultMaxTotal
	}
	head := cfg.CompressHead
	if head <= 0 {
		head = DefaultCompressHead
	}
	tail := cfg.CompressTail
	if tail <= 0 {
		tail = DefaultCompressTail
	}
	temperature := cfg.Temperature
	if temperature <= 0 {
		temperature = DefaultTemperature
	}

	retry := cfg.Retry
	if !retry.Disabled && retry.MaxRetries == 0 {
		retry = DefaultRetryConfig()
	}

	return &Pipeline{
		store:       cfg.Store,
		invoker:     cfg.Invoker,
		persister:   NewPersister(cfg.Store, cfg.Logger),
		logger:      cfg.Logger,
		modelName:   cfg.ModelName,
		temperature: temperature,
		perType:     perType,
		maxTotal:    maxTotal,
		head:        head,
		tail:        tail,
		retry:       retry,
		limiter:     cfg.RateLimiter,
	}, nil
}

// Review runs one full pipeline invocation: validate → fetch → select →
// compress → index → assemble → invoke → persist → backlink.
//
// Validation failures and upstream model failures return an error and
// leave nothing persisted. Persistence failures after a successful model
// call do NOT fail the request: the result carries the review text and an
// inspectable PersistOutcome.
func (p *Pipeline) Review(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()

	// Strict validation up front, before any I/O.
	projectID, err := artifact.ParseProjectID(req.ProjectID)
	if err != nil {
		return nil, &ValidationError{Field: "project_id", Reason: "must be a valid UUID"}
	}
	if strings.TrimSpace(req.ModuleType) == "" {
		return nil, &ValidationError{Field: "module_type", Reason: "is required"}
	}
	if strings.TrimSpace(req.ArtifactOutput) == "" && strings.TrimSpace(req.ArtifactID) == "" {
		return nil, &ValidationError{Field: "artifact_output", Reason: "either artifact_output or artifact_id is required"}
	}

	targetText, targetID, err := p.resolveTarget(ctx, projectID, req)
	if err != nil {
		return nil, err
	}

	// Fetch candidate context. Review-tagged and non-active artifacts are
	// excluded by the store by construction.
	arts, err := p.store.ListActive(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("fetching context artifacts: %w", err)
	}

	selected := Select(CandidatesFromArtifacts(arts), p.perType, p.maxTotal)
	index := BuildIndex(selected)
	compressed := CompressLarge(targetText, p.head, p.tail)

	prompt := AssemblePrompt(compressed, RequestMeta{
		ProjectID:       req.ProjectID,
		ProjectName:     req.ProjectName,
		ModuleType:      req.ModuleType,
		ArtifactType:    req.ArtifactType,
		ArtifactName:    req.ArtifactName,
		SelectedOutputs: req.SelectedOutputs,
	}, index.Text)

	p.logger.Debug("assembled review prompt",
		"project_id", projectID,
		"candidates", len(arts),
		"selected", len(selected),
		"target_len", len(targetText),
		"compressed_len", len(compressed))

	inv, err := p.invokeWithRetry(ctx, prompt, SystemInstructions)
	if err != nil {
		// Terminal: nothing persisted, prior work discarded.
		return nil, err
	}

	outcome := p.persister.Persist(ctx, Record{
		ReviewText:  inv.Text,
		Request:     req,
		ProjectID:   projectID,
		TargetID:    targetID,
		Index:       index,
		Usage:       inv.Usage,
		Duration:    time.Since(start),
		Model:       p.modelName,
		Temperature: p.temperature,
	})

	p.logger.Info("review complete",
		"project_id", projectID,
		"context_count", len(selected),
		"persisted", outcome.Persisted(),
		"duration", time.Since(start))

	return &Result{
		Output:       inv.Text,
		ArtifactID:   outcome.ArtifactID,
		ContextCount: len(selected),
		Persistence:  outcome,
	}, nil
}

// resolveTarget yields the text under review and, when the request named a
// stored artifact, its id for back-patching. Literal text wins when both
// are supplied. Stored lookups are scoped to the request's project, so an
// id belonging to another project is indistinguishable from an unknown id.
func (p *Pipeline) resolveTarget(ctx context.Context, projectID uuid.UUID, req Request) (string, *uuid.UUID, error) {
	var targetID *uuid.UUID
	if strings.TrimSpace(req.ArtifactID) != "" {
		id, err := uuid.Parse(req.ArtifactID)
		if err != nil {
			return "", nil, &ValidationError{Field: "artifact_id", Reason: "must be a valid UUID"}
		}
		targetID = &id
	}

	if text := strings.TrimSpace(req.ArtifactOutput); text != "" {
		return req.ArtifactOutput, targetID, nil
	}

	a, err := p.store.Get(ctx, projectID, *targetID)
	if err != nil {
		if errors.Is(err, artifact.ErrNotFound) {
			return "", nil, &ValidationError{Field: "artifact_id", Reason: "no active artifact with this id in the project"}
		}
		return "", nil, fmt.Errorf("resolving review target: %w", err)
	}
	if strings.TrimSpace(a.OutputData) == "" {
		return "", nil, &ValidationError{Field: "artifact_id", Reason: "artifact has no output text to review"}
	}
	return a.OutputData, targetID, nil
}
