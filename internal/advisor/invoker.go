package advisor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
)

// Decoding parameters are fixed: low temperature favors determinism and
// correctness over creativity, and the output ceiling is generous but
// bounded.
const (
	DefaultTemperature     = 0.2
	DefaultMaxOutputTokens = 8192
)

// Usage records token accounting for one invocation.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// Invocation is the result of one model call.
type Invocation struct {
	Text  string
	Usage Usage
}

// Invoker calls the language model with the assembled prompt.
// Defined as an interface so tests substitute a deterministic fake.
type Invoker interface {
	Invoke(ctx context.Context, prompt, system string) (*Invocation, error)
}

// GenkitInvoker invokes the configured Genkit model.
//
// It performs exactly one model call per Invoke: retry policy belongs to
// the caller (the pipeline wraps Invoke with backoff), never here.
type GenkitInvoker struct {
	g               *genkit.Genkit
	modelName       string
	temperature     float64
	maxOutputTokens int
	logger          *slog.Logger
}

// NewGenkitInvoker creates an invoker for the provider-qualified model
// name. Zero temperature/maxOutputTokens fall back to the fixed defaults.
func NewGenkitInvoker(g *genkit.Genkit, modelName string, temperature float64, maxOutputTokens int, logger *slog.Logger) (*GenkitInvoker, error) {
	if g == nil {
		return nil, fmt.Errorf("%w: genkit instance is required", ErrNotConfigured)
	}
	if strings.TrimSpace(modelName) == "" {
		return nil, fmt.Errorf("%w: model name is required", ErrNotConfigured)
	}
	if logger == nil {
		logger = slog.Default()
	}
	if temperature <= 0 {
		temperature = DefaultTemperature
	}
	if maxOutputTokens <= 0 {
		maxOutputTokens = DefaultMaxOutputTokens
	}

	return &GenkitInvoker{
		g:               g,
		modelName:       modelName,
		temperature:     temperature,
		maxOutputTokens: maxOutputTokens,
		logger:          logger,
	}, nil
}

// Invoke runs a single generation. Upstream failures and malformed
// (empty) responses wrap UpstreamError carrying the provider's message;
// transport timeouts are marked as such.
func (i *GenkitInvoker) Invoke(ctx context.Context, prompt, system string) (*Invocation, error) {
	resp, err := genkit.Generate(ctx, i.g,
		ai.WithModelName(i.modelName),
		ai.WithSystem(system),
		ai.WithPrompt(prompt),
		ai.WithConfig(&ai.GenerationCommonConfig{
			Temperature:     i.temperature,
			MaxOutputTokens: i.maxOutputTokens,
		}),
	)
	if err != nil {
		return nil, &UpstreamError{
			Message: err.Error(),
			Timeout: errors.Is(err, context.DeadlineExceeded),
			Err:     err,
		}
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return nil, &UpstreamError{Message: "model returned an empty response"}
	}

	inv := &Invocation{Text: text}
	if resp.Usage != nil {
		inv.Usage = Usage{
			InputTokens:  resp.Usage.InputTokens,
			OutputTokens: resp.Usage.OutputTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		}
	}

	i.logger.Debug("model invocation complete",
		"model", i.modelName,
		"output_len", len(text),
		"total_tokens", inv.Usage.TotalTokens)
	return inv, nil
}
