package advisor

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// RetryConfig configures the pipeline's retry behavior around model calls.
// The invoker itself performs exactly one call; this policy lives in the
// pipeline, outside the invoker.
type RetryConfig struct {
	MaxRetries      int           // Maximum number of retry attempts
	InitialInterval time.Duration // Initial backoff interval
	MaxInterval     time.Duration // Maximum backoff interval
	Disabled        bool          // Disable retries entirely (deterministic tests)
}

// DefaultRetryConfig returns sensible defaults for LLM API calls.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:      3,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     10 * time.Second,
	}
}

// retryablePatterns groups error substrings by category, matched
// case-insensitively against err.Error().
//
// NOTE: string matching because LLM provider SDKs do not expose typed
// errors for transient failures. Re-evaluate if that changes.
var retryablePatterns = [][]string{
	{"rate limit", "quota exceeded", "429"},      // rate limiting
	{"500", "502", "503", "504", "unavailable"},  // transient server errors
	{"connection reset", "timeout", "temporary"}, // network errors
}

// retryableError reports whether err is transient and should trigger a retry.
func retryableError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	for _, group := range retryablePatterns {
		for _, sub := range group {
			if strings.Contains(errStr, sub) {
				return true
			}
		}
	}
	return false
}

// invokeWithRetry calls the invoker with exponential backoff over
// transient upstream errors. Each attempt passes through the rate limiter
// first so retries cannot amplify provider pressure.
func (p *Pipeline) invokeWithRetry(ctx context.Context, prompt, system string) (*Invocation, error) {
	maxRetries := p.retry.MaxRetries
	if p.retry.Disabled {
		maxRetries = 0
	}

	var lastErr error
	delay := p.retry.InitialInterval
	start := time.Now()

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if p.limiter != nil {
			if err := p.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("rate limit wait: %w", err)
			}
		}

		inv, err := p.invoker.Invoke(ctx, prompt, system)
		if err == nil {
			p.logger.Debug("model call succeeded",
				"attempts", attempt+1,
				"elapsed", time.Since(start))
			return inv, nil
		}

		lastErr = err

		// Non-retryable: fail immediately.
		if !retryableError(err) {
			return nil, err
		}
		if attempt == maxRetries {
			break
		}

		p.logger.Debug("retrying model call after transient error",
			"attempt", attempt+1,
			"delay", delay,
			"error", err)

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context canceled during retry: %w", ctx.Err())
		case <-time.After(delay):
			delay = min(delay*2, p.retry.MaxInterval)
		}
	}

	return nil, fmt.Errorf("model call after %d retries (elapsed %v): %w",
		maxRetries, time.Since(start), lastErr)
}
