package advisor

import (
	"errors"
	"fmt"
)

// ErrNotConfigured indicates the pipeline is missing a required dependency
// (model, store) and cannot run. Terminal, server-side, zero side effects.
var ErrNotConfigured = errors.New("advisor not configured")

// ValidationError reports a bad request. Terminal and raised before any
// store or model I/O; zero side effects.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid request: %s: %s", e.Field, e.Reason)
}

// UpstreamError reports a failed or malformed model invocation. Terminal
// for the invocation: no review artifact is persisted and prior
// fetch/select/compress work is discarded.
type UpstreamError struct {
	Message string // provider's message, embedded in the response
	Timeout bool
	Err     error
}

func (e *UpstreamError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("model invocation timed out: %s", e.Message)
	}
	return fmt.Sprintf("model invocation failed: %s", e.Message)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// AsValidationError reports whether err is a ValidationError.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}

// AsUpstreamError reports whether err is an UpstreamError.
func AsUpstreamError(err error) (*UpstreamError, bool) {
	var ue *UpstreamError
	ok := errors.As(err, &ue)
	return ue, ok
}
