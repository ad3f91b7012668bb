package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/prodsuite/advisor/internal/advisor"
	"github.com/prodsuite/advisor/internal/config"
)

// maxReviewBodyBytes bounds the request body. Review targets can be
// large documents; 10 MiB is generous without being unbounded.
const maxReviewBodyBytes = 10 << 20

// Reviewer runs one review invocation. Implemented by advisor.Pipeline;
// stubbed in handler tests.
type Reviewer interface {
	Review(ctx context.Context, req advisor.Request) (*advisor.Result, error)
}

type reviewHandler struct {
	pipeline Reviewer
	logger   *slog.Logger
}

// reviewResponse is the success body for POST /api/review.
type reviewResponse struct {
	Output                string     `json:"output"`
	ArtifactID            *uuid.UUID `json:"artifact_id,omitempty"`
	ContextArtifactsCount int        `json:"context_artifacts_count"`
}

func (h *reviewHandler) review(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxReviewBodyBytes)

	var req advisor.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "body_too_large", "request body too large", h.logger)
			return
		}
		writeError(w, http.StatusBadRequest, "invalid_body", "invalid JSON request body", h.logger)
		return
	}

	res, err := h.pipeline.Review(r.Context(), req)
	if err != nil {
		h.writeReviewError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, reviewResponse{
		Output:                res.Output,
		ArtifactID:            res.ArtifactID,
		ContextArtifactsCount: res.ContextCount,
	}, h.logger)
}

// writeReviewError maps pipeline errors onto the HTTP error taxonomy.
// Validation problems are the caller's fault (400); configuration and
// upstream failures are server-side (500), with the provider's message
// embedded so callers can see what the model service reported.
func (h *reviewHandler) writeReviewError(w http.ResponseWriter, r *http.Request, err error) {
	requestID, _ := requestIDFromContext(r.Context())

	if ve, ok := advisor.AsValidationError(err); ok {
		writeError(w, http.StatusBadRequest, "invalid_request", ve.Error(), h.logger)
		return
	}

	if ue, ok := advisor.AsUpstreamError(err); ok {
		h.logger.Error("model invocation failed",
			"error", err,
			"timeout", ue.Timeout,
			"request_id", requestID,
		)
		writeError(w, http.StatusInternalServerError, "upstream_error", ue.Error(), h.logger)
		return
	}

	if errors.Is(err, advisor.ErrNotConfigured) || errors.Is(err, config.ErrMissingAPIKey) {
		h.logger.Error("advisor not configured", "error", err, "request_id", requestID)
		writeError(w, http.StatusInternalServerError, "not_configured", "advisor is not configured", h.logger)
		return
	}

	h.logger.Error("review failed", "error", err, "request_id", requestID)
	writeError(w, http.StatusInternalServerError, "internal_error", "review failed", h.logger)
}
