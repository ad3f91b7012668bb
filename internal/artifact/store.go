package artifact

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// DB is the subset of pgxpool.Pool the store needs.
// Defined by the consumer so tests can substitute a fake connection.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Store manages artifact persistence with a PostgreSQL backend.
// It is safe for concurrent use by multiple goroutines.
type Store struct {
	db     DB
	logger *slog.Logger
}

// New creates a new Store instance. A nil logger falls back to slog.Default.
func New(db DB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, logger: logger}
}

const artifactColumns = `id, project_id, project_name, artifact_type, artifact_name,
	input_data, output_data, metadata, advisor_feedback, advisor_reviewed_at,
	status, created_at`

// ListActive returns the project's active, context-eligible artifacts
// ordered by created_at descending (ties broken by id for reproducibility).
//
// The eligible-type set comes from ContextEligibleTypes, so review-tagged
// rows are excluded by construction, not by per-call-site filtering. An
// empty result is not an error; transport failure wraps ErrStoreUnavailable.
func (s *Store) ListActive(ctx context.Context, projectID uuid.UUID) ([]Artifact, error) {
	eligible := ContextEligibleTypes()
	types := make([]string, len(eligible))
	for i, t := range eligible {
		types[i] = string(t)
	}

	rows, err := s.db.Query(ctx, `
		SELECT `+artifactColumns+`
		FROM artifacts
		WHERE project_id = $1 AND status = $2 AND artifact_type = ANY($3)
		ORDER BY created_at DESC, id DESC`,
		uuidToPgUUID(projectID), string(StatusActive), types)
	if err != nil {
		return nil, fmt.Errorf("%w: listing artifacts for project %s: %v", ErrStoreUnavailable, projectID, err)
	}
	defer rows.Close()

	var artifacts []Artifact
	for rows.Next() {
		a, err := scanArtifact(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning artifact row: %w", err)
		}
		artifacts = append(artifacts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading artifact rows: %v", ErrStoreUnavailable, err)
	}

	s.logger.Debug("listed active artifacts", "project_id", projectID, "count", len(artifacts))
	return artifacts, nil
}

// Get retrieves an active artifact by id within a project. The project
// predicate keeps one tenant's request from resolving another tenant's
// artifact. Returns ErrNotFound if no matching row exists, whether the
// id is unknown, the artifact is not active, or it belongs to a
// different project.
func (s *Store) Get(ctx context.Context, projectID, id uuid.UUID) (*Artifact, error) {
	row := s.db.QueryRow(ctx, `
		SELECT `+artifactColumns+`
		FROM artifacts
		WHERE id = $1 AND project_id = $2 AND status = $3`,
		uuidToPgUUID(id), uuidToPgUUID(projectID), string(StatusActive))

	a, err := scanArtifact(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: getting artifact %s: %v", ErrStoreUnavailable, id, err)
	}
	return &a, nil
}

// Insert persists a new artifact and returns it with the generated id and
// created_at. Fails with ErrStoreUnavailable on write failure; callers in
// the review pipeline tolerate this without aborting the response.
func (s *Store) Insert(ctx context.Context, a Artifact) (*Artifact, error) {
	inputJSON, err := json.Marshal(a.InputData)
	if err != nil {
		return nil, fmt.Errorf("marshaling input data: %w", err)
	}
	metaJSON, err := json.Marshal(a.Metadata)
	if err != nil {
		return nil, fmt.Errorf("marshaling metadata: %w", err)
	}

	status := a.Status
	if status == "" {
		status = StatusActive
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO artifacts (project_id, project_name, artifact_type, artifact_name,
			input_data, output_data, metadata, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`,
		uuidToPgUUID(a.ProjectID), a.ProjectName, string(a.Type), a.Name,
		inputJSON, a.OutputData, metaJSON, string(status))

	var id pgtype.UUID
	var createdAt pgtype.Timestamptz
	if err := row.Scan(&id, &createdAt); err != nil {
		return nil, fmt.Errorf("%w: inserting artifact %q: %v", ErrStoreUnavailable, a.Name, err)
	}

	a.ID = pgUUIDToUUID(id)
	a.Status = status
	a.CreatedAt = createdAt.Time

	s.logger.Debug("inserted artifact",
		"id", a.ID,
		"project_id", a.ProjectID,
		"type", a.Type)
	return &a, nil
}

// PatchFeedback sets advisor_feedback and advisor_reviewed_at on the
// reviewed artifact, scoped to the project like Get. Plain UPDATE with no
// version check: when two reviews of the same target race, the later
// patch wins and the earlier feedback reference is silently replaced.
// Both review artifacts remain persisted. Returns ErrNotFound if no
// matching row exists in the project.
func (s *Store) PatchFeedback(ctx context.Context, projectID, id uuid.UUID, feedback string, reviewedAt time.Time) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE artifacts
		SET advisor_feedback = $3, advisor_reviewed_at = $4
		WHERE id = $1 AND project_id = $2`,
		uuidToPgUUID(id), uuidToPgUUID(projectID), feedback, pgtype.Timestamptz{Time: reviewedAt, Valid: true})
	if err != nil {
		return fmt.Errorf("%w: patching artifact %s: %v", ErrStoreUnavailable, id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	s.logger.Debug("patched advisor feedback", "id", id)
	return nil
}

// scanArtifact reads one artifact row in artifactColumns order.
func scanArtifact(row pgx.Row) (Artifact, error) {
	var (
		a          Artifact
		id, projID pgtype.UUID
		typ, stat  string
		inputJSON  []byte
		metaJSON   []byte
		feedback   *string
		reviewedAt pgtype.Timestamptz
		createdAt  pgtype.Timestamptz
	)

	err := row.Scan(&id, &projID, &a.ProjectName, &typ, &a.Name,
		&inputJSON, &a.OutputData, &metaJSON, &feedback, &reviewedAt,
		&stat, &createdAt)
	if err != nil {
		return Artifact{}, err
	}

	a.ID = pgUUIDToUUID(id)
	a.ProjectID = pgUUIDToUUID(projID)
	a.Type = Type(typ)
	a.Status = Status(stat)
	a.AdvisorFeedback = feedback
	a.CreatedAt = createdAt.Time
	if reviewedAt.Valid {
		t := reviewedAt.Time
		a.AdvisorReviewedAt = &t
	}

	if len(inputJSON) > 0 {
		if err := json.Unmarshal(inputJSON, &a.InputData); err != nil {
			return Artifact{}, fmt.Errorf("unmarshaling input data: %w", err)
		}
	}
	if len(metaJSON) > 0 {
		if err := json.Unmarshal(metaJSON, &a.Metadata); err != nil {
			return Artifact{}, fmt.Errorf("unmarshaling metadata: %w", err)
		}
	}

	return a, nil
}

// uuidToPgUUID converts uuid.UUID to pgtype.UUID.
func uuidToPgUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}

// pgUUIDToUUID converts pgtype.UUID to uuid.UUID.
func pgUUIDToUUID(pgUUID pgtype.UUID) uuid.UUID {
	if !pgUUID.Valid {
		return uuid.Nil
	}
	return pgUUID.Bytes
}
