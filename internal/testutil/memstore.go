package testutil

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/prodsuite/advisor/internal/artifact"
)

// MemStore is an in-memory artifact store for tests. It implements the
// pipeline's Store contract with the same visible semantics as the
// PostgreSQL store: only active, context-eligible artifacts are listed,
// newest-first with id tie-break.
//
// Call counters let tests assert how many store operations a code path
// performed (e.g. zero reads on validation failure). Thread-safe.
type MemStore struct {
	mu        sync.Mutex
	artifacts map[uuid.UUID]artifact.Artifact

	// Injected failures. nil = operation succeeds.
	FailList   error
	FailGet    error
	FailInsert error
	FailPatch  error

	// Call counters.
	ListCalls   int
	GetCalls    int
	InsertCalls int
	PatchCalls  int
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{artifacts: make(map[uuid.UUID]artifact.Artifact)}
}

// Seed adds an artifact directly, assigning an id and timestamp if unset.
// Returns the stored artifact.
func (s *MemStore) Seed(a artifact.Artifact) artifact.Artifact {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	if a.Status == "" {
		a.Status = artifact.StatusActive
	}
	s.artifacts[a.ID] = a
	return a
}

// ListActive implements the store contract.
func (s *MemStore) ListActive(_ context.Context, projectID uuid.UUID) ([]artifact.Artifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ListCalls++
	if s.FailList != nil {
		return nil, s.FailList
	}

	var out []artifact.Artifact
	for _, a := range s.artifacts {
		if a.ProjectID == projectID && a.Status == artifact.StatusActive && a.Type.ContextEligible() {
			out = append(out, a)
		}
	}
	slices.SortStableFunc(out, func(a, b artifact.Artifact) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(b.ID.String(), a.ID.String())
	})
	return out, nil
}

// Get implements the store contract. Like the PostgreSQL store, lookups
// are scoped to the project: an id from another project is not found.
func (s *MemStore) Get(_ context.Context, projectID, id uuid.UUID) (*artifact.Artifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.GetCalls++
	if s.FailGet != nil {
		return nil, s.FailGet
	}

	a, ok := s.artifacts[id]
	if !ok || a.ProjectID != projectID || a.Status != artifact.StatusActive {
		return nil, fmt.Errorf("%w: %s", artifact.ErrNotFound, id)
	}
	return &a, nil
}

// Insert implements the store contract.
func (s *MemStore) Insert(_ context.Context, a artifact.Artifact) (*artifact.Artifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.InsertCalls++
	if s.FailInsert != nil {
		return nil, s.FailInsert
	}

	a.ID = uuid.New()
	a.CreatedAt = time.Now().UTC()
	if a.Status == "" {
		a.Status = artifact.StatusActive
	}
	s.artifacts[a.ID] = a
	return &a, nil
}

// PatchFeedback implements the store contract. Last write wins; patches
// never cross the project boundary.
func (s *MemStore) PatchFeedback(_ context.Context, projectID, id uuid.UUID, feedback string, reviewedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.PatchCalls++
	if s.FailPatch != nil {
		return s.FailPatch
	}

	a, ok := s.artifacts[id]
	if !ok || a.ProjectID != projectID {
		return fmt.Errorf("%w: %s", artifact.ErrNotFound, id)
	}
	a.AdvisorFeedback = &feedback
	a.AdvisorReviewedAt = &reviewedAt
	s.artifacts[id] = a
	return nil
}

// Artifact returns a stored artifact by id for assertions.
func (s *MemStore) Artifact(id uuid.UUID) (artifact.Artifact, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.artifacts[id]
	return a, ok
}

// ByType returns all stored artifacts of the given type for assertions.
func (s *MemStore) ByType(typ artifact.Type) []artifact.Artifact {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []artifact.Artifact
	for _, a := range s.artifacts {
		if a.Type == typ {
			out = append(out, a)
		}
	}
	return out
}
