package advisor_test

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prodsuite/advisor/internal/advisor"
	"github.com/prodsuite/advisor/internal/artifact"
)

func TestBuildIndex_EmptySelectionYieldsSentinel(t *testing.T) {
	t.Parallel()

	idx := advisor.BuildIndex(nil)

	assert.NotEmpty(t, idx.Text, "empty selection must yield a sentinel, never an empty string")
	assert.Equal(t, advisor.EmptyIndexText, idx.Text)
	assert.Empty(t, idx.IncludedRefs)
	assert.Empty(t, idx.Entries)
}

func TestBuildIndex_EntryShape(t *testing.T) {
	t.Parallel()

	created := time.Date(2026, 4, 2, 9, 30, 0, 0, time.UTC)
	c := advisor.Candidate{
		ID:        uuid.New(),
		Type:      artifact.TypeDocumentation,
		Name:      "API reference v2",
		CreatedAt: created,
		Output:    "The endpoint accepts POST requests.",
	}

	idx := advisor.BuildIndex([]advisor.Candidate{c})

	require.Len(t, idx.Entries, 1)
	require.Len(t, idx.IncludedRefs, 1)
	assert.Equal(t, c.ID, idx.IncludedRefs[0])

	assert.Contains(t, idx.Text, "artifact_id: "+c.ID.String())
	assert.Contains(t, idx.Text, "type: documentation")
	assert.Contains(t, idx.Text, "name: API reference v2")
	assert.Contains(t, idx.Text, "created_at: 2026-04-02T09:30:00Z")
	assert.Contains(t, idx.Text, "excerpt: The endpoint accepts POST requests.")
}

func TestBuildIndex_ExcerptBounded(t *testing.T) {
	t.Parallel()

	c := advisor.Candidate{
		ID:        uuid.New(),
		Type:      artifact.TypeMeetingAnalysis,
		Name:      "standup",
		CreatedAt: time.Now(),
		Output:    strings.Repeat("q", 5000),
	}

	idx := advisor.BuildIndex([]advisor.Candidate{c})

	require.Len(t, idx.Entries, 1)
	assert.LessOrEqual(t, len([]rune(idx.Entries[0].Excerpt)), advisor.ExcerptLimit+len("..."))
	assert.True(t, strings.HasSuffix(idx.Entries[0].Excerpt, "..."))
}

func TestBuildIndex_StableSeparatorAndOrder(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)
	a := advisor.Candidate{ID: uuid.New(), Type: artifact.TypeDocumentation, Name: "first", CreatedAt: base, Output: "alpha"}
	b := advisor.Candidate{ID: uuid.New(), Type: artifact.TypeReleaseNotes, Name: "second", CreatedAt: base, Output: "beta"}

	idx := advisor.BuildIndex([]advisor.Candidate{a, b})

	assert.Contains(t, idx.Text, "\n---\n")
	// Index preserves the selection's order.
	assert.Less(t,
		strings.Index(idx.Text, a.ID.String()),
		strings.Index(idx.Text, b.ID.String()))
	assert.Equal(t, []uuid.UUID{a.ID, b.ID}, idx.IncludedRefs)
}
