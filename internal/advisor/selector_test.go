package advisor_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prodsuite/advisor/internal/advisor"
	"github.com/prodsuite/advisor/internal/artifact"
)

func candidate(typ artifact.Type, createdAt time.Time) advisor.Candidate {
	return advisor.Candidate{
		ID:        uuid.New(),
		Type:      typ,
		Name:      string(typ),
		CreatedAt: createdAt,
		Output:    "output",
	}
}

func TestSelect_EmptyInput(t *testing.T) {
	t.Parallel()

	assert.Empty(t, advisor.Select(nil, 2, 12))
	assert.Empty(t, advisor.Select([]advisor.Candidate{}, 2, 12))
}

func TestSelect_RespectsPerTypeAndTotalCaps(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var candidates []advisor.Candidate
	// 10 meeting notes, 5 docs, 5 release notes.
	for i := range 10 {
		candidates = append(candidates, candidate(artifact.TypeMeetingAnalysis, base.Add(time.Duration(i)*time.Hour)))
	}
	for i := range 5 {
		candidates = append(candidates, candidate(artifact.TypeDocumentation, base.Add(time.Duration(i)*time.Minute)))
		candidates = append(candidates, candidate(artifact.TypeReleaseNotes, base.Add(time.Duration(i)*time.Second)))
	}

	selected := advisor.Select(candidates, 2, 12)

	assert.LessOrEqual(t, len(selected), 12)
	counts := map[artifact.Type]int{}
	for _, c := range selected {
		counts[c.Type]++
	}
	for typ, n := range counts {
		assert.LessOrEqual(t, n, 2, "type %q exceeds per-type cap", typ)
	}
}

func TestSelect_SortedNewestFirst(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	candidates := []advisor.Candidate{
		candidate(artifact.TypeMeetingAnalysis, base.Add(1*time.Hour)),
		candidate(artifact.TypeDocumentation, base.Add(3*time.Hour)),
		candidate(artifact.TypeReleaseNotes, base.Add(2*time.Hour)),
	}

	selected := advisor.Select(candidates, 2, 12)
	require.Len(t, selected, 3)

	for i := 1; i < len(selected); i++ {
		assert.False(t, selected[i].CreatedAt.After(selected[i-1].CreatedAt),
			"selection not sorted non-increasing by created_at")
	}
	assert.Equal(t, artifact.TypeDocumentation, selected[0].Type)
}

func TestSelect_KeepsNewestWithinType(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	old := candidate(artifact.TypeMeetingAnalysis, base)
	mid := candidate(artifact.TypeMeetingAnalysis, base.Add(time.Hour))
	newest := candidate(artifact.TypeMeetingAnalysis, base.Add(2*time.Hour))

	selected := advisor.Select([]advisor.Candidate{old, newest, mid}, 2, 12)
	require.Len(t, selected, 2)

	ids := []uuid.UUID{selected[0].ID, selected[1].ID}
	assert.Contains(t, ids, newest.ID)
	assert.Contains(t, ids, mid.ID)
	assert.NotContains(t, ids, old.ID)
}

func TestSelect_TieBreakIsDeterministic(t *testing.T) {
	t.Parallel()

	ts := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	var candidates []advisor.Candidate
	for range 6 {
		candidates = append(candidates, candidate(artifact.TypeDocumentation, ts))
	}

	first := advisor.Select(candidates, 3, 12)
	for range 20 {
		// Shuffling input order must not change the outcome; the stable
		// sort plus id tie-break makes selection reproducible.
		shuffled := make([]advisor.Candidate, len(candidates))
		copy(shuffled, candidates)
		for i := range shuffled {
			j := (i * 5) % len(shuffled)
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		}

		again := advisor.Select(shuffled, 3, 12)
		require.Len(t, again, len(first))
		for i := range first {
			assert.Equal(t, first[i].ID, again[i].ID)
		}
	}
}

// End-to-end scenario from the selection contract: 7 artifacts across 3
// types with perType=2 select at most 6, and every excluded artifact is
// older than all selected artifacts of its type.
func TestSelect_SevenAcrossThreeTypes(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	mk := func(typ artifact.Type, hours int) advisor.Candidate {
		return candidate(typ, base.Add(time.Duration(hours)*time.Hour))
	}
	candidates := []advisor.Candidate{
		mk(artifact.TypeMeetingAnalysis, 1),
		mk(artifact.TypeMeetingAnalysis, 2),
		mk(artifact.TypeMeetingAnalysis, 3),
		mk(artifact.TypeDocumentation, 4),
		mk(artifact.TypeDocumentation, 5),
		mk(artifact.TypeReleaseNotes, 6),
		mk(artifact.TypeReleaseNotes, 7),
	}

	selected := advisor.Select(candidates, 2, 12)
	assert.LessOrEqual(t, len(selected), 6)

	selectedIDs := map[uuid.UUID]bool{}
	for _, c := range selected {
		selectedIDs[c.ID] = true
	}
	for _, excluded := range candidates {
		if selectedIDs[excluded.ID] {
			continue
		}
		for _, kept := range selected {
			if kept.Type == excluded.Type {
				assert.True(t, kept.CreatedAt.After(excluded.CreatedAt),
					"excluded artifact newer than a selected same-type artifact")
			}
		}
	}
}
