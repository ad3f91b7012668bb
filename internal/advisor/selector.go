package advisor

import (
	"slices"
	"strings"

	"github.com/prodsuite/advisor/internal/artifact"
)

// Default context selection budgets.
const (
	// DefaultPerType caps how many artifacts of one type enter the window.
	// Recency-within-type sampling keeps one prolific module (many small
	// meeting notes) from crowding out a single important artifact from
	// another module.
	DefaultPerType = 2

	// DefaultMaxTotal caps the whole window regardless of project history
	// length.
	DefaultMaxTotal = 12
)

// Select picks a bounded, deduplicated-by-type, recency-ordered subset of
// candidates: group by type, keep the newest perType per group, then sort
// the kept set newest-first and truncate to maxTotal.
//
// Ordering is reproducible across runs: candidates with identical
// timestamps are tie-broken by descending id. Empty input yields empty
// output; fewer than maxTotal candidates are all returned, still sorted.
func Select(candidates []Candidate, perType, maxTotal int) []Candidate {
	if len(candidates) == 0 || perType <= 0 || maxTotal <= 0 {
		return nil
	}

	byType := make(map[artifact.Type][]Candidate)
	for _, c := range candidates {
		byType[c.Type] = append(byType[c.Type], c)
	}

	kept := make([]Candidate, 0, len(candidates))
	for _, group := range byType {
		sortNewestFirst(group)
		if len(group) > perType {
			group = group[:perType]
		}
		kept = append(kept, group...)
	}

	sortNewestFirst(kept)
	if len(kept) > maxTotal {
		kept = kept[:maxTotal]
	}
	return kept
}

// sortNewestFirst orders candidates by created_at descending, breaking
// timestamp ties by descending id so selection is deterministic.
func sortNewestFirst(cs []Candidate) {
	slices.SortStableFunc(cs, func(a, b Candidate) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(b.ID.String(), a.ID.String())
	})
}
