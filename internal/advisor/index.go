package advisor

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/prodsuite/advisor/internal/artifact"
)

// ExcerptLimit bounds each index entry's excerpt of artifact output.
const ExcerptLimit = 450

// EmptyIndexText is the sentinel embedded when no context artifacts were
// selected. It is never an empty string, so grounding instructions that
// refer to "the index above" stay coherent.
const EmptyIndexText = "(no prior artifacts exist in this project; " +
	"the context index is empty and no cross-artifact citation is possible)"

// indexSeparator delimits index entries. Stable so prompts are
// reproducible and tests can assert on structure.
const indexSeparator = "\n---\n"

// IndexEntry is one citable listing in the context index. Derived and
// immutable; embedded in the prompt and in the review artifact's metadata
// for audit, never persisted independently.
type IndexEntry struct {
	ArtifactID uuid.UUID
	Type       artifact.Type
	Name       string
	CreatedAt  time.Time
	Excerpt    string
}

// Index is the compact, citable listing of the selected context.
// IncludedRefs lists the artifact ids actually embedded; it is persisted
// alongside the resulting review for audit.
type Index struct {
	Text         string
	Entries      []IndexEntry
	IncludedRefs []uuid.UUID
}

// BuildIndex turns the selected artifacts into a citable index. Each entry
// carries id, type, name, RFC 3339 timestamp, and a bounded excerpt. An
// empty selection yields the EmptyIndexText sentinel and no refs.
func BuildIndex(selected []Candidate) Index {
	if len(selected) == 0 {
		return Index{Text: EmptyIndexText}
	}

	entries := make([]IndexEntry, len(selected))
	refs := make([]uuid.UUID, len(selected))
	blocks := make([]string, len(selected))

	for i, c := range selected {
		entry := IndexEntry{
			ArtifactID: c.ID,
			Type:       c.Type,
			Name:       c.Name,
			CreatedAt:  c.CreatedAt,
			Excerpt:    Snippet(c.Output, ExcerptLimit),
		}
		entries[i] = entry
		refs[i] = c.ID
		blocks[i] = fmt.Sprintf(
			"artifact_id: %s\ntype: %s\nname: %s\ncreated_at: %s\nexcerpt: %s",
			entry.ArtifactID,
			entry.Type,
			entry.Name,
			entry.CreatedAt.UTC().Format(time.RFC3339),
			entry.Excerpt,
		)
	}

	return Index{
		Text:         strings.Join(blocks, indexSeparator),
		Entries:      entries,
		IncludedRefs: refs,
	}
}
