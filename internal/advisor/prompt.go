package advisor

import (
	"fmt"
	"strings"
)

// SystemInstructions is the fixed system role for the review model.
const SystemInstructions = `You are a senior product advisor reviewing generated work products.
Be precise, constructive, and grounded: evaluate completeness, internal
consistency, and alignment with the rest of the project. Never invent
facts about the project or its infrastructure.`

// architecturePreamble states ground truth about where data lives and how
// it is keyed, so the reviewer does not invent infrastructure facts.
const architecturePreamble = `## System ground truth

All work products in this suite are stored as artifacts in a single
project-scoped repository. Each artifact is keyed by a stable artifact_id,
belongs to exactly one project (project_id), is tagged with the module
that produced it (artifact_type), and carries its generated text plus a
creation timestamp. The context index below lists real artifacts from the
same project; nothing outside that index and the review target exists for
the purposes of this review.`

// groundingConstraints closes the prompt with the anti-hallucination
// contract: cite or flag.
const groundingConstraints = `## Review constraints

- Any claim that refers to another artifact MUST cite that artifact's
  artifact_id exactly as it appears in the context index above.
- If a claim cannot be verified from the review target or a cited index
  entry, explicitly flag it as unverifiable instead of asserting it.
- Do not reference artifacts, documents, or infrastructure that are not
  listed in the context index.`

// RequestMeta is the review-target metadata rendered into the prompt.
type RequestMeta struct {
	ProjectID       string
	ProjectName     string
	ModuleType      string
	ArtifactType    string
	ArtifactName    string
	SelectedOutputs []string
}

// AssemblePrompt composes the grounded review instruction in a fixed
// order: architecture preamble, target metadata, fenced target text,
// context index, grounding constraints. Pure function: no network or
// storage calls; unit-testable by substring presence and ordering.
func AssemblePrompt(targetText string, meta RequestMeta, indexText string) string {
	var b strings.Builder

	b.WriteString(architecturePreamble)
	b.WriteString("\n\n## Review target\n\n")

	fmt.Fprintf(&b, "project_id: %s\n", meta.ProjectID)
	if meta.ProjectName != "" {
		fmt.Fprintf(&b, "project: %s\n", meta.ProjectName)
	}
	fmt.Fprintf(&b, "module: %s\n", meta.ModuleType)
	if meta.ArtifactType != "" {
		fmt.Fprintf(&b, "artifact_type: %s\n", meta.ArtifactType)
	}
	if meta.ArtifactName != "" {
		fmt.Fprintf(&b, "artifact_name: %s\n", meta.ArtifactName)
	}
	if len(meta.SelectedOutputs) > 0 {
		fmt.Fprintf(&b, "requested emphasis: %s\n", strings.Join(meta.SelectedOutputs, ", "))
	}

	b.WriteString("\nThe artifact under review:\n\n```\n")
	b.WriteString(targetText)
	b.WriteString("\n```\n\n## Context index\n\n")
	b.WriteString(indexText)
	b.WriteString("\n\n")
	b.WriteString(groundingConstraints)

	return b.String()
}
