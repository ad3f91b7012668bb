// Package advisor implements the review pipeline: it reviews a previously
// generated artifact by assembling a token-bounded, citable context window
// from the project's other artifacts, invoking a language model under
// grounding constraints, and persisting the result with traceable
// back-references.
//
// Control flow per request (sequential, no shared mutable state):
//
//	validate → fetch candidates → select → compress target → build index
//	→ assemble prompt → invoke model → persist review → backlink → respond
//
// The pipeline is deliberately lenient at the tail: once the model call has
// produced output, a storage failure is recorded in the PersistOutcome and
// logged, never surfaced as a request failure.
package advisor
