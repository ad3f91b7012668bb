package advisor

import "fmt"

// Compression limits. Counts are in runes so multi-byte text is never
// split mid-character.
const (
	// DefaultCompressHead / DefaultCompressTail preserve introductions and
	// conclusions/action items, which carry most decision-relevant content.
	DefaultCompressHead = 6000
	DefaultCompressTail = 3000

	// compressMargin is the slack below which compression is skipped:
	// inserting a marker into text barely over the limit would lose more
	// than it saves.
	compressMargin = 200

	// ellipsis terminates truncated excerpts.
	ellipsis = "..."
)

// CompressLarge deterministically shrinks over-long text while preserving
// head and tail content. Text at or below head+tail+margin is returned
// unchanged; otherwise the middle is replaced by a marker stating how many
// characters were omitted and the original length.
//
// Total function: empty input returns empty output, never panics.
func CompressLarge(text string, head, tail int) string {
	if text == "" {
		return ""
	}
	if head < 0 {
		head = 0
	}
	if tail < 0 {
		tail = 0
	}

	runes := []rune(text)
	if len(runes) <= head+tail+compressMargin {
		return text
	}

	omitted := len(runes) - head - tail
	marker := fmt.Sprintf("\n\n[... %d characters omitted; original length %d characters ...]\n\n",
		omitted, len(runes))

	return string(runes[:head]) + marker + string(runes[len(runes)-tail:])
}

// Snippet truncates text to at most max characters plus an ellipsis
// marker. No tail is kept: excerpts only let the model decide whether to
// pull in more detail via citation, they never stand alone as evidence.
//
// Total function: empty input returns empty output, never panics.
func Snippet(text string, max int) string {
	if text == "" || max <= 0 {
		return ""
	}

	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + ellipsis
}
