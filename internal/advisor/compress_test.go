package advisor_test

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prodsuite/advisor/internal/advisor"
)

func TestCompressLarge_IdentityBelowLimit(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", advisor.CompressLarge("", 6000, 3000))

	short := strings.Repeat("a", 100)
	assert.Equal(t, short, advisor.CompressLarge(short, 6000, 3000))

	// At head+tail exactly: still identity (within the margin).
	exact := strings.Repeat("b", 9000)
	assert.Equal(t, exact, advisor.CompressLarge(exact, 6000, 3000))
}

func TestCompressLarge_PreservesHeadAndTail(t *testing.T) {
	t.Parallel()

	head := strings.Repeat("H", 6000)
	middle := strings.Repeat("M", 11000)
	tail := strings.Repeat("T", 3000)
	text := head + middle + tail
	require.Len(t, text, 20000)

	out := advisor.CompressLarge(text, 6000, 3000)

	assert.True(t, strings.HasPrefix(out, head), "compressed text must begin with the first 6000 characters")
	assert.True(t, strings.HasSuffix(out, tail), "compressed text must end with the last 3000 characters")
	assert.Contains(t, out, "20000", "marker must state the original length")
	assert.Contains(t, out, strconv.Itoa(20000-6000-3000), "marker must state the omitted count")
	assert.Less(t, len(out), len(text))
}

func TestCompressLarge_OutputLengthIsHeadPlusMarkerPlusTail(t *testing.T) {
	t.Parallel()

	text := strings.Repeat("x", 20000)
	out := advisor.CompressLarge(text, 6000, 3000)

	markerLen := len(out) - 6000 - 3000
	assert.Positive(t, markerLen)
	marker := out[6000 : 6000+markerLen]
	assert.Contains(t, marker, "omitted")
}

func TestCompressLarge_MultibyteSafe(t *testing.T) {
	t.Parallel()

	// Rune counts, not byte counts: no mid-character splits.
	text := strings.Repeat("界", 2000)
	out := advisor.CompressLarge(text, 500, 200)

	assert.True(t, strings.HasPrefix(out, strings.Repeat("界", 500)))
	assert.True(t, strings.HasSuffix(out, strings.Repeat("界", 200)))
	assert.Contains(t, out, "2000")
}

func TestSnippet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		max  int
		want string
	}{
		{"empty", "", 10, ""},
		{"zero max", "hello", 0, ""},
		{"under limit", "hello", 10, "hello"},
		{"at limit", "hello", 5, "hello"},
		{"over limit", "hello world", 5, "hello..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, advisor.Snippet(tt.text, tt.max))
		})
	}
}

func TestSnippet_NeverExceedsMaxPlusEllipsis(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("z", 10000)
	for _, max := range []int{1, 10, 450, 9999} {
		out := advisor.Snippet(long, max)
		assert.LessOrEqual(t, len([]rune(out)), max+len("..."), "max=%d", max)
	}
}
