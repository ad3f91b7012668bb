package artifact

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeContextEligible(t *testing.T) {
	t.Parallel()

	tests := []struct {
		typ  Type
		want bool
	}{
		{TypeMeetingAnalysis, true},
		{TypeDocumentation, true},
		{TypeReleaseNotes, true},
		{TypePrioritization, true},
		{TypeReview, false},
		{Type("unknown_module"), false},
		{Type(""), false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.typ.ContextEligible(), "type %q", tt.typ)
	}
}

// The eligible set and the per-type predicate must agree: reviews can
// never re-enter the context window through either path.
func TestContextEligibleTypes_ConsistentWithPredicate(t *testing.T) {
	t.Parallel()

	eligible := ContextEligibleTypes()
	require.NotEmpty(t, eligible)

	for _, typ := range eligible {
		assert.True(t, typ.ContextEligible(), "type %q in eligible set but predicate disagrees", typ)
		assert.NotEqual(t, TypeReview, typ)
	}
}

func TestParseProjectID(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	got, err := ParseProjectID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, got)

	for _, bad := range []string{"", "not-a-uuid", "1234", "g2345678-1234-1234-1234-123456789012"} {
		_, err := ParseProjectID(bad)
		assert.ErrorIs(t, err, ErrInvalidProjectID, "input %q", bad)
	}
}
