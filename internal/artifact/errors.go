package artifact

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when the requested artifact does not exist.
	ErrNotFound = errors.New("artifact not found")

	// ErrStoreUnavailable is returned on transport or auth failure against
	// the backing store. Callers distinguish it from ErrNotFound: an empty
	// result set is not an error.
	ErrStoreUnavailable = errors.New("artifact store unavailable")

	// ErrInvalidProjectID is returned when the tenant identifier is not a
	// syntactically valid UUID.
	ErrInvalidProjectID = errors.New("invalid project id")
)

// ParseProjectID validates and parses a tenant identifier.
// Returns ErrInvalidProjectID if the value is not UUID-shaped.
func ParseProjectID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q", ErrInvalidProjectID, s)
	}
	return id, nil
}
