package api

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain verifies no test in this package leaks goroutines. The server
// tests spawn real listeners and shutdown goroutines; a leak here means a
// Run or middleware path failed to wind down.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
