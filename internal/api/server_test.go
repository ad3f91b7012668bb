package api

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prodsuite/advisor/internal/testutil"
)

func TestNewServer_RequiresPipeline(t *testing.T) {
	t.Parallel()

	_, err := NewServer(ServerConfig{Logger: testutil.DiscardLogger()})
	assert.Error(t, err)
}

func TestHealth(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &stubReviewer{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestReady_WithoutPool(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &stubReviewer{})

	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"database":"disabled"`)
}

func TestSecurityHeadersOnAPIRoutes(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &stubReviewer{err: context.Canceled})

	w := postReview(t, srv, `{}`)

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestUnknownRouteReturns404(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &stubReviewer{})

	req := httptest.NewRequest(http.MethodGet, "/api/nope", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRateLimit_ExhaustedBurstRejects(t *testing.T) {
	t.Parallel()

	srv, err := NewServer(ServerConfig{
		Logger:    testutil.DiscardLogger(),
		Pipeline:  &stubReviewer{},
		RateBurst: 2,
	})
	require.NoError(t, err)

	var last int
	for range 5 {
		req := httptest.NewRequest(http.MethodPost, "/api/review", nil)
		req.RemoteAddr = "203.0.113.7:9999"
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, req)
		last = w.Code
	}

	assert.Equal(t, http.StatusTooManyRequests, last)
}

func TestServer_Run_GracefulShutdown(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &stubReviewer{})

	// Keep-alive connections from the probe client would otherwise
	// outlive the test and trip the package leak check.
	t.Cleanup(http.DefaultClient.CloseIdleConnections)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx, addr, testutil.DiscardLogger())
	}()

	// Wait until the server answers the health probe.
	require.Eventually(t, func() bool {
		resp, err := http.Get(fmt.Sprintf("http://%s/health", addr))
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not shut down in time")
	}
}
