package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dhima/rural-vitals/internal/api/middleware"
	"github.com/dhima/rural-vitals/internal/events"
	"github.com/dhima/rural-vitals/internal/logging"
	"github.com/dhima/rural-vitals/internal/status"
	"github.com/dhima/rural-vitals/internal/testutil/fakes"
	"github.com/dhima/rural-vitals/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(origins ...string) *Server {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	logger := logging.NewNoOpLogger()
	store := fakes.NewFakeEventStore()
	cfg := config.App{Environment: "test", APIPort: "0", CORSOrigins: origins}
	return NewServer(cfg, Dependencies{
		Events: events.NewService(store, nil, logger),
		Status: status.NewService(store, nil, logger, status.Config{}),
	}, logger)
}

func TestRouter_WhenRoutesRequested_ThenServed(t *testing.T) {
	srv := newTestServer()

	for _, target := range []string{"/health", "/metrics", "/api/v1/events", "/api/v1/residents", "/api/v1/regions"} {
		t.Run(target, func(t *testing.T) {
			w := httptest.NewRecorder()
			srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))

			assert.Equal(t, http.StatusOK, w.Code)
			assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
		})
	}
}

func TestRouter_WhenUnknownRoute_ThenNotFound(t *testing.T) {
	// Arrange
	srv := newTestServer()
	w := httptest.NewRecorder()

	// Act
	srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/devices", nil))

	// Assert
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_WhenPreflightFromAllowedOrigin_ThenCORSHeaders(t *testing.T) {
	// Arrange
	srv := newTestServer("http://dashboard.local")
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/events", nil)
	req.Header.Set("Origin", "http://dashboard.local")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()

	// Act
	srv.Router().ServeHTTP(w, req)

	// Assert
	assert.Equal(t, "http://dashboard.local", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestAllowsAnyOrigin_WhenWildcardPresent_ThenTrue(t *testing.T) {
	assert.True(t, allowsAnyOrigin([]string{"*"}))
	assert.False(t, allowsAnyOrigin([]string{"http://a", "http://b"}))
	assert.False(t, allowsAnyOrigin(nil))
}

func TestServe_WhenContextCancelled_ThenShutsDownCleanly(t *testing.T) {
	// Arrange
	srv := newTestServer()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	// Act
	go func() { done <- srv.Serve(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	// Assert
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
