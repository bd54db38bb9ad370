package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"parcel-tracker/internal/core/config"
	"parcel-tracker/internal/core/logger"
	"parcel-tracker/internal/core/metrics"
	"parcel-tracker/internal/core/ratelimit"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingLimiter is a Limiter whose store is always down.
type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (bool, time.Duration, error) {
	return false, 0, errors.New("connection refused")
}

func (failingLimiter) Ping(context.Context) error { return errors.New("connection refused") }

func (failingLimiter) Close() error { return nil }

func newTestServer(t *testing.T, opts ...Option) *Server {
	t.Helper()
	logger.Init("development", "error")
	srv := New(&config.AppConfig{ServerPort: 8080, ServiceName: "parcel-tracker"}, opts...)
	srv.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.SendString("pong")
	})
	return srv
}

// TestNew verifies that New creates a Server with the correct configuration.
func TestNew(t *testing.T) {
	cfg := &config.AppConfig{
		ServerPort: 8080,
	}

	logger.Init("development", "debug")
	srv := New(cfg)

	require.NotNil(t, srv)
	assert.NotNil(t, srv.App)
	assert.Equal(t, cfg, srv.cfg)
	assert.Nil(t, srv.limiter)
}

// TestServer_Run_Error verifies that Run returns an error when binding fails (e.g., privileged port).
func TestServer_Run_Error(t *testing.T) {
	// Privileged port 1 should fail
	cfg := &config.AppConfig{
		ServerPort: 1,
	}
	logger.Init("development", "error")

	srv := New(cfg)

	errCh := make(chan error)
	go func() {
		errCh <- srv.Run()
	}()

	select {
	case err := <-errCh:
		assert.Error(t, err)
	case <-time.After(1 * time.Second):
		srv.Shutdown(time.Second)
		t.Log("Server unexpectedly started or timed out on Error test")
	}
}

// TestServer_RayID verifies every response carries a request id.
func TestServer_RayID(t *testing.T) {
	srv := newTestServer(t)

	resp, err := srv.App.Test(httptest.NewRequest(fiber.MethodGet, "/api/ping", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, resp.Header.Get(RayIDHeader), 36)

	req := httptest.NewRequest(fiber.MethodGet, "/api/ping", nil)
	req.Header.Set(RayIDHeader, "caller-supplied")
	resp, err = srv.App.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "caller-supplied", resp.Header.Get(RayIDHeader))
}

// TestServer_CORSPreflight verifies the CORS middleware answers browser preflights.
func TestServer_CORSPreflight(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(fiber.MethodOptions, "/api/ping", nil)
	req.Header.Set(fiber.HeaderOrigin, "https://shop.example")
	req.Header.Set(fiber.HeaderAccessControlRequestMethod, fiber.MethodPost)
	resp, err := srv.App.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))
	assert.Contains(t, resp.Header.Get(fiber.HeaderAccessControlAllowMethods), "POST")
}

// TestServer_Health verifies the health endpoint with and without a limiter store.
func TestServer_Health(t *testing.T) {
	srv := newTestServer(t)
	resp, err := srv.App.Test(httptest.NewRequest(fiber.MethodGet, "/healthz", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])

	srv = newTestServer(t, WithRateLimiter(failingLimiter{}))
	resp, err = srv.App.Test(httptest.NewRequest(fiber.MethodGet, "/healthz", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}

// TestServer_Metrics verifies the Prometheus endpoint exposes request counters.
func TestServer_Metrics(t *testing.T) {
	metrics.Init()
	srv := newTestServer(t)

	_, err := srv.App.Test(httptest.NewRequest(fiber.MethodGet, "/api/ping", nil))
	require.NoError(t, err)

	resp, err := srv.App.Test(httptest.NewRequest(fiber.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `http_requests_total{method="GET",route="/api/ping",status="200"}`)
}

// TestServer_RateLimit verifies clients over budget get 429 with Retry-After.
func TestServer_RateLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	limiter, err := ratelimit.NewRedisLimiter("redis://"+mr.Addr(), 1, time.Minute)
	require.NoError(t, err)
	defer limiter.Close()

	srv := newTestServer(t, WithRateLimiter(limiter))

	resp, err := srv.App.Test(httptest.NewRequest(fiber.MethodGet, "/api/ping", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = srv.App.Test(httptest.NewRequest(fiber.MethodGet, "/api/ping", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderRetryAfter))

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "rate limit exceeded", body["error"])
	assert.NotEmpty(t, body["ray_id"])

	// Routes outside /api are never throttled.
	resp, err = srv.App.Test(httptest.NewRequest(fiber.MethodGet, "/healthz", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

// TestServer_RateLimit_FailOpen verifies requests pass when the store is down.
func TestServer_RateLimit_FailOpen(t *testing.T) {
	srv := newTestServer(t, WithRateLimiter(failingLimiter{}))

	resp, err := srv.App.Test(httptest.NewRequest(fiber.MethodGet, "/api/ping", nil))

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
