package middleware

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/onemedi/onemedi/internal/platform/auth"
)

func testHandler(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func TestRequestID_GeneratesNew(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := RequestID()
	if err := mw(testHandler)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rec.Header().Get(RequestIDHeader) == "" {
		t.Error("expected a request id to be generated")
	}
}

func TestRequestID_PreservesExisting(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "my-custom-id")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := RequestID()
	if err := mw(testHandler)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := rec.Header().Get(RequestIDHeader); got != "my-custom-id" {
		t.Errorf("expected preserved request id, got %s", got)
	}
	if rid, _ := c.Get("request_id").(string); rid != "my-custom-id" {
		t.Errorf("expected request_id on context, got %s", rid)
	}
}

func TestRecovery_ConvertsPanicToError(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	logger := zerolog.New(os.Stderr).Level(zerolog.Disabled)
	mw := Recovery(logger)

	err := mw(func(echo.Context) error { panic("boom") })(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %T", err)
	}
	if httpErr.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", httpErr.Code)
	}
}

func TestRateLimit_AllowsWithinBurst(t *testing.T) {
	e := echo.New()
	mw := RateLimit(RateLimitConfig{RequestsPerSecond: 1, BurstSize: 2})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if err := mw(testHandler)(c); err != nil {
			t.Fatalf("request %d: unexpected error: %v", i, err)
		}
	}
}

func TestRateLimit_RejectsOverBurst(t *testing.T) {
	e := echo.New()
	mw := RateLimit(RateLimitConfig{RequestsPerSecond: 0.001, BurstSize: 1})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := mw(testHandler)(c); err != nil {
		t.Fatalf("first request should pass: %v", err)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	err := mw(testHandler)(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %v", err)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header on rejected request")
	}
}

func userContext(e *echo.Echo, userID string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if userID != "" {
		ctx := context.WithValue(req.Context(), auth.UserIDKey, userID)
		req = req.WithContext(ctx)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestRateLimit_SeparateBucketsPerUser(t *testing.T) {
	e := echo.New()
	mw := RateLimit(RateLimitConfig{RequestsPerSecond: 0.001, BurstSize: 1})

	c, _ := userContext(e, "u1")
	if err := mw(testHandler)(c); err != nil {
		t.Fatalf("u1 first request should pass: %v", err)
	}
	c, _ = userContext(e, "u1")
	if err := mw(testHandler)(c); err == nil {
		t.Fatal("u1 second request should be limited")
	}

	// A different user behind the same IP is unaffected.
	c, _ = userContext(e, "u2")
	if err := mw(testHandler)(c); err != nil {
		t.Fatalf("u2 should have its own bucket: %v", err)
	}
}

func TestRateLimit_RemainingHeader(t *testing.T) {
	e := echo.New()
	mw := RateLimit(RateLimitConfig{RequestsPerSecond: 1, BurstSize: 5})

	c, rec := userContext(e, "u1")
	if err := mw(testHandler)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := rec.Header().Get("X-RateLimit-Remaining"); got != "4" {
		t.Errorf("remaining = %q, want 4", got)
	}
}

func TestRateLimiterStore_PrunesIdleBuckets(t *testing.T) {
	store := newRateLimiterStore(RateLimitConfig{RequestsPerSecond: 1, BurstSize: 1})
	stale := store.getBucket("ip:1.2.3.4")
	fresh := store.getBucket("ip:5.6.7.8")

	stale.mu.Lock()
	stale.lastSeen = time.Now().Add(-2 * bucketIdleTTL)
	stale.mu.Unlock()

	store.mu.Lock()
	store.pruneLocked(time.Now())
	store.mu.Unlock()

	store.mu.RLock()
	_, staleKept := store.buckets["ip:1.2.3.4"]
	kept, freshKept := store.buckets["ip:5.6.7.8"]
	store.mu.RUnlock()

	if staleKept {
		t.Error("idle bucket should have been pruned")
	}
	if !freshKept || kept != fresh {
		t.Error("active bucket should survive pruning")
	}
}

func TestLogger_LogsRequestFields(t *testing.T) {
	e := echo.New()
	var buf bytes.Buffer
	mw := Logger(zerolog.New(&buf))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/medicines", nil)
	req = req.WithContext(context.WithValue(req.Context(), auth.UserIDKey, "u1"))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("request_id", "rid-1")

	if err := mw(testHandler)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	line := buf.String()
	for _, want := range []string{
		`"method":"GET"`,
		`"path":"/api/v1/medicines"`,
		`"status":200`,
		`"request_id":"rid-1"`,
		`"user_id":"u1"`,
	} {
		if !strings.Contains(line, want) {
			t.Errorf("log line missing %s: %s", want, line)
		}
	}
}

func TestLogger_UsesHTTPErrorStatus(t *testing.T) {
	e := echo.New()
	var buf bytes.Buffer
	mw := Logger(zerolog.New(&buf))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/medicines/x", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := func(echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	}
	if err := mw(handler)(c); err == nil {
		t.Fatal("expected the handler error to propagate")
	}

	line := buf.String()
	if !strings.Contains(line, `"status":404`) {
		t.Errorf("expected logged status 404: %s", line)
	}
	if !strings.Contains(line, `"level":"warn"`) {
		t.Errorf("expected warn level for a 4xx: %s", line)
	}
}

func TestLogger_SkipsHealthEndpoint(t *testing.T) {
	e := echo.New()
	var buf bytes.Buffer
	mw := Logger(zerolog.New(&buf))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := mw(testHandler)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("health check should not be logged: %s", buf.String())
	}
}
