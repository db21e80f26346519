package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/deppfellow/muslimah-travel/internal/config"
	"github.com/deppfellow/muslimah-travel/internal/errs"
	"github.com/deppfellow/muslimah-travel/internal/lib/metrics"
	"github.com/deppfellow/muslimah-travel/internal/lib/token"
	"github.com/deppfellow/muslimah-travel/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func testServer() *server.Server {
	logger := zerolog.Nop()
	cfg := &config.Config{
		Primary: config.Primary{Env: "test"},
		Auth: config.AuthConfig{
			JWTSecret:      testSecret,
			Issuer:         "muslimah-travel",
			AccessTokenTTL: time.Hour,
		},
		RateLimit: config.DefaultRateLimitConfig(),
	}
	return &server.Server{Config: cfg, Logger: &logger, Metrics: metrics.New()}
}

func newEcho(s *server.Server) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = NewGlobalMiddlewares(s).GlobalErrorHandler
	return e
}

func ok(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"user_id": GetUserID(c), "role": string(GetUserRole(c))})
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errs.HTTPError {
	t.Helper()
	var body errs.HTTPError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRequireAuth(t *testing.T) {
	s := testServer()
	tokens := token.NewManager(s.Config.Auth)
	auth := NewAuthMiddleware(s, tokens)

	e := newEcho(s)
	e.GET("/me", ok, auth.RequireAuth)
	e.GET("/admin", ok, auth.RequireAuth, auth.RequireAdmin)

	userToken, err := tokens.Issue("user-1", "siti@example.com", "user")
	require.NoError(t, err)
	adminToken, err := tokens.Issue("admin-1", "admin@example.com", "super_admin")
	require.NoError(t, err)

	tests := []struct {
		name    string
		path    string
		header  string
		status  int
		message string
	}{
		{"missing header", "/me", "", http.StatusUnauthorized, "Missing bearer token"},
		{"wrong scheme", "/me", "Basic " + userToken, http.StatusUnauthorized, "Missing bearer token"},
		{"garbage token", "/me", "Bearer not-a-jwt", http.StatusUnauthorized, "Invalid or expired token"},
		{"valid token", "/me", "Bearer " + userToken, http.StatusOK, ""},
		{"lower-case scheme", "/me", "bearer " + userToken, http.StatusOK, ""},
		{"user on admin route", "/admin", "Bearer " + userToken, http.StatusForbidden, "Admin access required"},
		{"super admin on admin route", "/admin", "Bearer " + adminToken, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.message != "" {
				assert.Equal(t, tt.message, decodeError(t, rec).Message)
			}
		})
	}
}

func TestRequireAuthStoresIdentity(t *testing.T) {
	s := testServer()
	tokens := token.NewManager(s.Config.Auth)
	auth := NewAuthMiddleware(s, tokens)

	e := newEcho(s)
	e.GET("/me", ok, auth.RequireAuth)

	raw, err := tokens.Issue("user-42", "aisyah@example.com", "user")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+raw)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "user-42", body["user_id"])
	assert.Equal(t, "user", body["role"])
}

type fakeCounter struct {
	mu   sync.Mutex
	hits map[string]int64
	err  error
}

func (f *fakeCounter) Hit(_ context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, 0, f.err
	}
	if f.hits == nil {
		f.hits = map[string]int64{}
	}
	f.hits[key]++
	return f.hits[key], window - 1500*time.Millisecond, nil
}

func TestRateLimitRejectsOverLimit(t *testing.T) {
	s := testServer()
	s.Config.RateLimit.Auth = config.RateLimitRule{Window: time.Minute, Max: 2}

	counter := &fakeCounter{}
	limiter := &RateLimitMiddleware{server: s, counter: counter}

	e := newEcho(s)
	e.POST("/user/login", ok, limiter.Auth())

	do := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/user/login", nil)
		req.RemoteAddr = ip + ":5000"
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	first := do("10.0.0.1")
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "2", first.Header().Get(HeaderRateLimitLimit))
	assert.Equal(t, "1", first.Header().Get(HeaderRateLimitRemaining))

	assert.Equal(t, http.StatusOK, do("10.0.0.1").Code)

	blocked := do("10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.Equal(t, "59", blocked.Header().Get(echo.HeaderRetryAfter))
	assert.Equal(t, "0", blocked.Header().Get(HeaderRateLimitRemaining))
	body := decodeError(t, blocked)
	assert.Equal(t, "RATE_LIMIT_EXCEEDED", body.Code)
	require.NotNil(t, body.Action)
	assert.Equal(t, errs.ActionTypeRetry, body.Action.Type)

	assert.Equal(t, http.StatusOK, do("10.0.0.2").Code, "other clients keep their own window")
	assert.Contains(t, counter.hits, "ratelimit:auth:10.0.0.1")

	assert.Equal(t, float64(1), testutil.ToFloat64(s.Metrics.RateLimitHits.WithLabelValues("auth")))
}

func TestRateLimitFailsOpen(t *testing.T) {
	s := testServer()
	limiter := &RateLimitMiddleware{server: s, counter: &fakeCounter{err: errors.New("connection refused")}}

	e := newEcho(s)
	e.GET("/packages", ok, limiter.Public())

	for range 3 {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/packages", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRateLimitDisabled(t *testing.T) {
	s := testServer()
	s.Config.RateLimit.Enabled = false
	s.Config.RateLimit.Search = config.RateLimitRule{Window: time.Minute, Max: 1}
	counter := &fakeCounter{}
	limiter := &RateLimitMiddleware{server: s, counter: counter}

	e := newEcho(s)
	e.GET("/destinations/search", ok, limiter.Search())

	for range 3 {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/destinations/search", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
	assert.Empty(t, counter.hits)
}

func TestRetrySeconds(t *testing.T) {
	assert.Equal(t, 1, retrySeconds(0))
	assert.Equal(t, 1, retrySeconds(200*time.Millisecond))
	assert.Equal(t, 900, retrySeconds(15*time.Minute))
}

func TestRequestID(t *testing.T) {
	e := echo.New()
	e.Use(RequestID())
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, GetRequestID(c))
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	e.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Body.String())
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, strings.Repeat("x", maxRequestIDLength+1))
	e.ServeHTTP(rec, req)
	assert.Len(t, rec.Body.String(), 36)
}

func TestGlobalErrorHandlerShapes(t *testing.T) {
	s := testServer()
	e := newEcho(s)
	e.GET("/boom", func(c echo.Context) error { return errors.New("db exploded") })
	e.GET("/missing", func(c echo.Context) error {
		return errs.NewNotFoundError("Package not found", true, errs.Code("PACKAGE_NOT_FOUND"))
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal Server Error", decodeError(t, rec).Message)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "PACKAGE_NOT_FOUND", decodeError(t, rec).Code)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Route not found", decodeError(t, rec).Message)
}

func TestGlobalErrorHandlerBodyTooLarge(t *testing.T) {
	s := testServer()
	e := newEcho(s)
	e.POST("/reviews", ok, middleware.BodyLimit("10B"))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/reviews", strings.NewReader(`{"comment": "terlalu panjang"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "PAYLOAD_TOO_LARGE", body.Code)
	assert.Equal(t, http.StatusRequestEntityTooLarge, body.Status)
}

func TestMetricsObserve(t *testing.T) {
	s := testServer()
	e := newEcho(s)
	e.Use(NewMetricsMiddleware(s.Metrics).Observe())
	e.GET("/packages/:id", func(c echo.Context) error {
		return errs.NewNotFoundError("Package not found", true, nil)
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/packages/abc", nil))

	assert.Equal(t, float64(1), testutil.ToFloat64(s.Metrics.RequestsTotal.WithLabelValues(http.MethodGet, "/packages/:id", "404")))
}
