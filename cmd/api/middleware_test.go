package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abhishek622/portfolio/internal/auth"
	"github.com/abhishek622/portfolio/internal/config"
	"github.com/abhishek622/portfolio/internal/handler"
	"github.com/abhishek622/portfolio/internal/ratelimit"
	"github.com/abhishek622/portfolio/internal/repository"
	"github.com/abhishek622/portfolio/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testSecret = "0123456789abcdef0123456789abcdef"

type brokenLimiter struct{}

func (brokenLimiter) Allow(context.Context, string, ratelimit.Policy) (ratelimit.Result, error) {
	return ratelimit.Result{}, errors.New("redis: connection refused")
}

func newTestApp(t *testing.T) *application {
	t.Helper()
	cfg := &config.Config{
		Env:  "test",
		Port: 5000,
		Limiter: config.RateLimiterConfig{
			Enabled:       true,
			PublicLimit:   2,
			PublicWindow:  time.Minute,
			AdminLimit:    10,
			AdminWindow:   time.Minute,
			ContactLimit:  1,
			ContactWindow: time.Hour,
		},
		CORS: config.CORSConfig{TrustedOrigins: []string{"http://localhost:5173"}},
	}

	hash, err := auth.HashPassword("hunter22", 4)
	require.NoError(t, err)
	admin := auth.NewAdminAuthenticator("admin", hash, auth.NewJWTMaker(testSecret, "portfolio-api"), time.Hour)

	repo := repository.NewMemoryRepository()
	contacts := service.NewContactService(repo.Contact, nil, zap.NewNop())
	limiter := ratelimit.NewMemoryStore(0)
	t.Cleanup(limiter.Close)

	return &application{
		Config:     cfg,
		Logger:     zap.NewNop(),
		Repository: repo,
		Limiter:    limiter,
		Contacts:   contacts,
		Handler: &handler.Handler{
			Logger:     zap.NewNop(),
			Interviews: service.NewInterviewService(repo.Interview),
			Contacts:   contacts,
			Auth:       admin,
			Checks:     []handler.HealthCheck{repo},
		},
	}
}

func send(h http.Handler, method, path string, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRateLimitPublicReads(t *testing.T) {
	r := newTestApp(t).routes()

	for i, remaining := range []string{"1", "0"} {
		w := send(r, http.MethodGet, "/api/interviews", "", nil)
		require.Equal(t, http.StatusOK, w.Code, "request %d", i+1)
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, remaining, w.Header().Get("X-RateLimit-Remaining"))
	}

	w := send(r, http.MethodGet, "/api/interviews/companies", "", nil)
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Too many requests, please try again later.", body["error"])

	w = send(r, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimitContactIsSeparate(t *testing.T) {
	r := newTestApp(t).routes()
	body := `{"name":"Ada","email":"ada@example.com","subject":"Hello there","message":"Loved the write-ups!"}`

	w := send(r, http.MethodPost, "/api/contact", body, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = send(r, http.MethodPost, "/api/contact", body, nil)
	require.Equal(t, http.StatusTooManyRequests, w.Code)

	w = send(r, http.MethodGet, "/api/interviews", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimitFailsOpen(t *testing.T) {
	app := newTestApp(t)
	app.Limiter = brokenLimiter{}
	core, logs := observer.New(zapcore.WarnLevel)
	app.Logger = zap.New(core)
	r := app.routes()

	for range 5 {
		w := send(r, http.MethodGet, "/api/interviews", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
	}
	assert.Equal(t, 1, logs.FilterMessage("rate limiter unavailable").Len())
}

func TestRateLimitDisabled(t *testing.T) {
	app := newTestApp(t)
	app.Config.Limiter.Enabled = false
	r := app.routes()

	for range 5 {
		w := send(r, http.MethodGet, "/api/interviews", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
	}
}

func TestAdminAuthMiddleware(t *testing.T) {
	app := newTestApp(t)
	r := app.routes()

	w := send(r, http.MethodGet, "/api/contact", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = send(r, http.MethodDelete, "/api/interviews/1", "", map[string]string{"Authorization": "Token abc"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = send(r, http.MethodPost, "/api/admin/login", `{"username":"admin","password":"hunter22"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))

	bearer := map[string]string{"Authorization": "Bearer " + login.Token}
	w = send(r, http.MethodGet, "/api/admin/me", "", bearer)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"admin"`)

	w = send(r, http.MethodGet, "/api/contact", "", bearer)
	assert.Equal(t, http.StatusOK, w.Code)

	forged, _, err := auth.NewJWTMaker(strings.Repeat("x", 32), "portfolio-api").CreateToken("admin", time.Hour)
	require.NoError(t, err)
	w = send(r, http.MethodGet, "/api/contact", "", map[string]string{"Authorization": "Bearer " + forged})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	app.Handler.Auth = nil
	w = send(app.routes(), http.MethodGet, "/api/contact", "", bearer)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequestID(t *testing.T) {
	r := newTestApp(t).routes()

	w := send(r, http.MethodGet, "/api/health", "", map[string]string{"X-Request-ID": "abc-123"})
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))

	w = send(r, http.MethodGet, "/api/health", "", nil)
	_, err := uuid.Parse(w.Header().Get("X-Request-ID"))
	assert.NoError(t, err)
}

func TestCORS(t *testing.T) {
	r := newTestApp(t).routes()

	w := send(r, http.MethodGet, "/api/health", "", map[string]string{"Origin": "http://localhost:5173"})
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	w = send(r, http.MethodGet, "/api/health", "", map[string]string{"Origin": "https://evil.example"})
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	w = send(r, http.MethodOptions, "/api/interviews", "", map[string]string{"Origin": "http://localhost:5173"})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PATCH")
}

func TestSPAFallback(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<div id=root></div>"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "assets"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "assets", "app.js"), []byte("console.log(1)"), 0o644))

	app := newTestApp(t)
	app.Config.StaticDir = dir
	r := app.routes()

	w := send(r, http.MethodGet, "/assets/app.js", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "console.log(1)", w.Body.String())

	for _, p := range []string{"/", "/interviews/42", "/assets"} {
		w = send(r, http.MethodGet, p, "", nil)
		require.Equal(t, http.StatusOK, w.Code, p)
		assert.Equal(t, "<div id=root></div>", w.Body.String(), p)
	}

	w = send(r, http.MethodGet, "/api/unknown", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Route not found")
}

func TestNoRouteWithoutStaticDir(t *testing.T) {
	r := newTestApp(t).routes()
	w := send(r, http.MethodGet, "/about", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
