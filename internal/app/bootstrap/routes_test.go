package bootstrap

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/bulletin/internal/app/system/auth"
	"github.com/dalemusser/waffle/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testJWTSecret = "test-secret-0123456789abcdef0123456789"

func buildTestHandler(t *testing.T) http.Handler {
	t.Helper()
	cfg := validConfig()
	cfg.JWTSecret = testJWTSecret
	cfg.MetricsEnabled = true
	core := &config.CoreConfig{Env: "dev"}

	deps, err := ConnectDB(context.Background(), core, cfg, zap.NewNop())
	require.NoError(t, err)
	require.Nil(t, deps.MongoClient)

	h, err := BuildHandler(core, cfg, deps, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = Shutdown(context.Background(), core, cfg, deps, zap.NewNop())
	})
	return h
}

func bearer(t *testing.T) string {
	t.Helper()
	tok, err := auth.NewJWTVerifier(testJWTSecret, "", time.Hour).Issue(auth.Caller{ID: "editor-1", Role: "admin"})
	require.NoError(t, err)
	return "Bearer " + tok
}

func TestBuildHandler_AnnouncementLifecycle(t *testing.T) {
	h := buildTestHandler(t)

	// Unauthenticated create is rejected.
	req := httptest.NewRequest(http.MethodPost, "/announcements/",
		strings.NewReader(`{"title":"Outage","message":"DB down","expiration":"2099-01-01T00:00:00Z"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// Authenticated create.
	req = httptest.NewRequest(http.MethodPost, "/announcements/",
		strings.NewReader(`{"title":"Outage","message":"DB down","expiration":"2099-01-01T00:00:00Z"}`))
	req.Header.Set("Authorization", bearer(t))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)

	// Public list shows it.
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/announcements/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), created.ID)

	// Delete, then list is empty.
	req = httptest.NewRequest(http.MethodDelete, "/announcements/"+created.ID, nil)
	req.Header.Set("Authorization", bearer(t))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/announcements/", nil))
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestBuildHandler_HealthAndMetrics(t *testing.T) {
	h := buildTestHandler(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}

func TestBuildHandler_RejectsForgedToken(t *testing.T) {
	h := buildTestHandler(t)

	tok, err := auth.NewJWTVerifier("another-secret-0123456789abcdef01234", "", time.Hour).
		Issue(auth.Caller{ID: "intruder"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodDelete, "/announcements/anything", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestShutdown_StopsWriteLimiter(t *testing.T) {
	cfg := validConfig()
	core := &config.CoreConfig{Env: "dev"}
	deps, err := ConnectDB(context.Background(), core, cfg, zap.NewNop())
	require.NoError(t, err)

	_, err = BuildHandler(core, cfg, deps, zap.NewNop())
	require.NoError(t, err)

	background.mu.Lock()
	require.Len(t, background.limiters, 1)
	limiter := background.limiters[0]
	background.mu.Unlock()

	require.NoError(t, Shutdown(context.Background(), core, cfg, deps, zap.NewNop()))

	select {
	case <-limiter.Done():
	case <-time.After(time.Second):
		t.Fatal("write limiter still running after Shutdown")
	}
	background.mu.Lock()
	assert.Empty(t, background.limiters)
	background.mu.Unlock()
}

func TestBuildHandler_ProdTokenOnly(t *testing.T) {
	cfg := validConfig()
	cfg.JWTSecret = testJWTSecret
	core := &config.CoreConfig{Env: "prod"}
	require.NoError(t, ValidateConfig(core, cfg, zap.NewNop()))

	deps, err := ConnectDB(context.Background(), core, cfg, zap.NewNop())
	require.NoError(t, err)
	h, err := BuildHandler(core, cfg, deps, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = Shutdown(context.Background(), core, cfg, deps, zap.NewNop()) })

	req := httptest.NewRequest(http.MethodPost, "/announcements/",
		strings.NewReader(`{"title":"t","message":"m","expiration":"2099-01-01T00:00:00Z"}`))
	req.Header.Set("Authorization", bearer(t))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)
}
