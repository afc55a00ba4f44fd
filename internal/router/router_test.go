package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hackpsu/admin-console/internal/config"
	"github.com/hackpsu/admin-console/internal/handler"
	"github.com/hackpsu/admin-console/internal/service"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, checks ...handler.HealthCheck) (*gin.Engine, *service.AuthService) {
	t.Helper()
	auth := service.NewAuthService("router-secret")
	cfg := &config.Config{GinMode: gin.TestMode, MutationRateLimit: 10}

	// Only the shell and system handlers are exercised; the rest still
	// have to register without route conflicts.
	handlers := &Handlers{
		Admin:  handler.NewAdminHandler(nil),
		System: handler.NewSystemHandler(checks, handler.SystemStats{}, zerolog.Nop()),
	}
	return SetupRouter(t.Context(), auth, handlers, cfg, zerolog.Nop()), auth
}

func do(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSetupRouter_HealthReportsDependencies(t *testing.T) {
	r, _ := newTestRouter(t,
		handler.HealthCheck{Name: "redis", Run: func(context.Context) error { return nil }},
		handler.HealthCheck{Name: "postgres", Optional: true, Run: func(context.Context) error { return assert.AnError }},
	)

	w := do(r, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"degraded"`)
	assert.Contains(t, w.Body.String(), `"postgres":"down"`)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestSetupRouter_HealthDownWhenRequiredCheckFails(t *testing.T) {
	r, _ := newTestRouter(t,
		handler.HealthCheck{Name: "redis", Run: func(context.Context) error { return assert.AnError }},
	)

	w := do(r, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"down"`)
}

func TestSetupRouter_MetricsEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.Header.Set("Accept-Encoding", "br")
	w := do(r, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Content-Encoding"))
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestSetupRouter_AdminRoutesRequireToken(t *testing.T) {
	r, _ := newTestRouter(t)

	for _, path := range []string{"/api/v1/admin/me", "/api/v1/admin/hackers", "/ws/v1/admin/invalidations"} {
		w := do(r, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestSetupRouter_ProfileWithToken(t *testing.T) {
	r, auth := newTestRouter(t)
	token, err := auth.IssueToken("grace@hackpsu.org", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := do(r, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	assert.Contains(t, w.Body.String(), "grace@hackpsu.org")
}

func TestSetupRouter_NavigationIsCacheable(t *testing.T) {
	r, auth := newTestRouter(t)
	token, err := auth.IssueToken("grace@hackpsu.org", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/navigation?path=/settings/members", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := do(r, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "private, max-age=300", w.Header().Get("Cache-Control"))
}

func TestSetupRouter_CORSPreflight(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/admin/hackers", nil)
	req.Header.Set("Origin", "https://admin.hackpsu.org")
	req.Header.Set("Access-Control-Request-Method", http.MethodDelete)
	w := do(r, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
