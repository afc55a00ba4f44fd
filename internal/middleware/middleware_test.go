package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
	"github.com/hackpsu/admin-console/internal/apiclient"
	"github.com/hackpsu/admin-console/internal/response"
	"github.com/hackpsu/admin-console/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type seen struct {
	token, requestID, actor string
}

func newAuthRouter(auth *service.AuthService, out *seen) *gin.Engine {
	r := gin.New()
	r.Use(response.RequestIDMiddleware())
	r.GET("/me", RequireStaffJWT(auth), func(c *gin.Context) {
		ctx := c.Request.Context()
		*out = seen{apiclient.TokenFrom(ctx), apiclient.RequestIDFrom(ctx), service.ActorFrom(ctx)}
		c.Status(http.StatusNoContent)
	})
	return r
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) response.ErrCode {
	t.Helper()
	var body response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotNil(t, body.Error)
	return body.Error.Code
}

func TestRequireStaffJWT_PutsCallerOnContext(t *testing.T) {
	auth := service.NewAuthService("dev-secret")
	token, err := auth.IssueToken("ada@hackpsu.org", time.Hour)
	require.NoError(t, err)

	var got seen
	r := newAuthRouter(auth, &got)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set(response.HeaderRequestID, "req-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, seen{token, "req-42", "ada@hackpsu.org"}, got)
}

func TestRequireStaffJWT_AcceptsQueryToken(t *testing.T) {
	auth := service.NewAuthService("dev-secret")
	token, err := auth.IssueToken("ada@hackpsu.org", time.Hour)
	require.NoError(t, err)

	var got seen
	w := httptest.NewRecorder()
	newAuthRouter(auth, &got).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me?token="+token, nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "ada@hackpsu.org", got.actor)
}

func TestRequireStaffJWT_Rejects(t *testing.T) {
	auth := service.NewAuthService("dev-secret")
	other, err := service.NewAuthService("other-secret").IssueToken("eve@example.com", time.Hour)
	require.NoError(t, err)
	expired, err := auth.IssueToken("ada@hackpsu.org", -time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		code   response.ErrCode
	}{
		{"missing", "", response.ErrTokenRequired},
		{"wrong scheme", "Basic abc", response.ErrTokenRequired},
		{"bad signature", "Bearer " + other, response.ErrTokenInvalid},
		{"expired", "Bearer " + expired, response.ErrTokenInvalid},
		{"garbage", "Bearer not.a.jwt", response.ErrTokenInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got seen
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			newAuthRouter(auth, &got).ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, tt.code, errorCode(t, w))
			assert.Empty(t, got.token)
		})
	}
}

func TestRequireStaffJWT_DecodesWithoutSecret(t *testing.T) {
	token, err := service.NewAuthService("whatever").IssueToken("grace@hackpsu.org", time.Hour)
	require.NoError(t, err)

	var got seen
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	newAuthRouter(service.NewAuthService(""), &got).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "grace@hackpsu.org", got.actor)
}

func TestRateLimiter_PerCaller(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rl := NewRateLimiter(ctx, 2, time.Minute)
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.allow("ip:1"))
	assert.True(t, rl.allow("ip:1"))
	assert.False(t, rl.allow("ip:1"))
	assert.True(t, rl.allow("ip:2"), "buckets are per caller")

	now = now.Add(time.Minute)
	assert.True(t, rl.allow("ip:1"), "tokens refill after the interval")
}

func TestRateLimiter_Responds429(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := gin.New()
	r.POST("/x", NewRateLimiter(ctx, 1, time.Minute).Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := []int{}
	for range 2 {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestBrotli_CompressesLargeBodies(t *testing.T) {
	big := strings.Repeat("hackpsu ", 400)

	r := gin.New()
	r.Use(Brotli())
	r.GET("/big", func(c *gin.Context) { c.String(http.StatusOK, big) })
	r.GET("/small", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/xlsx", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", []byte(big))
	})

	get := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Accept-Encoding", "gzip, br")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := get("/big")
	require.Equal(t, "br", w.Header().Get("Content-Encoding"))
	plain, err := io.ReadAll(brotli.NewReader(bytes.NewReader(w.Body.Bytes())))
	require.NoError(t, err)
	assert.Equal(t, big, string(plain))

	w = get("/small")
	assert.Empty(t, w.Header().Get("Content-Encoding"))
	assert.Equal(t, "ok", w.Body.String())

	w = get("/xlsx")
	assert.Empty(t, w.Header().Get("Content-Encoding"))
	assert.Equal(t, big, w.Body.String())
}

func TestNoStore(t *testing.T) {
	r := gin.New()
	r.GET("/x", NoStore(), func(c *gin.Context) { c.Status(http.StatusOK) })
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}
