package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("API_BASE_URL", "")
	t.Setenv("CACHE_BACKEND", "")
	t.Setenv("CACHE_TTL_SECONDS", "")
	t.Setenv("ALLOWED_ORIGINS", "")

	cfg := Load()

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "http://localhost:3000", cfg.APIBaseURL)
	assert.Equal(t, CacheBackendRedis, cfg.CacheBackend)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Nil(t, cfg.AllowedOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://api.hackpsu.org/v2/")
	t.Setenv("CACHE_BACKEND", "MEMORY")
	t.Setenv("API_MAX_RETRIES", "not-a-number")
	t.Setenv("AUDIT_ENABLED", "false")
	t.Setenv("ALLOWED_ORIGINS", " https://admin.hackpsu.org , ,http://localhost:5173")

	cfg := Load()

	assert.Equal(t, "https://api.hackpsu.org/v2", cfg.APIBaseURL)
	assert.Equal(t, CacheBackendMemory, cfg.CacheBackend)
	assert.Equal(t, 3, cfg.APIMaxRetries)
	assert.False(t, cfg.AuditEnabled)
	assert.Equal(t, []string{"https://admin.hackpsu.org", "http://localhost:5173"}, cfg.AllowedOrigins)
}

func TestCacheKey_Segments(t *testing.T) {
	active := true
	assert.Equal(t, "all", CacheKey.UsersActive(nil))
	assert.Equal(t, "active=true", CacheKey.UsersActive(&active))
	assert.Equal(t, "all", CacheKey.RegistrationsScope(true))
	assert.Equal(t, "current", CacheKey.RegistrationsScope(false))
}
