// internal/config/config_test.go
package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:5000/api", cfg.Backend.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, 2*time.Hour, cfg.Drafts.IdleTTL)
	assert.Equal(t, int64(10*1024*1024), cfg.Uploads.MaxVariantImageSize)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, ":8080", cfg.Server.Addr())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "https://catalog.example.com/api/")
	t.Setenv("BACKEND_TIMEOUT", "45")
	t.Setenv("DRAFT_IDLE_TTL", "30m")
	t.Setenv("CATALOG_SIZES", "28, 30,32")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("SERVER_HOST", "127.0.0.1")
	t.Setenv("SERVER_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://catalog.example.com/api", cfg.Backend.BaseURL)
	assert.Equal(t, 45*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, 30*time.Minute, cfg.Drafts.IdleTTL)
	assert.Equal(t, "28, 30,32", cfg.Catalog.Sizes)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "127.0.0.1:9090", cfg.Server.Addr())
}

func TestValidate(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "not a url")
	_, err := Load()
	assert.ErrorContains(t, err, "invalid backend base url")

	t.Setenv("BACKEND_BASE_URL", "https://catalog.example.com/api")
	t.Setenv("ENVIRONMENT", "production")
	_, err = Load()
	assert.ErrorContains(t, err, "signing secret")

	t.Setenv("BACKEND_SIGNING_SECRET", "s3cret")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}
