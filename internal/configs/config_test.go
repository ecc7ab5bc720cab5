package configs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_FromEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	content := "APP_NAME=catalog-test\n" +
		"PORT=9090\n" +
		"CATALOG_API_URL=http://catalog.local/\n" +
		"CATALOG_API_TIMEOUT=3s\n" +
		"REDIS_ADDR=localhost:6379\n" +
		"LOOKUP_CACHE_TTL=60\n" +
		"CORS_ALLOWED_ORIGINS=https://a.example, https://b.example\n" +
		"DRAFT_VISIBILITY_POLICY=private\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o600))

	for _, key := range []string{"APP_NAME", "PORT", "CATALOG_API_URL", "CATALOG_API_TIMEOUT", "REDIS_ADDR",
		"LOOKUP_CACHE_TTL", "CORS_ALLOWED_ORIGINS", "DRAFT_VISIBILITY_POLICY", "KV_BACKEND", "DATABASE_URL"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	cfg, err := LoadConfig(envFile)
	require.NoError(t, err)

	assert.Equal(t, "catalog-test", cfg.AppName)
	assert.Equal(t, "9090", cfg.Rest.PORT)
	assert.Equal(t, "http://catalog.local", cfg.CatalogAPI.URL)
	assert.Equal(t, 3*time.Second, cfg.CatalogAPI.Timeout)
	assert.Equal(t, "http://catalog.local", cfg.Media.BaseURL)
	assert.Equal(t, KVBackendRedis, cfg.KV.Backend)
	assert.Equal(t, time.Minute, cfg.KV.LookupCacheTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Rest.CORSAllowedOrigins)
	assert.Equal(t, "private", cfg.DraftPolicy)
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("KV_BACKEND", "postgres")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("FLUENTBIT_ENABLED", "true")
	t.Setenv("FLUENTBIT_HOST", "")
	t.Setenv("UPLOAD_DIR", "")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, KVBackendMemory, cfg.KV.Backend)
	assert.False(t, cfg.FluentBit.Enabled)
	assert.Equal(t, "korx-uploads", filepath.Base(cfg.Media.UploadDir))
}

func TestGetEnvAsDuration(t *testing.T) {
	t.Setenv("X_DURATION", "bogus")
	assert.Equal(t, time.Second, getEnvAsDuration("X_DURATION", time.Second))
	t.Setenv("X_DURATION", "2m")
	assert.Equal(t, 2*time.Minute, getEnvAsDuration("X_DURATION", time.Second))
}
