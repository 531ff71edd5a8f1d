package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENV", "")
	t.Setenv("API_BASE_URL", "")
	t.Setenv("NEXT_PUBLIC_API_URL", "")
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("MAX_UPLOAD_BYTES", "")

	cfg := Load()
	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "http://localhost:5000", cfg.APIBaseURL)
	assert.Equal(t, int64(5<<20), cfg.MaxUploadBytes)
	assert.Equal(t, "application/pdf", cfg.UploadAccept)
	assert.Equal(t, devSessionSecret, cfg.SessionSecret)
	assert.Equal(t, time.Duration(0), cfg.APITimeout)
	require.NoError(t, cfg.Validate())
}

func TestLoadReadsOverrides(t *testing.T) {
	t.Setenv("API_BASE_URL", "")
	t.Setenv("NEXT_PUBLIC_API_URL", "https://api.example.com/")
	t.Setenv("API_TIMEOUT", "45s")
	t.Setenv("SESSION_TTL", "12h")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("CORS_ALLOW_ORIGINS", " https://a.example.com , ,https://b.example.com")

	cfg := Load()
	assert.Equal(t, "https://api.example.com", cfg.APIBaseURL)
	assert.Equal(t, 45*time.Second, cfg.APITimeout)
	assert.Equal(t, 12*time.Hour, cfg.SessionTTL)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSAllowOrigin)
}

func TestValidateRejectsBadBaseURL(t *testing.T) {
	t.Setenv("API_BASE_URL", "not a url")
	cfg := Load()
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "APIBaseURL")
}

func TestValidateProductionNeedsSecrets(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("API_BASE_URL", "https://api.example.com")
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("GOOGLE_CLIENT_ID", "")
	t.Setenv("GOOGLE_CLIENT_SECRET", "")

	cfg := Load()
	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.CookieSecure)
	assert.Error(t, cfg.Validate())

	t.Setenv("SESSION_SECRET", "a-long-production-secret")
	t.Setenv("GOOGLE_CLIENT_ID", "id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "secret")
	assert.NoError(t, Load().Validate())
}

func TestNormalizeEnv(t *testing.T) {
	assert.Equal(t, "production", normalizeEnv("PROD"))
	assert.Equal(t, "local", normalizeEnv("local"))
	assert.Equal(t, "dev", normalizeEnv("whatever"))
}
