package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-quote/internal/config"
)

func baseEnv() map[string]string {
	return map[string]string{
		"DATABASE_URL":   "postgres://localhost:5432/quotes",
		"REDIS_URL":      "redis://localhost:6379/0",
		"SESSION_SECRET": "test-secret",
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.LoadForTests(baseEnv())
	require.NoError(t, err)

	require.Equal(t, "development", cfg.AppEnv)
	require.Equal(t, ":8080", cfg.HTTPAddr())
	require.Equal(t, 24*time.Hour, cfg.SessionTTL)
	require.Equal(t, 30*time.Second, cfg.PDFRenderTimeout)
	require.Equal(t, float64(18), cfg.GSTPercentage)
	require.Equal(t, 587, cfg.SMTPPort)
	require.Equal(t, 50, cfg.CatalogSearchLimit)
	require.False(t, cfg.CookieSecure)
}

func TestLoadRequiresCoreSettings(t *testing.T) {
	env := baseEnv()
	env["DATABASE_URL"] = ""
	_, err := config.LoadForTests(env)
	require.Error(t, err)

	env = baseEnv()
	env["SESSION_SECRET"] = ""
	_, err = config.LoadForTests(env)
	require.Error(t, err)
}

func TestLoadOverrides(t *testing.T) {
	env := baseEnv()
	env["PORT"] = "9090"
	env["PRICING_GST_PERCENT"] = "12"
	env["PDF_RENDER_TIMEOUT"] = "45s"
	env["CORS_ALLOWED_ORIGINS"] = "https://app.example.com, https://staging.example.com"
	env["COOKIE_SECURE"] = "true"

	cfg, err := config.LoadForTests(env)
	require.NoError(t, err)

	require.Equal(t, ":9090", cfg.HTTPAddr())
	require.Equal(t, float64(12), cfg.GSTPercentage)
	require.Equal(t, 45*time.Second, cfg.PDFRenderTimeout)
	require.Equal(t, []string{"https://app.example.com", "https://staging.example.com"}, cfg.CORSAllowedOrigins)
	require.True(t, cfg.CookieSecure)
}
