package config

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("HCAPTCHA_SECRET", "captcha-secret")
	t.Setenv("POLAR_ACCESS_TOKEN", "polar-token")
	t.Setenv("POLAR_WEBHOOK_SECRET", "whsec")
	t.Setenv("SESSION_SECRET", "session-secret")
	t.Setenv("CRON_SECRET", "cron-secret")
}

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		setRequired(t)
		t.Setenv("POLAR_FEATURED_DAILY_PRICE_ID", "price_fd")

		cfg, err := Load(zerolog.Nop())
		require.NoError(t, err)

		assert.Equal(t, "hytale.db", cfg.DBPath)
		assert.Equal(t, "8080", cfg.ServerPort)
		assert.Equal(t, "https://api.polar.sh", cfg.PolarAPIURL)
		assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
		assert.Equal(t, "price_fd", cfg.PolarPriceIDs["featured/daily"])
		assert.NotContains(t, cfg.PolarPriceIDs, "bump/1h")
		assert.Empty(t, cfg.TrustedProxies)
	})

	t.Run("trusted proxies", func(t *testing.T) {
		setRequired(t)
		t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 127.0.0.1")

		cfg, err := Load(zerolog.Nop())
		require.NoError(t, err)
		assert.Equal(t, []string{"10.0.0.0/8", "127.0.0.1"}, cfg.TrustedProxies)
	})

	t.Run("trims urls and splits origins", func(t *testing.T) {
		setRequired(t)
		t.Setenv("APP_URL", "https://hytale.example/")
		t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example ,")

		cfg, err := Load(zerolog.Nop())
		require.NoError(t, err)

		assert.Equal(t, "https://hytale.example", cfg.AppURL)
		assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	})

	t.Run("missing secret", func(t *testing.T) {
		setRequired(t)
		t.Setenv("CRON_SECRET", "")

		_, err := Load(zerolog.Nop())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "CRON_SECRET")
	})
}
