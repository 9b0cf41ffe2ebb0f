package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

type Config struct {
	DBPath         string
	ServerPort     string
	LogLevel       string
	AppURL         string
	AllowedOrigins []string
	// proxies whose forwarding headers are believed; empty trusts none
	TrustedProxies []string

	HCaptchaSecret    string
	HCaptchaVerifyURL string

	PolarAccessToken   string
	PolarAPIURL        string
	PolarWebhookSecret string
	// "<type>/<duration>" -> provider price id
	PolarPriceIDs map[string]string

	SessionSecret string
	CronSecret    string
}

// price id env keys per sponsorship package
var priceIDKeys = map[string]string{
	"featured/daily":   "POLAR_FEATURED_DAILY_PRICE_ID",
	"featured/weekly":  "POLAR_FEATURED_WEEKLY_PRICE_ID",
	"featured/monthly": "POLAR_FEATURED_MONTHLY_PRICE_ID",
	"premium/daily":    "POLAR_PREMIUM_DAILY_PRICE_ID",
	"premium/weekly":   "POLAR_PREMIUM_WEEKLY_PRICE_ID",
	"premium/monthly":  "POLAR_PREMIUM_MONTHLY_PRICE_ID",
	"bump/1h":          "POLAR_BUMP_1H_PRICE_ID",
	"bump/3h":          "POLAR_BUMP_3H_PRICE_ID",
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		DBPath:             getEnv("DB_PATH", "hytale.db"),
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		AppURL:             strings.TrimRight(getEnv("APP_URL", "http://localhost:3000"), "/"),
		AllowedOrigins:     splitList(getEnv("ALLOWED_ORIGINS", "*")),
		TrustedProxies:     splitList(getEnv("TRUSTED_PROXIES", "")),
		HCaptchaSecret:     getEnv("HCAPTCHA_SECRET", ""),
		HCaptchaVerifyURL:  getEnv("HCAPTCHA_VERIFY_URL", "https://hcaptcha.com/siteverify"),
		PolarAccessToken:   getEnv("POLAR_ACCESS_TOKEN", ""),
		PolarAPIURL:        strings.TrimRight(getEnv("POLAR_API_URL", "https://api.polar.sh"), "/"),
		PolarWebhookSecret: getEnv("POLAR_WEBHOOK_SECRET", ""),
		PolarPriceIDs:      make(map[string]string, len(priceIDKeys)),
		SessionSecret:      getEnv("SESSION_SECRET", ""),
		CronSecret:         getEnv("CRON_SECRET", ""),
	}

	for pkg, key := range priceIDKeys {
		if v := getEnv(key, ""); v != "" {
			cfg.PolarPriceIDs[pkg] = v
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	logger.Info().
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Str("app_url", cfg.AppURL).
		Strs("trusted_proxies", cfg.TrustedProxies).
		Str("polar_api_url", cfg.PolarAPIURL).
		Int("price_ids", len(cfg.PolarPriceIDs)).
		Msg("configuration loaded")

	if len(cfg.PolarPriceIDs) < len(priceIDKeys) {
		logger.Warn().
			Int("configured", len(cfg.PolarPriceIDs)).
			Int("expected", len(priceIDKeys)).
			Msg("some sponsorship price ids are missing, those packages cannot be purchased")
	}

	return cfg, nil
}

func (c *Config) validate() error {
	required := []struct {
		key   string
		value string
	}{
		{"HCAPTCHA_SECRET", c.HCaptchaSecret},
		{"POLAR_ACCESS_TOKEN", c.PolarAccessToken},
		{"POLAR_WEBHOOK_SECRET", c.PolarWebhookSecret},
		{"SESSION_SECRET", c.SessionSecret},
		{"CRON_SECRET", c.CronSecret},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("%s is required", r.key)
		}
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
