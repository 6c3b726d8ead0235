package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadFromEnvDefaults(t *testing.T) {
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("API_KEY", "")
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("HTTP_PORT", "")

	cfg := LoadFromEnv()

	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, DefaultSheetURL, cfg.Sheet.URL)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Empty(t, cfg.LLM.APIKey)
	assert.InDelta(t, 0.3, cfg.LLM.Temperature, 1e-9)
	assert.Equal(t, time.Duration(0), cfg.LLM.CacheTTL)
	assert.False(t, cfg.Database.Enabled)
	assert.Empty(t, cfg.Webhook.URLs)
	assert.Equal(t, 1, cfg.Webhook.Attempts)
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("API_KEY", "legacy-key")
	t.Setenv("LLM_PROVIDER", "Anthropic")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("ANALYSIS_CACHE_TTL", "15m")
	t.Setenv("DB_ENABLED", "true")
	t.Setenv("WEBHOOK_URLS", " https://a.example/hook, ,https://b.example/hook ")

	cfg := LoadFromEnv()

	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, "legacy-key", cfg.LLM.APIKey)
	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, 15*time.Minute, cfg.LLM.CacheTTL)
	assert.True(t, cfg.Database.Enabled)
	assert.Equal(t, []string{"https://a.example/hook", "https://b.example/hook"}, cfg.Webhook.URLs)
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("HTTP_PORT", "eighty")
	t.Setenv("STOCKS_CACHE_TTL", "soon")
	t.Setenv("REDIS_ENABLED", "maybe")

	cfg := LoadFromEnv()

	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, 5*time.Minute, cfg.Sheet.CacheTTL)
	assert.False(t, cfg.Redis.Enabled)
}
