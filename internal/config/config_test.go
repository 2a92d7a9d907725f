package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, "rules", cfg.Ai.Responder)
	assert.Equal(t, 5, cfg.Ai.HistoryWindow)
	assert.Empty(t, cfg.App.NatsURL)
	assert.Empty(t, cfg.Ai.Responders)
	assert.Equal(t, "https://api.github.com", cfg.Github.BaseURL)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Redis")
	t.Setenv("AI_RESPONDER", "gemini")
	t.Setenv("EXTRACTOR_TIMEOUT", "45")
	t.Setenv("STORE_TTL", "2h")
	t.Setenv("BODY_LIMIT_MB", "not-a-number")
	t.Setenv("GO_ENV", "production")
	t.Setenv("AI_RESPONDERS", " XAI, groq,,gemini ")
	t.Setenv("GITHUB_TIMEOUT", "5s")

	cfg := Load()

	assert.Equal(t, "redis", cfg.Store.Driver)
	assert.Equal(t, "gemini", cfg.Ai.Responder)
	assert.Equal(t, 45*time.Second, cfg.Extractor.Timeout)
	assert.Equal(t, 2*time.Hour, cfg.Store.TTL)
	assert.Equal(t, 10, cfg.App.BodyLimitMB)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, []string{"xai", "groq", "gemini"}, cfg.Ai.Responders)
	assert.Equal(t, 5*time.Second, cfg.Github.Timeout)
}
