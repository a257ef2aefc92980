package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"APP_PORT", "CURATOR_POLICY", "SESSION_STORE", "SESSION_TTL_MINUTES", "EVENTS_ENABLED"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg := Load()

	assert.Equal(t, "3000", cfg.App.Port)
	assert.Equal(t, "llm", cfg.Curator.Policy)
	assert.Equal(t, "memory", cfg.Curator.SessionStore)
	assert.Equal(t, 60, cfg.Curator.SessionTTLMin)
	assert.True(t, cfg.App.EventsEnabled)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_PORT", "8080")
	t.Setenv("CURATOR_POLICY", "Rules")
	t.Setenv("SESSION_STORE", "REDIS")
	t.Setenv("SESSION_TTL_MINUTES", "15")
	t.Setenv("EVENTS_ENABLED", "false")
	t.Setenv("LLM_PROVIDER", "openai")

	cfg := Load()

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "rules", cfg.Curator.Policy)
	assert.Equal(t, "redis", cfg.Curator.SessionStore)
	assert.Equal(t, 15, cfg.Curator.SessionTTLMin)
	assert.False(t, cfg.App.EventsEnabled)
	assert.Equal(t, "openai", cfg.Ai.LLMProvider)
}
