package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("RAG_FAQ_THRESHOLD", "")
	t.Setenv("LLM_TIMEOUT", "")

	cfg := Load()
	assert.Equal(t, 0.85, cfg.Rag.FAQThreshold)
	assert.Equal(t, 0.1, cfg.Rag.Temperature)
	assert.Equal(t, 10, cfg.Rag.MaxTurns)
	assert.Equal(t, 60*time.Second, cfg.Ai.LLMTimeout)
	assert.Equal(t, "interactions", cfg.Sinks.Topic)
	require.NoError(t, cfg.Validate())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("RAG_FAQ_THRESHOLD", "0.9")
	t.Setenv("RAG_TEMPERATURE", "0.7")
	t.Setenv("RAG_MAX_TURNS", "6")
	t.Setenv("LLM_TIMEOUT", "15s")
	t.Setenv("SINK_NATS_ENABLED", "true")
	t.Setenv("NATS_URL", "nats://nats:4222")

	cfg := Load()
	assert.Equal(t, 0.9, cfg.Rag.FAQThreshold)
	assert.Equal(t, 0.7, cfg.Rag.Temperature)
	assert.Equal(t, 6, cfg.Rag.MaxTurns)
	assert.Equal(t, 15*time.Second, cfg.Ai.LLMTimeout)
	assert.True(t, cfg.Sinks.NatsEnabled)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"threshold above one", func(c *Config) { c.Rag.FAQThreshold = 1.5 }},
		{"negative temperature", func(c *Config) { c.Rag.Temperature = -0.1 }},
		{"max turns too small", func(c *Config) { c.Rag.MaxTurns = 1 }},
		{"no timeout", func(c *Config) { c.Ai.LLMTimeout = 0 }},
		{"unknown corpus source", func(c *Config) { c.Corpus.Source = "s3" }},
		{"postgres without dsn", func(c *Config) { c.Corpus.Source = "postgres"; c.Database.Connection = "" }},
		{"db sink without dsn", func(c *Config) { c.Sinks.DatabaseEnabled = true; c.Database.Connection = "" }},
		{"nats sink without url", func(c *Config) { c.Sinks.NatsEnabled = true; c.App.NatsURL = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Load()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
