package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "perplexity", cfg.Answers.Provider)
	assert.Equal(t, 1024, cfg.Answers.MaxTokens)
	assert.Equal(t, 500, cfg.Citation.QueryDelayMS)
	assert.Equal(t, 0.30, cfg.Citation.RelevanceThreshold)
	assert.Equal(t, 1, cfg.Citation.MaxConcurrentTuples)
	assert.False(t, cfg.Citation.Disabled)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CITATION_STORE_DRIVER", "sqlite")
	t.Setenv("CITATION_ANSWERS_KEY", "pplx-test-key")
	t.Setenv("CITATION_ANSWERS_PROVIDER", "anthropic")
	t.Setenv("CITATION_CITATION_DISABLED", "true")
	t.Setenv("CITATION_CITATION_QUERY_DELAY_MS", "100")
	t.Setenv("CITATION_SERVER_CRON_SECRET", "hunter2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "pplx-test-key", cfg.Answers.Key)
	assert.Equal(t, "anthropic", cfg.Answers.Provider)
	assert.True(t, cfg.Citation.Disabled)
	assert.Equal(t, 100, cfg.Citation.QueryDelayMS)
	assert.Equal(t, "hunter2", cfg.Server.CronSecret)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))

	err := InitLogger(LogConfig{Level: "loud", Format: "json"})
	require.Error(t, err)
}
