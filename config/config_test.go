package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := NewLoader("APP").Load()
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, ":8080", cfg.Port)
	assert.Equal(t, 30, cfg.WindowDays)
	assert.Equal(t, 5, cfg.WindowSize)
	assert.Equal(t, 10, cfg.GithubConcurrency)
	assert.Equal(t, 5*time.Minute, cfg.RepoCacheTTL)
	assert.Empty(t, cfg.RedisURL)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("APP_WINDOW_DAYS", "7")
	t.Setenv("APP_PORT", ":9999")

	cfg, err := NewLoader("APP").Load()
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.WindowDays)
	assert.Equal(t, ":9999", cfg.Port)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	t.Setenv("APP_LOG_LEVEL", "silly")

	_, err := NewLoader("APP").Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation")
}
