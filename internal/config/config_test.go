package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.RateLimit.Quota)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, 8*time.Second, cfg.RateLimit.InterRequestDelay)
	assert.Equal(t, time.Second, cfg.RateLimit.SafetyMargin)
	assert.Equal(t, 120*time.Second, cfg.Generator.Timeout)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowOrigins)
	assert.Equal(t, 4, cfg.RabbitMQ.Workers)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("RATE_LIMIT_QUOTA", "3")
	t.Setenv("RATE_LIMIT_WINDOW", "30s")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("MAX_FILE_SIZE", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.RateLimit.Quota)
	assert.Equal(t, 30*time.Second, cfg.RateLimit.Window)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowOrigins)
	assert.Equal(t, int64(10*1024*1024), cfg.Storage.MaxFileSize)
}
