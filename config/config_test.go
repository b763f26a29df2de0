package config

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")

	cfg, err := Load(quietLogger())
	require.NoError(t, err)
	assert.Equal(t, ":8000", cfg.HTTPPort)
	assert.Equal(t, "redis", cfg.CacheBackend)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 4*time.Hour, cfg.UpdateWindow)
	assert.False(t, cfg.EnforceOwnership)
	assert.False(t, cfg.InvalidateFilteredLists)
	assert.Equal(t, 100, cfg.PageSize)
	assert.Equal(t, "/media/", cfg.MediaURL)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("CACHE_BACKEND", "memory")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("UPDATE_WINDOW", "1h")
	t.Setenv("ENFORCE_OWNERSHIP", "true")
	t.Setenv("INVALIDATE_FILTERED_LISTS", "true")

	cfg, err := Load(quietLogger())
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.Equal(t, time.Hour, cfg.UpdateWindow)
	assert.True(t, cfg.EnforceOwnership)
	assert.True(t, cfg.InvalidateFilteredLists)
}

func TestValidate(t *testing.T) {
	valid := Config{StoreDriver: "memory", CacheBackend: "memory", CacheTTL: time.Minute, PageSize: 10}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"postgres without url", func(c *Config) { c.StoreDriver = "postgres" }},
		{"unknown driver", func(c *Config) { c.StoreDriver = "mysql" }},
		{"unknown cache", func(c *Config) { c.CacheBackend = "memcached" }},
		{"zero ttl", func(c *Config) { c.CacheTTL = 0 }},
		{"negative window", func(c *Config) { c.UpdateWindow = -time.Hour }},
		{"zero page size", func(c *Config) { c.PageSize = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
