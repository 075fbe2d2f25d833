package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setMinimalEnv(t *testing.T) {
	t.Helper()
	t.Setenv("POSTGRES_HOST", "localhost")
	t.Setenv("POSTGRES_USER", "catalog")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("POSTGRES_DBNAME", "storefront")
}

func TestLoad_Defaults(t *testing.T) {
	setMinimalEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "8080", cfg.HttpServer.Port)
	assert.Equal(t, 15*time.Second, cfg.HttpServer.TimeoutRead)
	assert.Equal(t, "9090", cfg.GrpcServer.Port)
	assert.Equal(t, "memory", cfg.Cache.Driver)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 64, cfg.Cache.Size)
	assert.Equal(t, 10, cfg.Postgres.MaxOpenConns)
	assert.Equal(t,
		"host=localhost port=5432 user=catalog password=secret dbname=storefront sslmode=disable",
		cfg.Postgres.DSN())
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv("APP_ENV", "Production")
	t.Setenv("HTTP_SERVER_PORT", "9000")
	t.Setenv("CACHE_DRIVER", "REDIS")
	t.Setenv("CACHE_REDIS_URL", "redis://localhost:6379/1")
	t.Setenv("CACHE_TTL", "90s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.HttpServer.Port)
	assert.Equal(t, "redis", cfg.Cache.Driver)
	assert.Equal(t, 90*time.Second, cfg.Cache.TTL)
	assert.True(t, cfg.IsProduction())
}

func TestLoad_MissingRequired(t *testing.T) {
	setMinimalEnv(t)
	require.NoError(t, os.Unsetenv("POSTGRES_HOST"))

	_, err := Load()

	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := Config{LogFormat: "json", Cache: CacheConfig{Driver: "memory"}}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"memory cache", func(c *Config) {}, false},
		{"console logs", func(c *Config) { c.LogFormat = "console" }, false},
		{"redis without url", func(c *Config) { c.Cache.Driver = "redis" }, true},
		{"redis with url", func(c *Config) {
			c.Cache.Driver = "redis"
			c.Cache.RedisURL = "redis://cache:6379"
		}, false},
		{"unknown driver", func(c *Config) { c.Cache.Driver = "memcached" }, true},
		{"unknown log format", func(c *Config) { c.LogFormat = "xml" }, true},
		{"negative ttl", func(c *Config) { c.Cache.TTL = -time.Second }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
