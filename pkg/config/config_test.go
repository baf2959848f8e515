package config

import (
	"testing"
	"time"

	"github.com/platinummonkey/stores/pkg/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("TEST_STR", "custom")
	t.Setenv("TEST_BOOL", "1")
	t.Setenv("TEST_INT", "12")
	t.Setenv("TEST_BAD_INT", "twelve")
	t.Setenv("TEST_DURATION", "90s")
	t.Setenv("TEST_FLOAT", "0.25")
	t.Setenv("TEST_LIST", " a, b ,,c ")

	assert.Equal(t, "custom", getEnv("TEST_STR", "default"))
	assert.Equal(t, "default", getEnv("TEST_STR_UNSET", "default"))
	assert.True(t, getEnvBool("TEST_BOOL", false))
	assert.True(t, getEnvBool("TEST_BOOL_UNSET", true))
	assert.Equal(t, 12, getEnvInt("TEST_INT", 1))
	assert.Equal(t, 1, getEnvInt("TEST_BAD_INT", 1))
	assert.Equal(t, 90*time.Second, getEnvDuration("TEST_DURATION", time.Second))
	assert.Equal(t, 0.25, getEnvFloat("TEST_FLOAT", 1))
	assert.Equal(t, []string{"a", "b", "c"}, getEnvList("TEST_LIST", nil))
	assert.Nil(t, getEnvList("TEST_LIST_UNSET", nil))
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  observability.LogLevel
	}{
		{"debug", observability.DebugLevel},
		{"INFO", observability.InfoLevel},
		{"warning", observability.WarnLevel},
		{"warn", observability.WarnLevel},
		{"error", observability.ErrorLevel},
		{"nonsense", observability.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLogLevel(tt.input))
		})
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("STORES_DATABASE_URL", "postgres://localhost/stores")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "9090", cfg.Server.HealthPort)
	assert.Equal(t, 20, cfg.Database.MaxConns)
	assert.False(t, cfg.Database.AutoMigrate)
	assert.Empty(t, cfg.Cache.RedisURL)
	assert.Equal(t, 5*time.Minute, cfg.Cache.RolesTTL)
	assert.Equal(t, 30*time.Minute, cfg.Cache.ReferenceTTL)
	assert.Equal(t, 10000, cfg.Cache.Sizing().Size)
	assert.Equal(t, 32, cfg.Workers.PoolSize)
	assert.Equal(t, observability.InfoLevel, cfg.Observability.LogLevel)
	assert.True(t, cfg.Observability.MetricsEnabled)
	assert.False(t, cfg.Observability.OTel().Enabled)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("STORES_DATABASE_URL", "postgres://db/stores")
	t.Setenv("STORES_PORT", "8100")
	t.Setenv("STORES_REDIS_URL", "redis://cache:6379/1")
	t.Setenv("STORES_CACHE_TTL_ROLES", "1m")
	t.Setenv("STORES_ELASTIC_URL", "http://es:9200")
	t.Setenv("STORES_WORKER_POOL_SIZE", "4")
	t.Setenv("STORES_LOG_LEVEL", "debug")
	t.Setenv("STORES_CORS_ORIGINS", "https://a.example,https://b.example")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8100", cfg.Server.Port)
	assert.Equal(t, "redis://cache:6379/1", cfg.Cache.RedisURL)
	assert.Equal(t, time.Minute, cfg.Cache.RolesTTL)
	assert.Equal(t, "http://es:9200", cfg.Search.URL)
	assert.Equal(t, 4, cfg.Workers.PoolSize)
	assert.Equal(t, observability.DebugLevel, cfg.Observability.LogLevel)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
}

func validConfig() *Config {
	return &Config{
		Server:   ServerConfig{Port: "8000", HealthPort: "9090"},
		Database: DatabaseConfig{URL: "postgres://localhost/stores", MaxConns: 10, MinConns: 1},
		Cache: CacheConfig{
			Size:          100,
			RolesTTL:      time.Minute,
			ReferenceTTL:  time.Minute,
			PurgeSchedule: "@every 1h",
		},
		Workers: WorkerConfig{PoolSize: 8},
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing port", func(c *Config) { c.Server.Port = "" }, "server port is required"},
		{"same ports", func(c *Config) { c.Server.HealthPort = "8000" }, "must be different"},
		{"missing database", func(c *Config) { c.Database.URL = "" }, "database URL is required"},
		{"min exceeds max", func(c *Config) { c.Database.MinConns = 50 }, "exceeds max connections"},
		{"zero cache size", func(c *Config) { c.Cache.Size = 0 }, "cache size must be positive"},
		{"zero ttl", func(c *Config) { c.Cache.RolesTTL = 0 }, "cache TTLs must be positive"},
		{"bad cron", func(c *Config) { c.Cache.PurgeSchedule = "every hour" }, "invalid cache purge schedule"},
		{"cron spec", func(c *Config) { c.Cache.PurgeSchedule = "0 3 * * *" }, ""},
		{"bad search url", func(c *Config) { c.Search.URL = "es:9200" }, "invalid elasticsearch URL"},
		{"zero workers", func(c *Config) { c.Workers.PoolSize = 0 }, "worker pool size must be positive"},
		{"otel without endpoint", func(c *Config) {
			c.Observability.OTelEnabled = true
			c.Observability.OTelServiceName = "stores"
		}, "OpenTelemetry endpoint is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
