package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/platinummonkey/stores/pkg/cache"
	"github.com/platinummonkey/stores/pkg/observability"
	"github.com/robfig/cron/v3"
)

// Config holds all application configuration
type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	Cache         CacheConfig
	Search        SearchConfig
	Workers       WorkerConfig
	Observability ObservabilityConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Health/metrics server (separate port for k8s health checks)
	HealthPort string

	CORSOrigins []string
}

// DatabaseConfig holds the postgres connection settings
type DatabaseConfig struct {
	URL             string
	MaxConns        int
	MinConns        int
	ConnMaxLifetime time.Duration
	AutoMigrate     bool
}

// CacheConfig holds cache settings. An empty RedisURL keeps caches process-local.
type CacheConfig struct {
	RedisURL      string
	RedisPassword string
	RedisDB       int
	Size          int
	RolesTTL      time.Duration
	ReferenceTTL  time.Duration
	PurgeSchedule string
}

// Sizing returns the cache package configuration
func (c CacheConfig) Sizing() cache.Config {
	return cache.Config{Size: c.Size, RolesTTL: c.RolesTTL, ReferenceTTL: c.ReferenceTTL}
}

// SearchConfig holds the Elasticsearch settings. An empty URL disables search routes.
type SearchConfig struct {
	URL     string
	Timeout time.Duration
}

// WorkerConfig bounds concurrent blocking work
type WorkerConfig struct {
	PoolSize int
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	LogLevel observability.LogLevel

	MetricsEnabled bool

	OTelEnabled        bool
	OTelEndpoint       string
	OTelServiceName    string
	OTelServiceVersion string
	OTelInsecure       bool
	OTelSampleRatio    float64
}

// OTel returns the OpenTelemetry init configuration
func (o ObservabilityConfig) OTel() observability.OTelConfig {
	return observability.OTelConfig{
		Enabled:        o.OTelEnabled,
		Endpoint:       o.OTelEndpoint,
		ServiceName:    o.OTelServiceName,
		ServiceVersion: o.OTelServiceVersion,
		Insecure:       o.OTelInsecure,
		SampleRatio:    o.OTelSampleRatio,
	}
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Server:        loadServerConfig(),
		Database:      loadDatabaseConfig(),
		Cache:         loadCacheConfig(),
		Search:        loadSearchConfig(),
		Workers:       WorkerConfig{PoolSize: getEnvInt("STORES_WORKER_POOL_SIZE", 32)},
		Observability: loadObservabilityConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Host:            getEnv("STORES_HOST", "0.0.0.0"),
		Port:            getEnv("STORES_PORT", "8000"),
		ReadTimeout:     getEnvDuration("STORES_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    getEnvDuration("STORES_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:     getEnvDuration("STORES_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout: getEnvDuration("STORES_SHUTDOWN_TIMEOUT", 30*time.Second),
		HealthPort:      getEnv("STORES_HEALTH_PORT", "9090"),
		CORSOrigins:     getEnvList("STORES_CORS_ORIGINS", nil),
	}
}

func loadDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		URL:             getEnv("STORES_DATABASE_URL", ""),
		MaxConns:        getEnvInt("STORES_DB_MAX_CONNS", 20),
		MinConns:        getEnvInt("STORES_DB_MIN_CONNS", 2),
		ConnMaxLifetime: getEnvDuration("STORES_DB_CONN_MAX_LIFETIME", 30*time.Minute),
		AutoMigrate:     getEnvBool("STORES_AUTO_MIGRATE", false),
	}
}

func loadCacheConfig() CacheConfig {
	defaults := cache.DefaultConfig()
	return CacheConfig{
		RedisURL:      getEnv("STORES_REDIS_URL", ""),
		RedisPassword: getEnv("STORES_REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("STORES_REDIS_DB", 0),
		Size:          getEnvInt("STORES_CACHE_SIZE", defaults.Size),
		RolesTTL:      getEnvDuration("STORES_CACHE_TTL_ROLES", defaults.RolesTTL),
		ReferenceTTL:  getEnvDuration("STORES_CACHE_TTL_REFERENCE", defaults.ReferenceTTL),
		PurgeSchedule: getEnv("STORES_CACHE_PURGE_SCHEDULE", "@every 1h"),
	}
}

func loadSearchConfig() SearchConfig {
	return SearchConfig{
		URL:     getEnv("STORES_ELASTIC_URL", ""),
		Timeout: getEnvDuration("STORES_ELASTIC_TIMEOUT", 5*time.Second),
	}
}

func loadObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		LogLevel:           parseLogLevel(getEnv("STORES_LOG_LEVEL", "info")),
		MetricsEnabled:     getEnvBool("STORES_METRICS_ENABLED", true),
		OTelEnabled:        getEnvBool("STORES_OTEL_ENABLED", false),
		OTelEndpoint:       getEnv("STORES_OTEL_ENDPOINT", "localhost:4317"),
		OTelServiceName:    getEnv("STORES_OTEL_SERVICE_NAME", "stores"),
		OTelServiceVersion: getEnv("STORES_OTEL_SERVICE_VERSION", "1.0.0"),
		OTelInsecure:       getEnvBool("STORES_OTEL_INSECURE", true),
		OTelSampleRatio:    getEnvFloat("STORES_OTEL_SAMPLE_RATIO", 1),
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Server.HealthPort == "" {
		return fmt.Errorf("health port is required")
	}
	if c.Server.Port == c.Server.HealthPort {
		return fmt.Errorf("server port and health port must be different")
	}

	if c.Database.URL == "" {
		return fmt.Errorf("database URL is required")
	}
	if c.Database.MaxConns <= 0 {
		return fmt.Errorf("database max connections must be positive")
	}
	if c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("database min connections (%d) exceeds max connections (%d)", c.Database.MinConns, c.Database.MaxConns)
	}

	if c.Cache.Size <= 0 {
		return fmt.Errorf("cache size must be positive")
	}
	if c.Cache.RolesTTL <= 0 || c.Cache.ReferenceTTL <= 0 {
		return fmt.Errorf("cache TTLs must be positive")
	}
	if c.Cache.PurgeSchedule != "" {
		if _, err := cron.ParseStandard(c.Cache.PurgeSchedule); err != nil {
			return fmt.Errorf("invalid cache purge schedule %q: %w", c.Cache.PurgeSchedule, err)
		}
	}

	if c.Search.URL != "" {
		if u, err := url.Parse(c.Search.URL); err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid elasticsearch URL %q", c.Search.URL)
		}
	}

	if c.Workers.PoolSize <= 0 {
		return fmt.Errorf("worker pool size must be positive")
	}

	if c.Observability.OTelEnabled {
		if c.Observability.OTelEndpoint == "" {
			return fmt.Errorf("OpenTelemetry endpoint is required when OTel is enabled")
		}
		if c.Observability.OTelServiceName == "" {
			return fmt.Errorf("OpenTelemetry service name is required when OTel is enabled")
		}
	}

	return nil
}

// parseLogLevel parses a log level string
func parseLogLevel(level string) observability.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return observability.DebugLevel
	case "warn", "warning":
		return observability.WarnLevel
	case "error":
		return observability.ErrorLevel
	default:
		return observability.InfoLevel
	}
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvFloat returns a float environment variable or a default
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvList splits a comma separated environment variable
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
