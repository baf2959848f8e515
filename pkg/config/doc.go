// Package config loads and validates the stores service configuration from
// environment variables.
//
// Server settings:
//
//	STORES_HOST="0.0.0.0"
//	STORES_PORT="8000"
//	STORES_HEALTH_PORT="9090"
//	STORES_READ_TIMEOUT="15s"
//	STORES_CORS_ORIGINS="https://shop.example.com,https://admin.example.com"
//
// Database settings:
//
//	STORES_DATABASE_URL="postgres://stores@localhost/stores?sslmode=disable"
//	STORES_DB_MAX_CONNS="20"
//	STORES_AUTO_MIGRATE="true"
//
// Cache settings (Redis is optional; without it caches are process-local):
//
//	STORES_REDIS_URL="redis://localhost:6379/0"
//	STORES_CACHE_SIZE="10000"
//	STORES_CACHE_TTL_ROLES="5m"
//	STORES_CACHE_TTL_REFERENCE="30m"
//	STORES_CACHE_PURGE_SCHEDULE="@every 1h"
//
// Search and workers:
//
//	STORES_ELASTIC_URL="http://localhost:9200"
//	STORES_ELASTIC_TIMEOUT="5s"
//	STORES_WORKER_POOL_SIZE="32"
//
// Observability:
//
//	STORES_LOG_LEVEL="info"
//	STORES_METRICS_ENABLED="true"
//	STORES_OTEL_ENABLED="false"
//	STORES_OTEL_ENDPOINT="localhost:4317"
//
// Usage:
//
//	cfg, err := config.LoadConfig()
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
