// Package observability provides structured logging, Prometheus metrics, health
// checks, OpenTelemetry setup and graceful shutdown for the stores service.
//
// # Structured Logging
//
//	logger := observability.NewLogger(observability.InfoLevel, os.Stdout)
//	logger.WithField("store_id", id).Info("store deactivated")
//
// Request-scoped loggers carry request_id and user_id:
//
//	observability.FromContext(r.Context()).WithError(err).Error("request failed")
//
// # Prometheus Metrics
//
//	metrics := observability.NewMetrics(registry)
//	router.Use(observability.HTTPMetricsMiddleware(metrics))
//
// Metrics also implements the acl and cache recorder interfaces so that
// access decisions and cache hits are counted without those packages
// depending on Prometheus.
//
// # Health Checks
//
//	checker := observability.NewHealthChecker(db, redisClient)
//	observability.RegisterHealthRoutes(mux, checker)
//
// # OpenTelemetry
//
//	providers, err := observability.InitOTel(ctx, cfg, logger)
//	defer observability.ShutdownOTel(ctx, providers, logger)
package observability
