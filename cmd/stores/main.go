package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/platinummonkey/stores/pkg/acl"
	"github.com/platinummonkey/stores/pkg/api"
	"github.com/platinummonkey/stores/pkg/cache"
	"github.com/platinummonkey/stores/pkg/config"
	"github.com/platinummonkey/stores/pkg/observability"
	"github.com/platinummonkey/stores/pkg/repos"
	"github.com/platinummonkey/stores/pkg/search"
	"github.com/platinummonkey/stores/pkg/services"
)

const dbStatsInterval = 15 * time.Second

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Observability.LogLevel, os.Stdout)
	if err := run(cfg, logger); err != nil {
		logger.WithError(err).Error("stores exited with error")
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *observability.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	providers, err := observability.InitOTel(ctx, cfg.Observability.OTel(), logger)
	if err != nil {
		return fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	db, err := openDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("Connected to database")

	if cfg.Database.AutoMigrate {
		if err := repos.RunMigrations(ctx, db, logger.Entry()); err != nil {
			db.Close()
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	var metrics *observability.Metrics
	if cfg.Observability.MetricsEnabled {
		metrics = observability.NewMetrics(registry)
	}

	redisClient, invalidator, err := openRedis(ctx, cfg.Cache, logger)
	if err != nil {
		db.Close()
		return err
	}

	var cacheRecorder cache.Recorder
	if metrics != nil {
		cacheRecorder = metrics
	}
	caches := cache.New(cfg.Cache.Sizing(), redisClient, invalidator, logger.Entry(), cacheRecorder)

	purger := cache.NewPurger(map[string]cache.Purgeable{
		cache.NameCategories: caches.Categories,
		cache.NameAttributes: caches.Attributes,
	}, logger.Entry())
	if cfg.Cache.PurgeSchedule != "" {
		if err := purger.Schedule(cfg.Cache.PurgeSchedule); err != nil {
			db.Close()
			return err
		}
		purger.Start()
	}

	evaluatorOpts := []acl.EvaluatorOption{acl.WithLogger(logger.Entry())}
	if metrics != nil {
		evaluatorOpts = append(evaluatorOpts, acl.WithRecorder(metrics))
	}
	evaluator, err := acl.NewEvaluator(acl.MustDefaultTable(), acl.DefaultChains, evaluatorOpts...)
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to build access control: %w", err)
	}
	factory := repos.NewFactory(db, evaluator, caches)

	var searchClient *search.Client
	if cfg.Search.URL != "" {
		searchOpts := []search.Option{search.WithLogger(logger.Entry())}
		if metrics != nil {
			searchOpts = append(searchOpts, search.WithRecorder(metrics))
		}
		searchClient, err = search.New(cfg.Search.URL, cfg.Search.Timeout, searchOpts...)
		if err != nil {
			db.Close()
			return err
		}
	} else {
		logger.Warn("STORES_ELASTIC_URL is not set, search routes will answer 503")
	}

	pool, err := services.NewPool(cfg.Workers.PoolSize)
	if err != nil {
		db.Close()
		return err
	}
	svc := services.New(db, factory, searchClient, pool)

	server := api.NewServer(svc)
	apiServer := &http.Server{
		Addr: net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler: server.Handler(api.Options{
			Logger:      logger,
			Metrics:     metrics,
			CORSOrigins: cfg.Server.CORSOrigins,
		}),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	checker := observability.NewHealthChecker(db, redisClient)
	if searchClient != nil {
		checker.AddDependency("elasticsearch", searchClient)
	}
	healthMux := http.NewServeMux()
	observability.RegisterHealthRoutes(healthMux, checker)
	if metrics != nil {
		observability.RegisterMetricsEndpoint(healthMux, registry)
		go recordDBStats(ctx, db, metrics, logger)
	}
	healthServer := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, cfg.Server.HealthPort),
		Handler:           healthMux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	shutdown := observability.NewShutdownManager(logger, cfg.Server.ShutdownTimeout, apiServer, healthServer)
	shutdown.RegisterShutdownFunc("cache purger", purger.Stop)
	if invalidator != nil {
		shutdown.RegisterShutdownFunc("cache invalidator", func(context.Context) error {
			return invalidator.Close()
		})
	}
	if redisClient != nil {
		shutdown.RegisterShutdownFunc("redis", func(context.Context) error {
			return redisClient.Close()
		})
	}
	shutdown.RegisterShutdownFunc("database", func(context.Context) error {
		return db.Close()
	})
	shutdown.RegisterShutdownFunc("opentelemetry", func(ctx context.Context) error {
		return observability.ShutdownOTel(ctx, providers, logger)
	})

	serveErr := make(chan error, 2)
	go serve(apiServer, "api", logger, serveErr)
	go serve(healthServer, "health", logger, serveErr)

	waitErr := make(chan error, 1)
	go func() { waitErr <- shutdown.WaitForShutdown(ctx) }()

	select {
	case err := <-serveErr:
		cancel()
		<-waitErr
		return err
	case err := <-waitErr:
		return err
	}
}

func openDatabase(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxConns)
	db.SetMaxIdleConns(cfg.MinConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// openRedis returns nil values when no Redis URL is configured
func openRedis(ctx context.Context, cfg config.CacheConfig, logger *observability.Logger) (*redis.Client, *cache.Invalidator, error) {
	if cfg.RedisURL == "" {
		logger.Info("STORES_REDIS_URL is not set, caches are process-local")
		return nil, nil, nil
	}

	client, err := cache.NewRedisClient(ctx, cache.RedisOptions{
		URL:      cfg.RedisURL,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	invalidator := cache.NewInvalidator(client, logger.Entry())
	if _, err := invalidator.Start(ctx); err != nil {
		client.Close()
		return nil, nil, err
	}
	logger.Info("Connected to redis, cache invalidation enabled")
	return client, invalidator, nil
}

func serve(srv *http.Server, name string, logger *observability.Logger, errs chan<- error) {
	logger.WithField("addr", srv.Addr).Infof("Starting %s server", name)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		errs <- fmt.Errorf("%s server failed: %w", name, err)
	}
}

func recordDBStats(ctx context.Context, db *sql.DB, metrics *observability.Metrics, logger *observability.Logger) {
	defer observability.RecoverPanic(logger, "db stats recorder")
	ticker := time.NewTicker(dbStatsInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics.RecordDBStats(db.Stats())
		}
	}
}
