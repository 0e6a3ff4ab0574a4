// Command recouvrod runs the Recouvro payment-recovery ledger service: the
// JSON REST API on one port and health/metrics probes on another.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/go-redis/redis/v8"
	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/recouvro/recouvro/pkg/api"
	"github.com/recouvro/recouvro/pkg/auth"
	"github.com/recouvro/recouvro/pkg/config"
	"github.com/recouvro/recouvro/pkg/ledger"
	"github.com/recouvro/recouvro/pkg/observability"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "recouvrod: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	logger := observability.NewLogger(observability.ParseLogLevel(cfg.Observability.LogLevel), os.Stdout)

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	logger.Info("connected to postgres")

	var redisClient *redis.Client
	if cfg.Redis.URL != "" {
		redisClient, err = openRedis(cfg)
		if err != nil {
			// The cache is best-effort; run degraded rather than refuse to boot.
			logger.WithError(err).Warn("redis unavailable, running without cache")
			redisClient = nil
		} else {
			logger.Info("connected to redis")
		}
	}

	var metrics *observability.Metrics
	if cfg.Observability.MetricsEnabled {
		metrics = observability.NewMetrics(prometheus.NewRegistry())
	}

	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	users := auth.NewStore(db, hasher, cfg.Database.Timeout)
	issuer := auth.NewJWTIssuer([]byte(cfg.Auth.JWTSecret), cfg.Auth.TokenTTL)

	cache := ledger.NewCache(redisClient, cfg.Redis.TTL, metrics)
	if redisClient == nil {
		cache = nil
	}
	recoveries := ledger.NewStore(db, cache, metrics, cfg.Database.Timeout)

	ctx := context.Background()
	if err := users.Migrate(ctx); err != nil {
		return err
	}
	if err := recoveries.Migrate(ctx); err != nil {
		return err
	}

	var stats *ledger.StatsCollector
	if metrics != nil {
		stats = ledger.NewStatsCollector(recoveries, metrics, logger)
		if err := stats.Start(cfg.Observability.StatsInterval); err != nil {
			return err
		}
	}

	apiServer := &http.Server{
		Addr: cfg.ServerAddr(),
		Handler: api.NewServer(api.Options{
			Users:        users,
			Issuer:       issuer,
			Ledger:       recoveries,
			Logger:       logger,
			Metrics:      metrics,
			IncludeStack: !cfg.Observability.Production,
		}),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	healthServer := &http.Server{
		Addr:    cfg.HealthAddr(),
		Handler: healthMux(db, redisClient, metrics),
	}

	shutdown := observability.NewShutdownManager(logger, cfg.Server.ShutdownTimeout, apiServer, healthServer)
	if stats != nil {
		shutdown.RegisterShutdownFunc(stats.Stop)
	}
	if redisClient != nil {
		shutdown.RegisterShutdownFunc(func(context.Context) error { return redisClient.Close() })
	}

	var g errgroup.Group
	g.Go(func() error {
		logger.Infof("API server listening on %s", apiServer.Addr)
		if err := apiServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		logger.Infof("health server listening on %s", healthServer.Addr)
		if err := healthServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(shutdown.WaitForShutdown)

	return g.Wait()
}

func openDatabase(cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}

	db.SetMaxOpenConns(cfg.Database.MaxConns)
	db.SetMaxIdleConns(cfg.Database.MinConns)
	db.SetConnMaxLifetime(cfg.Database.MaxLifetime)
	db.SetConnMaxIdleTime(cfg.Database.MaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Database.Timeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	return db, nil
}

func openRedis(cfg *config.Config) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Database.Timeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

func healthMux(db *sql.DB, redisClient *redis.Client, metrics *observability.Metrics) http.Handler {
	checker := observability.NewHealthChecker(db, redisClient)

	mux := http.NewServeMux()
	mux.HandleFunc("/health/live", checker.Liveness)
	mux.HandleFunc("/health/ready", checker.Readiness)
	if metrics != nil {
		mux.Handle("/metrics", metrics.Handler())
	}
	return mux
}
