package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	httpadapter "github.com/moneyfye/moneyfye/internal/adapter/http"
	"github.com/moneyfye/moneyfye/internal/adapter/http/handler"
	"github.com/moneyfye/moneyfye/internal/adapter/http/middleware"
	storagepg "github.com/moneyfye/moneyfye/internal/adapter/storage/postgres"
	storageredis "github.com/moneyfye/moneyfye/internal/adapter/storage/redis"
	"github.com/moneyfye/moneyfye/internal/adapter/storage/sqlite"
	"github.com/moneyfye/moneyfye/internal/infrastructure/auth"
	"github.com/moneyfye/moneyfye/internal/infrastructure/config"
	"github.com/moneyfye/moneyfye/internal/infrastructure/logger"
	"github.com/moneyfye/moneyfye/internal/infrastructure/metrics"
	infrapg "github.com/moneyfye/moneyfye/internal/infrastructure/postgres"
	infraredis "github.com/moneyfye/moneyfye/internal/infrastructure/redis"
	"github.com/moneyfye/moneyfye/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New(logger.Config{})
		fallback.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	snapshotStore, userStore, healthChecks, closeStorage, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open storage")
	}
	defer closeStorage()

	var (
		cache            usecase.Cache
		idempotencyStore usecase.IdempotencyStore
	)
	if cfg.RedisURL != "" {
		redisClient, err := infraredis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisClient.Close()
		log.Info().Msg("connected to redis")

		cache = storageredis.NewCache(redisClient)
		idempotencyStore = storageredis.NewIdempotencyStore(redisClient)
		healthChecks = append(healthChecks, handler.HealthCheck{
			Name:  "redis",
			Check: func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		})
	}

	saverCfg := usecase.SaverConfig{
		InitialInterval: cfg.SaveRetryInitial,
		MaxInterval:     cfg.SaveRetryMax,
		MaxElapsedTime:  cfg.SaveRetryMaxElapsed,
	}
	idGen := usecase.NewULIDGenerator()

	ledgerUC := usecase.NewLedgerUseCase(snapshotStore, cache, idGen, saverCfg, m, log)
	userUC := usecase.NewUserUseCase(userStore, idGen)

	var (
		jwtManager  *auth.JWTManager
		authHandler *handler.AuthHandler
	)
	if cfg.JWTSecret != "" {
		jwtManager = auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
		authHandler = handler.NewAuthHandler(userUC, jwtManager, m)
	}

	router := httpadapter.NewRouter(httpadapter.RouterConfig{
		AccountHandler:     handler.NewAccountHandler(ledgerUC),
		TransactionHandler: handler.NewTransactionHandler(ledgerUC),
		ReportHandler:      handler.NewReportHandler(ledgerUC),
		AuthHandler:        authHandler,
		ExportHandler:      handler.NewExportHandler(ledgerUC),
		HealthHandler:      handler.NewHealthHandler(healthChecks...),
		Logger:             log,
		Metrics:            m,
		JWTManager:         jwtManager,
		AuthRequired:       cfg.AuthEnabled,
		IdempotencyStore:   idempotencyStore,
		RateLimiter:        middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, m),
		CORSOrigins:        cfg.CORSOrigins,
	})

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Str("storage", cfg.StorageDriver).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	// Flush queued snapshot writes before the stores close.
	ledgerUC.Close()

	log.Info().Msg("server stopped")
}

// openStorage opens the configured backend and returns the snapshot and
// user stores plus readiness checks and a cleanup func.
func openStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (usecase.SnapshotStore, usecase.UserStore, []handler.HealthCheck, func(), error) {
	switch cfg.StorageDriver {
	case "postgres":
		pool, err := infrapg.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		if err := infrapg.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, log); err != nil {
			pool.Close()
			return nil, nil, nil, nil, err
		}
		log.Info().Msg("connected to postgres")

		checks := []handler.HealthCheck{{
			Name:  "postgres",
			Check: func(ctx context.Context) error { return pool.Ping(ctx) },
		}}
		return storagepg.NewSnapshotStore(pool), storagepg.NewUserStore(pool), checks, pool.Close, nil

	default:
		store, err := sqlite.New(cfg.SQLitePath)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		log.Info().Str("path", cfg.SQLitePath).Msg("opened sqlite database")

		checks := []handler.HealthCheck{{Name: "sqlite", Check: store.Ping}}
		return store, store, checks, func() { store.Close() }, nil
	}
}
