package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"

	"github.com/fairlaunch/curve-registry/internal/adapter"
	"github.com/fairlaunch/curve-registry/internal/api/middleware"
	"github.com/fairlaunch/curve-registry/internal/api/server"
	"github.com/fairlaunch/curve-registry/internal/asset"
	"github.com/fairlaunch/curve-registry/internal/config"
	"github.com/fairlaunch/curve-registry/internal/domain"
	"github.com/fairlaunch/curve-registry/internal/logger"
	"github.com/fairlaunch/curve-registry/internal/providers/jetstream"
	"github.com/fairlaunch/curve-registry/internal/providers/payout"
	"github.com/fairlaunch/curve-registry/internal/ratelimit"
	"github.com/fairlaunch/curve-registry/internal/registry"
	"github.com/fairlaunch/curve-registry/internal/store"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadAPIConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "api-server",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting Curve Registry API")

	// Connect to database
	db, err := connectDatabase(ctx, cfg.Database)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err))
	}

	// Configure connection pool
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Connected to database",
		zap.Int("max_open_conns", cfg.Database.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.Database.MaxIdleConns),
	)

	// Initialize store
	dataStore := store.NewPGStore(db)

	// Initialize NATS publisher
	natsPublisher, err := jetstream.NewPublisher(
		jetstream.Config{
			URL:            cfg.NATS.URL,
			StreamName:     cfg.NATS.StreamName,
			MaxReconnects:  cfg.NATS.MaxReconnects,
			ReconnectWait:  cfg.NATS.ReconnectWait,
			ConnectionName: cfg.NATS.ConnectionName,
		}, adapter.NewNatsJetStream(), adapter.NewJSON())
	if err != nil {
		logger.FatalCtx(ctx, "Failed to create NATS publisher", zap.Error(err), zap.String("url", cfg.NATS.URL))
	}
	defer natsPublisher.Close()
	logger.InfoCtx(ctx, "Connected to NATS JetStream")

	// Build the registry
	params, err := cfg.Registry.Params()
	if err != nil {
		logger.FatalCtx(ctx, "Invalid registry parameters", zap.Error(err))
	}

	reg := registry.New(
		params,
		domain.Address(cfg.Registry.OwnerAddress),
		domain.Address(cfg.Registry.CustodianAddress),
		payout.NewJournalSink(),
		registry.WithPublisher(natsPublisher),
		registry.WithRecorder(dataStore),
	)

	// Rebuild in-memory state from the persisted projection
	if err := restoreState(ctx, reg, dataStore); err != nil {
		logger.FatalCtx(ctx, "Failed to restore registry state", zap.Error(err))
	}

	// Initialize rate limiter
	var apiLimiter ratelimit.Limiter
	if cfg.RateLimit.Enabled {
		redisClient := adapter.NewRedisClient(cfg.RateLimit.Redis.Addr, cfg.RateLimit.Redis.Password, cfg.RateLimit.Redis.DB)
		apiLimiter, err = ratelimit.New(ratelimit.Config{
			RequestsPerSecond:   cfg.RateLimit.RequestsPerSecond,
			Burst:               cfg.RateLimit.Burst,
			EnableLocalFallback: cfg.RateLimit.EnableLocalFallback,
		}, redisClient)
		if err != nil {
			logger.FatalCtx(ctx, "Failed to create rate limiter", zap.Error(err))
		}
		defer func() {
			if err := apiLimiter.Close(); err != nil {
				logger.Error(err, zap.String("component", "rate_limiter"))
			}
		}()
		logger.InfoCtx(ctx, "Rate limiting enabled",
			zap.Int("requests_per_second", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
	}

	// Create server config
	serverConfig := server.Config{
		Debug:        cfg.Debug,
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		Auth: middleware.AuthConfig{
			JWTPublicKey: cfg.Auth.JWTPublicKey,
			APIKeys:      cfg.Auth.APIKeys,
		},
		RateLimiter: apiLimiter,
	}

	// Create and start server
	srv := server.New(serverConfig, reg, dataStore)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			errCh <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	case err := <-errCh:
		logger.ErrorCtx(ctx, err, zap.String("component", "server"))
		cancel()
	}

	// Create shutdown context with timeout (don't use canceled ctx)
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	logger.InfoCtx(shutdownCtx, "Shutting down server...")

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.FatalCtx(shutdownCtx, "Server forced to shutdown", zap.Error(err))
	}

	// Use non-context logger for final message since original ctx is canceled
	logger.Info("API server stopped")
}

// connectDatabase opens the primary connection with exponential backoff and
// registers the read replica when one is configured
func connectDatabase(ctx context.Context, dbCfg config.DatabaseConfig) (*gorm.DB, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 1 * time.Second
	b.MaxInterval = 10 * time.Second
	b.MaxElapsedTime = 1 * time.Minute

	var db *gorm.DB
	operation := func() error {
		var err error
		db, err = gorm.Open(postgres.Open(dbCfg.DSN()), &gorm.Config{})
		return err
	}
	if err := backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
		return nil, err
	}

	if dbCfg.ReadHost != "" {
		err := db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: []gorm.Dialector{postgres.Open(dbCfg.ReadDSN())},
		}))
		if err != nil {
			return nil, fmt.Errorf("failed to register read replica: %w", err)
		}
		logger.InfoCtx(ctx, "Registered read replica", zap.String("read_host", dbCfg.ReadHost))
	}

	return db, nil
}

// restoreState loads every persisted asset and the treasury into the registry
func restoreState(ctx context.Context, reg *registry.Registry, dataStore store.Store) error {
	snapshots, err := dataStore.LoadAssets(ctx)
	if err != nil {
		return fmt.Errorf("failed to load assets: %w", err)
	}
	for _, snap := range snapshots {
		a := asset.Restore(snap.Record.AssetID, snap.Record.Name, snap.Record.Symbol, snap.TotalSupply, snap.Balances)
		reg.RestoreSale(a, snap.Record.Creator, snap.Record)
	}

	treasury, err := dataStore.LoadTreasury(ctx)
	if err != nil {
		return fmt.Errorf("failed to load treasury: %w", err)
	}
	if treasury != nil {
		reg.RestoreTreasury(*treasury)
	}

	logger.InfoCtx(ctx, "Restored registry state", zap.Int("assets", len(snapshots)))
	return nil
}
