package root

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"taskquest/configs"
	"taskquest/internal/config"
	"taskquest/internal/repository"
	"taskquest/pkg/database"
	"taskquest/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, db, cleanup, err := setup(ctx)
	if err != nil {
		return err
	}
	defer cleanup()
	logger.SystemLogger.Info("Starting application", zap.String("time", time.Now().Format(time.RFC3339)))

	if err := repository.Migrate(ctx, db); err != nil {
		logger.ErrorLogger.Error("Schema migration failed", zap.Error(err))
		return err
	}

	rdb := connectCache(ctx, cfg)
	if rdb != nil {
		defer rdb.Close()
	}

	deps := config.NewDependencies(cfg, db, rdb)
	go deps.Hub.Run(ctx)
	app := deps.App()

	errCh := make(chan error, 1)
	go func() {
		logger.SystemLogger.Info("Application ready", zap.String("port", cfg.Port))
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.ErrorLogger.Error("Application failed to start", zap.Error(err))
		}
		return err
	case <-ctx.Done():
	}

	logger.SystemLogger.Info("Shutting down")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		logger.ErrorLogger.Error("Shutdown failed", zap.Error(err))
		return err
	}
	return nil
}

// connectCache returns the Redis client, or nil when none is configured or
// it cannot be reached. The server runs without a cache in both cases.
func connectCache(ctx context.Context, cfg configs.Config) *redis.Client {
	if !cfg.RedisEnabled() {
		logger.SystemLogger.Info("Redis not configured, caching disabled")
		return nil
	}
	rdb, err := database.ConnectRedis(ctx, cfg)
	if err != nil {
		logger.SystemLogger.Warn("Redis unavailable, caching disabled",
			zap.String("addr", cfg.RedisAddr()), zap.Error(err))
		return nil
	}
	logger.SystemLogger.Info("Redis connected", zap.String("addr", cfg.RedisAddr()))
	return rdb
}
