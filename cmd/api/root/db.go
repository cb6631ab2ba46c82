package root

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"taskquest/configs"
	"taskquest/pkg/database"
	"taskquest/pkg/logger"
)

// setup loads configuration, starts the loggers and opens the database.
// The returned cleanup closes the pool and flushes the logs.
func setup(ctx context.Context) (configs.Config, *sql.DB, func(), error) {
	cfg, err := configs.LoadConfig()
	if err != nil {
		return cfg, nil, nil, err
	}
	if err := logger.InitLoggers(cfg.LogDir); err != nil {
		return cfg, nil, nil, err
	}

	db, err := database.ConnectDB(ctx, cfg)
	if err != nil {
		logger.ErrorLogger.Error("Database connection failed", zap.Error(err))
		logger.SyncLoggers()
		return cfg, nil, nil, err
	}
	logger.SystemLogger.Info("Database connected")

	cleanup := func() {
		_ = db.Close()
		logger.SyncLoggers()
	}
	return cfg, db, cleanup, nil
}
