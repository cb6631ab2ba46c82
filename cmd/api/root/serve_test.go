package root

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"taskquest/configs"
	"taskquest/pkg/logger"
)

func observeSystemLog(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.InfoLevel)
	prev := logger.SystemLogger
	logger.SystemLogger = zap.New(core)
	t.Cleanup(func() { logger.SystemLogger = prev })
	return logs
}

func TestConnectCacheFallsBackWhenUnreachable(t *testing.T) {
	logs := observeSystemLog(t)
	cfg := configs.Config{RedisHost: "127.0.0.1", RedisPort: 1}

	assert.Nil(t, connectCache(context.Background(), cfg))

	warns := logs.FilterLevelExact(zapcore.WarnLevel).FilterMessage("Redis unavailable, caching disabled")
	assert.Equal(t, 1, warns.Len())
}

func TestConnectCacheDisabled(t *testing.T) {
	logs := observeSystemLog(t)

	assert.Nil(t, connectCache(context.Background(), configs.Config{}))
	assert.Equal(t, 1, logs.FilterMessage("Redis not configured, caching disabled").Len())
}
