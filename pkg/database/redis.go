package database

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"taskquest/configs"
)

// ConnectRedis returns a client for the configured cache, or nil when no
// REDIS_HOST is set.
func ConnectRedis(ctx context.Context, cfg configs.Config) (*redis.Client, error) {
	if !cfg.RedisEnabled() {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.RedisPassword,
		DB:       0,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}
