// Package cache keeps short-lived copies of account progress and task lists
// in Redis. Every method is a no-op on a nil *Cache, and cache failures are
// logged, never returned: the database stays the source of truth.
//
// Entries are keyed by a per-account generation counter. Invalidate bumps
// the counter, so a fill computed from a read that raced with a write lands
// under a generation no reader asks for again.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"taskquest/internal/metrics"
	"taskquest/internal/models"
	"taskquest/pkg/logger"
)

// Backend is the subset of *redis.Client the cache needs.
type Backend interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
}

type Cache struct {
	backend Backend
	ttl     time.Duration
}

// New returns nil when backend is nil, which disables caching.
func New(backend Backend, ttl time.Duration) *Cache {
	if backend == nil {
		return nil
	}
	return &Cache{backend: backend, ttl: ttl}
}

// Gen is the generation of one account's entries, read before the database
// so a later fill cannot outlive an invalidation that happened in between.
// The zero Gen disables reads and fills.
type Gen struct {
	userID int
	n      int64
	ok     bool
}

func genKey(userID int) string { return fmt.Sprintf("gen:%d", userID) }

func progressKey(userID int, n int64) string { return fmt.Sprintf("progress:%d:%d", userID, n) }

func tasksKey(userID int, n int64) string { return fmt.Sprintf("tasks:%d:%d", userID, n) }

// Generation returns the current generation for userID. A missing counter
// is generation 0.
func (c *Cache) Generation(ctx context.Context, userID int) Gen {
	if c == nil {
		return Gen{}
	}
	n, err := c.backend.Get(ctx, genKey(userID)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		logger.ErrorLogger.Error("Cache generation read failed", zap.Int("user_id", userID), zap.Error(err))
		return Gen{}
	}
	return Gen{userID: userID, n: n, ok: true}
}

// Progress returns the cached account, without its password hash.
func (c *Cache) Progress(ctx context.Context, g Gen) (*models.Account, bool) {
	var acc models.Account
	if !c.get(ctx, g, "progress", progressKey(g.userID, g.n), &acc) {
		return nil, false
	}
	return &acc, true
}

func (c *Cache) SetProgress(ctx context.Context, g Gen, acc *models.Account) {
	c.set(ctx, g, progressKey(g.userID, g.n), acc)
}

func (c *Cache) Tasks(ctx context.Context, g Gen) ([]models.Task, bool) {
	var tasks []models.Task
	if !c.get(ctx, g, "tasks", tasksKey(g.userID, g.n), &tasks) {
		return nil, false
	}
	return tasks, true
}

func (c *Cache) SetTasks(ctx context.Context, g Gen, tasks []models.Task) {
	c.set(ctx, g, tasksKey(g.userID, g.n), tasks)
}

// Invalidate retires everything cached for userID. Call it after the
// database write has committed.
func (c *Cache) Invalidate(ctx context.Context, userID int) {
	if c == nil {
		return
	}
	n, err := c.backend.Incr(ctx, genKey(userID)).Result()
	if err != nil {
		logger.ErrorLogger.Error("Cache invalidate failed", zap.Int("user_id", userID), zap.Error(err))
		return
	}
	// Entries of the retired generation would expire anyway.
	if err := c.backend.Del(ctx, progressKey(userID, n-1), tasksKey(userID, n-1)).Err(); err != nil {
		logger.ErrorLogger.Error("Cache cleanup failed", zap.Int("user_id", userID), zap.Error(err))
	}
}

func (c *Cache) get(ctx context.Context, g Gen, kind, key string, dst any) bool {
	if c == nil || !g.ok {
		return false
	}
	raw, err := c.backend.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.ErrorLogger.Error("Cache read failed", zap.String("key", key), zap.Error(err))
		}
		metrics.CacheMisses.WithLabelValues(kind).Inc()
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		logger.ErrorLogger.Error("Cache entry corrupt", zap.String("key", key), zap.Error(err))
		if err := c.backend.Del(ctx, key).Err(); err != nil {
			logger.ErrorLogger.Error("Cache delete failed", zap.String("key", key), zap.Error(err))
		}
		metrics.CacheMisses.WithLabelValues(kind).Inc()
		return false
	}
	metrics.CacheHits.WithLabelValues(kind).Inc()
	return true
}

func (c *Cache) set(ctx context.Context, g Gen, key string, v any) {
	if c == nil || !g.ok {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		logger.ErrorLogger.Error("Cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.backend.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		logger.ErrorLogger.Error("Cache write failed", zap.String("key", key), zap.Error(err))
	}
}
