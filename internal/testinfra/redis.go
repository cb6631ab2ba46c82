package testinfra

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// MemRedis is an in-memory stand-in for the Redis commands the cache uses.
type MemRedis struct {
	mu   sync.Mutex
	data map[string][]byte
	ttls map[string]time.Duration

	// Err, when set, fails every command.
	Err error
}

func NewMemRedis() *MemRedis {
	return &MemRedis{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (r *MemRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return redis.NewStringResult("", r.Err)
	}
	v, ok := r.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(string(v), nil)
}

func (r *MemRedis) Set(ctx context.Context, key string, value interface{}, exp time.Duration) *redis.StatusCmd {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return redis.NewStatusResult("", r.Err)
	}
	switch v := value.(type) {
	case []byte:
		r.data[key] = append([]byte(nil), v...)
	case string:
		r.data[key] = []byte(v)
	default:
		r.data[key] = []byte(fmt.Sprint(v))
	}
	r.ttls[key] = exp
	return redis.NewStatusResult("OK", nil)
}

func (r *MemRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return redis.NewIntResult(0, r.Err)
	}
	var n int64
	for _, k := range keys {
		if _, ok := r.data[k]; ok {
			delete(r.data, k)
			delete(r.ttls, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func (r *MemRedis) Incr(ctx context.Context, key string) *redis.IntCmd {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return redis.NewIntResult(0, r.Err)
	}
	n, _ := strconv.ParseInt(string(r.data[key]), 10, 64)
	n++
	r.data[key] = []byte(strconv.FormatInt(n, 10))
	return redis.NewIntResult(n, nil)
}

// Raw returns the stored bytes and TTL for key, for assertions.
func (r *MemRedis) Raw(key string) ([]byte, time.Duration, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.data[key]
	return v, r.ttls[key], ok
}

// Put stores raw bytes under key without a TTL.
func (r *MemRedis) Put(key string, v []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[key] = v
}

// Keys returns the number of stored keys.
func (r *MemRedis) Keys() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.data)
}
