package configs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_NAME", "taskquest")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("TOKEN_TTL", "")
	t.Setenv("REDIS_HOST", "")
	for _, k := range []string{"PORT", "DB_HOST", "DB_PORT", "DB_PASSWORD", "DB_SSLMODE", "CACHE_TTL", "RATE_LIMIT_MAX"} {
		t.Setenv(k, "")
	}

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, time.Hour, cfg.CacheTTL)
	assert.Equal(t, 100, cfg.RateLimitMax)
	assert.False(t, cfg.RedisEnabled())
	assert.Equal(t, "host=localhost port=5432 user=app dbname=taskquest sslmode=disable", cfg.DSN())
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/prod?sslmode=require")
	t.Setenv("DB_NAME_TEST", "prod_test")
	t.Setenv("TOKEN_TTL", "1h")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("PORT", "8080")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.Equal(t, "postgres://u:p@db:5432/prod?sslmode=require", cfg.DSN())
	assert.Equal(t, "postgres://u:p@db:5432/prod_test?sslmode=require", cfg.TestDSN())
	assert.True(t, cfg.RedisEnabled())
	assert.Equal(t, "cache:6380", cfg.RedisAddr())
	assert.Equal(t, "8080", cfg.Port)
}

func TestFromEnvRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := FromEnv()
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestFromEnvRejectsNonPositiveTTL(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("TOKEN_TTL", "-1h")
	_, err := FromEnv()
	assert.Error(t, err)
}
