package configs

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	DatabaseURL    string
	DBHost         string
	DBPort         int
	DBUser         string
	DBPassword     string
	DBName         string
	DBNameTest     string
	DBSSLMode      string
	DBMaxOpenConns int

	JWTSecret string
	TokenTTL  time.Duration

	RedisHost     string
	RedisPort     int
	RedisPassword string
	CacheTTL      time.Duration

	LogDir       string
	CORSOrigins  string
	RateLimitMax int
}

// ErrMissingSecret is returned when JWT_SECRET is unset.
var ErrMissingSecret = errors.New("JWT_SECRET is not set")

// LoadConfig reads .env (when present) and the process environment.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil {
		// Stay quiet under tests.
		if os.Getenv("GO_ENV") != "test" {
			log.Println("No .env file found, using environment")
		}
	}
	return FromEnv()
}

// FromEnv builds a Config from environment variables only.
func FromEnv() (Config, error) {
	cfg := Config{
		Port:           getEnv("PORT", "3000"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getInt("DB_PORT", 5432),
		DBUser:         os.Getenv("DB_USER"),
		DBPassword:     os.Getenv("DB_PASSWORD"),
		DBName:         os.Getenv("DB_NAME"),
		DBNameTest:     os.Getenv("DB_NAME_TEST"),
		DBSSLMode:      getEnv("DB_SSLMODE", "disable"),
		DBMaxOpenConns: getInt("DB_MAX_OPEN_CONNS", 25),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		TokenTTL:       getDuration("TOKEN_TTL", 24*time.Hour),
		RedisHost:      os.Getenv("REDIS_HOST"),
		RedisPort:      getInt("REDIS_PORT", 6379),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		CacheTTL:       getDuration("CACHE_TTL", time.Hour),
		LogDir:         getEnv("LOG_DIR", "logs"),
		CORSOrigins:    getEnv("CORS_ORIGINS", "*"),
		RateLimitMax:   getInt("RATE_LIMIT_MAX", 100),
	}
	if cfg.JWTSecret == "" {
		return cfg, ErrMissingSecret
	}
	if cfg.TokenTTL <= 0 {
		return cfg, fmt.Errorf("TOKEN_TTL must be positive, got %s", cfg.TokenTTL)
	}
	return cfg, nil
}

// DSN returns DATABASE_URL when set, else a key/value lib/pq connection string.
func (c Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.dsnFor(c.DBName)
}

// TestDSN points at DB_NAME_TEST on the same server.
func (c Config) TestDSN() string {
	if c.DatabaseURL != "" && c.DBNameTest != "" {
		if u, err := url.Parse(c.DatabaseURL); err == nil {
			u.Path = "/" + c.DBNameTest
			return u.String()
		}
	}
	return c.dsnFor(c.DBNameTest)
}

func (c Config) dsnFor(name string) string {
	parts := []string{
		fmt.Sprintf("host=%s", c.DBHost),
		fmt.Sprintf("port=%d", c.DBPort),
	}
	if c.DBUser != "" {
		parts = append(parts, "user="+c.DBUser)
	}
	if c.DBPassword != "" {
		parts = append(parts, "password="+c.DBPassword)
	}
	if name != "" {
		parts = append(parts, "dbname="+name)
	}
	parts = append(parts, "sslmode="+c.DBSSLMode)
	return strings.Join(parts, " ")
}

// RedisEnabled reports whether a cache server is configured.
func (c Config) RedisEnabled() bool { return c.RedisHost != "" }

func (c Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}

func getDuration(key string, def time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}
