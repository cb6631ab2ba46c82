package config

import (
	"database/sql"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"

	"taskquest/configs"
	"taskquest/internal/api"
	"taskquest/internal/api/handlers"
	"taskquest/internal/auth"
	"taskquest/internal/cache"
	"taskquest/internal/repository"
	"taskquest/internal/scoring"
	"taskquest/internal/websocket"
)

// Dependencies is the object graph shared by the server. Redis is nil when
// no cache server is configured.
type Dependencies struct {
	Config   configs.Config
	DB       *sql.DB
	Redis    *redis.Client
	Store    *repository.Store
	Scoring  *scoring.Service
	Issuer   *auth.Issuer
	Cache    *cache.Cache
	Hub      *websocket.Hub
	Validate *validator.Validate
}

func NewDependencies(cfg configs.Config, db *sql.DB, rdb *redis.Client) *Dependencies {
	store := repository.NewStore(db)
	d := &Dependencies{
		Config:   cfg,
		DB:       db,
		Redis:    rdb,
		Store:    store,
		Scoring:  scoring.NewService(store.Completions),
		Issuer:   auth.NewIssuer([]byte(cfg.JWTSecret), cfg.TokenTTL),
		Hub:      websocket.NewHub(),
		Validate: validator.New(),
	}
	// A typed nil client must not reach cache.New.
	if rdb != nil {
		d.Cache = cache.New(rdb, cfg.CacheTTL)
	}
	return d
}

func (d *Dependencies) Handler() *handlers.Handler {
	return handlers.New(handlers.Options{
		Accounts:  d.Store.Accounts,
		Tasks:     d.Store.Tasks,
		Completer: d.Scoring,
		Health:    d.Store,
		Tokens:    d.Issuer,
		Cache:     d.Cache,
		Notifier:  d.Hub,
		Validate:  d.Validate,
	})
}

func (d *Dependencies) App() *fiber.App {
	return api.NewApp(api.Options{
		Handler:      d.Handler(),
		Verifier:     d.Issuer,
		Hub:          d.Hub,
		CORSOrigins:  d.Config.CORSOrigins,
		RateLimitMax: d.Config.RateLimitMax,
	})
}
