package api

import (
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"taskquest/internal/api/handlers"
	"taskquest/internal/middleware"
	"taskquest/internal/websocket"
)

type Options struct {
	Handler  *handlers.Handler
	Verifier middleware.TokenVerifier
	// Hub serves /api/ws when set.
	Hub *websocket.Hub

	CORSOrigins string
	// RateLimitMax is requests per minute per client; zero disables the limiter.
	RateLimitMax int
}

// NewApp builds the fiber application with middleware and every route.
func NewApp(o Options) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "taskquest",
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
		ErrorHandler: middleware.JSONErrorHandler,
	})

	app.Use(middleware.ErrorHandler())
	origins := o.CORSOrigins
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PATCH,DELETE,OPTIONS",
	}))
	if o.RateLimitMax > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        o.RateLimitMax,
			Expiration: 1 * time.Minute,
		}))
	}

	RegisterRoutes(app, o)
	return app
}

func RegisterRoutes(app *fiber.App, o Options) {
	h := o.Handler
	requireToken := middleware.UseToken(o.Verifier)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")
	api.Get("/health", h.Health)
	api.Get("/db-health", h.DBHealth)

	authGroup := api.Group("/auth")
	authGroup.Post("/signup", h.Signup)
	authGroup.Post("/signin", h.Signin)
	authGroup.Get("/me", requireToken, h.Me)

	tasks := api.Group("/tasks", requireToken)
	tasks.Post("/", h.CreateTask)
	tasks.Get("/", h.ListTasks)
	tasks.Patch("/:id/complete", h.CompleteTask)
	tasks.Delete("/:id", h.DeleteTask)

	api.Get("/stats", requireToken, h.Stats)

	if o.Hub != nil {
		api.Get("/ws", middleware.TokenFromQuery, requireToken, websocket.Upgrade, o.Hub.Handler())
	}
}
