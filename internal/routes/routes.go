package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/safe-ui/safe_assets/internal/collectibles"
	"github.com/safe-ui/safe_assets/internal/config"
	"github.com/safe-ui/safe_assets/internal/graph"
	"github.com/safe-ui/safe_assets/internal/logging"
	"github.com/safe-ui/safe_assets/internal/middleware"
	"github.com/safe-ui/safe_assets/internal/store"
)

// Deps aggregates shared dependencies required to wire routes. DB and Cache
// may be nil in development.
type Deps struct {
	Cfg      config.Config
	DB       *pgxpool.Pool
	Cache    *redis.Client
	Logger   *slog.Logger
	Store    *store.Store
	Sessions *collectibles.Sessions
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	if d.Store == nil || d.Sessions == nil {
		return fmt.Errorf("routes: store and sessions are required")
	}
	if d.Logger == nil {
		d.Logger = logging.Discard()
	}
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	if d.Cfg.IsDev() {
		// [HH:MM:SS] 200 -  145ms METHOD /path
		app.Use(logger.New(logger.Config{
			Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
			TimeFormat: "15:04:05",
			TimeZone:   "Local",
		}))
	}
	app.Use(middleware.Audit(d.Logger, "/healthz"))

	RegisterHealthRoutes(app, d)

	// Writes through /actions must carry an Idempotency-Key; session commands
	// honour one when present.
	var dispatchGuards, sessionGuards []fiber.Handler
	if d.Cache != nil {
		dispatchGuards = append(dispatchGuards,
			middleware.DispatchRateLimit(d.Cache, d.Cfg.DispatchRateLimit),
			middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, true, d.Logger),
		)
		sessionGuards = append(sessionGuards, middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, false, d.Logger))
	}

	schema, err := graph.NewSchema(d.Store)
	if err != nil {
		return fmt.Errorf("build graphql schema: %w", err)
	}

	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": middleware.RequestIDFrom(c),
			"version":    d.Store.State().Version(),
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	RegisterActionRoutes(api, store.NewHandler(d.Store), dispatchGuards...)
	RegisterAssetRoutes(api, d.Store)
	RegisterCollectiblesRoutes(api, collectibles.NewHandler(d.Sessions, d.Store), sessionGuards...)
	RegisterGraphRoutes(api, graph.NewHandler(schema))

	return nil
}
