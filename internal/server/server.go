// Package server exposes a planning session over HTTP.
package server

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/google/uuid"
	"github.com/souradeepAsh/Knee-Preop-Planning/internal/plan"
	"github.com/souradeepAsh/Knee-Preop-Planning/internal/store"
)

// Planner runs commands against a live plan
type Planner interface {
	Do(ctx context.Context, cmd plan.Command) (plan.Snapshot, error)
	Snapshot(ctx context.Context) (plan.Snapshot, error)
}

// History persists finished plans
type History interface {
	Save(ctx context.Context, name string, snap plan.Snapshot) (store.Plan, error)
	List(ctx context.Context) ([]store.Plan, error)
	Get(ctx context.Context, id uuid.UUID) (store.Plan, error)
}

// Options configures the HTTP app
type Options struct {
	AppName      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// AccessLog receives one line per request. Nil disables access logging.
	AccessLog io.Writer
	Logger    *slog.Logger
}

// New builds the app. The plan history routes are only mounted when history is not nil.
func New(planner Planner, history History, opts Options) *fiber.App {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	name := opts.AppName
	if name == "" {
		name = "Knee Planner"
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
		AppName:      name,
	})

	app.Use(recover.New())
	if opts.AccessLog != nil {
		app.Use(logger.New(logger.Config{
			Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
			TimeFormat: "15:04:05",
			TimeZone:   "Local",
			Stream:     opts.AccessLog,
		}))
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{"*"},
		AllowMethods: []string{"*"},
	}))

	h := &handler{planner: planner, history: history, log: log}

	app.Get("/health/live", h.live)
	app.Get("/health/ready", h.ready)

	api := app.Group("/api")
	api.Get("/snapshot", h.snapshot)
	api.Post("/landmarks", h.placeLandmark)
	api.Post("/axes", h.command(plan.CreateAxes{}))
	api.Post("/planes", h.command(plan.CreatePlanes{}))
	api.Post("/planes/:role/toggle", h.togglePlane)
	api.Post("/params/:channel/increment", h.adjust(plan.Step))
	api.Post("/params/:channel/decrement", h.adjust(-plan.Step))
	api.Post("/resection/toggle", h.command(plan.ToggleResection{}))

	if history != nil {
		api.Get("/plans", h.listPlans)
		api.Post("/plans", h.savePlan)
		api.Get("/plans/:id", h.getPlan)
	}
	return app
}
