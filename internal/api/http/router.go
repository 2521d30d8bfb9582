package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-dashboard/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Dashboard *handlers.DashboardHandler
	// PublicDir is served as static files after the API routes. Empty disables it.
	PublicDir string
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Dashboard.Metrics)

	api := app.Group("/api")
	api.Get("/overview", cfg.Dashboard.Overview)
	api.Get("/chart", cfg.Dashboard.Chart)
	api.Post("/reload", cfg.Dashboard.Reload)

	tickets := api.Group("/tickets")
	tickets.Get("/", cfg.Dashboard.ListTickets)
	tickets.Get("/export.csv", cfg.Dashboard.ExportCSV)
	tickets.Get("/:id", cfg.Dashboard.GetTicket)
	tickets.Get("/:id/summary", cfg.Dashboard.TicketSummary)
	tickets.Post("/:id/resolve", cfg.Dashboard.Resolve)
	tickets.Post("/:id/notes", cfg.Dashboard.AddNote)

	if cfg.PublicDir != "" {
		app.Static("/", cfg.PublicDir)
	}
}
