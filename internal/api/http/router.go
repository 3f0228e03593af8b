package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kasubagumummij2024-byte/lapor-maintenance-mij/internal/api/http/handlers"
	"github.com/kasubagumummij2024-byte/lapor-maintenance-mij/internal/auth"
	"github.com/kasubagumummij2024-byte/lapor-maintenance-mij/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health  *handlers.HealthHandler
	Users   *handlers.UsersHandler
	Reports *handlers.ReportsHandler
	Gate    *auth.Gate
	// CreateLimit guards public report submission; nil disables it.
	CreateLimit fiber.Handler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")
	api.Get("/user", cfg.Gate.Handle, cfg.Users.Me)

	reports := api.Group("/reports")
	if cfg.CreateLimit != nil {
		reports.Post("", cfg.CreateLimit, cfg.Reports.Create)
	} else {
		reports.Post("", cfg.Reports.Create)
	}
	reports.Get("", cfg.Reports.List)
	reports.Get("/export", cfg.Gate.Handle, auth.Require(domain.PermissionExportReports), cfg.Reports.Export)
	reports.Put("/:docId", cfg.Gate.Handle, auth.Require(domain.PermissionUpdateReports), cfg.Reports.Update)
}
