package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spec-kit/account-service/internal/api/http/handlers"
	"github.com/spec-kit/account-service/internal/auth"
	"github.com/spec-kit/account-service/internal/domain"
	apperrors "github.com/spec-kit/account-service/pkg/util/errorutil"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Retention      *handlers.RetentionHandler
	AuthMiddleware *auth.AuthMiddleware
	Gatherer       prometheus.Gatherer
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	if cfg.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	}

	admin := app.Group("/admin/retention", cfg.AuthMiddleware.Handle)

	readers := auth.RequireRole(domain.RoleAdmin, domain.RoleAuditor)
	admin.Get("/status", readers, cfg.Retention.Status)
	admin.Get("/report", readers, cfg.Retention.Report)
	admin.Get("/logs", readers, cfg.Retention.Logs)
	admin.Get("/next-review", readers, cfg.Retention.ReviewDates)
	admin.Get("/review-dates", readers, cfg.Retention.ReviewDates)

	admin.Post("/cleanup", auth.RequireRole(domain.RoleAdmin), cfg.Retention.Cleanup)

	app.Use(func(c *fiber.Ctx) error {
		return apperrors.NewNotFound("route", map[string]any{"method": c.Method(), "path": c.Path()})
	})
}
