package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lifeline/donor-registry/internal/api/http/handlers"
	"github.com/lifeline/donor-registry/internal/auth"
	"github.com/lifeline/donor-registry/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health           *handlers.HealthHandler
	Auth             *handlers.AuthHandler
	Admin            *handlers.AdminHandler
	DonorProfile     *handlers.ProfileHandler
	RecipientProfile *handlers.ProfileHandler
	Donations        *handlers.DonationHandler
	AuthMiddleware   *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireAdmin())
	admin.Get("/pending-users", cfg.Admin.PendingUsers)
	admin.Put("/update-status/:userId", cfg.Admin.UpdateStatus)

	donor := app.Group("/donor", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleDonor))
	donor.Get("/info", cfg.DonorProfile.Info)
	donor.Put("/profile", cfg.DonorProfile.Update)

	recipient := app.Group("/recipient", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleRecipient))
	recipient.Get("/info", cfg.RecipientProfile.Info)
	recipient.Put("/profile", cfg.RecipientProfile.Update)
	recipient.Post("/request", cfg.Donations.Request)
}
