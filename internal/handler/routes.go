package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/nairbf/Reservekit-sub003/internal/domain"
	"github.com/nairbf/Reservekit-sub003/internal/handler/middleware"
	"github.com/nairbf/Reservekit-sub003/internal/service"
)

func SetupRoutes(
	app *fiber.App,
	authHandler *AuthHandler,
	adminHandler *AdminHandler,
	scheduleHandler *ScheduleHandler,
	healthHandler *HealthHandler,
	cronHandler *CronHandler,
	sessionService *service.SessionService,
	permissionService *service.PermissionService,
	cookieName string,
) {
	api := app.Group("/api")

	// Operational endpoints (public / secret-gated)
	api.Get("/health", healthHandler.Health)
	api.Get("/cron/:job", cronHandler.Run)

	// Each application gets its own auth surface; a session issued on one
	// is rejected by the others.
	scopes := []domain.AppScope{
		domain.ScopeMarketing,
		domain.ScopeAdmin,
		domain.ScopeDashboard,
	}
	for _, scope := range scopes {
		auth := api.Group("/" + string(scope) + "/auth")
		auth.Post("/login", authHandler.Login(scope))
		auth.Post("/logout", authHandler.Logout)
		auth.Get("/me", middleware.RequireSession(sessionService, cookieName, scope), authHandler.Me)
	}

	// Platform console mutations (admin scope + capability)
	adminSession := middleware.RequireSession(sessionService, cookieName, domain.ScopeAdmin)
	manageUsers := middleware.RequirePermission(permissionService, service.CapManageUsers)

	adminUsers := api.Group("/admin/users", adminSession, manageUsers)
	adminUsers.Delete("/:id", adminHandler.DeleteUser)
	adminUsers.Post("/:id/permissions", adminHandler.GrantPermission)
	adminUsers.Delete("/:id/permissions", adminHandler.RevokePermission)

	// Dashboard mutations (dashboard scope + capability)
	dashboardSession := middleware.RequireSession(sessionService, cookieName, domain.ScopeDashboard)
	manageSchedule := middleware.RequirePermission(permissionService, service.CapManageSchedule)

	api.Put("/schedule", dashboardSession, manageSchedule, scheduleHandler.Update)
}
