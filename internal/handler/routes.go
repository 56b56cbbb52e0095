package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dzangaro/miti/internal/domain"
	"github.com/dzangaro/miti/internal/handler/middleware"
)

func SetupRoutes(
	app *fiber.App,
	authHandler *AuthHandler,
	alertHandler *AlertHandler,
	caseHandler *CaseHandler,
	userHandler *UserHandler,
	settingsHandler *SettingsHandler,
	demoHandler *DemoHandler,
	healthHandler *HealthHandler,
	authMiddleware fiber.Handler,
) {
	// Health checks (public)
	app.Get("/health", healthHandler.Health)
	app.Get("/ready", healthHandler.Ready)

	api := app.Group("/api/v1")

	// Public marketing-site endpoint
	api.Post("/demo-request", demoHandler.Submit)

	// Auth routes (public)
	auth := api.Group("/auth")
	auth.Post("/signup", authHandler.Signup)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)
	auth.Post("/logout", authMiddleware, authHandler.Logout)

	viewData := middleware.RequirePermission(domain.PermissionViewData)
	editData := middleware.RequirePermission(domain.PermissionEditData)
	manageUsers := middleware.RequirePermission(domain.PermissionManageUsers)

	// Alert triage
	alerts := api.Group("/alerts", authMiddleware)
	alerts.Get("/", viewData, alertHandler.List)
	alerts.Get("/:id", viewData, alertHandler.Get)
	alerts.Post("/:id/toggle", viewData, alertHandler.ToggleExpanded)
	alerts.Post("/:id/investigate", editData, alertHandler.Investigate)
	alerts.Post("/:id/close", editData, alertHandler.Close)
	alerts.Post("/:id/reopen", editData, alertHandler.Reopen)
	alerts.Post("/:id/case", editData, alertHandler.CreateCase)

	// Case management
	cases := api.Group("/cases", authMiddleware)
	cases.Get("/", viewData, caseHandler.List)
	cases.Get("/:id", viewData, caseHandler.Get)
	cases.Post("/:id/notes", editData, caseHandler.AddNote)
	cases.Put("/:id/notes/:noteId", editData, caseHandler.UpdateNote)
	cases.Delete("/:id/notes/:noteId", editData, caseHandler.DeleteNote)

	// User management (admin only)
	users := api.Group("/users", authMiddleware)
	users.Get("/me", userHandler.Me)
	users.Get("/", manageUsers, userHandler.List)
	users.Post("/invite", manageUsers, userHandler.Invite)
	users.Patch("/:id", manageUsers, userHandler.Update)
	users.Delete("/:id", manageUsers, userHandler.Remove)

	// Tenant settings
	settings := api.Group("/settings", authMiddleware)
	settings.Get("/datasource", viewData, settingsHandler.GetDataSource)
	settings.Put("/datasource", editData, settingsHandler.SetDataSource)
}
