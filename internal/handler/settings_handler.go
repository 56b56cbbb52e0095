package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dzangaro/miti/internal/service"
)

// SettingsHandler exposes the tenant onboarding flag that decides whether the
// dashboard shows live data or the connect-your-data-source prompt.
type SettingsHandler struct {
	authService *service.AuthService
}

func NewSettingsHandler(authService *service.AuthService) *SettingsHandler {
	return &SettingsHandler{authService: authService}
}

// GetDataSource reports whether the tenant has a configured data source
// GET /api/v1/settings/datasource
func (h *SettingsHandler) GetDataSource(c *fiber.Ctx) error {
	configured, err := h.authService.HasConfiguredDataSource(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"configured": configured,
	})
}

// SetDataSource flips the tenant's onboarding flag
// PUT /api/v1/settings/datasource
func (h *SettingsHandler) SetDataSource(c *fiber.Ctx) error {
	actor := actorFromLocals(c)
	if actor == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "not authenticated",
		})
	}

	var req struct {
		Configured bool `json:"configured"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := h.authService.SetHasConfiguredDataSource(c.Context(), actor.TenantID, req.Configured); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"configured": req.Configured,
	})
}
