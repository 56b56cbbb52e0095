package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dzangaro/miti/internal/domain"
)

// RequirePermission gates a route group on the fixed role-permission table.
// Must run after AuthMiddleware.
func RequirePermission(permission domain.Permission) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("role").(domain.Role)
		if !ok || !domain.RoleHasPermission(role, permission) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "insufficient permissions",
			})
		}
		return c.Next()
	}
}
