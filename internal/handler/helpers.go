package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dzangaro/miti/internal/domain"
)

// actorFromLocals rebuilds the acting user from the claims stored by the auth
// middleware. Returns nil on unauthenticated routes.
func actorFromLocals(c *fiber.Ctx) *domain.User {
	claims, ok := c.Locals("claims").(*domain.Claims)
	if !ok || claims == nil {
		return nil
	}
	return &domain.User{
		ID:       claims.UserID,
		Email:    claims.Email,
		Username: usernameOf(claims.Email),
		Role:     claims.Role,
		TenantID: claims.TenantID,
	}
}

func usernameOf(email string) string {
	for i := 0; i < len(email); i++ {
		if email[i] == '@' {
			return email[:i]
		}
	}
	return email
}
