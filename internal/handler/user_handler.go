package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/dzangaro/miti/internal/service"
	"github.com/dzangaro/miti/pkg/validator"
)

type UserHandler struct {
	userService *service.UserService
	validator   *validator.Validator
}

func NewUserHandler(userService *service.UserService, validator *validator.Validator) *UserHandler {
	return &UserHandler{
		userService: userService,
		validator:   validator,
	}
}

// Me returns the acting user's identity snapshot
// GET /api/v1/users/me
func (h *UserHandler) Me(c *fiber.Ctx) error {
	actor := actorFromLocals(c)
	if actor == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "not authenticated",
		})
	}
	return c.Status(fiber.StatusOK).JSON(actor)
}

// List returns the users of the acting admin's tenant
// GET /api/v1/users
func (h *UserHandler) List(c *fiber.Ctx) error {
	actor := actorFromLocals(c)
	if actor == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "not authenticated",
		})
	}

	users, err := h.userService.ListTenantUsers(c.Context(), actor)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"users": users,
	})
}

// Invite provisions a new user inside the admin's tenant
// POST /api/v1/users/invite
func (h *UserHandler) Invite(c *fiber.Ctx) error {
	actor := actorFromLocals(c)
	if actor == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "not authenticated",
		})
	}

	var req service.InviteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := h.validator.Validate(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	created, err := h.userService.Invite(c.Context(), actor, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDomainMismatch):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		case errors.Is(err, service.ErrEmailTaken):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

// Update changes a user's name and role
// PATCH /api/v1/users/:id
func (h *UserHandler) Update(c *fiber.Ctx) error {
	actor := actorFromLocals(c)
	if actor == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "not authenticated",
		})
	}

	var req service.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := h.validator.Validate(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	updated, err := h.userService.Update(c.Context(), actor, c.Params("id"), req)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(updated)
}

// Remove deletes a user from the tenant
// DELETE /api/v1/users/:id
func (h *UserHandler) Remove(c *fiber.Ctx) error {
	actor := actorFromLocals(c)
	if actor == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "not authenticated",
		})
	}

	if err := h.userService.Remove(c.Context(), actor, c.Params("id")); err != nil {
		switch {
		case errors.Is(err, service.ErrSelfRemoval):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		case errors.Is(err, service.ErrUserNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "user removed",
	})
}
