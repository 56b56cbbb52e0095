package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dzangaro/miti/internal/service"
	"github.com/dzangaro/miti/pkg/validator"
)

type DemoHandler struct {
	demoService *service.DemoService
	validator   *validator.Validator
}

func NewDemoHandler(demoService *service.DemoService, validator *validator.Validator) *DemoHandler {
	return &DemoHandler{
		demoService: demoService,
		validator:   validator,
	}
}

// Submit forwards a marketing-site demo request
// POST /api/v1/demo-request
func (h *DemoHandler) Submit(c *fiber.Ctx) error {
	var req service.DemoRequest
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

	if err := h.demoService.Submit(c.Context(), req); err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "failed to submit demo request",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Thanks! We'll be in touch shortly.",
	})
}
