package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/dzangaro/miti/internal/domain"
	"github.com/dzangaro/miti/internal/service"
)

type AlertHandler struct {
	alertService *service.AlertService
}

func NewAlertHandler(alertService *service.AlertService) *AlertHandler {
	return &AlertHandler{alertService: alertService}
}

// List returns the alerts for one triage tab, optionally narrowed by a
// search query.
// GET /api/v1/alerts?tab=main&q=water
func (h *AlertHandler) List(c *fiber.Ctx) error {
	tab := domain.AlertTab(c.Query("tab", string(domain.AlertTabMain)))
	if _, ok := tab.Status(); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "unknown tab",
		})
	}

	alerts := h.alertService.Filtered(tab, c.Query("q"))

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"alerts": alerts,
		"count":  len(alerts),
	})
}

// Get returns a single alert together with its expansion state.
// GET /api/v1/alerts/:id
func (h *AlertHandler) Get(c *fiber.Ctx) error {
	id, err := alertID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid alert id",
		})
	}

	alert, ok := h.alertService.Get(id)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "alert not found",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"alert":    alert,
		"expanded": h.alertService.Expanded(id),
	})
}

// Investigate moves an alert into the investigation channel
// POST /api/v1/alerts/:id/investigate
func (h *AlertHandler) Investigate(c *fiber.Ctx) error {
	id, err := alertID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid alert id",
		})
	}

	h.alertService.MoveToInvestigation(id)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "alert moved to investigation",
	})
}

// Close closes an alert
// POST /api/v1/alerts/:id/close
func (h *AlertHandler) Close(c *fiber.Ctx) error {
	id, err := alertID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid alert id",
		})
	}

	h.alertService.Close(id)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "alert closed",
	})
}

// Reopen moves a closed alert back to investigation
// POST /api/v1/alerts/:id/reopen
func (h *AlertHandler) Reopen(c *fiber.Ctx) error {
	id, err := alertID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid alert id",
		})
	}

	h.alertService.Reopen(id)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "alert reopened",
	})
}

// CreateCase escalates an alert into a case and closes it. The response
// points the client at the cases view.
// POST /api/v1/alerts/:id/case
func (h *AlertHandler) CreateCase(c *fiber.Ctx) error {
	id, err := alertID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid alert id",
		})
	}

	created, err := h.alertService.CreateCase(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if created == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "alert not found",
		})
	}

	c.Set("Location", "/api/v1/cases/"+created.ID.String())
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"case":     created,
		"redirect": "/cases",
	})
}

// ToggleExpanded flips the detail expansion state of an alert row
// POST /api/v1/alerts/:id/toggle
func (h *AlertHandler) ToggleExpanded(c *fiber.Ctx) error {
	id, err := alertID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid alert id",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"expanded": h.alertService.ToggleExpanded(id),
	})
}

func alertID(c *fiber.Ctx) (int64, error) {
	return strconv.ParseInt(c.Params("id"), 10, 64)
}
