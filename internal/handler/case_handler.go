package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/dzangaro/miti/internal/repository/postgres"
	"github.com/dzangaro/miti/internal/service"
	"github.com/dzangaro/miti/pkg/validator"
)

type CaseHandler struct {
	caseService *service.CaseService
	validator   *validator.Validator
}

func NewCaseHandler(caseService *service.CaseService, validator *validator.Validator) *CaseHandler {
	return &CaseHandler{
		caseService: caseService,
		validator:   validator,
	}
}

type noteRequest struct {
	Content string `json:"content" validate:"required"`
}

// List returns a page of cases
// GET /api/v1/cases?limit=50&offset=0
func (h *CaseHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)

	cases, total, err := h.caseService.List(c.Context(), limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"cases": cases,
		"total": total,
	})
}

// Get returns one case with its note thread
// GET /api/v1/cases/:id
func (h *CaseHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid case id",
		})
	}

	record, notes, err := h.caseService.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, postgres.ErrCaseNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "case not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"case":  record,
		"notes": notes,
	})
}

// AddNote appends a note to a case
// POST /api/v1/cases/:id/notes
func (h *CaseHandler) AddNote(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid case id",
		})
	}

	var req noteRequest
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

	author := "unknown"
	if actor := actorFromLocals(c); actor != nil {
		author = actor.Name
		if author == "" {
			author = actor.Username
		}
	}

	note, err := h.caseService.AddNote(c.Context(), id, author, req.Content)
	if err != nil {
		if errors.Is(err, postgres.ErrCaseNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "case not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(note)
}

// UpdateNote rewrites the content of an existing note
// PUT /api/v1/cases/:id/notes/:noteId
func (h *CaseHandler) UpdateNote(c *fiber.Ctx) error {
	caseID, noteID, err := noteIDs(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	var req noteRequest
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

	if err := h.caseService.UpdateNote(c.Context(), caseID, noteID, req.Content); err != nil {
		if errors.Is(err, postgres.ErrCaseNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "note not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "note updated",
	})
}

// DeleteNote removes a note from a case
// DELETE /api/v1/cases/:id/notes/:noteId
func (h *CaseHandler) DeleteNote(c *fiber.Ctx) error {
	caseID, noteID, err := noteIDs(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if err := h.caseService.DeleteNote(c.Context(), caseID, noteID); err != nil {
		if errors.Is(err, postgres.ErrCaseNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "note not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "note deleted",
	})
}

func noteIDs(c *fiber.Ctx) (caseID, noteID uuid.UUID, err error) {
	caseID, err = uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, errors.New("invalid case id")
	}
	noteID, err = uuid.Parse(c.Params("noteId"))
	if err != nil {
		return uuid.Nil, uuid.Nil, errors.New("invalid note id")
	}
	return caseID, noteID, nil
}
