package handlers

import (
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/postpilot/postpilot/internal/service"
	"github.com/postpilot/postpilot/internal/transfer"
)

type CalendarHandler struct {
	s service.CalendarService
}

func NewCalendarHandler(s service.CalendarService) *CalendarHandler {
	return &CalendarHandler{s: s}
}

func (h *CalendarHandler) GenerateCalendar(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var req transfer.CalendarRequest
	if err := c.BodyParser(&req); err != nil {
		slog.Info(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}

	if req.BusinessIdea == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Business idea is required",
		})
	}

	posts, err := h.s.Generate(c.Context(), userID, req.BusinessIdea)
	if err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": fmt.Sprintf("Generated %d posts", len(posts)),
		"posts":   posts,
	})
}
