package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/postpilot/postpilot/internal/service"
)

type UploadHandler struct {
	s service.UploadService
}

func NewUploadHandler(s service.UploadService) *UploadHandler {
	return &UploadHandler{s: s}
}

func (h *UploadHandler) UploadImage(c *fiber.Ctx) error {
	userID := GetUserID(c)
	postID := c.Params("id")

	file, err := c.FormFile("image")
	if err != nil {
		slog.Info(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No image file provided",
		})
	}

	imageURL, err := h.s.AttachImage(c.Context(), userID, postID, file)
	if err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":   true,
		"image_url": imageURL,
	})
}
