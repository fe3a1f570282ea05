package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/postpilot/postpilot/internal/service"
)

type UserHandler struct {
	s service.UserService
}

func NewUserHandler(service service.UserService) *UserHandler {
	return &UserHandler{s: service}
}

func (h *UserHandler) GetUserInfo(c *fiber.Ctx) error {
	userID := GetUserID(c)

	user, err := h.s.GetUserInfo(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"user":    user,
	})
}

func (h *UserHandler) RemoveUser(c *fiber.Ctx) error {
	userID := GetUserID(c)

	if err := h.s.RemoveUser(c.Context(), userID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to delete account",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Account deleted successfully",
	})
}
