package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/postpilot/postpilot/internal/service"
)

// GetUserID reads the caller's id stored by the auth middleware. The
// middleware rejects tokens whose user id claim is not numeric, so the
// assertion cannot miss on an authenticated route.
func GetUserID(c *fiber.Ctx) int64 {
	userID, _ := c.Locals("user_id").(int64)
	return userID
}

// statusForError maps service precondition failures to their HTTP status.
func statusForError(err error) int {
	switch {
	case errors.Is(err, service.ErrMetaNotConnected),
		errors.Is(err, service.ErrMissingImage):
		return fiber.StatusBadRequest
	case errors.Is(err, service.ErrPostNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, service.ErrUpstreamParse):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}
