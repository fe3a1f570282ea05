package handlers

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v2"
	config "github.com/postpilot/postpilot/configs"
	"github.com/postpilot/postpilot/internal/service"
	"github.com/postpilot/postpilot/pkg/utils"
)

type MetaHandler struct {
	ms  service.MetaService
	cfg config.Config
}

func NewMetaHandler(cfg config.Config, ms service.MetaService) *MetaHandler {
	return &MetaHandler{ms: ms, cfg: cfg}
}

// ConnectStart redirects to the Meta authorization dialog. The caller's
// session token travels as the opaque state parameter; no local state is
// created.
func (h *MetaHandler) ConnectStart(c *fiber.Ctx) error {
	state := c.Query("state")
	if state == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "state is required",
		})
	}

	return c.Redirect(h.ms.ConnectURL(state))
}

func (h *MetaHandler) CallbackHandler(c *fiber.Ctx) error {
	code := c.Query("code")
	state := c.Query("state")

	claims, err := utils.ValidateToken(h.cfg.SecretKey, state)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("Authorization failed. Unable to validate user.")
	}

	userID, err := strconv.ParseInt(claims.UserID, 10, 64)
	if err != nil {
		slog.Info(err.Error())
		return c.Status(fiber.StatusBadRequest).SendString("Authorization failed. Unable to validate user.")
	}

	if err := h.ms.Callback(c.Context(), code, userID); err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("Error connecting to Meta. Please try again.")
	}

	redirectURL := fmt.Sprintf("%s/dashboard?connected=true", h.cfg.FrontendURL)
	return c.Redirect(redirectURL, fiber.StatusTemporaryRedirect)
}
