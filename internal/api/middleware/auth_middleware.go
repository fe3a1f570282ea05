package middleware

import (
	"log"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	config "github.com/postpilot/postpilot/configs"
	"github.com/postpilot/postpilot/pkg/utils"
)

type AuthMiddleware struct {
	cfg config.Config
}

func NewAuthMiddleware(cfg config.Config) *AuthMiddleware {
	return &AuthMiddleware{cfg: cfg}
}

// AuthMiddleware accepts the session cookie or an Authorization bearer header
// and stores the caller's user id in the request locals.
func (m *AuthMiddleware) AuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := c.Cookies(m.cfg.CookieName)

		if authHeader := c.Get("Authorization"); authHeader != "" {
			if after, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
				tokenString = after
			}
		}

		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "No token provided",
			})
		}

		claims, err := utils.ValidateToken(m.cfg.SecretKey, tokenString)
		if err != nil {
			c.Cookie(&fiber.Cookie{
				Name:   m.cfg.CookieName,
				Value:  "",
				Path:   "/",
				MaxAge: -1, // Delete cookie
			})

			log.Printf("Token validation failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		userID, err := strconv.ParseInt(claims.UserID, 10, 64)
		if err != nil {
			log.Printf("Token carries a malformed user id: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals("user_id", userID)
		return c.Next()
	}
}
