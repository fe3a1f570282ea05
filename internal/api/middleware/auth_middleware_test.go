package middleware

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	config "github.com/postpilot/postpilot/configs"
	"github.com/postpilot/postpilot/pkg/utils"
)

func testApp(cfg config.Config) *fiber.App {
	app := fiber.New()
	app.Use(NewAuthMiddleware(cfg).AuthMiddleware())
	app.Get("/", func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(int64)
		return c.SendString(fmt.Sprintf("%d", userID))
	})
	return app
}

func TestAuthMiddlewareCookie(t *testing.T) {
	cfg := config.Config{SecretKey: "test-secret", CookieName: "session"}
	app := testApp(cfg)

	token, err := utils.GenerateToken(cfg.SecretKey, "7", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: token})

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, "7", string(body))
}

func TestAuthMiddlewareBearerHeader(t *testing.T) {
	cfg := config.Config{SecretKey: "test-secret", CookieName: "session"}
	app := testApp(cfg)

	token, err := utils.GenerateToken(cfg.SecretKey, "42", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, "42", string(body))
}

func TestAuthMiddlewareNoToken(t *testing.T) {
	cfg := config.Config{SecretKey: "test-secret", CookieName: "session"}
	app := testApp(cfg)

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddlewareInvalidToken(t *testing.T) {
	cfg := config.Config{SecretKey: "test-secret", CookieName: "session"}
	app := testApp(cfg)

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: "not-a-token"})

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddlewareNonNumericUserID(t *testing.T) {
	cfg := config.Config{SecretKey: "test-secret", CookieName: "session"}
	app := testApp(cfg)

	token, err := utils.GenerateToken(cfg.SecretKey, "not-a-number", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: token})

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
