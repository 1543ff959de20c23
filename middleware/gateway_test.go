package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp() *fiber.App {
	app := fiber.New()
	app.Use(GatewayAuthMiddleware("secret-token"))
	app.Use(UserContextMiddleware())
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/activities", func(c *fiber.Ctx) error { return c.SendString("catalog") })
	app.Get("/s/profile/badges", func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("profile_id").(string))
	})
	return app
}

func TestGatewayAuth(t *testing.T) {
	app := newTestApp()

	t.Run("health is open", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/healthz", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("missing token rejected", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/activities", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("wrong token rejected", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/activities", nil)
		req.Header.Set("Authorization", "Bearer wrong")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("valid token accepted", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/activities", nil)
		req.Header.Set("Authorization", "Bearer secret-token")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})
}

func TestUserContext(t *testing.T) {
	app := newTestApp()

	t.Run("secured route requires profile header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/s/profile/badges", nil)
		req.Header.Set("Authorization", "Bearer secret-token")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("profile header forwarded to handler", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/s/profile/badges", nil)
		req.Header.Set("Authorization", "Bearer secret-token")
		req.Header.Set("X-Profile-ID", "p1")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})
}
