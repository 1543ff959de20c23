package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"activity-rewards-system/utils"
)

// GatewayAuthMiddleware validates the Bearer token from the Gateway.
// Everything except health and metrics must come through the gateway.
func GatewayAuthMiddleware(expectedToken string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Path()
		if path == "/healthz" || path == "/metrics" {
			return c.Next()
		}

		authHeader := c.Get("Authorization")
		if authHeader == "" {
			utils.Logger.Warn("gateway_auth_missing", zap.String("path", path))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "gateway authentication token missing",
			})
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token != expectedToken {
			utils.Logger.Warn("gateway_auth_invalid", zap.String("path", path))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid gateway authentication token",
			})
		}

		return c.Next()
	}
}
