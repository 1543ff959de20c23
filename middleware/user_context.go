package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// UserContextMiddleware extracts the player identity forwarded by the
// Gateway. Secured routes (under /s/) require X-Profile-ID; auth itself
// happened upstream.
func UserContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		profileID := c.Get("X-Profile-ID")
		rolesStr := c.Get("X-User-Roles")

		if strings.HasPrefix(c.Path(), "/s/") && profileID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing X-Profile-ID — request must come through gateway with auth context",
			})
		}

		var roles []string
		for _, r := range strings.Split(rolesStr, ",") {
			r = strings.TrimSpace(r)
			if r != "" {
				roles = append(roles, r)
			}
		}

		c.Locals("profile_id", profileID)
		c.Locals("user_roles", roles)
		return c.Next()
	}
}
