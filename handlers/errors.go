package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"activity-rewards-system/services"
	"activity-rewards-system/utils"
)

// respondError maps engine errors onto HTTP statuses. Internal detail never
// reaches the client; the mobile app shows a generic retry alert.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrActivityNotFound),
		errors.Is(err, services.ErrProfileNotFound),
		errors.Is(err, services.ErrTeamNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrPhotoRequired):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	default:
		utils.Logger.Error("request_failed", zap.String("path", c.Path()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "something went wrong, please retry"})
	}
}
