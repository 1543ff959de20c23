package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"activity-rewards-system/utils"
)

// RequestLogger records one structured log line plus prometheus counters per
// request.
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		path := c.Route().Path
		if path == "" || path == "/" {
			path = c.Path()
		}
		status := c.Response().StatusCode()
		duration := time.Since(start).Seconds()

		utils.ReqCount.WithLabelValues(c.Method(), path, strconv.Itoa(status)).Inc()
		utils.ReqDuration.WithLabelValues(c.Method(), path).Observe(duration)

		utils.Logger.Info("http_request",
			zap.String("method", c.Method()),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Float64("duration", duration),
			zap.String("client_ip", c.IP()),
		)
		return err
	}
}

// Recovery turns handler panics into 500s instead of dropping the connection.
func Recovery() fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				utils.Logger.Error("panic_recovered", zap.Any("panic", r))
				err = c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
			}
		}()
		return c.Next()
	}
}
