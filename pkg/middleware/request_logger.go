package middleware

import (
	"time"

	"github.com/gilanghuda/habit-tracker-backend/pkg/logger"
	"github.com/gofiber/fiber/v2"
)

// RequestLogger logs one line per request through the application logger.
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			// the error handler sets the final status
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		keyvals := []interface{}{
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"duration", time.Since(start).Round(time.Microsecond),
		}
		switch {
		case status >= fiber.StatusInternalServerError:
			logger.Error("request", keyvals...)
		case status >= fiber.StatusBadRequest:
			logger.Warn("request", keyvals...)
		default:
			logger.Info("request", keyvals...)
		}
		return nil
	}
}
