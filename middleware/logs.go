package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"Traxovo/Logger"
	"Traxovo/Models"
)

// RequestLogger logs every request with latency and status through the
// shared zap logger. Health checks are skipped to keep the log useful.
func RequestLogger() fiber.Handler {
	skip := map[string]bool{"/health": true}

	return func(c *fiber.Ctx) error {
		if skip[c.Path()] {
			return c.Next()
		}

		start := time.Now()
		err := c.Next()

		fields := []interface{}{
			"method", c.Method(),
			"path", c.Path(),
			"status", c.Response().StatusCode(),
			"latency", time.Since(start).String(),
			"ip", c.IP(),
		}
		if user, ok := c.Locals("user").(Models.User); ok {
			fields = append(fields, "user_id", user.ID)
		}
		if err != nil {
			fields = append(fields, "error", err.Error())
			Logger.Log.Errorw("request", fields...)
			return err
		}
		Logger.Log.Infow("request", fields...)
		return nil
	}
}
