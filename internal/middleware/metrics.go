package middleware

import (
	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/metrics"
	"github.com/gofiber/fiber/v2"
)

// RecordStatus counts every response by status code.
func RecordStatus(rec metrics.Recorder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		rec.RecordHTTPStatus(status)
		return err
	}
}
