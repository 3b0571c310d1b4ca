package middleware

import (
	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/config"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// CORS allows the web client to send bearer tokens and read the request id
// and rate-limit headers.
func CORS(cfg *config.Config) fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins:  cfg.CORSOrigins,
		AllowHeaders:  "Origin, Content-Type, Authorization, Accept",
		AllowMethods:  "GET, POST, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "X-Request-ID, Retry-After",
		MaxAge:        600,
	})
}
