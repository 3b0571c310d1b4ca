package middleware

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/services"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// Authenticate requires a bearer ID token. A missing or malformed token is
// 401; a token that fails verification is 403. Key lookups run under the
// request context.
func Authenticate(verifier *services.IdentityVerifier) fiber.Handler {
	base := authConfig(verifier)
	return func(c *fiber.Ctx) error {
		cfg := base
		cfg.KeyFunc = verifier.Keyfunc(c.UserContext())
		return jwtware.New(cfg)(c)
	}
}

func authConfig(verifier *services.IdentityVerifier) jwtware.Config {
	return jwtware.Config{
		SuccessHandler: func(c *fiber.Ctx) error {
			token, _ := c.Locals("user").(*jwt.Token)
			principal, err := verifier.Principal(token)
			if err != nil {
				slog.Warn("token rejected", "request_id", requestID(c), "error", err)
				return forbidden(c)
			}
			setPrincipal(c, principal)
			return c.Next()
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if errors.Is(err, jwtware.ErrJWTMissingOrMalformed) || errors.Is(err, jwt.ErrTokenMalformed) {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
					Error:   true,
					Message: "Unauthorized: missing or malformed token",
				})
			}
			slog.Warn("token rejected", "request_id", requestID(c), "error", err)
			return forbidden(c)
		},
	}
}

func forbidden(c *fiber.Ctx) error {
	return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
		Error:   true,
		Message: "Forbidden: invalid or expired token",
	})
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return ""
}
