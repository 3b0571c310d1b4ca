package middleware

import (
	"context"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/models"
	"github.com/gofiber/fiber/v2"
)

// RoleLookup resolves the stored role of an email.
type RoleLookup interface {
	RoleOf(ctx context.Context, email string) (models.Role, error)
}

// RequireRole permits the request when the caller's stored role is one of
// roles. It must run after Authenticate.
func RequireRole(lookup RoleLookup, roles ...models.Role) fiber.Handler {
	allowed := make(map[models.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c *fiber.Ctx) error {
		email := PrincipalEmail(c)
		if email == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		role, err := lookup.RoleOf(c.UserContext(), email)
		if err != nil {
			slog.Warn("role lookup failed", "request_id", requestID(c), "user_email", email, "error", err)
		}
		if err == nil && allowed[role] {
			return c.Next()
		}

		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Forbidden: insufficient role",
		})
	}
}
