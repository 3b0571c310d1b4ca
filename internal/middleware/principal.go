package middleware

import (
	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

const principalKey = "principal"

// GetPrincipal returns the authenticated caller, or nil on public routes.
func GetPrincipal(c *fiber.Ctx) *services.Principal {
	if p, ok := c.Locals(principalKey).(*services.Principal); ok {
		return p
	}
	return nil
}

// PrincipalEmail returns the caller's verified email, or "".
func PrincipalEmail(c *fiber.Ctx) string {
	if p := GetPrincipal(c); p != nil {
		return p.Email
	}
	return ""
}

func setPrincipal(c *fiber.Ctx, p *services.Principal) {
	c.Locals(principalKey, p)
}
