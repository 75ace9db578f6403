package auth

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/lifeline/donor-registry/internal/domain"
	apperrors "github.com/lifeline/donor-registry/pkg/util"
)

// RequireAdmin rejects callers whose token does not carry the admin flag.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !principal.IsAdmin {
			return apperrors.NewForbidden("admin access required")
		}
		return c.Next()
	}
}

// RequireRole rejects callers whose role differs from role.
func RequireRole(role domain.Role) fiber.Handler {
	msg := fmt.Sprintf("access restricted to %ss only", role)
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if principal.Role != role {
			return apperrors.NewForbidden(msg)
		}
		return c.Next()
	}
}
