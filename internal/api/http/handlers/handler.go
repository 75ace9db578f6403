package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lifeline/donor-registry/internal/auth"
	"github.com/lifeline/donor-registry/internal/domain"
	apperrors "github.com/lifeline/donor-registry/pkg/util"
)

// data wraps a success payload in the response envelope.
func data(v any) fiber.Map {
	return fiber.Map{"data": v}
}

// parseBody decodes the JSON body into dst. Decoding failures surface as
// validation errors rather than the framework's 422.
func parseBody(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return nil
}

func principal(c *fiber.Ctx) (domain.Principal, error) {
	p, ok := auth.PrincipalFromContext(c)
	if !ok {
		return domain.Principal{}, apperrors.NewUnauthorized("authentication required")
	}
	return *p, nil
}
