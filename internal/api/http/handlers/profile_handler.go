package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lifeline/donor-registry/internal/api/dto"
	"github.com/lifeline/donor-registry/internal/domain"
	"github.com/lifeline/donor-registry/internal/service"
)

// ProfileHandler serves a caller's own profile for one role.
type ProfileHandler struct {
	profiles *service.ProfileService
	role     domain.Role
}

// NewProfileHandler constructs a handler bound to role.
func NewProfileHandler(profiles *service.ProfileService, role domain.Role) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, role: role}
}

// Info returns the caller's profile and donations.
func (h *ProfileHandler) Info(c *fiber.Ctx) error {
	caller, err := principal(c)
	if err != nil {
		return err
	}
	profile, err := h.profiles.Get(c.UserContext(), caller, h.role)
	if err != nil {
		return err
	}
	return c.JSON(data(dto.NewProfileResponse(profile)))
}

// Update edits the caller's profile.
func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	caller, err := principal(c)
	if err != nil {
		return err
	}
	var in service.UpdateProfileInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	user, err := h.profiles.Update(c.UserContext(), caller, h.role, in)
	if err != nil {
		return err
	}
	return c.JSON(data(dto.NewUserResponse(user)))
}
