package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lifeline/donor-registry/internal/api/dto"
	"github.com/lifeline/donor-registry/internal/service"
)

const registeredMessage = "Registration submitted. Awaiting admin approval."

// AuthHandler exposes registration and login.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register creates a pending account.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in service.RegisterInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	user, err := h.auth.Register(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(data(dto.RegisterResponse{
		Message: registeredMessage,
		User:    dto.NewUserResponse(user),
	}))
}

// Login exchanges credentials for a bearer token.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in service.LoginInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	res, err := h.auth.Login(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.JSON(data(dto.NewLoginResponse(res)))
}
