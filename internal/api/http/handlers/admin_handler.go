package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/lifeline/donor-registry/internal/api/dto"
	"github.com/lifeline/donor-registry/internal/service"
)

// AdminHandler serves the approval queue.
type AdminHandler struct {
	approvals *service.ApprovalService
}

// NewAdminHandler constructs the handler.
func NewAdminHandler(approvals *service.ApprovalService) *AdminHandler {
	return &AdminHandler{approvals: approvals}
}

// PendingUsers lists accounts awaiting a decision, oldest first.
func (h *AdminHandler) PendingUsers(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	users, err := h.approvals.ListPending(c.UserContext(), actor)
	if err != nil {
		return err
	}
	return c.JSON(data(dto.NewUserList(users)))
}

// UpdateStatus approves or rejects a user.
func (h *AdminHandler) UpdateStatus(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.UpdateStatusRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	user, err := h.approvals.SetStatus(c.UserContext(), actor, c.Params("userId"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(data(dto.StatusUpdateResponse{
		Message: fmt.Sprintf("User %s successfully", user.Status),
		User:    dto.NewUserResponse(user),
	}))
}
