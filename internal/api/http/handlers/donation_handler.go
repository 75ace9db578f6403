package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lifeline/donor-registry/internal/api/dto"
	"github.com/lifeline/donor-registry/internal/service"
)

// DonationHandler lets recipients request donations.
type DonationHandler struct {
	donations *service.DonationService
}

// NewDonationHandler constructs the handler.
func NewDonationHandler(donations *service.DonationService) *DonationHandler {
	return &DonationHandler{donations: donations}
}

// Request records a donation request from the caller to a donor.
func (h *DonationHandler) Request(c *fiber.Ctx) error {
	caller, err := principal(c)
	if err != nil {
		return err
	}
	var in service.RequestDonationInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	donation, err := h.donations.Request(c.UserContext(), caller, in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(data(dto.NewDonationResponse(donation)))
}
