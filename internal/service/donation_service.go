package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lifeline/donor-registry/internal/domain"
	"github.com/lifeline/donor-registry/internal/events"
	"github.com/lifeline/donor-registry/internal/repository"
	"github.com/lifeline/donor-registry/internal/validation"
	apperrors "github.com/lifeline/donor-registry/pkg/util"
)

// RequestDonationInput is a recipient's request to a specific donor.
type RequestDonationInput struct {
	DonorID      string              `json:"donorId" validate:"required"`
	DonationType domain.DonationType `json:"donationType" validate:"required,oneof=blood organ"`
	Details      string              `json:"details" validate:"max=1000"`
	Hospital     string              `json:"hospital" validate:"max=200"`
	Doctor       string              `json:"doctor" validate:"max=200"`
	Urgency      domain.Urgency      `json:"urgency" validate:"omitempty,oneof=normal urgent critical"`
}

// DonationService records donation requests between approved users.
type DonationService struct {
	users      repository.UserRepository
	donations  repository.DonationRepository
	validator  *validation.Validator
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewDonationService builds the service.
func NewDonationService(users repository.UserRepository, donations repository.DonationRepository, v *validation.Validator, dispatcher events.Dispatcher, logger *zap.Logger) *DonationService {
	return &DonationService{users: users, donations: donations, validator: v, dispatcher: dispatcher, logger: logger}
}

// Request creates a pending donation from an approved donor to the caller.
func (s *DonationService) Request(ctx context.Context, caller domain.Principal, in RequestDonationInput) (*domain.Donation, error) {
	if caller.Role != domain.RoleRecipient {
		return nil, apperrors.NewForbidden("access restricted to recipients only")
	}
	in.DonorID = strings.TrimSpace(in.DonorID)
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}

	donor, err := s.users.GetByID(ctx, in.DonorID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewInternalError(err)
	}
	if donor == nil || donor.Role != domain.RoleDonor || donor.Status != domain.UserStatusApproved {
		return nil, apperrors.NewNotFound("donor", map[string]any{"donorId": in.DonorID})
	}

	urgency := in.Urgency
	if urgency == "" {
		urgency = domain.UrgencyNormal
	}
	donation := &domain.Donation{
		ID:          uuid.NewString(),
		DonorID:     donor.ID,
		RecipientID: caller.UserID,
		Type:        in.DonationType,
		Details:     strings.TrimSpace(in.Details),
		Hospital:    strings.TrimSpace(in.Hospital),
		Doctor:      strings.TrimSpace(in.Doctor),
		Urgency:     urgency,
		Status:      domain.DonationStatusPending,
	}
	if err := s.donations.Create(ctx, donation); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	publish(ctx, s.dispatcher, s.logger, events.New(events.EventDonationRequested, donation.RecipientID, caller.UserID,
		events.DonationRequestedPayload{
			DonationID: donation.ID,
			DonorID:    donation.DonorID,
			Type:       donation.Type,
			Urgency:    donation.Urgency,
		}))
	return donation, nil
}
