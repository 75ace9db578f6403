package service

import (
	"context"
	"errors"
	"strings"

	"github.com/lifeline/donor-registry/internal/domain"
	"github.com/lifeline/donor-registry/internal/repository"
	"github.com/lifeline/donor-registry/internal/validation"
	apperrors "github.com/lifeline/donor-registry/pkg/util"
)

// Profile is a user's own record together with their donations.
type Profile struct {
	User      *domain.User
	Donations []*domain.Donation
}

// UpdateProfileInput carries the editable fields. Nil fields are left as-is;
// fields belonging to the other role are ignored.
type UpdateProfileInput struct {
	FullName        *string           `json:"fullName" validate:"omitempty,notblank,max=100"`
	PhoneNumber     *string           `json:"phoneNumber" validate:"omitempty,max=30"`
	Address         *string           `json:"address" validate:"omitempty,max=300"`
	MedicalHistory  *string           `json:"medicalHistory" validate:"omitempty,max=2000"`
	BloodType       *domain.BloodType `json:"bloodType" validate:"omitempty,bloodtype"`
	OrgansOffered   *string           `json:"organsOffered" validate:"omitempty,max=200"`
	NeededBloodType *domain.BloodType `json:"neededBloodType" validate:"omitempty,bloodtype"`
	NeededOrgan     *string           `json:"neededOrgan" validate:"omitempty,max=100"`
}

// ProfileService reads and edits a caller's own profile.
type ProfileService struct {
	users     repository.UserRepository
	donations repository.DonationRepository
	validator *validation.Validator
}

// NewProfileService builds the service.
func NewProfileService(users repository.UserRepository, donations repository.DonationRepository, v *validation.Validator) *ProfileService {
	return &ProfileService{users: users, donations: donations, validator: v}
}

// Get returns the caller's profile. The caller must hold role.
func (s *ProfileService) Get(ctx context.Context, caller domain.Principal, role domain.Role) (*Profile, error) {
	user, err := s.ownUser(ctx, caller, role)
	if err != nil {
		return nil, err
	}

	var donations []*domain.Donation
	if role == domain.RoleDonor {
		donations, err = s.donations.ListByDonor(ctx, user.ID)
	} else {
		donations, err = s.donations.ListByRecipient(ctx, user.ID)
	}
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &Profile{User: user, Donations: donations}, nil
}

// Update edits non-identity fields. Email, role, status and the admin
// flag cannot be changed here.
func (s *ProfileService) Update(ctx context.Context, caller domain.Principal, role domain.Role, in UpdateProfileInput) (*domain.User, error) {
	if in.FullName != nil {
		trimmed := strings.TrimSpace(*in.FullName)
		in.FullName = &trimmed
	}
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}

	user, err := s.ownUser(ctx, caller, role)
	if err != nil {
		return nil, err
	}

	setString(&user.FullName, in.FullName)
	setString(&user.Contact.PhoneNumber, in.PhoneNumber)
	setString(&user.Contact.Address, in.Address)
	setString(&user.Contact.MedicalHistory, in.MedicalHistory)

	switch p := user.Profile.(type) {
	case domain.DonorProfile:
		if in.BloodType != nil {
			p.BloodType = *in.BloodType
		}
		setString(&p.OrgansOffered, in.OrgansOffered)
		user.Profile = p
	case domain.RecipientProfile:
		if in.NeededBloodType != nil {
			p.NeededBloodType = *in.NeededBloodType
		}
		setString(&p.NeededOrgan, in.NeededOrgan)
		user.Profile = p
	}

	if err := s.users.UpdateProfile(ctx, user); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, apperrors.NewInternalError(err)
	}
	return user, nil
}

func (s *ProfileService) ownUser(ctx context.Context, caller domain.Principal, role domain.Role) (*domain.User, error) {
	if caller.Role != role {
		return nil, apperrors.NewForbidden("access restricted to " + string(role) + "s only")
	}
	user, err := s.users.GetByID(ctx, caller.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewNotFound("user", nil)
	}
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if user.Role != role {
		return nil, apperrors.NewForbidden("access restricted to " + string(role) + "s only")
	}
	return user, nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}
