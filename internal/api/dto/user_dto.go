package dto

import (
	"time"

	"github.com/lifeline/donor-registry/internal/domain"
	"github.com/lifeline/donor-registry/internal/service"
)

// UserResponse is the public view of a user. It never carries the password hash,
// and only the attributes of the user's own role are present.
type UserResponse struct {
	ID              string            `json:"id"`
	FullName        string            `json:"fullName"`
	Email           string            `json:"email"`
	Role            domain.Role       `json:"role"`
	IsAdmin         bool              `json:"isAdmin"`
	Status          domain.UserStatus `json:"status"`
	BloodType       *domain.BloodType `json:"bloodType,omitempty"`
	OrgansOffered   *string           `json:"organsOffered,omitempty"`
	NeededBloodType *domain.BloodType `json:"neededBloodType,omitempty"`
	NeededOrgan     *string           `json:"neededOrgan,omitempty"`
	PhoneNumber     string            `json:"phoneNumber"`
	Address         string            `json:"address"`
	MedicalHistory  string            `json:"medicalHistory"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(u *domain.User) UserResponse {
	resp := UserResponse{
		ID:             u.ID,
		FullName:       u.FullName,
		Email:          u.Email,
		Role:           u.Role,
		IsAdmin:        u.IsAdmin,
		Status:         u.Status,
		PhoneNumber:    u.Contact.PhoneNumber,
		Address:        u.Contact.Address,
		MedicalHistory: u.Contact.MedicalHistory,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
	switch p := u.Profile.(type) {
	case domain.DonorProfile:
		resp.BloodType, resp.OrgansOffered = &p.BloodType, &p.OrgansOffered
	case domain.RecipientProfile:
		resp.NeededBloodType, resp.NeededOrgan = &p.NeededBloodType, &p.NeededOrgan
	}
	return resp
}

// NewUserList maps a slice of users, never returning nil.
func NewUserList(users []*domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserResponse(u))
	}
	return out
}

// RegisterResponse is returned after self-registration.
type RegisterResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

// LoginResponse carries the bearer token and display fields.
type LoginResponse struct {
	Token       string      `json:"token"`
	ExpiresAt   time.Time   `json:"expiresAt"`
	UserID      string      `json:"userId"`
	DisplayName string      `json:"displayName"`
	Role        domain.Role `json:"role"`
	IsAdmin     bool        `json:"isAdmin"`
}

// NewLoginResponse maps a login result.
func NewLoginResponse(res *service.LoginResult) LoginResponse {
	return LoginResponse{
		Token:       res.Token,
		ExpiresAt:   res.ExpiresAt,
		UserID:      res.User.ID,
		DisplayName: res.User.FullName,
		Role:        res.User.Role,
		IsAdmin:     res.User.IsAdmin,
	}
}

// UpdateStatusRequest is the admin decision payload.
type UpdateStatusRequest struct {
	Status domain.UserStatus `json:"status"`
}

// StatusUpdateResponse confirms an admin decision.
type StatusUpdateResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

// ProfileResponse is a user's own profile with their donations.
type ProfileResponse struct {
	UserResponse
	Donations []DonationResponse `json:"donations"`
}

// NewProfileResponse maps a service profile.
func NewProfileResponse(p *service.Profile) ProfileResponse {
	return ProfileResponse{
		UserResponse: NewUserResponse(p.User),
		Donations:    NewDonationList(p.Donations),
	}
}
