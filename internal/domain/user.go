package domain

import (
	"strings"
	"time"
)

// Role is the registration-time classification of a user.
type Role string

const (
	RoleDonor     Role = "donor"
	RoleRecipient Role = "recipient"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleDonor || r == RoleRecipient
}

// UserStatus represents the approval state of an account.
type UserStatus string

const (
	UserStatusPending  UserStatus = "pending"
	UserStatusApproved UserStatus = "approved"
	UserStatusRejected UserStatus = "rejected"
)

// Valid reports whether s is a known status.
func (s UserStatus) Valid() bool {
	switch s {
	case UserStatusPending, UserStatusApproved, UserStatusRejected:
		return true
	}
	return false
}

// BloodType is an ABO/Rh group. The empty value means not specified.
type BloodType string

const (
	BloodTypeUnspecified BloodType = ""
	BloodTypeAPos        BloodType = "A+"
	BloodTypeANeg        BloodType = "A-"
	BloodTypeBPos        BloodType = "B+"
	BloodTypeBNeg        BloodType = "B-"
	BloodTypeABPos       BloodType = "AB+"
	BloodTypeABNeg       BloodType = "AB-"
	BloodTypeOPos        BloodType = "O+"
	BloodTypeONeg        BloodType = "O-"
)

// Valid reports whether b is a known blood type or unspecified.
func (b BloodType) Valid() bool {
	switch b {
	case BloodTypeUnspecified, BloodTypeAPos, BloodTypeANeg, BloodTypeBPos, BloodTypeBNeg,
		BloodTypeABPos, BloodTypeABNeg, BloodTypeOPos, BloodTypeONeg:
		return true
	}
	return false
}

// RoleProfile carries the attributes that only exist for one role.
// Implementations are DonorProfile and RecipientProfile.
type RoleProfile interface {
	Role() Role
	roleProfile()
}

// DonorProfile holds what a donor can give.
type DonorProfile struct {
	BloodType     BloodType
	OrgansOffered string
}

func (DonorProfile) Role() Role   { return RoleDonor }
func (DonorProfile) roleProfile() {}

// RecipientProfile holds what a recipient needs.
type RecipientProfile struct {
	NeededBloodType BloodType
	NeededOrgan     string
}

func (RecipientProfile) Role() Role   { return RoleRecipient }
func (RecipientProfile) roleProfile() {}

// EmptyProfile returns the zero profile variant for role.
func EmptyProfile(role Role) RoleProfile {
	if role == RoleRecipient {
		return RecipientProfile{}
	}
	return DonorProfile{}
}

// Contact holds optional, non-identity details a user may edit.
type Contact struct {
	PhoneNumber    string
	Address        string
	MedicalHistory string
}

// User is an account holder. Role and Email never change after registration.
type User struct {
	ID           string
	FullName     string
	Email        string
	PasswordHash string
	Role         Role
	IsAdmin      bool
	Status       UserStatus
	Profile      RoleProfile
	Contact      Contact
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Donor returns the donor attributes, or false for recipients.
func (u *User) Donor() (DonorProfile, bool) {
	p, ok := u.Profile.(DonorProfile)
	return p, ok
}

// Recipient returns the recipient attributes, or false for donors.
func (u *User) Recipient() (RecipientProfile, bool) {
	p, ok := u.Profile.(RecipientProfile)
	return p, ok
}

// CanLogin reports whether the account has been approved.
func (u *User) CanLogin() bool {
	return u.Status == UserStatusApproved
}

// NormalizeEmail trims and lower-cases an address for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
