package dto

import (
	"time"

	"github.com/lifeline/donor-registry/internal/domain"
)

// DonationResponse is the public view of a donation request.
type DonationResponse struct {
	ID           string                `json:"id"`
	DonorID      string                `json:"donorId"`
	RecipientID  string                `json:"recipientId"`
	DonationType domain.DonationType   `json:"donationType"`
	Details      string                `json:"details"`
	Hospital     string                `json:"hospital"`
	Doctor       string                `json:"doctor"`
	Urgency      domain.Urgency        `json:"urgency"`
	Status       domain.DonationStatus `json:"status"`
	CreatedAt    time.Time             `json:"createdAt"`
}

// NewDonationResponse maps a domain donation.
func NewDonationResponse(d *domain.Donation) DonationResponse {
	return DonationResponse{
		ID:           d.ID,
		DonorID:      d.DonorID,
		RecipientID:  d.RecipientID,
		DonationType: d.Type,
		Details:      d.Details,
		Hospital:     d.Hospital,
		Doctor:       d.Doctor,
		Urgency:      d.Urgency,
		Status:       d.Status,
		CreatedAt:    d.CreatedAt,
	}
}

// NewDonationList maps a slice of donations, never returning nil.
func NewDonationList(donations []*domain.Donation) []DonationResponse {
	out := make([]DonationResponse, 0, len(donations))
	for _, d := range donations {
		out = append(out, NewDonationResponse(d))
	}
	return out
}
