package domain

import "time"

// DonationType is what is being donated.
type DonationType string

const (
	DonationTypeBlood DonationType = "blood"
	DonationTypeOrgan DonationType = "organ"
)

// Urgency ranks a donation request.
type Urgency string

const (
	UrgencyNormal   Urgency = "normal"
	UrgencyUrgent   Urgency = "urgent"
	UrgencyCritical Urgency = "critical"
)

// DonationStatus tracks a request from recipient to completion.
type DonationStatus string

const (
	DonationStatusPending   DonationStatus = "pending"
	DonationStatusScheduled DonationStatus = "scheduled"
	DonationStatusCompleted DonationStatus = "completed"
	DonationStatusRejected  DonationStatus = "rejected"
)

// Donation links a donor and a recipient.
type Donation struct {
	ID          string
	DonorID     string
	RecipientID string
	Type        DonationType
	Details     string
	Hospital    string
	Doctor      string
	Urgency     Urgency
	Status      DonationStatus
	CreatedAt   time.Time
}
