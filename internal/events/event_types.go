package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/lifeline/donor-registry/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered    EventType = "user_registered"
	EventUserStatusChanged EventType = "user_status_changed"
	EventDonationRequested EventType = "donation_requested"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SubjectID string      `json:"subject_id"`
	ActorID   string      `json:"actor_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// New stamps an event with a fresh ID and the current time.
func New(eventType EventType, subjectID, actorID string, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		SubjectID: subjectID,
		ActorID:   actorID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	Role  domain.Role `json:"role"`
	Email string      `json:"email"`
}

// UserStatusChangedPayload payload.
type UserStatusChangedPayload struct {
	OldStatus domain.UserStatus `json:"old_status"`
	NewStatus domain.UserStatus `json:"new_status"`
}

// DonationRequestedPayload payload.
type DonationRequestedPayload struct {
	DonationID string              `json:"donation_id"`
	DonorID    string              `json:"donor_id"`
	Type       domain.DonationType `json:"type"`
	Urgency    domain.Urgency      `json:"urgency"`
}
