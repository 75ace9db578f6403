package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/lifeline/donor-registry/internal/events"
)

// AuditService writes an audit log line for every domain event.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger) *AuditService {
	return &AuditService{dispatcher: dispatcher, logger: logger.Named("audit")}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventUserRegistered, a.handle)
	a.dispatcher.Subscribe(events.EventUserStatusChanged, a.handle)
	a.dispatcher.Subscribe(events.EventDonationRequested, a.handle)
}

func (a *AuditService) handle(_ context.Context, event events.Event) error {
	a.logger.Info(string(event.Type),
		zap.String("event_id", event.ID),
		zap.String("subject_id", event.SubjectID),
		zap.String("actor_id", event.ActorID),
		zap.Time("at", event.Timestamp),
		zap.Any("payload", event.Payload))
	return nil
}
