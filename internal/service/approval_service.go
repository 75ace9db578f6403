package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/lifeline/donor-registry/internal/domain"
	"github.com/lifeline/donor-registry/internal/events"
	"github.com/lifeline/donor-registry/internal/repository"
	apperrors "github.com/lifeline/donor-registry/pkg/util"
)

// statusTransitions lists every allowed status change. Approved and
// rejected are terminal.
var statusTransitions = map[domain.UserStatus]map[domain.UserStatus]struct{}{
	domain.UserStatusPending: {
		domain.UserStatusApproved: {},
		domain.UserStatusRejected: {},
	},
}

// CanTransition reports whether a user may move from one status to another.
func CanTransition(from, to domain.UserStatus) bool {
	_, ok := statusTransitions[from][to]
	return ok
}

// ApprovalService lets administrators decide on pending accounts.
type ApprovalService struct {
	users      repository.UserRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewApprovalService builds the service.
func NewApprovalService(users repository.UserRepository, dispatcher events.Dispatcher, logger *zap.Logger) *ApprovalService {
	return &ApprovalService{users: users, dispatcher: dispatcher, logger: logger}
}

// ListPending returns accounts awaiting a decision, oldest first.
func (s *ApprovalService) ListPending(ctx context.Context, actor domain.Principal) ([]*domain.User, error) {
	if !actor.IsAdmin {
		return nil, apperrors.NewForbidden("admin access required")
	}
	users, err := s.users.ListByStatus(ctx, domain.UserStatusPending)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return users, nil
}

// SetStatus applies an admin decision. Repeating the current status is a no-op.
func (s *ApprovalService) SetStatus(ctx context.Context, actor domain.Principal, userID string, target domain.UserStatus) (*domain.User, error) {
	if !actor.IsAdmin {
		return nil, apperrors.NewForbidden("admin access required")
	}
	if target != domain.UserStatusApproved && target != domain.UserStatusRejected {
		return nil, apperrors.NewValidationError("status must be approved or rejected",
			map[string]any{"status": "oneof=approved rejected"})
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Status == target {
		return user, nil
	}
	if !CanTransition(user.Status, target) {
		return nil, apperrors.NewInvalidTransition(string(user.Status), string(target))
	}

	from := user.Status
	updated, err := s.users.UpdateStatus(ctx, userID, from, target)
	if errors.Is(err, repository.ErrStatusChanged) {
		// Another admin got there first; report against what is stored now.
		current, getErr := s.getUser(ctx, userID)
		if getErr != nil {
			return nil, getErr
		}
		if current.Status == target {
			return current, nil
		}
		return nil, apperrors.NewInvalidTransition(string(current.Status), string(target))
	}
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	publish(ctx, s.dispatcher, s.logger, events.New(events.EventUserStatusChanged, userID, actor.UserID,
		events.UserStatusChangedPayload{OldStatus: from, NewStatus: target}))
	return updated, nil
}

func (s *ApprovalService) getUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewNotFound("user", map[string]any{"userId": userID})
	}
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return user, nil
}
