package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lifeline/donor-registry/internal/auth"
	"github.com/lifeline/donor-registry/internal/config"
	"github.com/lifeline/donor-registry/internal/domain"
	"github.com/lifeline/donor-registry/internal/events"
	"github.com/lifeline/donor-registry/internal/repository"
	"github.com/lifeline/donor-registry/internal/validation"
	apperrors "github.com/lifeline/donor-registry/pkg/util"
)

// RegisterInput is the self-registration payload.
type RegisterInput struct {
	FullName        string           `json:"fullName" validate:"required,notblank,max=100"`
	Email           string           `json:"email" validate:"required,email,max=254"`
	Password        string           `json:"password" validate:"required,min=6,maxbytes=72"`
	Role            domain.Role      `json:"role" validate:"required,role"`
	PhoneNumber     string           `json:"phoneNumber" validate:"max=30"`
	Address         string           `json:"address" validate:"max=300"`
	MedicalHistory  string           `json:"medicalHistory" validate:"max=2000"`
	BloodType       domain.BloodType `json:"bloodType" validate:"omitempty,bloodtype"`
	OrgansOffered   string           `json:"organsOffered" validate:"max=200"`
	NeededBloodType domain.BloodType `json:"neededBloodType" validate:"omitempty,bloodtype"`
	NeededOrgan     string           `json:"neededOrgan" validate:"max=100"`
}

// profile keeps only the attributes of the registering role.
func (in RegisterInput) profile() domain.RoleProfile {
	if in.Role == domain.RoleRecipient {
		return domain.RecipientProfile{NeededBloodType: in.NeededBloodType, NeededOrgan: strings.TrimSpace(in.NeededOrgan)}
	}
	return domain.DonorProfile{BloodType: in.BloodType, OrgansOffered: strings.TrimSpace(in.OrgansOffered)}
}

// LoginInput is the credential payload.
type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// AuthService coordinates registration and login flows.
type AuthService struct {
	users      repository.UserRepository
	attempts   repository.LoginAttemptStore
	hasher     *auth.PasswordHasher
	tokens     *auth.TokenManager
	validator  *validation.Validator
	dispatcher events.Dispatcher
	logger     *zap.Logger
	throttle   config.ThrottleConfig
	dummyHash  string
}

// AuthDependencies encapsulates collaborators for the auth service.
// Attempts may be nil, which disables login throttling.
type AuthDependencies struct {
	Users      repository.UserRepository
	Attempts   repository.LoginAttemptStore
	Hasher     *auth.PasswordHasher
	Tokens     *auth.TokenManager
	Validator  *validation.Validator
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) (*AuthService, error) {
	// Unknown emails are checked against this hash so that both failure
	// paths spend the same bcrypt work.
	dummy, err := deps.Hasher.Hash(uuid.NewString())
	if err != nil {
		return nil, err
	}
	return &AuthService{
		users:      deps.Users,
		attempts:   deps.Attempts,
		hasher:     deps.Hasher,
		tokens:     deps.Tokens,
		validator:  deps.Validator,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		throttle:   cfg.Throttle,
		dummyHash:  dummy,
	}, nil
}

// Register creates a pending account. No token is issued.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	in.Email = domain.NormalizeEmail(in.Email)
	in.FullName = strings.TrimSpace(in.FullName)
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		return nil, emailTaken(in.Email)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewInternalError(err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		FullName:     in.FullName,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
		IsAdmin:      false,
		Status:       domain.UserStatusPending,
		Profile:      in.profile(),
		Contact: domain.Contact{
			PhoneNumber:    strings.TrimSpace(in.PhoneNumber),
			Address:        strings.TrimSpace(in.Address),
			MedicalHistory: strings.TrimSpace(in.MedicalHistory),
		},
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, emailTaken(in.Email)
		}
		return nil, apperrors.NewInternalError(err)
	}

	publish(ctx, s.dispatcher, s.logger, events.New(events.EventUserRegistered, user.ID, user.ID,
		events.UserRegisteredPayload{Role: user.Role, Email: user.Email}))
	return user, nil
}

// Login checks credentials and approval, then issues a bearer token.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	in.Email = domain.NormalizeEmail(in.Email)
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}

	if err := s.checkThrottle(ctx, in.Email); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewInternalError(err)
		}
		s.hasher.Verify(s.dummyHash, in.Password)
		s.recordFailure(ctx, in.Email)
		return nil, apperrors.NewInvalidCredentials()
	}

	if !s.hasher.Verify(user.PasswordHash, in.Password) {
		s.recordFailure(ctx, in.Email)
		return nil, apperrors.NewInvalidCredentials()
	}
	s.resetFailures(ctx, in.Email)

	if !user.CanLogin() {
		return nil, apperrors.NewPendingApproval(string(user.Status))
	}

	token, exp, err := s.tokens.Issue(user.ID, user.Role, user.IsAdmin)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &LoginResult{Token: token, ExpiresAt: exp, User: user}, nil
}

// EnsureAdmin creates an approved administrator unless the email is taken.
// It reports whether an account was created.
func (s *AuthService) EnsureAdmin(ctx context.Context, cfg config.AdminBootstrapConfig) (bool, error) {
	email := domain.NormalizeEmail(cfg.Email)
	existing, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		if !existing.IsAdmin {
			s.logger.Warn("bootstrap admin email belongs to a non-admin account", zap.String("user_id", existing.ID))
		}
		return false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return false, err
	}

	role := domain.Role(cfg.Role)
	if !role.Valid() {
		role = domain.RoleDonor
	}
	hash, err := s.hasher.Hash(cfg.Password)
	if err != nil {
		return false, err
	}
	admin := &domain.User{
		ID:           uuid.NewString(),
		FullName:     strings.TrimSpace(cfg.FullName),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsAdmin:      true,
		Status:       domain.UserStatusApproved,
		Profile:      domain.EmptyProfile(role),
	}
	if err := s.users.Create(ctx, admin); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return false, nil
		}
		return false, err
	}
	s.logger.Info("bootstrap admin created", zap.String("user_id", admin.ID), zap.String("email", admin.Email))
	return true, nil
}

func (s *AuthService) checkThrottle(ctx context.Context, email string) error {
	if s.attempts == nil || s.throttle.MaxLoginAttempts <= 0 {
		return nil
	}
	count, retryAfter, err := s.attempts.Failures(ctx, email)
	if err != nil {
		s.logger.Warn("login throttle unavailable", zap.Error(err))
		return nil
	}
	if count >= s.throttle.MaxLoginAttempts {
		return apperrors.NewTooManyAttempts(int(math.Ceil(retryAfter.Seconds())))
	}
	return nil
}

func (s *AuthService) recordFailure(ctx context.Context, email string) {
	if s.attempts == nil || s.throttle.MaxLoginAttempts <= 0 {
		return
	}
	if _, err := s.attempts.RecordFailure(ctx, email, s.throttle.Window()); err != nil {
		s.logger.Warn("record login failure", zap.Error(err))
	}
}

func (s *AuthService) resetFailures(ctx context.Context, email string) {
	if s.attempts == nil || s.throttle.MaxLoginAttempts <= 0 {
		return
	}
	if err := s.attempts.Reset(ctx, email); err != nil {
		s.logger.Warn("reset login failures", zap.Error(err))
	}
}

func publish(ctx context.Context, dispatcher events.Dispatcher, logger *zap.Logger, event events.Event) {
	if dispatcher == nil {
		return
	}
	if err := dispatcher.Publish(ctx, event); err != nil {
		logger.Warn("event handlers failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

func emailTaken(email string) error {
	return apperrors.NewConflict("email already registered", map[string]any{"email": email})
}
