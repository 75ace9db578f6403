package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/lifeline/donor-registry/internal/domain"
)

// MockUserRepository implements repository.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *MockUserRepository) ListByStatus(ctx context.Context, status domain.UserStatus) ([]*domain.User, error) {
	args := m.Called(ctx, status)
	users, _ := args.Get(0).([]*domain.User)
	return users, args.Error(1)
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateStatus(ctx context.Context, id string, from, to domain.UserStatus) (*domain.User, error) {
	args := m.Called(ctx, id, from, to)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

// MockLoginAttemptStore implements repository.LoginAttemptStore
type MockLoginAttemptStore struct {
	mock.Mock
}

func (m *MockLoginAttemptStore) Failures(ctx context.Context, key string) (int, time.Duration, error) {
	args := m.Called(ctx, key)
	return args.Int(0), args.Get(1).(time.Duration), args.Error(2)
}

func (m *MockLoginAttemptStore) RecordFailure(ctx context.Context, key string, window time.Duration) (int, error) {
	args := m.Called(ctx, key, window)
	return args.Int(0), args.Error(1)
}

func (m *MockLoginAttemptStore) Reset(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
