package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/lifeline/donor-registry/internal/domain"
	"github.com/lifeline/donor-registry/internal/repository"
)

type userRecord struct {
	user domain.User
	seq  int
}

// UserStore is an in-process repository.UserRepository for local runs and tests.
type UserStore struct {
	mu      sync.RWMutex
	byID    map[string]*userRecord
	byEmail map[string]string
	seq     int
	now     func() time.Time
}

var _ repository.UserRepository = (*UserStore)(nil)

// NewUserStore returns an empty store.
func NewUserStore() *UserStore {
	return &UserStore{
		byID:    make(map[string]*userRecord),
		byEmail: make(map[string]string),
		now:     time.Now,
	}
}

func (s *UserStore) Create(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := domain.NormalizeEmail(user.Email)
	if _, taken := s.byEmail[email]; taken {
		return repository.ErrEmailTaken
	}

	now := s.now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now
	s.seq++
	s.byID[user.ID] = &userRecord{user: *user, seq: s.seq}
	s.byEmail[email] = user.ID
	return nil
}

func (s *UserStore) GetByID(_ context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u := rec.user
	return &u, nil
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	id, ok := s.byEmail[domain.NormalizeEmail(email)]
	s.mu.RUnlock()
	if !ok {
		return nil, repository.ErrNotFound
	}
	return s.GetByID(ctx, id)
}

func (s *UserStore) ListByStatus(_ context.Context, status domain.UserStatus) ([]*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recs := make([]*userRecord, 0)
	for _, rec := range s.byID {
		if rec.user.Status == status {
			recs = append(recs, rec)
		}
	}
	sort.Slice(recs, func(i, j int) bool {
		if !recs[i].user.CreatedAt.Equal(recs[j].user.CreatedAt) {
			return recs[i].user.CreatedAt.Before(recs[j].user.CreatedAt)
		}
		return recs[i].seq < recs[j].seq
	})

	users := make([]*domain.User, 0, len(recs))
	for _, rec := range recs {
		u := rec.user
		users = append(users, &u)
	}
	return users, nil
}

// UpdateProfile writes only the non-identity fields of user.
func (s *UserStore) UpdateProfile(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.byID[user.ID]
	if !ok {
		return repository.ErrNotFound
	}
	rec.user.FullName = user.FullName
	rec.user.Contact = user.Contact
	if user.Profile != nil && user.Profile.Role() == rec.user.Role {
		rec.user.Profile = user.Profile
	}
	rec.user.UpdatedAt = s.now().UTC()
	user.UpdatedAt = rec.user.UpdatedAt
	return nil
}

func (s *UserStore) UpdateStatus(_ context.Context, id string, from, to domain.UserStatus) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.byID[id]
	if !ok || rec.user.Status != from {
		return nil, repository.ErrStatusChanged
	}
	rec.user.Status = to
	rec.user.UpdatedAt = s.now().UTC()
	u := rec.user
	return &u, nil
}
