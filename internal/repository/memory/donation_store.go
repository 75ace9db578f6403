package memory

import (
	"context"
	"sync"
	"time"

	"github.com/lifeline/donor-registry/internal/domain"
	"github.com/lifeline/donor-registry/internal/repository"
)

// DonationStore is an in-process repository.DonationRepository.
type DonationStore struct {
	mu        sync.RWMutex
	donations []domain.Donation
	now       func() time.Time
}

var _ repository.DonationRepository = (*DonationStore)(nil)

// NewDonationStore returns an empty store.
func NewDonationStore() *DonationStore {
	return &DonationStore{now: time.Now}
}

func (s *DonationStore) Create(_ context.Context, d *domain.Donation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d.CreatedAt = s.now().UTC()
	s.donations = append(s.donations, *d)
	return nil
}

func (s *DonationStore) ListByDonor(_ context.Context, donorID string) ([]*domain.Donation, error) {
	return s.filter(func(d *domain.Donation) bool { return d.DonorID == donorID }), nil
}

func (s *DonationStore) ListByRecipient(_ context.Context, recipientID string) ([]*domain.Donation, error) {
	return s.filter(func(d *domain.Donation) bool { return d.RecipientID == recipientID }), nil
}

// filter returns matches newest first.
func (s *DonationStore) filter(match func(*domain.Donation) bool) []*domain.Donation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Donation, 0)
	for i := len(s.donations) - 1; i >= 0; i-- {
		d := s.donations[i]
		if match(&d) {
			out = append(out, &d)
		}
	}
	return out
}
