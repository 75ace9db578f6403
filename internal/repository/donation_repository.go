package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/lifeline/donor-registry/internal/domain"
	"github.com/lifeline/donor-registry/internal/persistence"
)

// DonationRepository persists donation requests.
type DonationRepository interface {
	Create(ctx context.Context, donation *domain.Donation) error
	ListByDonor(ctx context.Context, donorID string) ([]*domain.Donation, error)
	ListByRecipient(ctx context.Context, recipientID string) ([]*domain.Donation, error)
}

type donationRepository struct {
	db persistence.DB
}

// NewDonationRepository returns a Postgres-backed implementation.
func NewDonationRepository(db persistence.DB) DonationRepository {
	return &donationRepository{db: db}
}

const donationColumns = `id, donor_id, recipient_id, donation_type, details, hospital, doctor, urgency, status, created_at`

func (r *donationRepository) Create(ctx context.Context, d *domain.Donation) error {
	const query = `
        INSERT INTO donations (id, donor_id, recipient_id, donation_type, details, hospital, doctor, urgency, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING created_at`

	return r.db.QueryRow(ctx, query,
		d.ID,
		d.DonorID,
		d.RecipientID,
		d.Type,
		d.Details,
		d.Hospital,
		d.Doctor,
		d.Urgency,
		d.Status,
	).Scan(&d.CreatedAt)
}

func (r *donationRepository) ListByDonor(ctx context.Context, donorID string) ([]*domain.Donation, error) {
	const query = `SELECT ` + donationColumns + ` FROM donations WHERE donor_id=$1 ORDER BY created_at DESC`
	return r.list(ctx, query, donorID)
}

func (r *donationRepository) ListByRecipient(ctx context.Context, recipientID string) ([]*domain.Donation, error) {
	const query = `SELECT ` + donationColumns + ` FROM donations WHERE recipient_id=$1 ORDER BY created_at DESC`
	return r.list(ctx, query, recipientID)
}

func (r *donationRepository) list(ctx context.Context, query, userID string) ([]*domain.Donation, error) {
	donations := make([]*domain.Donation, 0)
	if !validID(userID) {
		return donations, nil
	}

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		d, err := scanDonation(rows)
		if err != nil {
			return nil, err
		}
		donations = append(donations, d)
	}
	return donations, rows.Err()
}

func scanDonation(row pgx.Row) (*domain.Donation, error) {
	var d domain.Donation
	if err := row.Scan(
		&d.ID,
		&d.DonorID,
		&d.RecipientID,
		&d.Type,
		&d.Details,
		&d.Hospital,
		&d.Doctor,
		&d.Urgency,
		&d.Status,
		&d.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &d, nil
}
