package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/lifeline/donor-registry/internal/domain"
	"github.com/lifeline/donor-registry/internal/persistence"
)

// UserRepository defines persistence access for account holders.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ListByStatus(ctx context.Context, status domain.UserStatus) ([]*domain.User, error)
	UpdateProfile(ctx context.Context, user *domain.User) error
	UpdateStatus(ctx context.Context, id string, from, to domain.UserStatus) (*domain.User, error)
}

type userRepository struct {
	db persistence.DB
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(db persistence.DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, full_name, email, password_hash, role, is_admin, status,
        blood_type, organs_offered, needed_blood_type, needed_organ,
        phone_number, address, medical_history, created_at, updated_at`

// profileColumns flattens the role variant; the other role's columns are empty.
func profileColumns(p domain.RoleProfile) (bloodType, organs, neededBlood, neededOrgan string) {
	switch v := p.(type) {
	case domain.DonorProfile:
		return string(v.BloodType), v.OrgansOffered, "", ""
	case domain.RecipientProfile:
		return "", "", string(v.NeededBloodType), v.NeededOrgan
	}
	return "", "", "", ""
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (id, full_name, email, password_hash, role, is_admin, status,
            blood_type, organs_offered, needed_blood_type, needed_organ,
            phone_number, address, medical_history)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
        RETURNING created_at, updated_at`

	bloodType, organs, neededBlood, neededOrgan := profileColumns(user.Profile)
	err := r.db.QueryRow(ctx, query,
		user.ID,
		user.FullName,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.IsAdmin,
		user.Status,
		bloodType,
		organs,
		neededBlood,
		neededOrgan,
		user.Contact.PhoneNumber,
		user.Contact.Address,
		user.Contact.MedicalHistory,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrEmailTaken
	}
	return err
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	const query = `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	return scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE LOWER(email)=LOWER($1)`
	return scanUser(r.db.QueryRow(ctx, query, domain.NormalizeEmail(email)))
}

func (r *userRepository) ListByStatus(ctx context.Context, status domain.UserStatus) ([]*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE status=$1 ORDER BY created_at, id`

	rows, err := r.db.Query(ctx, query, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*domain.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *userRepository) UpdateProfile(ctx context.Context, user *domain.User) error {
	if !validID(user.ID) {
		return ErrNotFound
	}
	const query = `
        UPDATE users SET full_name=$1, blood_type=$2, organs_offered=$3,
            needed_blood_type=$4, needed_organ=$5, phone_number=$6, address=$7,
            medical_history=$8, updated_at=NOW()
        WHERE id=$9
        RETURNING updated_at`

	bloodType, organs, neededBlood, neededOrgan := profileColumns(user.Profile)
	err := r.db.QueryRow(ctx, query,
		user.FullName,
		bloodType,
		organs,
		neededBlood,
		neededOrgan,
		user.Contact.PhoneNumber,
		user.Contact.Address,
		user.Contact.MedicalHistory,
		user.ID,
	).Scan(&user.UpdatedAt)
	return err
}

// UpdateStatus moves a user from one status to another only if the stored
// status still equals from.
func (r *userRepository) UpdateStatus(ctx context.Context, id string, from, to domain.UserStatus) (*domain.User, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	const query = `
        UPDATE users SET status=$3, updated_at=NOW()
        WHERE id=$1 AND status=$2
        RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRow(ctx, query, id, from, to))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrStatusChanged
	}
	return user, err
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	var bloodType, organs, neededBlood, neededOrgan string
	if err := row.Scan(
		&user.ID,
		&user.FullName,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.IsAdmin,
		&user.Status,
		&bloodType,
		&organs,
		&neededBlood,
		&neededOrgan,
		&user.Contact.PhoneNumber,
		&user.Contact.Address,
		&user.Contact.MedicalHistory,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}

	switch user.Role {
	case domain.RoleRecipient:
		user.Profile = domain.RecipientProfile{NeededBloodType: domain.BloodType(neededBlood), NeededOrgan: neededOrgan}
	default:
		user.Profile = domain.DonorProfile{BloodType: domain.BloodType(bloodType), OrgansOffered: organs}
	}
	return &user, nil
}
