package repository

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifeline/donor-registry/internal/domain"
)

const (
	donorID     = "6f1c1e8e-3b8e-4c3f-9d1e-2f7a1b2c3d4e"
	recipientID = "0a5d7c2b-1e4f-4a6b-8c9d-0e1f2a3b4c5d"
)

var now = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func donorRow(status string) fakeRow {
	return fakeRow{values: []any{
		donorID, "Ann Donor", "ann@example.com", "$2a$hash", "donor", false, status,
		"O+", "kidney", "", "",
		"555-0100", "1 Main St", "", now, now,
	}}
}

func recipientRow() fakeRow {
	return fakeRow{values: []any{
		recipientID, "Rob Recipient", "rob@example.com", "$2a$hash", "recipient", false, "approved",
		"", "", "AB-", "liver",
		"", "", "diabetes", now, now,
	}}
}

func TestUserRepositoryCreate(t *testing.T) {
	var gotArgs []any
	db := &fakeDB{QueryRowFn: func(_ context.Context, sql string, args ...any) pgx.Row {
		assert.Contains(t, sql, "INSERT INTO users")
		gotArgs = args
		return fakeRow{values: []any{now, now}}
	}}
	repo := NewUserRepository(db)

	user := &domain.User{
		ID:       donorID,
		FullName: "Ann",
		Email:    "ann@example.com",
		Role:     domain.RoleRecipient,
		Status:   domain.UserStatusPending,
		Profile:  domain.RecipientProfile{NeededBloodType: domain.BloodTypeBNeg, NeededOrgan: "heart"},
	}
	require.NoError(t, repo.Create(context.Background(), user))
	assert.Equal(t, now, user.CreatedAt)
	require.Len(t, gotArgs, 14)
	assert.Equal(t, "", gotArgs[7], "donor blood type stays empty for recipients")
	assert.Equal(t, "", gotArgs[8])
	assert.Equal(t, "B-", gotArgs[9])
	assert.Equal(t, "heart", gotArgs[10])
}

func TestUserRepositoryCreateUniqueViolation(t *testing.T) {
	db := &fakeDB{QueryRowFn: func(context.Context, string, ...any) pgx.Row {
		return fakeRow{err: &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}}
	}}
	err := NewUserRepository(db).Create(context.Background(), &domain.User{ID: donorID, Profile: domain.DonorProfile{}})
	assert.ErrorIs(t, err, ErrEmailTaken)

	db.QueryRowFn = func(context.Context, string, ...any) pgx.Row {
		return fakeRow{err: errors.New("conn reset")}
	}
	err = NewUserRepository(db).Create(context.Background(), &domain.User{ID: donorID, Profile: domain.DonorProfile{}})
	assert.EqualError(t, err, "conn reset")
}

func TestUserRepositoryGetBuildsRoleVariant(t *testing.T) {
	ctx := context.Background()
	rows := map[string]fakeRow{donorID: donorRow("pending"), recipientID: recipientRow()}
	db := &fakeDB{QueryRowFn: func(_ context.Context, _ string, args ...any) pgx.Row {
		return rows[args[0].(string)]
	}}
	repo := NewUserRepository(db)

	donor, err := repo.GetByID(ctx, donorID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleDonor, donor.Role)
	assert.Equal(t, domain.UserStatusPending, donor.Status)
	assert.Equal(t, domain.DonorProfile{BloodType: domain.BloodTypeOPos, OrgansOffered: "kidney"}, donor.Profile)
	assert.Equal(t, "555-0100", donor.Contact.PhoneNumber)

	recipient, err := repo.GetByID(ctx, recipientID)
	require.NoError(t, err)
	assert.Equal(t, domain.RecipientProfile{NeededBloodType: domain.BloodTypeABNeg, NeededOrgan: "liver"}, recipient.Profile)
	assert.Equal(t, "diabetes", recipient.Contact.MedicalHistory)
}

func TestUserRepositoryGetByIDMalformed(t *testing.T) {
	repo := NewUserRepository(&fakeDB{})
	_, err := repo.GetByID(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepositoryGetByEmailNormalizes(t *testing.T) {
	db := &fakeDB{QueryRowFn: func(_ context.Context, sql string, args ...any) pgx.Row {
		assert.Contains(t, sql, "LOWER(email)=LOWER($1)")
		assert.Equal(t, "ann@example.com", args[0])
		return fakeRow{err: pgx.ErrNoRows}
	}}
	_, err := NewUserRepository(db).GetByEmail(context.Background(), "  Ann@Example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepositoryListByStatus(t *testing.T) {
	db := &fakeDB{QueryFn: func(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
		assert.True(t, strings.HasSuffix(strings.TrimSpace(sql), "ORDER BY created_at, id"))
		assert.Equal(t, domain.UserStatusPending, args[0])
		return &fakeRows{rows: []fakeRow{donorRow("pending"), donorRow("pending")}}, nil
	}}
	users, err := NewUserRepository(db).ListByStatus(context.Background(), domain.UserStatusPending)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	db.QueryFn = func(context.Context, string, ...any) (pgx.Rows, error) {
		return &fakeRows{err: errors.New("cursor")}, nil
	}
	_, err = NewUserRepository(db).ListByStatus(context.Background(), domain.UserStatusPending)
	assert.EqualError(t, err, "cursor")

	db.QueryFn = func(context.Context, string, ...any) (pgx.Rows, error) {
		return &fakeRows{}, nil
	}
	users, err = NewUserRepository(db).ListByStatus(context.Background(), domain.UserStatusRejected)
	require.NoError(t, err)
	assert.NotNil(t, users)
}

func TestUserRepositoryUpdateProfile(t *testing.T) {
	var gotSQL string
	var gotArgs []any
	db := &fakeDB{QueryRowFn: func(_ context.Context, sql string, args ...any) pgx.Row {
		gotSQL, gotArgs = sql, args
		return fakeRow{values: []any{now}}
	}}
	user := &domain.User{
		ID:       donorID,
		FullName: "Ann D.",
		Email:    "other@example.com",
		Profile:  domain.DonorProfile{BloodType: domain.BloodTypeAPos},
	}
	require.NoError(t, NewUserRepository(db).UpdateProfile(context.Background(), user))
	assert.Equal(t, now, user.UpdatedAt)
	assert.NotContains(t, gotSQL, "email=")
	assert.NotContains(t, gotSQL, "role=")
	assert.NotContains(t, gotSQL, "status=")
	assert.NotContains(t, gotSQL, "is_admin=")
	assert.Equal(t, donorID, gotArgs[len(gotArgs)-1])

	db.QueryRowFn = func(context.Context, string, ...any) pgx.Row { return fakeRow{err: pgx.ErrNoRows} }
	assert.ErrorIs(t, NewUserRepository(db).UpdateProfile(context.Background(), user), ErrNotFound)
	assert.ErrorIs(t, NewUserRepository(db).UpdateProfile(context.Background(), &domain.User{ID: "x"}), ErrNotFound)
}

func TestUserRepositoryUpdateStatus(t *testing.T) {
	db := &fakeDB{QueryRowFn: func(_ context.Context, sql string, args ...any) pgx.Row {
		assert.Contains(t, sql, "WHERE id=$1 AND status=$2")
		assert.Equal(t, []any{donorID, domain.UserStatusPending, domain.UserStatusApproved}, args)
		return donorRow("approved")
	}}
	user, err := NewUserRepository(db).UpdateStatus(context.Background(), donorID, domain.UserStatusPending, domain.UserStatusApproved)
	require.NoError(t, err)
	assert.Equal(t, domain.UserStatusApproved, user.Status)

	db.QueryRowFn = func(context.Context, string, ...any) pgx.Row { return fakeRow{err: pgx.ErrNoRows} }
	_, err = NewUserRepository(db).UpdateStatus(context.Background(), donorID, domain.UserStatusPending, domain.UserStatusApproved)
	assert.ErrorIs(t, err, ErrStatusChanged)
}
