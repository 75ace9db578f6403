package repository

import (
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned when a lookup matches no row. It is pgx.ErrNoRows
	// so callers can map it the same way regardless of the backing store.
	ErrNotFound = pgx.ErrNoRows
	// ErrEmailTaken is returned when the normalized email already exists.
	ErrEmailTaken = errors.New("email already registered")
	// ErrStatusChanged is returned when a conditional status update lost a race.
	ErrStatusChanged = errors.New("status changed concurrently")
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// validID guards uuid columns from malformed input, which Postgres would
// otherwise reject with a type error instead of an empty result.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
