package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrSlotTaken is returned when the active-slot unique index rejects a booking.
	ErrSlotTaken = errors.New("slot already taken")
	// ErrDuplicate is returned for any other unique violation.
	ErrDuplicate = errors.New("duplicate record")
	// ErrStaleState is returned when a conditional status update matched no row.
	ErrStaleState   = errors.New("record state changed")
	ErrCodeNotFound = errors.New("code not found")
	ErrCodeUsed     = errors.New("code already used")
	ErrCodeExpired  = errors.New("code expired")
)

const (
	pgUniqueViolation = "23505"
	activeSlotIndex   = "bookings_active_slot_uq"
)

func uniqueViolation(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return pgErr, true
	}
	return nil, false
}
