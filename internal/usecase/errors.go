package usecase

import (
	"errors"
	"fmt"

	"pitch-booking/pkg/database"
	"pitch-booking/pkg/utils"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrSlotConflict  = errors.New("slot already booked")
	ErrQuotaExceeded = errors.New("daily booking limit reached")
	ErrInvalidAmount = errors.New("amount does not match required deposit")
	ErrInvalidState  = errors.New("operation not allowed in current state")
	ErrForbidden     = errors.New("forbidden")
	ErrExpired       = errors.New("code expired")
	ErrScopeMismatch = errors.New("code not valid for this pitch")
	ErrAlreadyUsed   = errors.New("code already used")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrConflict      = errors.New("already exists")
	ErrUnavailable   = database.ErrUnavailable
)

// ValidationError carries per-field messages and matches ErrInvalidInput.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + utils.FormatValidationErrors(e.Fields)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

func validate(req any) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
