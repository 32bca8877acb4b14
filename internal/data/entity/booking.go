package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled, BookingStatusCompleted:
		return true
	}
	return false
}

// HoldsSlot reports whether a booking in this status blocks its slot.
func (s BookingStatus) HoldsSlot() bool {
	return s == BookingStatusPending || s == BookingStatusConfirmed
}

type Booking struct {
	BaseNoDelete
	OrderID         string          `db:"order_id"`
	PitchID         uuid.UUID       `db:"pitch_id"`
	UserID          uuid.UUID       `db:"user_id"`
	BookingDate     time.Time       `db:"booking_date"`
	Hour            int             `db:"hour"`
	CustomerName    string          `db:"customer_name"`
	CustomerPhone   string          `db:"customer_phone"`
	CustomerEmail   string          `db:"customer_email"`
	Status          BookingStatus   `db:"status"`
	Price           decimal.Decimal `db:"price"`
	DepositAmount   decimal.Decimal `db:"deposit_amount"`
	PaidAmount      decimal.Decimal `db:"paid_amount"`
	RemainingAmount decimal.Decimal `db:"remaining_amount"`
	DiscountCode    *string         `db:"discount_code"`
	DiscountValue   decimal.Decimal `db:"discount_value"`
	PaymentDeadline time.Time       `db:"payment_deadline"`

	CancelledAt        *time.Time      `db:"cancelled_at"`
	CancellationReason *string         `db:"cancellation_reason"`
	RefundAmount       decimal.Decimal `db:"refund_amount"`
	CompensationCode   *string         `db:"compensation_code"`
	CancelledBy        *uuid.UUID      `db:"cancelled_by"`
}

// SlotStart is the wall-clock start of the booked hour in loc.
func (b *Booking) SlotStart(loc *time.Location) time.Time {
	return SlotStart(b.BookingDate, b.Hour, loc)
}

// SlotStart combines a calendar date and an hour in loc.
func SlotStart(date time.Time, hour int, loc *time.Location) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, hour, 0, 0, 0, loc)
}
