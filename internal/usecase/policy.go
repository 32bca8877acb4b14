package usecase

import (
	"time"

	"pitch-booking/internal/data/entity"

	"github.com/shopspring/decimal"
)

const (
	shortLead = 24 * time.Hour
	longLead  = 48 * time.Hour
)

var (
	halfRate      = decimal.NewFromFloat(0.5)
	thirtyPercent = decimal.NewFromFloat(0.3)
	eightyPercent = decimal.NewFromFloat(0.8)
)

// RequiredDeposit prices the hold on a slot by lead time. Band lower bounds are inclusive.
func RequiredDeposit(price decimal.Decimal, slotStart, now time.Time) decimal.Decimal {
	lead := slotStart.Sub(now)
	switch {
	case lead < shortLead:
		return decimal.Zero
	case lead < longLead:
		return price.Mul(halfRate).Floor()
	default:
		return price.Mul(thirtyPercent).Floor()
	}
}

type CancellationTier string

const (
	TierEarly CancellationTier = "early"
	TierLate  CancellationTier = "late"
	TierNone  CancellationTier = "none"
)

type CancellationOutcome struct {
	Tier         CancellationTier
	Refund       decimal.Decimal
	Compensation decimal.Decimal
}

// CancellationTerms applies the refund schedule. Band upper bounds are inclusive.
func CancellationTerms(paid decimal.Decimal, lead time.Duration) CancellationOutcome {
	switch {
	case lead > longLead:
		return CancellationOutcome{Tier: TierEarly, Refund: paid, Compensation: paid.Mul(eightyPercent).Floor()}
	case lead > shortLead:
		return CancellationOutcome{Tier: TierLate, Refund: decimal.Zero, Compensation: paid.Mul(halfRate).Floor()}
	default:
		return CancellationOutcome{Tier: TierNone, Refund: decimal.Zero, Compensation: decimal.Zero}
	}
}

// CancellationLead measures from the start of the booking day unless useSlotHour is set.
func CancellationLead(b *entity.Booking, now time.Time, loc *time.Location, useSlotHour bool) time.Duration {
	if useSlotHour {
		return b.SlotStart(loc).Sub(now)
	}
	return entity.SlotStart(b.BookingDate, 0, loc).Sub(now)
}

// applyDiscount caps the discount at the balance left after the deposit.
func applyDiscount(price, deposit, value decimal.Decimal) (discount, remaining decimal.Decimal) {
	balance := price.Sub(deposit)
	discount = decimal.Min(value, balance)
	if discount.IsNegative() {
		discount = decimal.Zero
	}
	return discount, balance.Sub(discount)
}

// remainingAfterPayment is what the customer still owes at the pitch.
func remainingAfterPayment(b *entity.Booking, paid decimal.Decimal) decimal.Decimal {
	return decimal.Max(decimal.Zero, b.Price.Sub(paid).Sub(b.DiscountValue))
}
