package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CodeType string

const (
	CodeTypeDiscount     CodeType = "discount"
	CodeTypeCompensation CodeType = "compensation"
)

func (t CodeType) Valid() bool {
	return t == CodeTypeDiscount || t == CodeTypeCompensation
}

type CodeSource string

const (
	CodeSourceAdmin        CodeSource = "admin"
	CodeSourceCancellation CodeSource = "cancellation"
)

// CodeStatus has no expired value; expiry is derived from ExpiresAt.
type CodeStatus string

const (
	CodeStatusActive CodeStatus = "active"
	CodeStatusUsed   CodeStatus = "used"
)

type Code struct {
	BaseSimple
	Code            string          `db:"code"`
	Type            CodeType        `db:"type"`
	Source          CodeSource      `db:"source"`
	Value           decimal.Decimal `db:"value"`
	PitchID         *uuid.UUID      `db:"pitch_id"`
	Status          CodeStatus      `db:"status"`
	ExpiresAt       *time.Time      `db:"expires_at"`
	OwnerID         *uuid.UUID      `db:"owner_id"`
	SourceBookingID *uuid.UUID      `db:"source_booking_id"`
	UsedBy          *uuid.UUID      `db:"used_by"`
	UsedAt          *time.Time      `db:"used_at"`
	UsedBookingID   *uuid.UUID      `db:"used_booking_id"`
}

func (c *Code) IsExpired(now time.Time) bool {
	return c.ExpiresAt != nil && !now.Before(*c.ExpiresAt)
}

// AppliesTo reports whether the code may be used on pitchID. Universal codes apply everywhere.
func (c *Code) AppliesTo(pitchID uuid.UUID) bool {
	return c.PitchID == nil || *c.PitchID == pitchID
}

// SpendableBy reports whether userID may redeem the code. Compensation credit belongs to its owner.
func (c *Code) SpendableBy(userID uuid.UUID) bool {
	return c.OwnerID == nil || *c.OwnerID == userID
}
