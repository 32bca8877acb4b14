package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentProvider string

const (
	ProviderCard         PaymentProvider = "card"
	ProviderWallet       PaymentProvider = "wallet"
	ProviderBankTransfer PaymentProvider = "bank_transfer"
)

func (p PaymentProvider) Valid() bool {
	switch p {
	case ProviderCard, ProviderWallet, ProviderBankTransfer:
		return true
	}
	return false
}

// RequiresVerification reports whether staff must approve the payment before confirmation.
func (p PaymentProvider) RequiresVerification() bool {
	return p == ProviderBankTransfer
}

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusConfirmed PaymentStatus = "confirmed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

type Payment struct {
	BaseNoDelete
	BookingID     uuid.UUID       `db:"booking_id"`
	UserID        uuid.UUID       `db:"user_id"`
	Provider      PaymentProvider `db:"provider"`
	TransactionID string          `db:"transaction_id"`
	Amount        decimal.Decimal `db:"amount"`
	ReceiptRef    *string         `db:"receipt_ref"`
	Status        PaymentStatus   `db:"status"`
	VerifiedBy    *uuid.UUID      `db:"verified_by"`
	VerifiedAt    *time.Time      `db:"verified_at"`
}
