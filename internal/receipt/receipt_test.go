package receipt

import (
	"bytes"
	"testing"
	"time"

	"pitch-booking/internal/data/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	code := "SUMMER50"
	booking := &entity.Booking{
		BaseNoDelete:    entity.BaseNoDelete{ID: uuid.New()},
		OrderID:         "PB-20250601-100000-0042",
		BookingDate:     time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC),
		Hour:            18,
		CustomerName:    "Sam Player",
		CustomerPhone:   "0812345678",
		CustomerEmail:   "sam@example.com",
		Status:          entity.BookingStatusConfirmed,
		Price:           decimal.NewFromInt(250),
		PaidAmount:      decimal.NewFromInt(75),
		RemainingAmount: decimal.NewFromInt(125),
		DiscountCode:    &code,
		DiscountValue:   decimal.NewFromInt(50),
	}
	pitch := &entity.Pitch{Name: "Center Court", Location: "North Park"}
	payments := []*entity.Payment{{
		Provider:      entity.ProviderCard,
		TransactionID: "tx-1",
		Amount:        decimal.NewFromInt(75),
		Status:        entity.PaymentStatusConfirmed,
	}}

	pdf, name, err := Build(Data{Booking: booking, Pitch: pitch, Payments: payments, IssuedAt: time.Now()})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
	assert.Equal(t, "RECEIPT_PB-20250601-100000-0042.pdf", name)
}

func TestBuild_RequiresBookingAndPitch(t *testing.T) {
	_, _, err := Build(Data{})
	assert.Error(t, err)
}
