package response

import (
	"time"

	"pitch-booking/internal/data/entity"

	"github.com/shopspring/decimal"
)

type BookingResponse struct {
	ID              string               `json:"id"`
	OrderID         string               `json:"order_id"`
	PitchID         string               `json:"pitch_id"`
	PitchName       string               `json:"pitch_name,omitempty"`
	UserID          string               `json:"user_id"`
	Date            string               `json:"date"`
	Hour            int                  `json:"hour"`
	CustomerName    string               `json:"customer_name"`
	CustomerPhone   string               `json:"customer_phone"`
	CustomerEmail   string               `json:"customer_email"`
	Status          entity.BookingStatus `json:"status"`
	Price           decimal.Decimal      `json:"price"`
	DepositAmount   decimal.Decimal      `json:"deposit_amount"`
	PaidAmount      decimal.Decimal      `json:"paid_amount"`
	RemainingAmount decimal.Decimal      `json:"remaining_amount"`
	DiscountCode    *string              `json:"discount_code,omitempty"`
	DiscountValue   decimal.Decimal      `json:"discount_value"`
	PaymentDeadline time.Time            `json:"payment_deadline"`
	Cancellation    *CancellationInfo    `json:"cancellation,omitempty"`
	Payments        []PaymentResponse    `json:"payments,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
}

type CancellationInfo struct {
	CancelledAt      time.Time       `json:"cancelled_at"`
	Reason           *string         `json:"reason,omitempty"`
	RefundAmount     decimal.Decimal `json:"refund_amount"`
	CompensationCode *string         `json:"compensation_code,omitempty"`
}

type PaymentResponse struct {
	ID            string                 `json:"id"`
	BookingID     string                 `json:"booking_id"`
	Provider      entity.PaymentProvider `json:"provider"`
	TransactionID string                 `json:"transaction_id"`
	Amount        decimal.Decimal        `json:"amount"`
	ReceiptRef    *string                `json:"receipt_ref,omitempty"`
	Status        entity.PaymentStatus   `json:"status"`
	VerifiedAt    *time.Time             `json:"verified_at,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
}

// PaymentResultResponse is returned by the pay and verify endpoints.
type PaymentResultResponse struct {
	Booking BookingResponse `json:"booking"`
	Payment PaymentResponse `json:"payment"`
}

type CancelResponse struct {
	Booking           BookingResponse `json:"booking"`
	Tier              string          `json:"tier"`
	RefundAmount      decimal.Decimal `json:"refund_amount"`
	CompensationCode  *string         `json:"compensation_code,omitempty"`
	CompensationValue decimal.Decimal `json:"compensation_value"`
}

func BookingToResponse(b *entity.Booking, pitchName string) BookingResponse {
	resp := BookingResponse{
		ID:              b.ID.String(),
		OrderID:         b.OrderID,
		PitchID:         b.PitchID.String(),
		PitchName:       pitchName,
		UserID:          b.UserID.String(),
		Date:            b.BookingDate.Format("2006-01-02"),
		Hour:            b.Hour,
		CustomerName:    b.CustomerName,
		CustomerPhone:   b.CustomerPhone,
		CustomerEmail:   b.CustomerEmail,
		Status:          b.Status,
		Price:           b.Price,
		DepositAmount:   b.DepositAmount,
		PaidAmount:      b.PaidAmount,
		RemainingAmount: b.RemainingAmount,
		DiscountCode:    b.DiscountCode,
		DiscountValue:   b.DiscountValue,
		PaymentDeadline: b.PaymentDeadline,
		CreatedAt:       b.CreatedAt,
	}

	if b.CancelledAt != nil {
		resp.Cancellation = &CancellationInfo{
			CancelledAt:      *b.CancelledAt,
			Reason:           b.CancellationReason,
			RefundAmount:     b.RefundAmount,
			CompensationCode: b.CompensationCode,
		}
	}

	return resp
}

func PaymentToResponse(p *entity.Payment) PaymentResponse {
	return PaymentResponse{
		ID:            p.ID.String(),
		BookingID:     p.BookingID.String(),
		Provider:      p.Provider,
		TransactionID: p.TransactionID,
		Amount:        p.Amount,
		ReceiptRef:    p.ReceiptRef,
		Status:        p.Status,
		VerifiedAt:    p.VerifiedAt,
		CreatedAt:     p.CreatedAt,
	}
}
