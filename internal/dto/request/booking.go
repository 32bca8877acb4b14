package request

import "github.com/shopspring/decimal"

type CreateBookingRequest struct {
	PitchID       string  `json:"pitch_id" validate:"required,uuid"`
	Date          string  `json:"date" validate:"required,datetime=2006-01-02"`
	Hour          int     `json:"hour" validate:"min=0,max=23"`
	CustomerName  string  `json:"customer_name" validate:"required,max=100"`
	CustomerPhone string  `json:"customer_phone" validate:"required,min=6,max=20"`
	CustomerEmail string  `json:"customer_email" validate:"required,email"`
	DiscountCode  *string `json:"discount_code,omitempty" validate:"omitempty,alphanum,max=32"`
}

type ConfirmPaymentRequest struct {
	Provider      string          `json:"provider" validate:"required,oneof=card wallet bank_transfer"`
	TransactionID string          `json:"transaction_id" validate:"required,max=100"`
	Amount        decimal.Decimal `json:"amount"`
	ReceiptRef    *string         `json:"receipt_ref,omitempty" validate:"omitempty,max=500"`
}

type CancelBookingRequest struct {
	Reason *string `json:"reason,omitempty" validate:"omitempty,max=500"`
}

type VerifyPaymentRequest struct {
	Approve bool `json:"approve"`
}

type BookingReportRequest struct {
	PaginatedRequest
	PitchID  string `json:"pitch_id" validate:"omitempty,uuid"`
	UserID   string `json:"user_id" validate:"omitempty,uuid"`
	Status   string `json:"status" validate:"omitempty,oneof=pending confirmed cancelled completed"`
	DateFrom string `json:"date_from" validate:"omitempty,datetime=2006-01-02"`
	DateTo   string `json:"date_to" validate:"omitempty,datetime=2006-01-02"`
}
