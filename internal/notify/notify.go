package notify

import (
	"context"
	"time"
)

type Kind string

const (
	KindBookingCreated   Kind = "booking_created"
	KindBookingConfirmed Kind = "booking_confirmed"
	KindBookingCancelled Kind = "booking_cancelled"
	KindBookingCompleted Kind = "booking_completed"
	KindPaymentPending   Kind = "payment_pending"
	KindPaymentRejected  Kind = "payment_rejected"
	KindManagerApproved  Kind = "manager_approved"
)

// Message is the payload published for every booking event.
type Message struct {
	Kind       Kind              `json:"kind"`
	To         string            `json:"to"`
	Subject    string            `json:"subject"`
	Body       string            `json:"body"`
	Data       map[string]string `json:"data,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Notifier accepts messages without blocking the caller.
type Notifier interface {
	Notify(msg Message)
}

type discard struct{}

func (discard) Notify(Message) {}

// Discard drops every message.
var Discard Notifier = discard{}
