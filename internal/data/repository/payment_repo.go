package repository

import (
	"context"
	"fmt"
	"time"

	"pitch-booking/internal/data/entity"
	"pitch-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error)
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.Payment, error)
	// Settle moves a pending payment to status and stamps the verifier.
	Settle(ctx context.Context, id uuid.UUID, status entity.PaymentStatus, verifiedBy uuid.UUID, at time.Time) error
}

type paymentRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPaymentRepository(db database.PgxIface, log *zap.Logger) PaymentRepository {
	return &paymentRepository{
		db:  db,
		log: log.With(zap.String("repository", "payment")),
	}
}

const paymentColumns = `id, booking_id, user_id, provider, transaction_id, amount, receipt_ref,
	status, verified_by, verified_at, created_at, updated_at`

func scanPayment(row pgx.Row) (*entity.Payment, error) {
	var p entity.Payment
	err := row.Scan(
		&p.ID,
		&p.BookingID,
		&p.UserID,
		&p.Provider,
		&p.TransactionID,
		&p.Amount,
		&p.ReceiptRef,
		&p.Status,
		&p.VerifiedBy,
		&p.VerifiedAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create returns ErrDuplicate when the booking already has an open payment.
func (r *paymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	query := `
		INSERT INTO payments (id, booking_id, user_id, provider, transaction_id, amount, receipt_ref, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := database.Conn(ctx, r.db).Exec(ctx, query,
		payment.ID,
		payment.BookingID,
		payment.UserID,
		payment.Provider,
		payment.TransactionID,
		payment.Amount,
		payment.ReceiptRef,
		payment.Status,
		payment.CreatedAt,
		payment.UpdatedAt,
	)
	if err != nil {
		if _, ok := uniqueViolation(err); ok {
			return fmt.Errorf("create payment for booking %s: %w", payment.BookingID.String(), ErrDuplicate)
		}
		r.log.Error("Failed to create payment",
			zap.Error(err),
			zap.String("booking_id", payment.BookingID.String()),
		)
		return fmt.Errorf("create payment for booking %s: %w", payment.BookingID.String(), err)
	}

	r.log.Info("Payment recorded",
		zap.String("id", payment.ID.String()),
		zap.String("provider", string(payment.Provider)),
		zap.String("status", string(payment.Status)),
	)
	return nil
}

func (r *paymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`

	payment, err := scanPayment(database.Conn(ctx, r.db).QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find payment", zap.Error(err), zap.String("id", id.String()))
		return nil, fmt.Errorf("find payment %s: %w", id.String(), err)
	}
	return payment, nil
}

func (r *paymentRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE booking_id = $1 ORDER BY created_at DESC`

	rows, err := database.Conn(ctx, r.db).Query(ctx, query, bookingID)
	if err != nil {
		return nil, fmt.Errorf("find payments of booking %s: %w", bookingID.String(), err)
	}
	defer rows.Close()

	var payments []*entity.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment row: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payment rows: %w", err)
	}
	return payments, nil
}

func (r *paymentRepository) Settle(ctx context.Context, id uuid.UUID, status entity.PaymentStatus, verifiedBy uuid.UUID, at time.Time) error {
	query := `
		UPDATE payments
		SET status = $2, verified_by = $3, verified_at = $4, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`

	result, err := database.Conn(ctx, r.db).Exec(ctx, query, id, status, verifiedBy, at)
	if err != nil {
		r.log.Error("Failed to settle payment", zap.Error(err), zap.String("id", id.String()))
		return fmt.Errorf("settle payment %s: %w", id.String(), err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("settle payment %s: %w", id.String(), ErrStaleState)
	}
	return nil
}
