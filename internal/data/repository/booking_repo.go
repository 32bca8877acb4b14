package repository

import (
	"context"
	"fmt"
	"time"

	"pitch-booking/internal/data/entity"
	"pitch-booking/pkg/database"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// BookingFilter drives the dashboard reports. Nil or empty fields are ignored.
type BookingFilter struct {
	PitchIDs []uuid.UUID
	UserID   *uuid.UUID
	Status   entity.BookingStatus
	DateFrom *time.Time
	DateTo   *time.Time
	Limit    int
	Offset   int
}

// BookingSummary aggregates bookings by status. Revenue sums paid amounts of confirmed and completed bookings.
type BookingSummary struct {
	ByStatus map[entity.BookingStatus]int64
	Revenue  decimal.Decimal
}

// CancelParams is stamped onto a booking when it moves to cancelled.
type CancelParams struct {
	CancelledAt      time.Time
	Reason           *string
	RefundAmount     decimal.Decimal
	CompensationCode *string
	CancelledBy      uuid.UUID
}

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error)
	CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error)

	BookedHours(ctx context.Context, pitchID uuid.UUID, date time.Time) ([]int, error)
	SlotTaken(ctx context.Context, pitchID uuid.UUID, date time.Time, hour int) (bool, error)
	CountConfirmedByUserAndDate(ctx context.Context, userID uuid.UUID, date time.Time) (int, error)
	HasAttended(ctx context.Context, userID, pitchID uuid.UUID) (bool, error)

	// Status transitions are conditional and return ErrStaleState when the current status does not match.
	Confirm(ctx context.Context, id uuid.UUID, paid, remaining decimal.Decimal) error
	Cancel(ctx context.Context, id uuid.UUID, params CancelParams) error
	Complete(ctx context.Context, id uuid.UUID) error

	Search(ctx context.Context, filter BookingFilter) ([]*entity.Booking, error)
	CountSearch(ctx context.Context, filter BookingFilter) (int64, error)
	Summary(ctx context.Context, pitchIDs []uuid.UUID) (*BookingSummary, error)
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

var bookingColumns = []string{
	"id", "order_id", "pitch_id", "user_id", "booking_date", "hour",
	"customer_name", "customer_phone", "customer_email", "status",
	"price", "deposit_amount", "paid_amount", "remaining_amount",
	"discount_code", "discount_value", "payment_deadline",
	"cancelled_at", "cancellation_reason", "refund_amount", "compensation_code", "cancelled_by",
	"created_at", "updated_at",
}

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var b entity.Booking
	err := row.Scan(
		&b.ID,
		&b.OrderID,
		&b.PitchID,
		&b.UserID,
		&b.BookingDate,
		&b.Hour,
		&b.CustomerName,
		&b.CustomerPhone,
		&b.CustomerEmail,
		&b.Status,
		&b.Price,
		&b.DepositAmount,
		&b.PaidAmount,
		&b.RemainingAmount,
		&b.DiscountCode,
		&b.DiscountValue,
		&b.PaymentDeadline,
		&b.CancelledAt,
		&b.CancellationReason,
		&b.RefundAmount,
		&b.CompensationCode,
		&b.CancelledBy,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Create inserts a pending booking. The partial unique index on active slots turns a lost race into ErrSlotTaken.
func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (
			id, order_id, pitch_id, user_id, booking_date, hour,
			customer_name, customer_phone, customer_email, status,
			price, deposit_amount, paid_amount, remaining_amount,
			discount_code, discount_value, payment_deadline, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`

	_, err := database.Conn(ctx, r.db).Exec(ctx, query,
		booking.ID,
		booking.OrderID,
		booking.PitchID,
		booking.UserID,
		booking.BookingDate.Format(dateLayout),
		booking.Hour,
		booking.CustomerName,
		booking.CustomerPhone,
		booking.CustomerEmail,
		booking.Status,
		booking.Price,
		booking.DepositAmount,
		booking.PaidAmount,
		booking.RemainingAmount,
		booking.DiscountCode,
		booking.DiscountValue,
		booking.PaymentDeadline,
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		if pgErr, ok := uniqueViolation(err); ok {
			if pgErr.ConstraintName == activeSlotIndex {
				return fmt.Errorf("create booking for pitch %s: %w", booking.PitchID.String(), ErrSlotTaken)
			}
			return fmt.Errorf("create booking %s: %w", booking.OrderID, ErrDuplicate)
		}
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("order_id", booking.OrderID),
			zap.String("pitch_id", booking.PitchID.String()),
		)
		return fmt.Errorf("create booking %s: %w", booking.OrderID, err)
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query, args, err := psql.Select(bookingColumns...).
		From("bookings").
		Where(sq.Eq{"id": id.String()}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build booking query: %w", err)
	}

	booking, err := scanBooking(database.Conn(ctx, r.db).QueryRow(ctx, query, args...))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking", zap.Error(err), zap.String("id", id.String()))
		return nil, fmt.Errorf("find booking %s: %w", id.String(), err)
	}
	return booking, nil
}

func (r *bookingRepository) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	return r.Search(ctx, BookingFilter{UserID: &userID, Limit: limit, Offset: offset})
}

func (r *bookingRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	return r.CountSearch(ctx, BookingFilter{UserID: &userID})
}

// BookedHours returns the hours held by pending or confirmed bookings, ascending.
func (r *bookingRepository) BookedHours(ctx context.Context, pitchID uuid.UUID, date time.Time) ([]int, error) {
	query := `
		SELECT hour FROM bookings
		WHERE pitch_id = $1 AND booking_date = $2 AND status IN ('pending', 'confirmed')
		ORDER BY hour ASC
	`

	rows, err := database.Conn(ctx, r.db).Query(ctx, query, pitchID, date.Format(dateLayout))
	if err != nil {
		r.log.Error("Failed to get booked hours", zap.Error(err), zap.String("pitch_id", pitchID.String()))
		return nil, fmt.Errorf("booked hours for pitch %s: %w", pitchID.String(), err)
	}
	defer rows.Close()

	var hours []int
	for rows.Next() {
		var h int
		if err := rows.Scan(&h); err != nil {
			return nil, fmt.Errorf("scan booked hour: %w", err)
		}
		hours = append(hours, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate booked hours: %w", err)
	}
	return hours, nil
}

func (r *bookingRepository) SlotTaken(ctx context.Context, pitchID uuid.UUID, date time.Time, hour int) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE pitch_id = $1 AND booking_date = $2 AND hour = $3 AND status IN ('pending', 'confirmed')
		)
	`

	var taken bool
	if err := database.Conn(ctx, r.db).QueryRow(ctx, query, pitchID, date.Format(dateLayout), hour).Scan(&taken); err != nil {
		return false, fmt.Errorf("check slot of pitch %s: %w", pitchID.String(), err)
	}
	return taken, nil
}

func (r *bookingRepository) CountConfirmedByUserAndDate(ctx context.Context, userID uuid.UUID, date time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE user_id = $1 AND booking_date = $2 AND status = 'confirmed'`

	var count int
	if err := database.Conn(ctx, r.db).QueryRow(ctx, query, userID, date.Format(dateLayout)).Scan(&count); err != nil {
		return 0, fmt.Errorf("count confirmed bookings of user %s: %w", userID.String(), err)
	}
	return count, nil
}

// HasAttended reports whether the user holds a confirmed or completed booking on the pitch.
func (r *bookingRepository) HasAttended(ctx context.Context, userID, pitchID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE user_id = $1 AND pitch_id = $2 AND status IN ('confirmed', 'completed')
		)
	`

	var ok bool
	if err := database.Conn(ctx, r.db).QueryRow(ctx, query, userID, pitchID).Scan(&ok); err != nil {
		return false, fmt.Errorf("check attendance of user %s: %w", userID.String(), err)
	}
	return ok, nil
}

func (r *bookingRepository) transition(ctx context.Context, id uuid.UUID, query string, args ...any) error {
	result, err := database.Conn(ctx, r.db).Exec(ctx, query, append([]any{id}, args...)...)
	if err != nil {
		r.log.Error("Failed to update booking status", zap.Error(err), zap.String("id", id.String()))
		return fmt.Errorf("update booking %s: %w", id.String(), err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("update booking %s: %w", id.String(), ErrStaleState)
	}
	return nil
}

func (r *bookingRepository) Confirm(ctx context.Context, id uuid.UUID, paid, remaining decimal.Decimal) error {
	query := `
		UPDATE bookings
		SET status = 'confirmed', paid_amount = $2, remaining_amount = $3, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`
	return r.transition(ctx, id, query, paid, remaining)
}

func (r *bookingRepository) Cancel(ctx context.Context, id uuid.UUID, params CancelParams) error {
	query := `
		UPDATE bookings
		SET status = 'cancelled', cancelled_at = $2, cancellation_reason = $3,
		    refund_amount = $4, compensation_code = $5, cancelled_by = $6, updated_at = NOW()
		WHERE id = $1 AND status IN ('pending', 'confirmed')
	`
	return r.transition(ctx, id, query,
		params.CancelledAt,
		params.Reason,
		params.RefundAmount,
		params.CompensationCode,
		params.CancelledBy,
	)
}

func (r *bookingRepository) Complete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE bookings SET status = 'completed', updated_at = NOW() WHERE id = $1 AND status = 'confirmed'`
	return r.transition(ctx, id, query)
}

func applyBookingFilter(b sq.SelectBuilder, filter BookingFilter) sq.SelectBuilder {
	if filter.PitchIDs != nil {
		b = b.Where(sq.Eq{"pitch_id": uuidStrings(filter.PitchIDs)})
	}
	if filter.UserID != nil {
		b = b.Where(sq.Eq{"user_id": filter.UserID.String()})
	}
	if filter.Status != "" {
		b = b.Where(sq.Eq{"status": string(filter.Status)})
	}
	if filter.DateFrom != nil {
		b = b.Where(sq.GtOrEq{"booking_date": filter.DateFrom.Format(dateLayout)})
	}
	if filter.DateTo != nil {
		b = b.Where(sq.LtOrEq{"booking_date": filter.DateTo.Format(dateLayout)})
	}
	return b
}

// Search lists bookings newest slot first. A non-nil empty PitchIDs matches nothing.
func (r *bookingRepository) Search(ctx context.Context, filter BookingFilter) ([]*entity.Booking, error) {
	b := applyBookingFilter(psql.Select(bookingColumns...).From("bookings"), filter).
		OrderBy("booking_date DESC", "hour DESC")
	if filter.Limit > 0 {
		b = b.Limit(uint64(filter.Limit)).Offset(uint64(filter.Offset))
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build booking search: %w", err)
	}

	rows, err := database.Conn(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to search bookings", zap.Error(err))
		return nil, fmt.Errorf("search bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate booking rows: %w", err)
	}
	return bookings, nil
}

func (r *bookingRepository) CountSearch(ctx context.Context, filter BookingFilter) (int64, error) {
	query, args, err := applyBookingFilter(psql.Select("COUNT(*)").From("bookings"), filter).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build booking count: %w", err)
	}

	var count int64
	if err := database.Conn(ctx, r.db).QueryRow(ctx, query, args...).Scan(&count); err != nil {
		r.log.Error("Database error counting bookings", zap.Error(err))
		return 0, fmt.Errorf("count bookings: %w", err)
	}
	return count, nil
}

// Summary aggregates every booking when pitchIDs is nil, otherwise only those pitches.
func (r *bookingRepository) Summary(ctx context.Context, pitchIDs []uuid.UUID) (*BookingSummary, error) {
	b := psql.Select("status", "COUNT(*)", "COALESCE(SUM(paid_amount), 0)").
		From("bookings").
		GroupBy("status")
	if pitchIDs != nil {
		b = b.Where(sq.Eq{"pitch_id": uuidStrings(pitchIDs)})
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build booking summary: %w", err)
	}

	rows, err := database.Conn(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to summarize bookings", zap.Error(err))
		return nil, fmt.Errorf("summarize bookings: %w", err)
	}
	defer rows.Close()

	summary := &BookingSummary{ByStatus: make(map[entity.BookingStatus]int64)}
	for rows.Next() {
		var (
			status entity.BookingStatus
			count  int64
			paid   decimal.Decimal
		)
		if err := rows.Scan(&status, &count, &paid); err != nil {
			return nil, fmt.Errorf("scan booking summary: %w", err)
		}
		summary.ByStatus[status] = count
		if status == entity.BookingStatusConfirmed || status == entity.BookingStatusCompleted {
			summary.Revenue = summary.Revenue.Add(paid)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate booking summary: %w", err)
	}
	return summary, nil
}
