package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"pitch-booking/internal/data/entity"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

// consumeArgs matches the four arguments of the consume statement.
func consumeArgs() []any {
	return anyArgs(4)
}

func anyArgs(n int) []any {
	args := make([]any, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

func TestCodeRepository_Consume(t *testing.T) {
	ctx := context.Background()
	bookingID, userID := uuid.New(), uuid.New()
	at := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	earlier := at.Add(-time.Minute)
	later := at.Add(time.Hour)
	stranger := uuid.New()

	t.Run("active code is consumed once", func(t *testing.T) {
		mock := newMock(t)
		repo := NewCodeRepository(mock, zap.NewNop())

		mock.ExpectExec(`UPDATE codes .* expires_at > \$3.* owner_id = \$2`).
			WithArgs("ABCD1234", userID, at, bookingID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		require.NoError(t, repo.Consume(ctx, "ABCD1234", bookingID, userID, at))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	cases := []struct {
		name    string
		code    string
		row     []any
		missing bool
		want    error
	}{
		{name: "used code", code: "ABCD1234", row: []any{"used", nil, nil}, want: ErrCodeUsed},
		{name: "unknown code", code: "NOPE0000", missing: true, want: ErrCodeNotFound},
		{name: "expired code", code: "OLD00001", row: []any{"active", &earlier, nil}, want: ErrCodeExpired},
		{name: "expires exactly now", code: "OLD00002", row: []any{"active", &at, nil}, want: ErrCodeExpired},
		{name: "someone else's credit", code: "COMP0001", row: []any{"active", &later, &stranger}, want: ErrCodeNotFound},
		{name: "lost a race", code: "RACE0001", row: []any{"active", nil, &userID}, want: ErrCodeUsed},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mock := newMock(t)
			repo := NewCodeRepository(mock, zap.NewNop())

			mock.ExpectExec("UPDATE codes").
				WithArgs(consumeArgs()...).
				WillReturnResult(pgxmock.NewResult("UPDATE", 0))

			rows := pgxmock.NewRows([]string{"status", "expires_at", "owner_id"})
			if !tc.missing {
				rows.AddRow(tc.row...)
			}
			mock.ExpectQuery("SELECT status, expires_at, owner_id FROM codes").
				WithArgs(tc.code).
				WillReturnRows(rows)

			err := repo.Consume(ctx, tc.code, bookingID, userID, at)
			assert.ErrorIs(t, err, tc.want)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCodeRepository_CreateReportsCollision(t *testing.T) {
	mock := newMock(t)
	repo := NewCodeRepository(mock, zap.NewNop())

	insertArgs := anyArgs(11)
	mock.ExpectExec("INSERT INTO codes").WithArgs(insertArgs...).WillReturnResult(pgxmock.NewResult("INSERT", 0))
	mock.ExpectExec("INSERT INTO codes").WithArgs(insertArgs...).WillReturnResult(pgxmock.NewResult("INSERT", 1))

	code := &entity.Code{Code: "AAAA0000", Type: entity.CodeTypeDiscount, Status: entity.CodeStatusActive}

	inserted, err := repo.Create(context.Background(), code)
	require.NoError(t, err)
	assert.False(t, inserted)

	inserted, err = repo.Create(context.Background(), code)
	require.NoError(t, err)
	assert.True(t, inserted)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepository_CreateMapsUniqueViolation(t *testing.T) {
	booking := &entity.Booking{
		BaseNoDelete: entity.BaseNoDelete{ID: uuid.New()},
		OrderID:      "PB-20250601-100000-0001",
		PitchID:      uuid.New(),
		BookingDate:  time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC),
		Hour:         18,
		Status:       entity.BookingStatusPending,
	}

	cases := []struct {
		name       string
		constraint string
		want       error
	}{
		{name: "active slot index", constraint: activeSlotIndex, want: ErrSlotTaken},
		{name: "order id", constraint: "bookings_order_id_key", want: ErrDuplicate},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mock := newMock(t)
			repo := NewBookingRepository(mock, zap.NewNop())

			mock.ExpectExec("INSERT INTO bookings").
				WithArgs(anyArgs(19)...).
				WillReturnError(&pgconn.PgError{Code: pgUniqueViolation, ConstraintName: tc.constraint})

			err := repo.Create(context.Background(), booking)
			assert.ErrorIs(t, err, tc.want)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestBookingRepository_TransitionsAreConditional(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("confirm of a non-pending booking is stale", func(t *testing.T) {
		mock := newMock(t)
		repo := NewBookingRepository(mock, zap.NewNop())

		mock.ExpectExec("UPDATE bookings").
			WithArgs(id, decimal.NewFromInt(75), decimal.NewFromInt(125)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.Confirm(ctx, id, decimal.NewFromInt(75), decimal.NewFromInt(125))
		assert.ErrorIs(t, err, ErrStaleState)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("complete succeeds on one row", func(t *testing.T) {
		mock := newMock(t)
		repo := NewBookingRepository(mock, zap.NewNop())

		mock.ExpectExec("UPDATE bookings").WithArgs(id).WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		assert.NoError(t, repo.Complete(ctx, id))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBookingRepository_BookedHours(t *testing.T) {
	mock := newMock(t)
	repo := NewBookingRepository(mock, zap.NewNop())
	pitchID := uuid.New()
	date := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT hour FROM bookings").
		WithArgs(pitchID, "2025-06-03").
		WillReturnRows(pgxmock.NewRows([]string{"hour"}).AddRow(9).AddRow(18))

	hours, err := repo.BookedHours(context.Background(), pitchID, date)
	require.NoError(t, err)
	assert.Equal(t, []int{9, 18}, hours)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepository_Summary(t *testing.T) {
	mock := newMock(t)
	repo := NewBookingRepository(mock, zap.NewNop())

	rows := pgxmock.NewRows([]string{"status", "count", "paid"}).
		AddRow(entity.BookingStatusConfirmed, int64(3), "100.00").
		AddRow(entity.BookingStatusCompleted, int64(1), "50.00").
		AddRow(entity.BookingStatusCancelled, int64(2), "20.00")
	mock.ExpectQuery("SELECT status, COUNT").WillReturnRows(rows)

	summary, err := repo.Summary(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(3), summary.ByStatus[entity.BookingStatusConfirmed])
	assert.Equal(t, int64(2), summary.ByStatus[entity.BookingStatusCancelled])
	assert.True(t, decimal.NewFromInt(150).Equal(summary.Revenue), summary.Revenue.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPitchRepository_FindByIDMissing(t *testing.T) {
	mock := newMock(t)
	repo := NewPitchRepository(mock, zap.NewNop())
	id := uuid.New()

	mock.ExpectQuery("FROM pitches").WithArgs(id.String()).WillReturnError(pgx.ErrNoRows)

	pitch, err := repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, pitch)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_CreateDuplicate(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock, zap.NewNop())

	mock.ExpectExec("INSERT INTO users").
		WithArgs(anyArgs(9)...).
		WillReturnError(&pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "users_email_key"})

	err := repo.Create(context.Background(), &entity.User{Email: "a@b.c"})
	assert.True(t, errors.Is(err, ErrDuplicate))
	assert.NoError(t, mock.ExpectationsWereMet())
}
