package repository

import (
	"pitch-booking/pkg/database"

	sq "github.com/Masterminds/squirrel"
	"go.uber.org/zap"
)

type Repository struct {
	User    UserRepository
	Session SessionRepository
	Pitch   PitchRepository
	Booking BookingRepository
	Payment PaymentRepository
	Code    CodeRepository
	Manager ManagerRepository
	Review  ReviewRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:    NewUserRepository(db, log),
		Session: NewSessionRepository(db, log),
		Pitch:   NewPitchRepository(db, log),
		Booking: NewBookingRepository(db, log),
		Payment: NewPaymentRepository(db, log),
		Code:    NewCodeRepository(db, log),
		Manager: NewManagerRepository(db, log),
		Review:  NewReviewRepository(db, log),
	}
}

// psql builds dynamic statements with $n placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
