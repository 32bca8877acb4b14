package usecase

import (
	"testing"
	"time"

	"pitch-booking/internal/data/entity"
	"pitch-booking/internal/dto/request"
	"pitch-booking/internal/notify"
	"pitch-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// fixture wires a Service over the in-memory store with a movable clock.
type fixture struct {
	store    *memStore
	svc      *Service
	notifier *mockNotifier
	now      time.Time
	cfg      *utils.Config
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		store:    newMemStore(),
		notifier: &mockNotifier{},
		now:      time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC),
		cfg: &utils.Config{
			Booking: utils.BookingConfig{
				DailyCap:                 3,
				CompensationValidityDays: 14,
				CodeLength:               8,
			},
			Session: utils.SessionConfig{ExpiryHours: 24},
		},
	}
	f.notifier.On("Notify", mock.Anything).Return()

	f.svc = NewService(Deps{
		Repo:     f.store.repository(),
		Tx:       passTx{},
		Notifier: f.notifier,
		Clock:    utils.ClockFunc(func() time.Time { return f.now }),
		Location: time.UTC,
		Config:   f.cfg,
	}, zap.NewNop())
	return f
}

func (f *fixture) addUser(role entity.UserRole) Actor {
	id := uuid.New()
	f.store.users[id] = &entity.User{
		Base:     entity.Base{ID: id, CreatedAt: f.now, UpdatedAt: f.now},
		Username: "user-" + id.String()[:8],
		Email:    id.String()[:8] + "@example.com",
		Role:     role,
		IsActive: true,
		Stats:    entity.UserStats{TotalSpent: decimal.Zero},
	}
	return Actor{UserID: id, Role: role}
}

func (f *fixture) addPitch(price int64) *entity.Pitch {
	p := &entity.Pitch{
		Base:      entity.Base{ID: uuid.New(), CreatedAt: f.now, UpdatedAt: f.now},
		Name:      "Pitch " + uuid.NewString()[:4],
		Location:  "North Park",
		Area:      "north",
		Type:      entity.PitchTypeArtificial,
		Price:     decimal.NewFromInt(price),
		OpenHour:  8,
		CloseHour: 23,
	}
	f.store.pitches[p.ID] = p
	return p
}

func (f *fixture) seedBooking(user Actor, pitch *entity.Pitch, date string, hour int, status entity.BookingStatus) *entity.Booking {
	d, _ := time.ParseInLocation(dateLayout, date, time.UTC)
	b := &entity.Booking{
		BaseNoDelete:    entity.BaseNoDelete{ID: uuid.New(), CreatedAt: f.now, UpdatedAt: f.now},
		OrderID:         utils.GenerateOrderID(f.now),
		PitchID:         pitch.ID,
		UserID:          user.UserID,
		BookingDate:     d,
		Hour:            hour,
		CustomerEmail:   "seed@example.com",
		Status:          status,
		Price:           pitch.Price,
		DepositAmount:   decimal.Zero,
		PaidAmount:      decimal.Zero,
		RemainingAmount: pitch.Price,
		DiscountValue:   decimal.Zero,
		RefundAmount:    decimal.Zero,
	}
	f.store.bookings[b.ID] = b
	return b
}

func (f *fixture) seedCode(code string, value int64, pitchID *uuid.UUID, expiresAt *time.Time) {
	f.store.codes[code] = &entity.Code{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: f.now},
		Code:       code,
		Type:       entity.CodeTypeDiscount,
		Source:     entity.CodeSourceAdmin,
		Value:      decimal.NewFromInt(value),
		PitchID:    pitchID,
		Status:     entity.CodeStatusActive,
		ExpiresAt:  expiresAt,
	}
}

func bookingReq(pitchID uuid.UUID, date string, hour int) *request.CreateBookingRequest {
	return &request.CreateBookingRequest{
		PitchID:       pitchID.String(),
		Date:          date,
		Hour:          hour,
		CustomerName:  "Sam Player",
		CustomerPhone: "0100200300",
		CustomerEmail: "sam@example.com",
	}
}

func cardPayment(amount int64) *request.ConfirmPaymentRequest {
	return &request.ConfirmPaymentRequest{
		Provider:      string(entity.ProviderCard),
		TransactionID: "tx-" + uuid.NewString()[:8],
		Amount:        decimal.NewFromInt(amount),
	}
}

func notifiedKind(kind notify.Kind) interface{} {
	return mock.MatchedBy(func(m notify.Message) bool { return m.Kind == kind })
}

func fixedClock(f *fixture) utils.Clock {
	return utils.ClockFunc(func() time.Time { return f.now })
}

func zapNop() *zap.Logger { return zap.NewNop() }
