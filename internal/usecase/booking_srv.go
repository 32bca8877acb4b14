package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pitch-booking/internal/cache"
	"pitch-booking/internal/data/entity"
	"pitch-booking/internal/data/repository"
	"pitch-booking/internal/dto/request"
	"pitch-booking/internal/dto/response"
	"pitch-booking/internal/notify"
	"pitch-booking/internal/receipt"
	"pitch-booking/pkg/metrics"
	"pitch-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type BookingService interface {
	CreateBooking(ctx context.Context, actor Actor, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	ConfirmPayment(ctx context.Context, actor Actor, bookingID uuid.UUID, req *request.ConfirmPaymentRequest) (*response.PaymentResultResponse, error)
	VerifyPayment(ctx context.Context, actor Actor, paymentID uuid.UUID, req *request.VerifyPaymentRequest) (*response.PaymentResultResponse, error)
	CancelBooking(ctx context.Context, actor Actor, bookingID uuid.UUID, req *request.CancelBookingRequest) (*response.CancelResponse, error)
	CompleteBooking(ctx context.Context, actor Actor, bookingID uuid.UUID) (*response.BookingResponse, error)
	GetBooking(ctx context.Context, actor Actor, bookingID uuid.UUID) (*response.BookingResponse, error)
	ListMyBookings(ctx context.Context, actor Actor, page request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	Receipt(ctx context.Context, actor Actor, bookingID uuid.UUID) ([]byte, string, error)
}

type bookingService struct {
	repo     *repository.Repository
	tx       Transactor
	cache    cache.SlotCache
	notifier notify.Notifier
	clock    utils.Clock
	loc      *time.Location
	cfg      utils.BookingConfig
	log      *zap.Logger
}

func NewBookingService(deps Deps, log *zap.Logger) BookingService {
	return &bookingService{
		repo:     deps.Repo,
		tx:       deps.Tx,
		cache:    deps.Cache,
		notifier: deps.Notifier,
		clock:    deps.Clock,
		loc:      deps.Location,
		cfg:      deps.Config.Booking,
		log:      log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, actor Actor, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	// 1. Validate input
	if err := validate(req); err != nil {
		return nil, err
	}
	pitchID, err := parseID(req.PitchID, "pitch")
	if err != nil {
		return nil, err
	}
	date, err := parseDate(req.Date, s.loc)
	if err != nil {
		return nil, err
	}

	// 2. Pitch and slot checks
	pitch, err := s.repo.Pitch.FindByID(ctx, pitchID)
	if err != nil {
		return nil, fmt.Errorf("failed to load pitch: %w", err)
	}
	if pitch == nil {
		return nil, notFound("pitch", pitchID)
	}

	now := s.clock.Now()
	slotStart := entity.SlotStart(date, req.Hour, s.loc)
	if slotStart.Before(now) {
		return nil, invalidf("slot %s %02d:00 is in the past", req.Date, req.Hour)
	}
	if !pitch.IsOpenAt(req.Hour) {
		return nil, invalidf("pitch is open from %02d:00 to %02d:00", pitch.OpenHour, pitch.CloseHour)
	}

	// 3. Pricing
	deposit := RequiredDeposit(pitch.Price, slotStart, now)
	discount, remaining := decimal.Zero, pitch.Price.Sub(deposit)

	var discountCode *string
	if req.DiscountCode != nil && strings.TrimSpace(*req.DiscountCode) != "" {
		c, err := lookupCode(ctx, s.repo.Code, *req.DiscountCode, &pitch.ID, actor.UserID, now)
		if err != nil {
			return nil, err
		}
		discount, remaining = applyDiscount(pitch.Price, deposit, c.Value)
		discountCode = &c.Code
	}

	booking := &entity.Booking{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		OrderID:         utils.GenerateOrderID(now),
		PitchID:         pitch.ID,
		UserID:          actor.UserID,
		BookingDate:     date,
		Hour:            req.Hour,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		CustomerEmail:   req.CustomerEmail,
		Status:          entity.BookingStatusPending,
		Price:           pitch.Price,
		DepositAmount:   deposit,
		PaidAmount:      decimal.Zero,
		RemainingAmount: remaining,
		DiscountCode:    discountCode,
		DiscountValue:   discount,
		PaymentDeadline: slotStart.Add(-shortLead),
		RefundAmount:    decimal.Zero,
	}

	// 4. Persist under the user's row lock so the daily cap cannot be raced
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.repo.User.LockForUpdate(ctx, actor.UserID); err != nil {
			return err
		}

		if actor.Role == entity.RoleCustomer {
			confirmed, err := s.repo.Booking.CountConfirmedByUserAndDate(ctx, actor.UserID, date)
			if err != nil {
				return err
			}
			if confirmed >= s.cfg.DailyCap {
				return fmt.Errorf("%w: %d confirmed bookings on %s", ErrQuotaExceeded, confirmed, req.Date)
			}
		}

		taken, err := s.repo.Booking.SlotTaken(ctx, pitch.ID, date, req.Hour)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("%w: %s %02d:00", ErrSlotConflict, req.Date, req.Hour)
		}

		if err := s.repo.Booking.Create(ctx, booking); err != nil {
			if errors.Is(err, repository.ErrSlotTaken) {
				return fmt.Errorf("%w: %s %02d:00", ErrSlotConflict, req.Date, req.Hour)
			}
			return err
		}
		return nil
	})
	if err != nil {
		if isDomainError(err) {
			return nil, err
		}
		s.log.Error("Failed to create booking", zap.Error(err), zap.String("pitch_id", pitch.ID.String()))
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	// 5. Best-effort side effects
	s.applyStats(ctx, actor.UserID, entity.StatsDelta{Bookings: 1})
	s.cache.Invalidate(ctx, pitch.ID, req.Date)
	metrics.BookingTransition(string(entity.BookingStatusPending))
	s.notifier.Notify(bookingMessage(notify.KindBookingCreated, booking, pitch, now,
		"Booking received",
		fmt.Sprintf("Pay the deposit of %s before %s to confirm.",
			utils.FormatMoney(deposit), booking.PaymentDeadline.Format("2006-01-02 15:04"))))

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("order_id", booking.OrderID),
		zap.String("pitch_id", pitch.ID.String()),
		zap.String("deposit", deposit.String()),
	)

	resp := response.BookingToResponse(booking, pitch.Name)
	return &resp, nil
}

func (s *bookingService) ConfirmPayment(ctx context.Context, actor Actor, bookingID uuid.UUID, req *request.ConfirmPaymentRequest) (*response.PaymentResultResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	provider := entity.PaymentProvider(req.Provider)
	if provider.RequiresVerification() && (req.ReceiptRef == nil || strings.TrimSpace(*req.ReceiptRef) == "") {
		return nil, invalidf("receipt_ref is required for bank transfers")
	}

	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != actor.UserID {
		return nil, ErrForbidden
	}
	if booking.Status != entity.BookingStatusPending {
		return nil, fmt.Errorf("%w: booking is %s", ErrInvalidState, booking.Status)
	}
	if !req.Amount.Equal(booking.DepositAmount) {
		return nil, fmt.Errorf("%w: expected %s, got %s", ErrInvalidAmount, booking.DepositAmount, req.Amount)
	}

	now := s.clock.Now()
	payment := &entity.Payment{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		BookingID:     booking.ID,
		UserID:        actor.UserID,
		Provider:      provider,
		TransactionID: req.TransactionID,
		Amount:        req.Amount,
		ReceiptRef:    req.ReceiptRef,
		Status:        entity.PaymentStatusConfirmed,
	}

	if provider.RequiresVerification() {
		payment.Status = entity.PaymentStatusPending
		if err := s.createPayment(ctx, payment); err != nil {
			return nil, err
		}

		s.notifier.Notify(bookingMessage(notify.KindPaymentPending, booking, nil, now,
			"Payment received",
			"Your bank transfer is being verified. The booking is confirmed once it is approved."))
		s.log.Info("Payment awaiting verification",
			zap.String("booking_id", booking.ID.String()),
			zap.String("payment_id", payment.ID.String()),
		)
		return s.paymentResult(booking, payment), nil
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.createPayment(ctx, payment); err != nil {
			return err
		}
		return s.settle(ctx, booking, payment.Amount, now)
	})
	if err != nil {
		if isDomainError(err) {
			return nil, err
		}
		s.log.Error("Failed to confirm payment", zap.Error(err), zap.String("booking_id", booking.ID.String()))
		return nil, fmt.Errorf("failed to confirm payment: %w", err)
	}

	s.afterConfirm(ctx, booking, payment, now)
	return s.paymentResult(booking, payment), nil
}

// VerifyPayment approves or rejects a bank transfer awaiting staff review.
func (s *bookingService) VerifyPayment(ctx context.Context, actor Actor, paymentID uuid.UUID, req *request.VerifyPaymentRequest) (*response.PaymentResultResponse, error) {
	payment, err := s.repo.Payment.FindByID(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load payment: %w", err)
	}
	if payment == nil {
		return nil, notFound("payment", paymentID)
	}

	booking, err := s.findBooking(ctx, payment.BookingID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeStaff(ctx, actor, booking.PitchID); err != nil {
		return nil, err
	}
	if payment.Status != entity.PaymentStatusPending {
		return nil, fmt.Errorf("%w: payment is %s", ErrInvalidState, payment.Status)
	}

	now := s.clock.Now()
	if !req.Approve {
		if err := s.repo.Payment.Settle(ctx, payment.ID, entity.PaymentStatusFailed, actor.UserID, now); err != nil {
			return nil, s.translate("reject payment", err)
		}
		payment.Status = entity.PaymentStatusFailed
		payment.VerifiedBy, payment.VerifiedAt = &actor.UserID, &now

		s.notifier.Notify(bookingMessage(notify.KindPaymentRejected, booking, nil, now,
			"Payment rejected",
			"We could not verify your bank transfer. Please submit the payment again."))
		s.log.Info("Payment rejected",
			zap.String("payment_id", payment.ID.String()),
			zap.String("verified_by", actor.UserID.String()),
		)
		return s.paymentResult(booking, payment), nil
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.repo.Payment.Settle(ctx, payment.ID, entity.PaymentStatusConfirmed, actor.UserID, now); err != nil {
			return s.translate("approve payment", err)
		}
		return s.settle(ctx, booking, payment.Amount, now)
	})
	if err != nil {
		if isDomainError(err) {
			return nil, err
		}
		s.log.Error("Failed to verify payment", zap.Error(err), zap.String("payment_id", payment.ID.String()))
		return nil, fmt.Errorf("failed to verify payment: %w", err)
	}

	payment.Status = entity.PaymentStatusConfirmed
	payment.VerifiedBy, payment.VerifiedAt = &actor.UserID, &now
	s.afterConfirm(ctx, booking, payment, now)
	return s.paymentResult(booking, payment), nil
}

func (s *bookingService) CancelBooking(ctx context.Context, actor Actor, bookingID uuid.UUID, req *request.CancelBookingRequest) (*response.CancelResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actor, booking); err != nil {
		return nil, err
	}
	if !booking.Status.HoldsSlot() {
		return nil, fmt.Errorf("%w: booking is %s", ErrInvalidState, booking.Status)
	}

	now := s.clock.Now()
	lead := CancellationLead(booking, now, s.loc, s.cfg.CancelUseSlotHour)
	outcome := CancellationTerms(booking.PaidAmount, lead)

	params := repository.CancelParams{
		CancelledAt:  now,
		Reason:       req.Reason,
		RefundAmount: outcome.Refund,
		CancelledBy:  actor.UserID,
	}

	var compensation *entity.Code
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if outcome.Compensation.IsPositive() {
			expires := now.AddDate(0, 0, s.cfg.CompensationValidityDays)
			compensation = &entity.Code{
				BaseSimple:      entity.BaseSimple{ID: uuid.New(), CreatedAt: now},
				Type:            entity.CodeTypeCompensation,
				Source:          entity.CodeSourceCancellation,
				Value:           outcome.Compensation,
				Status:          entity.CodeStatusActive,
				ExpiresAt:       &expires,
				OwnerID:         &booking.UserID,
				SourceBookingID: &booking.ID,
			}
			if err := issueCode(ctx, s.repo.Code, compensation, s.cfg.CodeLength); err != nil {
				return err
			}
			params.CompensationCode = &compensation.Code
		}

		return s.translate("cancel booking", s.repo.Booking.Cancel(ctx, booking.ID, params))
	})
	if err != nil {
		if isDomainError(err) {
			return nil, err
		}
		s.log.Error("Failed to cancel booking", zap.Error(err), zap.String("booking_id", booking.ID.String()))
		return nil, fmt.Errorf("failed to cancel booking: %w", err)
	}

	booking.Status = entity.BookingStatusCancelled
	booking.CancelledAt = &now
	booking.CancellationReason = req.Reason
	booking.RefundAmount = outcome.Refund
	booking.CompensationCode = params.CompensationCode
	booking.CancelledBy = &actor.UserID

	s.applyStats(ctx, booking.UserID, entity.StatsDelta{Cancelled: 1})
	s.cache.Invalidate(ctx, booking.PitchID, booking.BookingDate.Format(dateLayout))
	metrics.BookingTransition(string(entity.BookingStatusCancelled))
	metrics.Cancellation(string(outcome.Tier))
	if compensation != nil {
		metrics.CodeOperation("generated", string(entity.CodeTypeCompensation), 1)
	}
	s.notifier.Notify(bookingMessage(notify.KindBookingCancelled, booking, nil, now,
		"Booking cancelled", cancellationSummary(outcome, compensation)))

	s.log.Info("Booking cancelled",
		zap.String("booking_id", booking.ID.String()),
		zap.String("tier", string(outcome.Tier)),
		zap.String("refund", outcome.Refund.String()),
		zap.String("cancelled_by", actor.UserID.String()),
	)

	resp := &response.CancelResponse{
		Booking:           response.BookingToResponse(booking, ""),
		Tier:              string(outcome.Tier),
		RefundAmount:      outcome.Refund,
		CompensationCode:  params.CompensationCode,
		CompensationValue: outcome.Compensation,
	}
	return resp, nil
}

// CompleteBooking closes a confirmed booking once its slot has started.
func (s *bookingService) CompleteBooking(ctx context.Context, actor Actor, bookingID uuid.UUID) (*response.BookingResponse, error) {
	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeStaff(ctx, actor, booking.PitchID); err != nil {
		return nil, err
	}
	if booking.Status != entity.BookingStatusConfirmed {
		return nil, fmt.Errorf("%w: booking is %s", ErrInvalidState, booking.Status)
	}
	if s.clock.Now().Before(booking.SlotStart(s.loc)) {
		return nil, fmt.Errorf("%w: slot has not started", ErrInvalidState)
	}

	if err := s.repo.Booking.Complete(ctx, booking.ID); err != nil {
		return nil, s.translate("complete booking", err)
	}
	now := s.clock.Now()
	booking.Status = entity.BookingStatusCompleted
	booking.UpdatedAt = now
	metrics.BookingTransition(string(entity.BookingStatusCompleted))
	s.cache.Invalidate(ctx, booking.PitchID, booking.BookingDate.Format(dateLayout))

	s.notifier.Notify(bookingMessage(notify.KindBookingCompleted, booking, nil, now,
		"Thanks for playing",
		"Your booking is complete. You can now leave a review for the pitch."))
	s.log.Info("Booking completed",
		zap.String("booking_id", booking.ID.String()),
		zap.String("completed_by", actor.UserID.String()),
	)

	resp := response.BookingToResponse(booking, "")
	return &resp, nil
}

func (s *bookingService) GetBooking(ctx context.Context, actor Actor, bookingID uuid.UUID) (*response.BookingResponse, error) {
	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actor, booking); err != nil {
		return nil, err
	}

	pitch, err := s.repo.Pitch.FindByID(ctx, booking.PitchID)
	if err != nil {
		return nil, fmt.Errorf("failed to load pitch: %w", err)
	}
	payments, err := s.repo.Payment.FindByBookingID(ctx, booking.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load payments: %w", err)
	}

	name := ""
	if pitch != nil {
		name = pitch.Name
	}
	resp := response.BookingToResponse(booking, name)
	for _, p := range payments {
		resp.Payments = append(resp.Payments, response.PaymentToResponse(p))
	}
	return &resp, nil
}

func (s *bookingService) ListMyBookings(ctx context.Context, actor Actor, page request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	bookings, err := s.repo.Booking.FindByUserID(ctx, actor.UserID, page.Limit(), page.Offset())
	if err != nil {
		s.log.Error("Failed to list user bookings", zap.Error(err), zap.String("user_id", actor.UserID.String()))
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	total, err := s.repo.Booking.CountByUserID(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to count bookings: %w", err)
	}

	out := make([]response.BookingResponse, len(bookings))
	for i, b := range bookings {
		out[i] = response.BookingToResponse(b, "")
	}
	return response.NewPaginatedResponse(out, page.CurrentPage(), page.Limit(), total), nil
}

func (s *bookingService) Receipt(ctx context.Context, actor Actor, bookingID uuid.UUID) ([]byte, string, error) {
	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return nil, "", err
	}
	if err := s.authorize(ctx, actor, booking); err != nil {
		return nil, "", err
	}
	if booking.Status != entity.BookingStatusConfirmed && booking.Status != entity.BookingStatusCompleted {
		return nil, "", fmt.Errorf("%w: receipts exist for paid bookings only", ErrInvalidState)
	}

	pitch, err := s.repo.Pitch.FindByID(ctx, booking.PitchID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load pitch: %w", err)
	}
	if pitch == nil {
		return nil, "", notFound("pitch", booking.PitchID)
	}
	payments, err := s.repo.Payment.FindByBookingID(ctx, booking.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load payments: %w", err)
	}

	return receipt.Build(receipt.Data{
		Booking:  booking,
		Pitch:    pitch,
		Payments: payments,
		IssuedAt: s.clock.Now(),
	})
}

// settle confirms the booking and consumes its discount code. It must run inside a transaction.
func (s *bookingService) settle(ctx context.Context, booking *entity.Booking, paid decimal.Decimal, now time.Time) error {
	remaining := remainingAfterPayment(booking, paid)
	if err := s.repo.Booking.Confirm(ctx, booking.ID, paid, remaining); err != nil {
		return s.translate("confirm booking", err)
	}

	if booking.DiscountCode != nil {
		if err := consumeCode(ctx, s.repo.Code, *booking.DiscountCode, booking.ID, booking.UserID, now); err != nil {
			return err
		}
	}

	booking.Status = entity.BookingStatusConfirmed
	booking.PaidAmount = paid
	booking.RemainingAmount = remaining
	return nil
}

func (s *bookingService) afterConfirm(ctx context.Context, booking *entity.Booking, payment *entity.Payment, now time.Time) {
	s.applyStats(ctx, booking.UserID, entity.StatsDelta{Successful: 1, Spent: payment.Amount})
	metrics.BookingTransition(string(entity.BookingStatusConfirmed))
	if booking.DiscountCode != nil {
		metrics.CodeOperation("consumed", string(entity.CodeTypeDiscount), 1)
	}

	s.notifier.Notify(bookingMessage(notify.KindBookingConfirmed, booking, nil, now,
		"Booking confirmed",
		fmt.Sprintf("Deposit of %s received. %s is due at the pitch.",
			utils.FormatMoney(booking.PaidAmount), utils.FormatMoney(booking.RemainingAmount))))

	s.log.Info("Booking confirmed",
		zap.String("booking_id", booking.ID.String()),
		zap.String("payment_id", payment.ID.String()),
		zap.String("provider", string(payment.Provider)),
	)
}

func (s *bookingService) createPayment(ctx context.Context, payment *entity.Payment) error {
	if err := s.repo.Payment.Create(ctx, payment); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return fmt.Errorf("%w: a payment is already open for this booking", ErrInvalidState)
		}
		return err
	}
	return nil
}

func (s *bookingService) paymentResult(booking *entity.Booking, payment *entity.Payment) *response.PaymentResultResponse {
	return &response.PaymentResultResponse{
		Booking: response.BookingToResponse(booking, ""),
		Payment: response.PaymentToResponse(payment),
	}
}

func (s *bookingService) findBooking(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}
	if booking == nil {
		return nil, notFound("booking", id)
	}
	return booking, nil
}

// authorize admits the booking owner, admins and managers of the booking's pitch.
func (s *bookingService) authorize(ctx context.Context, actor Actor, booking *entity.Booking) error {
	if booking.UserID == actor.UserID {
		return nil
	}
	return s.authorizeStaff(ctx, actor, booking.PitchID)
}

func (s *bookingService) authorizeStaff(ctx context.Context, actor Actor, pitchID uuid.UUID) error {
	ok, err := managesPitch(ctx, s.repo.Manager, actor, pitchID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrForbidden
	}
	return nil
}

// translate maps a lost conditional update to ErrInvalidState.
func (s *bookingService) translate(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, repository.ErrStaleState) {
		return fmt.Errorf("%w: %s lost to a concurrent change", ErrInvalidState, op)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (s *bookingService) applyStats(ctx context.Context, userID uuid.UUID, delta entity.StatsDelta) {
	if err := s.repo.User.ApplyStats(ctx, userID, delta); err != nil {
		s.log.Warn("Failed to update user stats", zap.Error(err), zap.String("user_id", userID.String()))
	}
}

func bookingMessage(kind notify.Kind, b *entity.Booking, pitch *entity.Pitch, now time.Time, subject, body string) notify.Message {
	data := map[string]string{
		"booking_id": b.ID.String(),
		"order_id":   b.OrderID,
		"date":       b.BookingDate.Format(dateLayout),
		"hour":       fmt.Sprintf("%02d:00", b.Hour),
	}
	if pitch != nil {
		data["pitch"] = pitch.Name
	}
	return notify.Message{
		Kind:       kind,
		To:         b.CustomerEmail,
		Subject:    subject + " " + b.OrderID,
		Body:       body,
		Data:       data,
		OccurredAt: now,
	}
}

func cancellationSummary(outcome CancellationOutcome, compensation *entity.Code) string {
	switch {
	case compensation != nil && outcome.Refund.IsPositive():
		return fmt.Sprintf("Refund of %s issued, plus compensation code %s worth %s.",
			utils.FormatMoney(outcome.Refund), compensation.Code, utils.FormatMoney(compensation.Value))
	case compensation != nil:
		return fmt.Sprintf("No refund applies. Compensation code %s worth %s was issued.",
			compensation.Code, utils.FormatMoney(compensation.Value))
	}
	return "No refund or compensation applies to this cancellation."
}

// isDomainError reports whether err already carries one of the service sentinels.
func isDomainError(err error) bool {
	for _, target := range []error{
		ErrNotFound, ErrInvalidInput, ErrSlotConflict, ErrQuotaExceeded, ErrInvalidAmount,
		ErrInvalidState, ErrForbidden, ErrExpired, ErrScopeMismatch, ErrAlreadyUsed,
		ErrConflict, ErrUnauthorized,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
