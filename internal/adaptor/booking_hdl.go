package adaptor

import (
	"net/http"

	"pitch-booking/internal/data/entity"
	"pitch-booking/internal/dto/request"
	"pitch-booking/internal/usecase"
	"pitch-booking/pkg/utils"

	"go.uber.org/zap"
)

type BookingHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// CreateBooking handles POST /api/bookings (protected)
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(w, r)
	if !ok {
		return
	}

	var req request.CreateBookingRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	booking, err := h.service.CreateBooking(r.Context(), actor, &req)
	if err != nil {
		writeServiceError(w, h.log, err, "create booking")
		return
	}

	utils.ResponseCreated(w, "Booking created, awaiting deposit", booking)
}

// GetBooking handles GET /api/bookings/{id} (protected)
func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(w, r)
	if !ok {
		return
	}
	bookingID, ok := pathID(w, r, "id", "Booking")
	if !ok {
		return
	}

	booking, err := h.service.GetBooking(r.Context(), actor, bookingID)
	if err != nil {
		writeServiceError(w, h.log, err, "get booking")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// GetUserBookings handles GET /api/user/bookings (protected)
func (h *BookingHandler) GetUserBookings(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(w, r)
	if !ok {
		return
	}

	bookings, err := h.service.ListMyBookings(r.Context(), actor, pageFromQuery(r))
	if err != nil {
		writeServiceError(w, h.log, err, "get user bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// ConfirmPayment handles POST /api/bookings/{id}/pay (protected)
func (h *BookingHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(w, r)
	if !ok {
		return
	}
	bookingID, ok := pathID(w, r, "id", "Booking")
	if !ok {
		return
	}

	var req request.ConfirmPaymentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.service.ConfirmPayment(r.Context(), actor, bookingID, &req)
	if err != nil {
		writeServiceError(w, h.log, err, "confirm payment")
		return
	}

	// bank transfers wait for staff verification
	if result.Payment.Status == entity.PaymentStatusPending {
		utils.ResponseAccepted(w, "Payment submitted for verification", result)
		return
	}
	utils.ResponseSuccess(w, "Payment confirmed", result)
}

// VerifyPayment handles POST /api/payments/{id}/verify (owner/admin)
func (h *BookingHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(w, r)
	if !ok {
		return
	}
	paymentID, ok := pathID(w, r, "id", "Payment")
	if !ok {
		return
	}

	var req request.VerifyPaymentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.service.VerifyPayment(r.Context(), actor, paymentID, &req)
	if err != nil {
		writeServiceError(w, h.log, err, "verify payment")
		return
	}

	utils.ResponseSuccess(w, "Payment verified", result)
}

// CancelBooking handles POST /api/bookings/{id}/cancel (protected)
func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(w, r)
	if !ok {
		return
	}
	bookingID, ok := pathID(w, r, "id", "Booking")
	if !ok {
		return
	}

	// the reason is optional, so an empty body is fine
	var req request.CancelBookingRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.service.CancelBooking(r.Context(), actor, bookingID, &req)
	if err != nil {
		writeServiceError(w, h.log, err, "cancel booking")
		return
	}

	utils.ResponseSuccess(w, "Booking cancelled", result)
}

// CompleteBooking handles POST /api/bookings/{id}/complete (owner/admin)
func (h *BookingHandler) CompleteBooking(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(w, r)
	if !ok {
		return
	}
	bookingID, ok := pathID(w, r, "id", "Booking")
	if !ok {
		return
	}

	booking, err := h.service.CompleteBooking(r.Context(), actor, bookingID)
	if err != nil {
		writeServiceError(w, h.log, err, "complete booking")
		return
	}

	utils.ResponseSuccess(w, "Booking completed", booking)
}

// Receipt handles GET /api/bookings/{id}/receipt (protected)
func (h *BookingHandler) Receipt(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(w, r)
	if !ok {
		return
	}
	bookingID, ok := pathID(w, r, "id", "Booking")
	if !ok {
		return
	}

	pdf, filename, err := h.service.Receipt(r.Context(), actor, bookingID)
	if err != nil {
		writeServiceError(w, h.log, err, "build receipt")
		return
	}

	utils.ResponseFile(w, "application/pdf", filename, pdf)
}
