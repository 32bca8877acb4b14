package wire

import (
	"pitch-booking/internal/adaptor"
	"pitch-booking/internal/data/repository"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Group(func(r chi.Router) {
		r.Use(authenticated(repo, log))

		r.Post("/api/bookings", bookingHandler.CreateBooking)
		r.Get("/api/bookings/{id}", bookingHandler.GetBooking)
		r.Post("/api/bookings/{id}/pay", bookingHandler.ConfirmPayment)
		r.Post("/api/bookings/{id}/cancel", bookingHandler.CancelBooking)
		r.Get("/api/bookings/{id}/receipt", bookingHandler.Receipt)

		// booking history of the caller
		r.Get("/api/user/bookings", bookingHandler.GetUserBookings)
	})

	// ==================== OWNER ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(staffOnly(repo, log)...)

		r.Post("/api/bookings/{id}/complete", bookingHandler.CompleteBooking)
		r.Post("/api/payments/{id}/verify", bookingHandler.VerifyPayment)
	})
}
