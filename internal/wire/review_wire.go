package wire

import (
	"pitch-booking/internal/adaptor"
	"pitch-booking/internal/data/repository"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireReview(
	r chi.Router,
	reviewHandler *adaptor.ReviewHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Get("/api/pitches/{id}/reviews", reviewHandler.GetPitchReviews)

	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Group(func(r chi.Router) {
		r.Use(authenticated(repo, log))

		// only customers with a completed booking at the pitch may review it
		r.Post("/api/reviews", reviewHandler.CreateReview)

		r.Put("/api/reviews/{id}", reviewHandler.UpdateReview)    // author only
		r.Delete("/api/reviews/{id}", reviewHandler.DeleteReview) // author only
	})
}
