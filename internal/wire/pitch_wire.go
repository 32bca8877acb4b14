package wire

import (
	"pitch-booking/internal/adaptor"
	"pitch-booking/internal/data/repository"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wirePitch(
	r chi.Router,
	pitchHandler *adaptor.PitchHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Get("/api/pitches", pitchHandler.ListPitches)
	r.Get("/api/pitches/{id}", pitchHandler.GetPitch)
	r.Get("/api/pitches/{id}/slots", pitchHandler.AvailableSlots)     // ?date=2026-03-12&period=evening
	r.Get("/api/pitches/{id}/deposit", pitchHandler.CalculateDeposit) // ?date=2026-03-12&hour=20

	// ==================== OWNER ROUTES ====================
	// managers may only edit pitches they were approved for
	r.With(staffOnly(repo, log)...).Put("/api/pitches/{id}", pitchHandler.UpdatePitch)

	// ==================== ADMIN ROUTES ====================
	admin := r.With(adminOnly(repo, log)...)
	admin.Post("/api/admin/pitches", pitchHandler.CreatePitch)
	admin.Delete("/api/admin/pitches/{id}", pitchHandler.DeletePitch)
}
