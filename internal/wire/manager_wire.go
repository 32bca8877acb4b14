package wire

import (
	"pitch-booking/internal/adaptor"
	"pitch-booking/internal/data/repository"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireManager(
	r chi.Router,
	managerHandler *adaptor.ManagerHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	r.With(authenticated(repo, log)).Post("/api/managers/apply", managerHandler.Apply)

	// ==================== ADMIN ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(adminOnly(repo, log)...)

		r.Get("/api/admin/managers", managerHandler.List) // ?status=pending
		r.Post("/api/admin/managers/{id}/approve", managerHandler.Approve)
		r.Post("/api/admin/managers/{id}/reject", managerHandler.Reject)
	})
}
