package wire

import (
	"pitch-booking/internal/adaptor"
	"pitch-booking/internal/data/repository"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// wireUser configures profile and admin user management routes
func wireUser(
	r chi.Router,
	userHandler *adaptor.UserHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	r.With(authenticated(repo, log)).Get("/api/user/profile", userHandler.GetProfile)

	// ==================== ADMIN ROUTES ====================
	admin := r.With(adminOnly(repo, log)...)
	admin.Get("/api/admin/users", userHandler.GetAllUsers)        // ?page=1&per_page=10
	admin.Delete("/api/admin/users/{id}", userHandler.DeleteUser) // deactivates and ends sessions
}
