package wire

import (
	"pitch-booking/internal/adaptor"
	"pitch-booking/internal/data/repository"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireDashboard(
	r chi.Router,
	dashboardHandler *adaptor.DashboardHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	owner := r.With(staffOnly(repo, log)...)
	owner.Get("/api/owner/dashboard", dashboardHandler.OwnerSummary)
	owner.Get("/api/owner/bookings", dashboardHandler.BookingReport)

	admin := r.With(adminOnly(repo, log)...)
	admin.Get("/api/admin/dashboard", dashboardHandler.AdminSummary)
	admin.Get("/api/admin/bookings", dashboardHandler.BookingReport)
}
