package adaptor

import (
	"net/http"

	"pitch-booking/internal/dto/request"
	"pitch-booking/internal/usecase"
	"pitch-booking/pkg/utils"

	"go.uber.org/zap"
)

type DashboardHandler struct {
	service usecase.DashboardService
	log     *zap.Logger
}

func NewDashboardHandler(service usecase.DashboardService, log *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		service: service,
		log:     log.With(zap.String("handler", "dashboard")),
	}
}

// AdminSummary handles GET /api/admin/dashboard
func (h *DashboardHandler) AdminSummary(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(w, r)
	if !ok {
		return
	}

	summary, err := h.service.AdminSummary(r.Context(), actor)
	if err != nil {
		writeServiceError(w, h.log, err, "admin dashboard")
		return
	}

	utils.ResponseSuccess(w, "success", summary)
}

// OwnerSummary handles GET /api/owner/dashboard
func (h *DashboardHandler) OwnerSummary(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(w, r)
	if !ok {
		return
	}

	summary, err := h.service.OwnerSummary(r.Context(), actor)
	if err != nil {
		writeServiceError(w, h.log, err, "owner dashboard")
		return
	}

	utils.ResponseSuccess(w, "success", summary)
}

// BookingReport handles GET /api/admin/bookings and GET /api/owner/bookings.
// Owners only see the pitches they manage.
func (h *DashboardHandler) BookingReport(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	req := request.BookingReportRequest{
		PaginatedRequest: pageFromQuery(r),
		PitchID:          query.Get("pitch_id"),
		UserID:           query.Get("user_id"),
		Status:           query.Get("status"),
		DateFrom:         query.Get("date_from"),
		DateTo:           query.Get("date_to"),
	}

	report, err := h.service.BookingReport(r.Context(), actor, &req)
	if err != nil {
		writeServiceError(w, h.log, err, "booking report")
		return
	}

	utils.ResponseSuccess(w, "success", report)
}
