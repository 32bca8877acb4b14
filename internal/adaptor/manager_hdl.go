package adaptor

import (
	"net/http"

	"pitch-booking/internal/dto/request"
	"pitch-booking/internal/usecase"
	"pitch-booking/pkg/utils"

	"go.uber.org/zap"
)

type ManagerHandler struct {
	service usecase.ManagerService
	log     *zap.Logger
}

func NewManagerHandler(service usecase.ManagerService, log *zap.Logger) *ManagerHandler {
	return &ManagerHandler{
		service: service,
		log:     log.With(zap.String("handler", "manager")),
	}
}

// Apply handles POST /api/managers/apply (protected)
func (h *ManagerHandler) Apply(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(w, r)
	if !ok {
		return
	}

	var req request.ApplyManagerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	manager, err := h.service.Apply(r.Context(), actor, &req)
	if err != nil {
		writeServiceError(w, h.log, err, "apply as manager")
		return
	}

	utils.ResponseCreated(w, "Application submitted", manager)
}

// List handles GET /api/admin/managers?status= (admin only)
func (h *ManagerHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(w, r)
	if !ok {
		return
	}

	managers, err := h.service.List(r.Context(), actor, r.URL.Query().Get("status"))
	if err != nil {
		writeServiceError(w, h.log, err, "list managers")
		return
	}

	utils.ResponseSuccess(w, "success", managers)
}

// Approve handles POST /api/admin/managers/{id}/approve (admin only)
func (h *ManagerHandler) Approve(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(w, r)
	if !ok {
		return
	}
	managerID, ok := pathID(w, r, "id", "Manager")
	if !ok {
		return
	}

	manager, err := h.service.Approve(r.Context(), actor, managerID)
	if err != nil {
		writeServiceError(w, h.log, err, "approve manager")
		return
	}

	utils.ResponseSuccess(w, "Manager approved", manager)
}

// Reject handles POST /api/admin/managers/{id}/reject (admin only)
func (h *ManagerHandler) Reject(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(w, r)
	if !ok {
		return
	}
	managerID, ok := pathID(w, r, "id", "Manager")
	if !ok {
		return
	}

	if err := h.service.Reject(r.Context(), actor, managerID); err != nil {
		writeServiceError(w, h.log, err, "reject manager")
		return
	}

	utils.ResponseSuccess(w, "Manager rejected", nil)
}
