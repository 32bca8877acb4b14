package adaptor

import (
	"net/http"

	"pitch-booking/internal/dto/request"
	"pitch-booking/internal/usecase"
	"pitch-booking/pkg/utils"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type PitchHandler struct {
	service usecase.PitchService
	log     *zap.Logger
}

func NewPitchHandler(service usecase.PitchService, log *zap.Logger) *PitchHandler {
	return &PitchHandler{
		service: service,
		log:     log.With(zap.String("handler", "pitch")),
	}
}

// ListPitches handles GET /api/pitches (public)
func (h *PitchHandler) ListPitches(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := request.PitchListRequest{
		PaginatedRequest: pageFromQuery(r),
		Search:           query.Get("search"),
		Area:             query.Get("area"),
		Type:             query.Get("type"),
	}

	if raw := query.Get("max_price"); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			utils.ResponseBadRequest(w, "Invalid max_price", nil)
			return
		}
		req.MaxPrice = &price
	}

	pitches, err := h.service.ListPitches(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "list pitches")
		return
	}

	utils.ResponseSuccess(w, "success", pitches)
}

// GetPitch handles GET /api/pitches/{id} (public)
func (h *PitchHandler) GetPitch(w http.ResponseWriter, r *http.Request) {
	pitchID, ok := pathID(w, r, "id", "Pitch")
	if !ok {
		return
	}

	pitch, err := h.service.GetPitch(r.Context(), pitchID)
	if err != nil {
		writeServiceError(w, h.log, err, "get pitch")
		return
	}

	utils.ResponseSuccess(w, "success", pitch)
}

// AvailableSlots handles GET /api/pitches/{id}/slots?date=&period= (public)
func (h *PitchHandler) AvailableSlots(w http.ResponseWriter, r *http.Request) {
	pitchID, ok := pathID(w, r, "id", "Pitch")
	if !ok {
		return
	}

	query := r.URL.Query()
	req := request.SlotsRequest{
		Date:   query.Get("date"),
		Period: query.Get("period"),
	}

	slots, err := h.service.AvailableSlots(r.Context(), pitchID, &req)
	if err != nil {
		writeServiceError(w, h.log, err, "get available slots")
		return
	}

	utils.ResponseSuccess(w, "success", slots)
}

// CalculateDeposit handles GET /api/pitches/{id}/deposit?date=&hour= (public)
func (h *PitchHandler) CalculateDeposit(w http.ResponseWriter, r *http.Request) {
	pitchID, ok := pathID(w, r, "id", "Pitch")
	if !ok {
		return
	}

	query := r.URL.Query()
	req := request.DepositRequest{
		Date: query.Get("date"),
		Hour: utils.ParseInt(query.Get("hour"), -1),
	}

	deposit, err := h.service.CalculateDeposit(r.Context(), pitchID, &req)
	if err != nil {
		writeServiceError(w, h.log, err, "calculate deposit")
		return
	}

	utils.ResponseSuccess(w, "success", deposit)
}

// CreatePitch handles POST /api/admin/pitches (admin only)
func (h *PitchHandler) CreatePitch(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(w, r)
	if !ok {
		return
	}

	var req request.CreatePitchRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	pitch, err := h.service.CreatePitch(r.Context(), actor, &req)
	if err != nil {
		writeServiceError(w, h.log, err, "create pitch")
		return
	}

	utils.ResponseCreated(w, "Pitch created successfully", pitch)
}

// UpdatePitch handles PUT /api/pitches/{id} (owner/admin)
func (h *PitchHandler) UpdatePitch(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(w, r)
	if !ok {
		return
	}
	pitchID, ok := pathID(w, r, "id", "Pitch")
	if !ok {
		return
	}

	var req request.UpdatePitchRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	pitch, err := h.service.UpdatePitch(r.Context(), actor, pitchID, &req)
	if err != nil {
		writeServiceError(w, h.log, err, "update pitch")
		return
	}

	utils.ResponseSuccess(w, "Pitch updated successfully", pitch)
}

// DeletePitch handles DELETE /api/admin/pitches/{id} (admin only)
func (h *PitchHandler) DeletePitch(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(w, r)
	if !ok {
		return
	}
	pitchID, ok := pathID(w, r, "id", "Pitch")
	if !ok {
		return
	}

	if err := h.service.DeletePitch(r.Context(), actor, pitchID); err != nil {
		writeServiceError(w, h.log, err, "delete pitch")
		return
	}

	utils.ResponseSuccess(w, "Pitch deleted successfully", nil)
}
