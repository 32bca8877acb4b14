package adaptor

import (
	"net/http"

	"pitch-booking/internal/dto/request"
	"pitch-booking/internal/usecase"
	"pitch-booking/pkg/utils"

	"go.uber.org/zap"
)

type CodeHandler struct {
	service usecase.CodeService
	log     *zap.Logger
}

func NewCodeHandler(service usecase.CodeService, log *zap.Logger) *CodeHandler {
	return &CodeHandler{
		service: service,
		log:     log.With(zap.String("handler", "code")),
	}
}

// ValidateCode handles POST /api/codes/validate (public)
func (h *CodeHandler) ValidateCode(w http.ResponseWriter, r *http.Request) {
	var req request.ValidateCodeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.service.Validate(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "validate code")
		return
	}

	utils.ResponseSuccess(w, "Code is valid", result)
}

// MyCodes handles GET /api/user/codes (protected)
func (h *CodeHandler) MyCodes(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(w, r)
	if !ok {
		return
	}

	codes, err := h.service.MyCodes(r.Context(), actor, pageFromQuery(r))
	if err != nil {
		writeServiceError(w, h.log, err, "get user codes")
		return
	}

	utils.ResponseSuccess(w, "success", codes)
}

// GenerateCodes handles POST /api/admin/codes (admin only)
func (h *CodeHandler) GenerateCodes(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(w, r)
	if !ok {
		return
	}

	var req request.GenerateCodesRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	codes, err := h.service.Generate(r.Context(), actor, &req)
	if err != nil {
		writeServiceError(w, h.log, err, "generate codes")
		return
	}

	utils.ResponseCreated(w, "Codes generated", codes)
}

// ListCodes handles GET /api/admin/codes?type=&status= (admin only)
func (h *CodeHandler) ListCodes(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	req := request.CodeListRequest{
		PaginatedRequest: pageFromQuery(r),
		Type:             query.Get("type"),
		Status:           query.Get("status"),
	}

	codes, err := h.service.List(r.Context(), actor, &req)
	if err != nil {
		writeServiceError(w, h.log, err, "list codes")
		return
	}

	utils.ResponseSuccess(w, "success", codes)
}
