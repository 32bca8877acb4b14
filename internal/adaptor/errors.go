package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"

	"pitch-booking/internal/data/entity"
	"pitch-booking/internal/dto/request"
	"pitch-booking/internal/usecase"
	"pitch-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// writeServiceError maps usecase errors onto HTTP status codes.
func writeServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var verr *usecase.ValidationError
	if errors.As(err, &verr) {
		log.Debug(operation+" validation failed", zap.Error(err))
		utils.ResponseBadRequest(w, "Validation failed", verr.Fields)
		return
	}

	msg := err.Error()
	switch {
	case errors.Is(err, usecase.ErrNotFound):
		utils.ResponseNotFound(w, msg)
	case errors.Is(err, usecase.ErrInvalidInput):
		utils.ResponseBadRequest(w, msg, nil)
	case errors.Is(err, usecase.ErrSlotConflict),
		errors.Is(err, usecase.ErrInvalidState),
		errors.Is(err, usecase.ErrAlreadyUsed),
		errors.Is(err, usecase.ErrConflict):
		utils.ResponseConflict(w, msg)
	case errors.Is(err, usecase.ErrQuotaExceeded),
		errors.Is(err, usecase.ErrInvalidAmount),
		errors.Is(err, usecase.ErrScopeMismatch):
		utils.ResponseUnprocessable(w, msg)
	case errors.Is(err, usecase.ErrForbidden):
		utils.ResponseForbidden(w, msg)
	case errors.Is(err, usecase.ErrUnauthorized):
		utils.ResponseUnauthorized(w, msg)
	case errors.Is(err, usecase.ErrExpired):
		utils.ResponseGone(w, msg)
	case errors.Is(err, usecase.ErrUnavailable):
		log.Error(operation+" failed - store unavailable", zap.Error(err))
		utils.ResponseUnavailable(w, "Service temporarily unavailable")
		return
	default:
		log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
		return
	}

	log.Warn(operation+" rejected", zap.Error(err))
}

// actorFromContext builds the caller set by the auth middleware.
func actorFromContext(w http.ResponseWriter, r *http.Request) (usecase.Actor, bool) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return usecase.Actor{}, false
	}
	role, _ := utils.GetRoleFromContext(r.Context())

	return usecase.Actor{UserID: userID, Role: entity.UserRole(role)}, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return false
	}
	return true
}

// pathID reads a uuid URL parameter.
func pathID(w http.ResponseWriter, r *http.Request, name, what string) (uuid.UUID, bool) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		utils.ResponseBadRequest(w, what+" ID is required", nil)
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid "+what+" ID", nil)
		return uuid.Nil, false
	}
	return id, true
}

func pageFromQuery(r *http.Request) request.PaginatedRequest {
	query := r.URL.Query()
	return request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}
}
