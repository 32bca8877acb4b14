package wire

import (
	"pitch-booking/internal/adaptor"
	"pitch-booking/internal/data/repository"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireCode(
	r chi.Router,
	codeHandler *adaptor.CodeHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	r.Post("/api/codes/validate", codeHandler.ValidateCode)

	r.With(authenticated(repo, log)).Get("/api/user/codes", codeHandler.MyCodes)

	admin := r.With(adminOnly(repo, log)...)
	admin.Post("/api/admin/codes", codeHandler.GenerateCodes)
	admin.Get("/api/admin/codes", codeHandler.ListCodes) // ?type=discount&status=active
}
