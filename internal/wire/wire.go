package wire

import (
	"net/http"

	"pitch-booking/internal/adaptor"
	"pitch-booking/internal/data/entity"
	"pitch-booking/internal/data/repository"
	"pitch-booking/internal/usecase"
	"pitch-booking/pkg/metrics"
	"pitch-booking/pkg/middleware"
	"pitch-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// App holds the wired HTTP surface.
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Wiring builds services and handlers over deps and mounts every route.
func Wiring(deps usecase.Deps, config *utils.Config, logger *zap.Logger) *App {
	service := usecase.NewService(deps, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, deps.Repo, config, logger)

	return &App{
		Router:  router,
		Service: service,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(config.App.CORSOrigins))
	if config.Metrics.Enabled {
		r.Use(middleware.Metrics())
	}

	wireAuth(r, handler.Auth, repo, logger)
	wireUser(r, handler.User, repo, logger)
	wirePitch(r, handler.Pitch, repo, logger)
	wireBooking(r, handler.Booking, repo, logger)
	wireCode(r, handler.Code, repo, logger)
	wireReview(r, handler.Review, repo, logger)
	wireManager(r, handler.Manager, repo, logger)
	wireDashboard(r, handler.Dashboard, repo, logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	if config.Metrics.Enabled {
		r.Method(http.MethodGet, config.Metrics.Path, metrics.Handler())
	}

	return r
}

func authenticated(repo *repository.Repository, log *zap.Logger) func(http.Handler) http.Handler {
	return middleware.AuthSession(repo.Session, repo.User, log)
}

// staffOnly admits pitch owners and admins.
func staffOnly(repo *repository.Repository, log *zap.Logger) chi.Middlewares {
	return chi.Middlewares{authenticated(repo, log), middleware.RequireRole(log, string(entity.RoleOwner), string(entity.RoleAdmin))}
}

func adminOnly(repo *repository.Repository, log *zap.Logger) chi.Middlewares {
	return chi.Middlewares{authenticated(repo, log), middleware.RequireRole(log, string(entity.RoleAdmin))}
}
