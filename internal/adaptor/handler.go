package adaptor

import (
	"pitch-booking/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Auth      *AuthHandler
	User      *UserHandler
	Pitch     *PitchHandler
	Booking   *BookingHandler
	Code      *CodeHandler
	Review    *ReviewHandler
	Manager   *ManagerHandler
	Dashboard *DashboardHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:      NewAuthHandler(service.Auth, log),
		User:      NewUserHandler(service.User, log),
		Pitch:     NewPitchHandler(service.Pitch, log),
		Booking:   NewBookingHandler(service.Booking, log),
		Code:      NewCodeHandler(service.Code, log),
		Review:    NewReviewHandler(service.Review, log),
		Manager:   NewManagerHandler(service.Manager, log),
		Dashboard: NewDashboardHandler(service.Dashboard, log),
	}
}
