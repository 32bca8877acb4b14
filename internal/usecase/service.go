package usecase

import (
	"context"
	"fmt"
	"time"

	"pitch-booking/internal/cache"
	"pitch-booking/internal/data/repository"
	"pitch-booking/internal/notify"
	"pitch-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// Transactor runs fn in one database transaction carried by ctx.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type Deps struct {
	Repo     *repository.Repository
	Tx       Transactor
	Cache    cache.SlotCache
	Notifier notify.Notifier
	Clock    utils.Clock
	Location *time.Location
	Config   *utils.Config
}

type Service struct {
	Auth      AuthService
	User      UserService
	Pitch     PitchService
	Booking   BookingService
	Code      CodeService
	Review    ReviewService
	Manager   ManagerService
	Dashboard DashboardService
}

func NewService(deps Deps, log *zap.Logger) *Service {
	if deps.Cache == nil {
		deps.Cache = cache.NewNoop()
	}
	if deps.Notifier == nil {
		deps.Notifier = notify.Discard
	}
	if deps.Location == nil {
		deps.Location = time.UTC
	}
	if deps.Clock == nil {
		deps.Clock = utils.SystemClock{Location: deps.Location}
	}

	return &Service{
		Auth:      NewAuthService(deps.Repo, deps.Clock, deps.Config, log),
		User:      NewUserService(deps.Repo, log),
		Pitch:     NewPitchService(deps, log),
		Booking:   NewBookingService(deps, log),
		Code:      NewCodeService(deps, log),
		Review:    NewReviewService(deps.Repo, deps.Clock, log),
		Manager:   NewManagerService(deps, log),
		Dashboard: NewDashboardService(deps.Repo, log),
	}
}

func parseID(raw, what string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, invalidf("malformed %s id", what)
	}
	return id, nil
}

// parseDate reads a calendar date in loc.
func parseDate(raw string, loc *time.Location) (time.Time, error) {
	if raw == "" {
		return time.Time{}, invalidf("date is required")
	}
	d, err := time.ParseInLocation(dateLayout, raw, loc)
	if err != nil {
		return time.Time{}, invalidf("date must use YYYY-MM-DD")
	}
	return d, nil
}

func notFound(what string, id any) error {
	return fmt.Errorf("%w: %s %v", ErrNotFound, what, id)
}
