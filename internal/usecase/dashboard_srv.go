package usecase

import (
	"context"
	"fmt"
	"time"

	"pitch-booking/internal/data/entity"
	"pitch-booking/internal/data/repository"
	"pitch-booking/internal/dto/request"
	"pitch-booking/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type DashboardService interface {
	AdminSummary(ctx context.Context, actor Actor) (*response.DashboardResponse, error)
	OwnerSummary(ctx context.Context, actor Actor) (*response.DashboardResponse, error)
	BookingReport(ctx context.Context, actor Actor, req *request.BookingReportRequest) (*response.PaginatedResponse[response.BookingResponse], error)
}

type dashboardService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewDashboardService(repo *repository.Repository, log *zap.Logger) DashboardService {
	return &dashboardService{
		repo: repo,
		log:  log.With(zap.String("service", "dashboard")),
	}
}

func (s *dashboardService) AdminSummary(ctx context.Context, actor Actor) (*response.DashboardResponse, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	var (
		users, pitches int64
		pending        []*entity.Manager
		summary        *repository.BookingSummary
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		users, err = s.repo.User.CountAll(gctx)
		return err
	})
	g.Go(func() (err error) {
		pitches, err = s.repo.Pitch.Count(gctx, repository.PitchFilter{})
		return err
	})
	g.Go(func() (err error) {
		summary, err = s.repo.Booking.Summary(gctx, nil)
		return err
	})
	g.Go(func() (err error) {
		pending, err = s.repo.Manager.List(gctx, entity.ManagerStatusPending)
		return err
	})
	if err := g.Wait(); err != nil {
		s.log.Error("Failed to build admin dashboard", zap.Error(err))
		return nil, fmt.Errorf("admin dashboard: %w", err)
	}

	resp := summaryResponse(summary, pitches)
	resp.TotalUsers = &users
	pendingCount := int64(len(pending))
	resp.PendingManagers = &pendingCount
	return resp, nil
}

// OwnerSummary reports over the pitches the caller manages.
func (s *dashboardService) OwnerSummary(ctx context.Context, actor Actor) (*response.DashboardResponse, error) {
	ids, err := managedPitchIDs(ctx, s.repo.Manager, actor)
	if err != nil {
		return nil, err
	}
	if ids == nil {
		return s.AdminSummary(ctx, actor)
	}

	summary, err := s.repo.Booking.Summary(ctx, ids)
	if err != nil {
		s.log.Error("Failed to build owner dashboard", zap.Error(err), zap.String("user_id", actor.UserID.String()))
		return nil, fmt.Errorf("owner dashboard: %w", err)
	}
	return summaryResponse(summary, int64(len(ids))), nil
}

func (s *dashboardService) BookingReport(ctx context.Context, actor Actor, req *request.BookingReportRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	managed, err := managedPitchIDs(ctx, s.repo.Manager, actor)
	if err != nil {
		return nil, err
	}

	filter := repository.BookingFilter{
		PitchIDs: managed,
		Status:   entity.BookingStatus(req.Status),
		Limit:    req.Limit(),
		Offset:   req.Offset(),
	}

	if req.PitchID != "" {
		pitchID, err := parseID(req.PitchID, "pitch")
		if err != nil {
			return nil, err
		}
		if managed != nil && !containsID(managed, pitchID) {
			return nil, fmt.Errorf("%w: pitch %s is not managed by you", ErrForbidden, pitchID)
		}
		filter.PitchIDs = []uuid.UUID{pitchID}
	}
	if req.UserID != "" {
		userID, err := parseID(req.UserID, "user")
		if err != nil {
			return nil, err
		}
		filter.UserID = &userID
	}
	if req.DateFrom != "" {
		from, err := time.Parse(dateLayout, req.DateFrom)
		if err != nil {
			return nil, invalidf("date_from must use YYYY-MM-DD")
		}
		filter.DateFrom = &from
	}
	if req.DateTo != "" {
		to, err := time.Parse(dateLayout, req.DateTo)
		if err != nil {
			return nil, invalidf("date_to must use YYYY-MM-DD")
		}
		filter.DateTo = &to
	}
	if filter.DateFrom != nil && filter.DateTo != nil && filter.DateTo.Before(*filter.DateFrom) {
		return nil, invalidf("date_to must not be before date_from")
	}

	var (
		bookings []*entity.Booking
		total    int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		bookings, err = s.repo.Booking.Search(gctx, filter)
		return err
	})
	g.Go(func() (err error) {
		total, err = s.repo.Booking.CountSearch(gctx, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		s.log.Error("Failed to build booking report", zap.Error(err))
		return nil, fmt.Errorf("booking report: %w", err)
	}

	out := make([]response.BookingResponse, len(bookings))
	for i, b := range bookings {
		out[i] = response.BookingToResponse(b, "")
	}
	return response.NewPaginatedResponse(out, req.CurrentPage(), req.Limit(), total), nil
}

func summaryResponse(summary *repository.BookingSummary, pitches int64) *response.DashboardResponse {
	resp := &response.DashboardResponse{
		TotalPitches:     pitches,
		BookingsByStatus: make(map[string]int64, len(summary.ByStatus)),
		Revenue:          summary.Revenue,
	}
	for status, n := range summary.ByStatus {
		resp.BookingsByStatus[string(status)] = n
		resp.TotalBookings += n
	}
	return resp
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
