package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pitch-booking/internal/cache"
	"pitch-booking/internal/data/entity"
	"pitch-booking/internal/data/repository"
	"pitch-booking/internal/dto/request"
	"pitch-booking/internal/dto/response"
	"pitch-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PitchService interface {
	CreatePitch(ctx context.Context, actor Actor, req *request.CreatePitchRequest) (*response.PitchResponse, error)
	UpdatePitch(ctx context.Context, actor Actor, pitchID uuid.UUID, req *request.UpdatePitchRequest) (*response.PitchResponse, error)
	DeletePitch(ctx context.Context, actor Actor, pitchID uuid.UUID) error
	GetPitch(ctx context.Context, pitchID uuid.UUID) (*response.PitchResponse, error)
	ListPitches(ctx context.Context, req *request.PitchListRequest) (*response.PaginatedResponse[response.PitchResponse], error)

	AvailableSlots(ctx context.Context, pitchID uuid.UUID, req *request.SlotsRequest) (*response.SlotsResponse, error)
	CalculateDeposit(ctx context.Context, pitchID uuid.UUID, req *request.DepositRequest) (*response.DepositResponse, error)
}

type pitchService struct {
	repo  *repository.Repository
	cache cache.SlotCache
	clock utils.Clock
	loc   *time.Location
	log   *zap.Logger
}

func NewPitchService(deps Deps, log *zap.Logger) PitchService {
	return &pitchService{
		repo:  deps.Repo,
		cache: deps.Cache,
		clock: deps.Clock,
		loc:   deps.Location,
		log:   log.With(zap.String("service", "pitch")),
	}
}

func (s *pitchService) CreatePitch(ctx context.Context, actor Actor, req *request.CreatePitchRequest) (*response.PitchResponse, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if err := validate(req); err != nil {
		s.log.Warn("Create pitch validation failed", zap.Error(err))
		return nil, err
	}
	if req.Price.IsNegative() {
		return nil, invalidf("price must not be negative")
	}

	now := s.clock.Now()
	pitch := &entity.Pitch{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:      strings.TrimSpace(req.Name),
		Location:  req.Location,
		Area:      req.Area,
		Type:      entity.PitchType(req.Type),
		Price:     req.Price,
		OpenHour:  req.OpenHour,
		CloseHour: req.CloseHour,
		Features:  req.Features,
	}

	if err := s.repo.Pitch.Create(ctx, pitch); err != nil {
		s.log.Error("Failed to create pitch", zap.Error(err), zap.String("name", pitch.Name))
		return nil, fmt.Errorf("create pitch: %w", err)
	}

	s.log.Info("Pitch created", zap.String("pitch_id", pitch.ID.String()), zap.String("name", pitch.Name))

	resp := response.PitchToResponse(pitch)
	return &resp, nil
}

// UpdatePitch merges the supplied fields; admins and approved managers of the pitch may call it.
func (s *pitchService) UpdatePitch(ctx context.Context, actor Actor, pitchID uuid.UUID, req *request.UpdatePitchRequest) (*response.PitchResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	ok, err := managesPitch(ctx, s.repo.Manager, actor, pitchID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrForbidden
	}

	pitch, err := s.repo.Pitch.FindByID(ctx, pitchID)
	if err != nil {
		return nil, fmt.Errorf("failed to load pitch: %w", err)
	}
	if pitch == nil {
		return nil, notFound("pitch", pitchID)
	}

	if req.Name != nil {
		pitch.Name = strings.TrimSpace(*req.Name)
	}
	if req.Location != nil {
		pitch.Location = *req.Location
	}
	if req.Area != nil {
		pitch.Area = *req.Area
	}
	if req.Type != nil {
		pitch.Type = entity.PitchType(*req.Type)
	}
	if req.Price != nil {
		pitch.Price = *req.Price
	}
	if req.OpenHour != nil {
		pitch.OpenHour = *req.OpenHour
	}
	if req.CloseHour != nil {
		pitch.CloseHour = *req.CloseHour
	}
	if req.Features != nil {
		pitch.Features = req.Features
	}

	if pitch.Price.IsNegative() {
		return nil, invalidf("price must not be negative")
	}
	if pitch.OpenHour >= pitch.CloseHour {
		return nil, invalidf("open_hour must be before close_hour")
	}
	pitch.UpdatedAt = s.clock.Now()

	if err := s.repo.Pitch.Update(ctx, pitch); err != nil {
		if errors.Is(err, repository.ErrStaleState) {
			return nil, notFound("pitch", pitchID)
		}
		s.log.Error("Failed to update pitch", zap.Error(err), zap.String("pitch_id", pitchID.String()))
		return nil, fmt.Errorf("update pitch: %w", err)
	}

	// Working hours feed the availability result for every cached date.
	s.cache.InvalidatePitch(ctx, pitchID)

	s.log.Info("Pitch updated",
		zap.String("pitch_id", pitchID.String()),
		zap.String("updated_by", actor.UserID.String()),
	)

	resp := response.PitchToResponse(pitch)
	return &resp, nil
}

func (s *pitchService) DeletePitch(ctx context.Context, actor Actor, pitchID uuid.UUID) error {
	if !actor.IsAdmin() {
		return ErrForbidden
	}

	if err := s.repo.Pitch.Delete(ctx, pitchID); err != nil {
		if errors.Is(err, repository.ErrStaleState) {
			return notFound("pitch", pitchID)
		}
		return fmt.Errorf("delete pitch: %w", err)
	}

	s.cache.InvalidatePitch(ctx, pitchID)
	return nil
}

func (s *pitchService) GetPitch(ctx context.Context, pitchID uuid.UUID) (*response.PitchResponse, error) {
	pitch, err := s.findPitch(ctx, pitchID)
	if err != nil {
		return nil, err
	}
	resp := response.PitchToResponse(pitch)
	return &resp, nil
}

func (s *pitchService) ListPitches(ctx context.Context, req *request.PitchListRequest) (*response.PaginatedResponse[response.PitchResponse], error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	filter := repository.PitchFilter{
		Search:   strings.TrimSpace(req.Search),
		Area:     req.Area,
		Type:     entity.PitchType(req.Type),
		MaxPrice: req.MaxPrice,
		Limit:    req.Limit(),
		Offset:   req.Offset(),
	}

	pitches, err := s.repo.Pitch.FindAll(ctx, filter)
	if err != nil {
		s.log.Error("Failed to list pitches", zap.Error(err))
		return nil, fmt.Errorf("list pitches: %w", err)
	}
	total, err := s.repo.Pitch.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count pitches: %w", err)
	}

	out := make([]response.PitchResponse, len(pitches))
	for i, p := range pitches {
		out[i] = response.PitchToResponse(p)
	}
	return response.NewPaginatedResponse(out, req.CurrentPage(), req.Limit(), total), nil
}

// AvailableSlots reads through the slot cache. Booked hours cover the whole date, not only the scanned period.
func (s *pitchService) AvailableSlots(ctx context.Context, pitchID uuid.UUID, req *request.SlotsRequest) (*response.SlotsResponse, error) {
	date, err := parseDate(req.Date, s.loc)
	if err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	pitch, err := s.findPitch(ctx, pitchID)
	if err != nil {
		return nil, err
	}

	period := Period(req.Period)
	from, to, err := ScanRange(period, pitch)
	if err != nil {
		return nil, err
	}

	resp := &response.SlotsResponse{
		PitchID: pitchID.String(),
		Date:    req.Date,
		Period:  req.Period,
	}

	if cached, ok := s.cache.Get(ctx, pitchID, req.Date, req.Period); ok {
		resp.AvailableHours = cached.AvailableHours
		resp.BookedHours = cached.BookedHours
		return resp, nil
	}

	booked, err := s.repo.Booking.BookedHours(ctx, pitchID, date)
	if err != nil {
		s.log.Error("Failed to load booked hours", zap.Error(err), zap.String("pitch_id", pitchID.String()))
		return nil, fmt.Errorf("load booked hours: %w", err)
	}

	resp.BookedHours = sortedHours(booked)
	resp.AvailableHours = FreeHours(from, to, booked)

	s.cache.Set(ctx, pitchID, req.Date, req.Period, &cache.Availability{
		AvailableHours: resp.AvailableHours,
		BookedHours:    resp.BookedHours,
	})
	return resp, nil
}

// CalculateDeposit quotes the deposit a booking made now would require.
func (s *pitchService) CalculateDeposit(ctx context.Context, pitchID uuid.UUID, req *request.DepositRequest) (*response.DepositResponse, error) {
	date, err := parseDate(req.Date, s.loc)
	if err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	pitch, err := s.findPitch(ctx, pitchID)
	if err != nil {
		return nil, err
	}

	slotStart := entity.SlotStart(date, req.Hour, s.loc)
	return &response.DepositResponse{
		PitchID:   pitchID.String(),
		Price:     pitch.Price,
		Deposit:   RequiredDeposit(pitch.Price, slotStart, s.clock.Now()),
		SlotStart: slotStart,
	}, nil
}

func (s *pitchService) findPitch(ctx context.Context, pitchID uuid.UUID) (*entity.Pitch, error) {
	pitch, err := s.repo.Pitch.FindByID(ctx, pitchID)
	if err != nil {
		return nil, fmt.Errorf("failed to load pitch: %w", err)
	}
	if pitch == nil {
		return nil, notFound("pitch", pitchID)
	}
	return pitch, nil
}
