package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pitch-booking/internal/data/entity"
	"pitch-booking/internal/data/repository"
	"pitch-booking/internal/dto/request"
	"pitch-booking/internal/dto/response"
	"pitch-booking/pkg/metrics"
	"pitch-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxCodeAttempts bounds resampling when a generated code collides with an existing one.
const maxCodeAttempts = 5

type CodeService interface {
	Generate(ctx context.Context, actor Actor, req *request.GenerateCodesRequest) ([]response.CodeResponse, error)
	Validate(ctx context.Context, req *request.ValidateCodeRequest) (*response.ValidateCodeResponse, error)
	Consume(ctx context.Context, code string, bookingID, userID uuid.UUID) error
	List(ctx context.Context, actor Actor, req *request.CodeListRequest) (*response.PaginatedResponse[response.CodeResponse], error)
	MyCodes(ctx context.Context, actor Actor, page request.PaginatedRequest) (*response.PaginatedResponse[response.CodeResponse], error)
}

type codeService struct {
	repo       *repository.Repository
	tx         Transactor
	clock      utils.Clock
	codeLength int
	log        *zap.Logger
}

func NewCodeService(deps Deps, log *zap.Logger) CodeService {
	return &codeService{
		repo:       deps.Repo,
		tx:         deps.Tx,
		clock:      deps.Clock,
		codeLength: deps.Config.Booking.CodeLength,
		log:        log.With(zap.String("service", "code")),
	}
}

// Generate issues quantity codes in one transaction so a failed batch leaves nothing behind.
func (s *codeService) Generate(ctx context.Context, actor Actor, req *request.GenerateCodesRequest) ([]response.CodeResponse, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if err := validate(req); err != nil {
		return nil, err
	}
	if !req.Value.IsPositive() {
		return nil, invalidf("value must be greater than zero")
	}

	now := s.clock.Now()
	if req.ExpiresAt != nil && !req.ExpiresAt.After(now) {
		return nil, invalidf("expires_at must be in the future")
	}

	var pitchID *uuid.UUID
	if req.PitchID != nil {
		id, err := parseID(*req.PitchID, "pitch")
		if err != nil {
			return nil, err
		}
		pitch, err := s.repo.Pitch.FindByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to load pitch: %w", err)
		}
		if pitch == nil {
			return nil, notFound("pitch", id)
		}
		pitchID = &id
	}

	codes := make([]*entity.Code, 0, req.Quantity)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		for i := 0; i < req.Quantity; i++ {
			c := &entity.Code{
				BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: now},
				Type:       entity.CodeType(req.Type),
				Source:     entity.CodeSourceAdmin,
				Value:      req.Value,
				PitchID:    pitchID,
				Status:     entity.CodeStatusActive,
				ExpiresAt:  req.ExpiresAt,
			}
			if err := issueCode(ctx, s.repo.Code, c, s.codeLength); err != nil {
				return err
			}
			codes = append(codes, c)
		}
		return nil
	})
	if err != nil {
		s.log.Error("Failed to generate codes", zap.Error(err), zap.Int("quantity", req.Quantity))
		return nil, fmt.Errorf("failed to generate codes: %w", err)
	}

	metrics.CodeOperation("generated", req.Type, len(codes))
	s.log.Info("Codes generated",
		zap.String("type", req.Type),
		zap.Int("quantity", len(codes)),
		zap.String("admin_id", actor.UserID.String()),
	)

	out := make([]response.CodeResponse, len(codes))
	for i, c := range codes {
		out[i] = response.CodeToResponse(c, now)
	}
	return out, nil
}

func (s *codeService) Validate(ctx context.Context, req *request.ValidateCodeRequest) (*response.ValidateCodeResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	var pitchID *uuid.UUID
	if req.PitchID != nil {
		id, err := parseID(*req.PitchID, "pitch")
		if err != nil {
			return nil, err
		}
		pitchID = &id
	}

	c, err := lookupCode(ctx, s.repo.Code, req.Code, pitchID, uuid.Nil, s.clock.Now())
	if err != nil {
		return nil, err
	}

	return &response.ValidateCodeResponse{
		Valid:   true,
		Code:    c.Code,
		Type:    c.Type,
		Value:   c.Value,
		Message: fmt.Sprintf("Code is valid for %s off", utils.FormatMoney(c.Value)),
	}, nil
}

func (s *codeService) Consume(ctx context.Context, code string, bookingID, userID uuid.UUID) error {
	code = normalizeCode(code)
	if err := consumeCode(ctx, s.repo.Code, code, bookingID, userID, s.clock.Now()); err != nil {
		return err
	}
	metrics.CodeOperation("consumed", "", 1)
	return nil
}

func (s *codeService) List(ctx context.Context, actor Actor, req *request.CodeListRequest) (*response.PaginatedResponse[response.CodeResponse], error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	filter := repository.CodeFilter{
		Type:   entity.CodeType(req.Type),
		Status: entity.CodeStatus(req.Status),
		Limit:  req.Limit(),
		Offset: req.Offset(),
	}
	return s.page(ctx, filter, req.PaginatedRequest)
}

func (s *codeService) MyCodes(ctx context.Context, actor Actor, page request.PaginatedRequest) (*response.PaginatedResponse[response.CodeResponse], error) {
	filter := repository.CodeFilter{
		OwnerID: &actor.UserID,
		Limit:   page.Limit(),
		Offset:  page.Offset(),
	}
	return s.page(ctx, filter, page)
}

func (s *codeService) page(ctx context.Context, filter repository.CodeFilter, page request.PaginatedRequest) (*response.PaginatedResponse[response.CodeResponse], error) {
	codes, err := s.repo.Code.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list codes: %w", err)
	}
	total, err := s.repo.Code.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count codes: %w", err)
	}

	now := s.clock.Now()
	out := make([]response.CodeResponse, len(codes))
	for i, c := range codes {
		out[i] = response.CodeToResponse(c, now)
	}
	return response.NewPaginatedResponse(out, page.CurrentPage(), page.Limit(), total), nil
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// lookupCode returns the code only when it can be applied to pitchID at now.
// A non-nil userID must also be allowed to spend it; someone else's code reads as not found.
func lookupCode(ctx context.Context, codes repository.CodeRepository, raw string, pitchID *uuid.UUID, userID uuid.UUID, now time.Time) (*entity.Code, error) {
	code := normalizeCode(raw)

	c, err := codes.FindByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to load code: %w", err)
	}
	if c == nil || c.Status != entity.CodeStatusActive {
		return nil, fmt.Errorf("%w: code %s", ErrNotFound, code)
	}
	if userID != uuid.Nil && !c.SpendableBy(userID) {
		return nil, fmt.Errorf("%w: code %s", ErrNotFound, code)
	}
	if c.IsExpired(now) {
		return nil, fmt.Errorf("%w: code %s", ErrExpired, code)
	}
	if pitchID != nil && !c.AppliesTo(*pitchID) {
		return nil, fmt.Errorf("%w: code %s", ErrScopeMismatch, code)
	}
	return c, nil
}

func consumeCode(ctx context.Context, codes repository.CodeRepository, code string, bookingID, userID uuid.UUID, now time.Time) error {
	err := codes.Consume(ctx, code, bookingID, userID, now)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrCodeUsed):
		return fmt.Errorf("%w: code %s", ErrAlreadyUsed, code)
	case errors.Is(err, repository.ErrCodeNotFound):
		return fmt.Errorf("%w: code %s", ErrNotFound, code)
	case errors.Is(err, repository.ErrCodeExpired):
		return fmt.Errorf("%w: code %s", ErrExpired, code)
	}
	return fmt.Errorf("failed to consume code: %w", err)
}

// issueCode fills c.Code with a fresh random value, resampling on collision.
func issueCode(ctx context.Context, codes repository.CodeRepository, c *entity.Code, length int) error {
	for attempt := 1; attempt <= maxCodeAttempts; attempt++ {
		value, err := utils.GenerateCode(length)
		if err != nil {
			return err
		}
		c.Code = value

		inserted, err := codes.Create(ctx, c)
		if err != nil {
			return err
		}
		if inserted {
			return nil
		}
	}
	return fmt.Errorf("no unique code after %d attempts", maxCodeAttempts)
}
