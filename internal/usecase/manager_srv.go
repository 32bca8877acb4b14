package usecase

import (
	"context"
	"errors"
	"fmt"

	"pitch-booking/internal/data/entity"
	"pitch-booking/internal/data/repository"
	"pitch-booking/internal/dto/request"
	"pitch-booking/internal/dto/response"
	"pitch-booking/internal/notify"
	"pitch-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ManagerService interface {
	Apply(ctx context.Context, actor Actor, req *request.ApplyManagerRequest) (*response.ManagerResponse, error)
	Approve(ctx context.Context, actor Actor, managerID uuid.UUID) (*response.ManagerResponse, error)
	Reject(ctx context.Context, actor Actor, managerID uuid.UUID) error
	List(ctx context.Context, actor Actor, status string) ([]response.ManagerResponse, error)
}

type managerService struct {
	repo     *repository.Repository
	tx       Transactor
	notifier notify.Notifier
	clock    utils.Clock
	log      *zap.Logger
}

func NewManagerService(deps Deps, log *zap.Logger) ManagerService {
	return &managerService{
		repo:     deps.Repo,
		tx:       deps.Tx,
		notifier: deps.Notifier,
		clock:    deps.Clock,
		log:      log.With(zap.String("service", "manager")),
	}
}

// Apply files a request to manage the given pitches. A user holds at most one application.
func (s *managerService) Apply(ctx context.Context, actor Actor, req *request.ApplyManagerRequest) (*response.ManagerResponse, error) {
	if actor.IsAdmin() {
		return nil, invalidf("admins already manage every pitch")
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(req.PitchIDs))
	seen := make(map[uuid.UUID]struct{}, len(req.PitchIDs))
	for _, raw := range req.PitchIDs {
		id, err := parseID(raw, "pitch")
		if err != nil {
			return nil, err
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	existing, err := s.repo.Manager.FindByUserID(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load application: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: application already %s", ErrConflict, existing.Status)
	}

	pitches, err := s.repo.Pitch.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load pitches: %w", err)
	}
	if len(pitches) != len(ids) {
		return nil, fmt.Errorf("%w: one or more pitches do not exist", ErrNotFound)
	}

	now := s.clock.Now()
	manager := &entity.Manager{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID:   actor.UserID,
		Status:   entity.ManagerStatusPending,
		PitchIDs: ids,
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		return s.repo.Manager.Create(ctx, manager)
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: application already filed", ErrConflict)
		}
		s.log.Error("Failed to file manager application", zap.Error(err), zap.String("user_id", actor.UserID.String()))
		return nil, fmt.Errorf("file application: %w", err)
	}

	s.log.Info("Manager application filed",
		zap.String("manager_id", manager.ID.String()),
		zap.Int("pitches", len(ids)),
	)

	resp := response.ManagerToResponse(manager)
	return &resp, nil
}

// Approve activates the application and promotes its user to owner in one transaction.
func (s *managerService) Approve(ctx context.Context, actor Actor, managerID uuid.UUID) (*response.ManagerResponse, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	manager, err := s.findManager(ctx, managerID)
	if err != nil {
		return nil, err
	}
	if manager.Status != entity.ManagerStatusPending {
		return nil, fmt.Errorf("%w: application is %s", ErrInvalidState, manager.Status)
	}

	now := s.clock.Now()
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.repo.Manager.Approve(ctx, manager.ID, now); err != nil {
			return err
		}
		return s.repo.User.UpdateRole(ctx, manager.UserID, entity.RoleOwner)
	})
	if err != nil {
		if errors.Is(err, repository.ErrStaleState) {
			return nil, fmt.Errorf("%w: application changed concurrently", ErrInvalidState)
		}
		s.log.Error("Failed to approve manager", zap.Error(err), zap.String("manager_id", managerID.String()))
		return nil, fmt.Errorf("approve manager: %w", err)
	}

	manager.Status = entity.ManagerStatusApproved
	manager.ApprovedAt = &now

	if user, err := s.repo.User.FindByID(ctx, manager.UserID); err == nil && user != nil {
		s.notifier.Notify(notify.Message{
			Kind:       notify.KindManagerApproved,
			To:         user.Email,
			Subject:    "Manager access approved",
			Body:       fmt.Sprintf("You can now manage %d pitch(es).", len(manager.PitchIDs)),
			Data:       map[string]string{"manager_id": manager.ID.String()},
			OccurredAt: now,
		})
	}

	s.log.Info("Manager approved",
		zap.String("manager_id", manager.ID.String()),
		zap.String("approved_by", actor.UserID.String()),
	)

	resp := response.ManagerToResponse(manager)
	return &resp, nil
}

func (s *managerService) Reject(ctx context.Context, actor Actor, managerID uuid.UUID) error {
	if !actor.IsAdmin() {
		return ErrForbidden
	}

	if err := s.repo.Manager.Delete(ctx, managerID); err != nil {
		if errors.Is(err, repository.ErrStaleState) {
			return fmt.Errorf("%w: no pending application %s", ErrNotFound, managerID)
		}
		return fmt.Errorf("reject manager: %w", err)
	}

	s.log.Info("Manager application rejected", zap.String("manager_id", managerID.String()))
	return nil
}

func (s *managerService) List(ctx context.Context, actor Actor, status string) ([]response.ManagerResponse, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	st := entity.ManagerStatus(status)
	if st != "" && st != entity.ManagerStatusPending && st != entity.ManagerStatusApproved {
		return nil, invalidf("status must be pending or approved")
	}

	managers, err := s.repo.Manager.List(ctx, st)
	if err != nil {
		return nil, fmt.Errorf("list managers: %w", err)
	}

	out := make([]response.ManagerResponse, len(managers))
	for i, m := range managers {
		out[i] = response.ManagerToResponse(m)
	}
	return out, nil
}

func (s *managerService) findManager(ctx context.Context, id uuid.UUID) (*entity.Manager, error) {
	manager, err := s.repo.Manager.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load application: %w", err)
	}
	if manager == nil {
		return nil, notFound("manager application", id)
	}
	return manager, nil
}
