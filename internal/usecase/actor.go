package usecase

import (
	"context"
	"fmt"

	"pitch-booking/internal/data/entity"
	"pitch-booking/internal/data/repository"

	"github.com/google/uuid"
)

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserID uuid.UUID
	Role   entity.UserRole
}

func (a Actor) IsAdmin() bool { return a.Role == entity.RoleAdmin }

// managesPitch is true for admins and for approved managers bound to the pitch.
func managesPitch(ctx context.Context, managers repository.ManagerRepository, actor Actor, pitchID uuid.UUID) (bool, error) {
	switch actor.Role {
	case entity.RoleAdmin:
		return true, nil
	case entity.RoleOwner:
		m, err := managers.FindByUserID(ctx, actor.UserID)
		if err != nil {
			return false, fmt.Errorf("load manager of user %s: %w", actor.UserID, err)
		}
		return m.Manages(pitchID), nil
	}
	return false, nil
}

// managedPitchIDs returns nil for admins, meaning every pitch.
func managedPitchIDs(ctx context.Context, managers repository.ManagerRepository, actor Actor) ([]uuid.UUID, error) {
	if actor.IsAdmin() {
		return nil, nil
	}
	if actor.Role != entity.RoleOwner {
		return nil, ErrForbidden
	}

	m, err := managers.FindByUserID(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("load manager of user %s: %w", actor.UserID, err)
	}
	if m == nil || m.Status != entity.ManagerStatusApproved {
		return []uuid.UUID{}, nil
	}
	return m.PitchIDs, nil
}
