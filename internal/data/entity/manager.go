package entity

import (
	"time"

	"github.com/google/uuid"
)

type ManagerStatus string

const (
	ManagerStatusPending  ManagerStatus = "pending"
	ManagerStatusApproved ManagerStatus = "approved"
)

type Manager struct {
	BaseNoDelete
	UserID     uuid.UUID     `db:"user_id"`
	Status     ManagerStatus `db:"status"`
	PitchIDs   []uuid.UUID
	ApprovedAt *time.Time `db:"approved_at"`
}

// Manages is true only for an approved manager bound to pitchID.
func (m *Manager) Manages(pitchID uuid.UUID) bool {
	if m == nil || m.Status != ManagerStatusApproved {
		return false
	}
	for _, id := range m.PitchIDs {
		if id == pitchID {
			return true
		}
	}
	return false
}
