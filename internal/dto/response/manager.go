package response

import (
	"time"

	"pitch-booking/internal/data/entity"
)

type ManagerResponse struct {
	ID         string               `json:"id"`
	UserID     string               `json:"user_id"`
	Status     entity.ManagerStatus `json:"status"`
	PitchIDs   []string             `json:"pitch_ids"`
	ApprovedAt *time.Time           `json:"approved_at,omitempty"`
	CreatedAt  time.Time            `json:"created_at"`
}

func ManagerToResponse(m *entity.Manager) ManagerResponse {
	ids := make([]string, len(m.PitchIDs))
	for i, id := range m.PitchIDs {
		ids[i] = id.String()
	}
	return ManagerResponse{
		ID:         m.ID.String(),
		UserID:     m.UserID.String(),
		Status:     m.Status,
		PitchIDs:   ids,
		ApprovedAt: m.ApprovedAt,
		CreatedAt:  m.CreatedAt,
	}
}
