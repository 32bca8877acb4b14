package entity

import (
	"github.com/google/uuid"
)

type Review struct {
	BaseNoDelete
	UserID  uuid.UUID `db:"user_id"`
	PitchID uuid.UUID `db:"pitch_id"`
	Rating  int       `db:"rating"` // 1-5
	Comment *string   `db:"comment"`
}
