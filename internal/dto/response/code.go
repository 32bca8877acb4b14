package response

import (
	"time"

	"pitch-booking/internal/data/entity"

	"github.com/shopspring/decimal"
)

type CodeResponse struct {
	Code      string            `json:"code"`
	Type      entity.CodeType   `json:"type"`
	Source    entity.CodeSource `json:"source"`
	Value     decimal.Decimal   `json:"value"`
	PitchID   *string           `json:"pitch_id,omitempty"`
	Status    entity.CodeStatus `json:"status"`
	Expired   bool              `json:"expired"`
	ExpiresAt *time.Time        `json:"expires_at,omitempty"`
	UsedAt    *time.Time        `json:"used_at,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

type ValidateCodeResponse struct {
	Valid   bool            `json:"valid"`
	Code    string          `json:"code"`
	Type    entity.CodeType `json:"type"`
	Value   decimal.Decimal `json:"value"`
	Message string          `json:"message"`
}

func CodeToResponse(c *entity.Code, now time.Time) CodeResponse {
	resp := CodeResponse{
		Code:      c.Code,
		Type:      c.Type,
		Source:    c.Source,
		Value:     c.Value,
		Status:    c.Status,
		Expired:   c.IsExpired(now),
		ExpiresAt: c.ExpiresAt,
		UsedAt:    c.UsedAt,
		CreatedAt: c.CreatedAt,
	}
	if c.PitchID != nil {
		id := c.PitchID.String()
		resp.PitchID = &id
	}
	return resp
}
