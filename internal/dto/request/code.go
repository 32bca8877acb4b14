package request

import (
	"time"

	"github.com/shopspring/decimal"
)

type GenerateCodesRequest struct {
	Type      string          `json:"type" validate:"required,oneof=discount compensation"`
	Value     decimal.Decimal `json:"value"`
	PitchID   *string         `json:"pitch_id,omitempty" validate:"omitempty,uuid"`
	ExpiresAt *time.Time      `json:"expires_at,omitempty"`
	Quantity  int             `json:"quantity" validate:"required,min=1,max=500"`
}

type ValidateCodeRequest struct {
	Code    string  `json:"code" validate:"required,alphanum,max=32"`
	PitchID *string `json:"pitch_id,omitempty" validate:"omitempty,uuid"`
}

type CodeListRequest struct {
	PaginatedRequest
	Type   string `json:"type" validate:"omitempty,oneof=discount compensation"`
	Status string `json:"status" validate:"omitempty,oneof=active used"`
}
