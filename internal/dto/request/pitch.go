package request

import "github.com/shopspring/decimal"

type CreatePitchRequest struct {
	Name      string          `json:"name" validate:"required,min=2,max=100"`
	Location  string          `json:"location" validate:"required,max=200"`
	Area      string          `json:"area" validate:"required,max=100"`
	Type      string          `json:"type" validate:"required,oneof=natural artificial"`
	Price     decimal.Decimal `json:"price"`
	OpenHour  int             `json:"open_hour" validate:"min=0,max=23"`
	CloseHour int             `json:"close_hour" validate:"min=1,max=24,gtfield=OpenHour"`
	Features  []string        `json:"features" validate:"omitempty,dive,required,max=50"`
}

// UpdatePitchRequest carries only the fields being changed.
type UpdatePitchRequest struct {
	Name      *string          `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Location  *string          `json:"location,omitempty" validate:"omitempty,max=200"`
	Area      *string          `json:"area,omitempty" validate:"omitempty,max=100"`
	Type      *string          `json:"type,omitempty" validate:"omitempty,oneof=natural artificial"`
	Price     *decimal.Decimal `json:"price,omitempty"`
	OpenHour  *int             `json:"open_hour,omitempty" validate:"omitempty,min=0,max=23"`
	CloseHour *int             `json:"close_hour,omitempty" validate:"omitempty,min=1,max=24"`
	Features  []string         `json:"features,omitempty" validate:"omitempty,dive,required,max=50"`
}

type PitchListRequest struct {
	PaginatedRequest
	Search   string           `json:"search"`
	Area     string           `json:"area"`
	Type     string           `json:"type" validate:"omitempty,oneof=natural artificial"`
	MaxPrice *decimal.Decimal `json:"max_price"`
}

type SlotsRequest struct {
	Date   string `json:"date" validate:"required,datetime=2006-01-02"`
	Period string `json:"period" validate:"omitempty,oneof=morning evening"`
}

type DepositRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
	Hour int    `json:"hour" validate:"min=0,max=23"`
}
