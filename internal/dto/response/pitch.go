package response

import (
	"time"

	"pitch-booking/internal/data/entity"

	"github.com/shopspring/decimal"
)

type PitchResponse struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Location    string           `json:"location"`
	Area        string           `json:"area"`
	Type        entity.PitchType `json:"type"`
	Price       decimal.Decimal  `json:"price"`
	OpenHour    int              `json:"open_hour"`
	CloseHour   int              `json:"close_hour"`
	Features    []string         `json:"features"`
	RatingAvg   float64          `json:"rating_avg"`
	RatingCount int              `json:"rating_count"`
	CreatedAt   time.Time        `json:"created_at"`
}

type SlotsResponse struct {
	PitchID        string `json:"pitch_id"`
	Date           string `json:"date"`
	Period         string `json:"period,omitempty"`
	AvailableHours []int  `json:"available_hours"`
	BookedHours    []int  `json:"booked_hours"`
}

type DepositResponse struct {
	PitchID   string          `json:"pitch_id"`
	Price     decimal.Decimal `json:"price"`
	Deposit   decimal.Decimal `json:"deposit"`
	SlotStart time.Time       `json:"slot_start"`
}

func PitchToResponse(p *entity.Pitch) PitchResponse {
	features := p.Features
	if features == nil {
		features = []string{}
	}
	return PitchResponse{
		ID:          p.ID.String(),
		Name:        p.Name,
		Location:    p.Location,
		Area:        p.Area,
		Type:        p.Type,
		Price:       p.Price,
		OpenHour:    p.OpenHour,
		CloseHour:   p.CloseHour,
		Features:    features,
		RatingAvg:   p.RatingAvg,
		RatingCount: p.RatingCount,
		CreatedAt:   p.CreatedAt,
	}
}
