package entity

import "github.com/shopspring/decimal"

type PitchType string

const (
	PitchTypeNatural    PitchType = "natural"
	PitchTypeArtificial PitchType = "artificial"
)

func (t PitchType) Valid() bool {
	return t == PitchTypeNatural || t == PitchTypeArtificial
}

type Pitch struct {
	Base
	Name        string          `db:"name"`
	Location    string          `db:"location"`
	Area        string          `db:"area"`
	Type        PitchType       `db:"type"`
	Price       decimal.Decimal `db:"price"`
	OpenHour    int             `db:"open_hour"`
	CloseHour   int             `db:"close_hour"`
	Features    []string        `db:"features"`
	RatingAvg   float64         `db:"rating_avg"`
	RatingCount int             `db:"rating_count"`
}

// IsOpenAt reports whether the hourly slot starting at hour lies in [OpenHour, CloseHour).
func (p *Pitch) IsOpenAt(hour int) bool {
	return hour >= p.OpenHour && hour < p.CloseHour
}
