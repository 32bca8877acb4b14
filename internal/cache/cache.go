package cache

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Availability is the cached result of a slot lookup.
type Availability struct {
	AvailableHours []int `json:"available_hours"`
	BookedHours    []int `json:"booked_hours"`
}

// SlotCache is best-effort: failures are logged by the implementation and reported as misses.
type SlotCache interface {
	Get(ctx context.Context, pitchID uuid.UUID, date, period string) (*Availability, bool)
	Set(ctx context.Context, pitchID uuid.UUID, date, period string, a *Availability)
	// Invalidate drops every period of the pitch on date.
	Invalidate(ctx context.Context, pitchID uuid.UUID, date string)
	// InvalidatePitch drops every cached date of the pitch.
	InvalidatePitch(ctx context.Context, pitchID uuid.UUID)
}

const allPeriods = "all"

// Periods lists every key suffix a single pitch/date can be cached under.
var Periods = []string{allPeriods, "morning", "evening"}

func SlotKey(pitchID uuid.UUID, date, period string) string {
	if period == "" {
		period = allPeriods
	}
	return fmt.Sprintf("slots:%s:%s:%s", pitchID, date, period)
}

type noop struct{}

// NewNoop returns a cache that never hits.
func NewNoop() SlotCache { return noop{} }

func (noop) Get(context.Context, uuid.UUID, string, string) (*Availability, bool) { return nil, false }
func (noop) Set(context.Context, uuid.UUID, string, string, *Availability)        {}
func (noop) Invalidate(context.Context, uuid.UUID, string)                        {}
func (noop) InvalidatePitch(context.Context, uuid.UUID)                           {}
