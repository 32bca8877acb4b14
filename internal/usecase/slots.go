package usecase

import (
	"sort"

	"pitch-booking/internal/data/entity"
)

type Period string

const (
	PeriodAll     Period = ""
	PeriodMorning Period = "morning"
	PeriodEvening Period = "evening"
)

// ScanRange returns the half-open hour range [from, to) inspected for a period.
func ScanRange(period Period, pitch *entity.Pitch) (from, to int, err error) {
	switch period {
	case PeriodMorning:
		return 8, 16, nil
	case PeriodEvening:
		return 17, 24, nil
	case PeriodAll:
		return pitch.OpenHour, pitch.CloseHour, nil
	}
	return 0, 0, invalidf("unknown period %q", period)
}

// FreeHours lists the hours in [from, to) absent from booked, ascending.
func FreeHours(from, to int, booked []int) []int {
	taken := make(map[int]struct{}, len(booked))
	for _, h := range booked {
		taken[h] = struct{}{}
	}

	free := make([]int, 0, to-from)
	for h := from; h < to; h++ {
		if _, ok := taken[h]; !ok {
			free = append(free, h)
		}
	}
	return free
}

func sortedHours(hours []int) []int {
	out := append([]int{}, hours...)
	sort.Ints(out)
	return out
}
