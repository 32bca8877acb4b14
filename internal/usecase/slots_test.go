package usecase

import (
	"testing"

	"pitch-booking/internal/data/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanRange(t *testing.T) {
	pitch := &entity.Pitch{OpenHour: 10, CloseHour: 22}

	tests := []struct {
		period   Period
		from, to int
	}{
		{PeriodMorning, 8, 16},
		{PeriodEvening, 17, 24},
		{PeriodAll, 10, 22},
	}
	for _, tt := range tests {
		from, to, err := ScanRange(tt.period, pitch)
		require.NoError(t, err)
		assert.Equal(t, tt.from, from, "period %q", tt.period)
		assert.Equal(t, tt.to, to, "period %q", tt.period)
	}

	_, _, err := ScanRange("night", pitch)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestFreeHours(t *testing.T) {
	assert.Equal(t, []int{8, 11, 12}, FreeHours(8, 13, []int{10, 9, 20}))
	assert.Equal(t, []int{}, FreeHours(17, 17, nil))
	assert.Equal(t, []int{9, 10, 20}, sortedHours([]int{20, 9, 10}))
}
