package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFrom_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfigFrom(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, 3, cfg.Booking.DailyCap)
	assert.Equal(t, 14, cfg.Booking.CompensationValidityDays)
	assert.Equal(t, 8, cfg.Booking.CodeLength)
	assert.False(t, cfg.Booking.CancelUseSlotHour)
	assert.Equal(t, 30*time.Second, cfg.Redis.SlotTTL)
	assert.Equal(t, 3, cfg.Notify.MaxAttempts)
	assert.Equal(t, []string{"*"}, cfg.App.CORSOrigins)
}

func TestLoadConfigFrom_FileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "BOOKING_DAILY_CAP=5\nAPP_TIMEZONE=Africa/Cairo\nCORS_ALLOWED_ORIGINS=https://a.example, https://b.example\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("PORT", "9090")
	t.Setenv("CANCEL_USE_SLOT_HOUR", "true")

	cfg, err := LoadConfigFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, 5, cfg.Booking.DailyCap)
	assert.True(t, cfg.Booking.CancelUseSlotHour)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.App.CORSOrigins)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Africa/Cairo", loc.String())
}

func TestConfigLocation_Invalid(t *testing.T) {
	cfg := &Config{App: AppConfig{Timezone: "Nowhere/Town"}}
	_, err := cfg.Location()
	assert.Error(t, err)
}
