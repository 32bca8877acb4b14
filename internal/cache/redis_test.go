package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testPitch = uuid.MustParse("6f1c3b1e-8a0e-4c57-9a1f-0d2b6a4f7e11")

func TestSlotKey(t *testing.T) {
	assert.Equal(t, "slots:6f1c3b1e-8a0e-4c57-9a1f-0d2b6a4f7e11:2025-06-03:all", SlotKey(testPitch, "2025-06-03", ""))
	assert.Equal(t, "slots:6f1c3b1e-8a0e-4c57-9a1f-0d2b6a4f7e11:2025-06-03:evening", SlotKey(testPitch, "2025-06-03", "evening"))
}

func TestRedisSlotCache_GetHit(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := NewRedisSlotCache(db, 30*time.Second, zap.NewNop())

	mock.ExpectGet(SlotKey(testPitch, "2025-06-03", "morning")).
		SetVal(`{"available_hours":[8,9,11],"booked_hours":[10]}`)

	a, ok := c.Get(context.Background(), testPitch, "2025-06-03", "morning")
	require.True(t, ok)
	assert.Equal(t, []int{8, 9, 11}, a.AvailableHours)
	assert.Equal(t, []int{10}, a.BookedHours)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisSlotCache_GetMissAndError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := NewRedisSlotCache(db, 30*time.Second, zap.NewNop())

	mock.ExpectGet(SlotKey(testPitch, "2025-06-03", "")).RedisNil()
	mock.ExpectGet(SlotKey(testPitch, "2025-06-04", "")).SetErr(errors.New("connection refused"))

	_, ok := c.Get(context.Background(), testPitch, "2025-06-03", "")
	assert.False(t, ok)
	_, ok = c.Get(context.Background(), testPitch, "2025-06-04", "")
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisSlotCache_SetUsesTTL(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := NewRedisSlotCache(db, 30*time.Second, zap.NewNop())

	mock.ExpectSet(SlotKey(testPitch, "2025-06-03", "evening"), `{"available_hours":[17,18],"booked_hours":[]}`, 30*time.Second).
		SetVal("OK")

	c.Set(context.Background(), testPitch, "2025-06-03", "evening", &Availability{
		AvailableHours: []int{17, 18},
		BookedHours:    []int{},
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisSlotCache_InvalidateDropsEveryPeriod(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := NewRedisSlotCache(db, 30*time.Second, zap.NewNop())

	mock.ExpectDel(
		SlotKey(testPitch, "2025-06-03", "all"),
		SlotKey(testPitch, "2025-06-03", "morning"),
		SlotKey(testPitch, "2025-06-03", "evening"),
	).SetVal(2)

	c.Invalidate(context.Background(), testPitch, "2025-06-03")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNoop(t *testing.T) {
	c := NewNoop()
	c.Set(context.Background(), testPitch, "2025-06-03", "", &Availability{})
	_, ok := c.Get(context.Background(), testPitch, "2025-06-03", "")
	assert.False(t, ok)
}

func TestRedisSlotCache_InvalidatePitchScansAllDates(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := NewRedisSlotCache(db, 30*time.Second, zap.NewNop())

	pattern := "slots:" + testPitch.String() + ":*"
	first := []string{SlotKey(testPitch, "2025-06-03", "all")}
	second := []string{SlotKey(testPitch, "2025-06-04", "evening")}

	mock.ExpectScan(0, pattern, 100).SetVal(first, 7)
	mock.ExpectDel(first...).SetVal(1)
	mock.ExpectScan(7, pattern, 100).SetVal(second, 0)
	mock.ExpectDel(second...).SetVal(1)

	c.InvalidatePitch(context.Background(), testPitch)
	assert.NoError(t, mock.ExpectationsWereMet())
}
