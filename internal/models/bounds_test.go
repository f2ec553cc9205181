package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeSlotBounds(t *testing.T) {
	day := time.Date(2026, 2, 15, 0, 0, 0, 0, time.Local)

	t.Run("regular slot", func(t *testing.T) {
		start, end, err := TimeSlot{Start: "08:00", End: "10:30"}.Bounds(day)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 2, 15, 8, 0, 0, 0, time.Local), start)
		assert.Equal(t, time.Date(2026, 2, 15, 10, 30, 0, 0, time.Local), end)
	})

	t.Run("midnight end clamps to end of same day", func(t *testing.T) {
		start, end, err := TimeSlot{Start: "22:00", End: "00:00"}.Bounds(day)
		require.NoError(t, err)
		assert.Equal(t, 22, start.Hour())
		assert.Equal(t, time.Date(2026, 2, 15, 23, 59, 59, 0, time.Local), end)
		assert.Equal(t, day.Day(), end.Day(), "no spurious next-day period")
	})

	t.Run("literal 24:00 end clamps the same way", func(t *testing.T) {
		_, end, err := TimeSlot{Start: "22:00", End: "24:00"}.Bounds(day)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 2, 15, 23, 59, 59, 0, time.Local), end)
	})

	t.Run("midnight start is not clamped", func(t *testing.T) {
		start, _, err := TimeSlot{Start: "00:00", End: "02:00"}.Bounds(day)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 2, 15, 0, 0, 0, 0, time.Local), start)
	})

	t.Run("malformed slot", func(t *testing.T) {
		_, _, err := TimeSlot{Start: "morning", End: "10:00"}.Bounds(day)
		assert.Error(t, err)
	})
}

func TestTimeSlotDuration(t *testing.T) {
	day := time.Date(2026, 2, 15, 0, 0, 0, 0, time.Local)

	assert.Equal(t, 2*time.Hour, TimeSlot{Start: "08:00", End: "10:00"}.Duration(day))
	assert.Equal(t, 2*time.Hour-time.Second, TimeSlot{Start: "22:00", End: "00:00"}.Duration(day))
	assert.Equal(t, time.Duration(0), TimeSlot{Start: "bad", End: "10:00"}.Duration(day))
}

func TestStartOfDay(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Kyiv")
	require.NoError(t, err)

	moment := time.Date(2026, 2, 15, 23, 45, 12, 999, loc)
	day := StartOfDay(moment)

	assert.Equal(t, time.Date(2026, 2, 15, 0, 0, 0, 0, loc), day)
	assert.Equal(t, loc, day.Location(), "location preserved, never shifted through UTC")
}

func TestSameDay(t *testing.T) {
	a := time.Date(2026, 2, 15, 0, 1, 0, 0, time.Local)
	b := time.Date(2026, 2, 15, 23, 59, 0, 0, time.Local)
	c := time.Date(2026, 2, 16, 0, 0, 0, 0, time.Local)

	assert.True(t, SameDay(a, b))
	assert.False(t, SameDay(b, c))
}

func TestScheduleDateKey(t *testing.T) {
	s := &Schedule{Date: time.Date(2026, 2, 5, 0, 0, 0, 0, time.Local)}
	assert.Equal(t, "2026-02-05", s.DateKey())
}
