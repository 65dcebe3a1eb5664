package shift

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func timeOfDay(hour, minute int) time.Time {
	return time.Date(0, 1, 1, hour, minute, 0, 0, time.UTC)
}

func testShift(start, end time.Time, night bool) ShiftDefinition {
	return ShiftDefinition{
		ID:           "shift-1",
		Name:         "Test Shift",
		WorkDays:     []int{1, 2, 3, 4, 5},
		StartTime:    start,
		EndTime:      end,
		IsNightShift: night,
		IsActive:     true,
		DateStart:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		DateEnd:      time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
	}
}

func TestResolveWindow_DayShiftSameDate(t *testing.T) {
	def := testShift(timeOfDay(8, 0), timeOfDay(17, 0), false)
	date := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	w, err := ResolveWindow(def, date)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, time.Date(2025, 1, 10, 17, 0, 0, 0, time.UTC), w.End)
	assert.Equal(t, w.Start.Day(), w.End.Day())
}

func TestResolveWindow_NightShiftEndsNextDay(t *testing.T) {
	def := testShift(timeOfDay(22, 0), timeOfDay(6, 0), true)
	date := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	w, err := ResolveWindow(def, date)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 1, 10, 22, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, time.Date(2025, 1, 11, 6, 0, 0, 0, time.UTC), w.End)
}

func TestResolveWindow_EndBeforeStartRollsOverWithoutFlag(t *testing.T) {
	// End time-of-day earlier than start implies midnight crossing even when
	// the night flag was forgotten.
	def := testShift(timeOfDay(20, 0), timeOfDay(4, 0), false)
	date := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	w, err := ResolveWindow(def, date)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 2, 4, 0, 0, 0, time.UTC), w.End)
}

func TestResolveWindow_EqualTimesWithoutNightFlagRejected(t *testing.T) {
	def := testShift(timeOfDay(9, 0), timeOfDay(9, 0), false)
	date := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	_, err := ResolveWindow(def, date)
	assert.ErrorIs(t, err, ErrInvalidShiftDefinition)
}

func TestResolveWindow_EqualTimesWithNightFlagIsFullDay(t *testing.T) {
	def := testShift(timeOfDay(9, 0), timeOfDay(9, 0), true)
	date := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	w, err := ResolveWindow(def, date)
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, w.End.Sub(w.Start))
}

func TestResolveWindow_NightShiftWithForwardTimes(t *testing.T) {
	// Flagged night shifts advance the end even when end > start on paper.
	def := testShift(timeOfDay(23, 0), timeOfDay(23, 30), true)
	date := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	w, err := ResolveWindow(def, date)
	require.NoError(t, err)
	assert.Equal(t, 11, w.End.Day())
}

func TestIsActiveOn(t *testing.T) {
	def := testShift(timeOfDay(8, 0), timeOfDay(17, 0), false)
	def.WorkDays = []int{1, 2, 3, 4, 5} // Monday-Friday

	monday := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	saturday := time.Date(2025, 1, 11, 0, 0, 0, 0, time.UTC)
	sunday := time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC)

	assert.True(t, IsActiveOn(def, monday))
	assert.False(t, IsActiveOn(def, saturday))
	assert.False(t, IsActiveOn(def, sunday))

	// Validity window is inclusive on both ends.
	assert.True(t, IsActiveOn(def, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, IsActiveOn(def, time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)))
	assert.False(t, IsActiveOn(def, time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)))
	assert.False(t, IsActiveOn(def, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))

	def.IsActive = false
	assert.False(t, IsActiveOn(def, monday))
}
