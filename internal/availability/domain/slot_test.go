package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSlot(t *testing.T) {
	start := time.Date(2026, time.July, 4, 9, 0, 0, 0, time.UTC)
	slot := NewSlot(start, 30)

	assert.Equal(t, start, slot.Start)
	assert.Equal(t, start.Add(30*time.Minute), slot.End)
	assert.Equal(t, 30, slot.DurationMin)
	assert.Nil(t, slot.LocalStart)
}

func TestSlot_ProtectedZone(t *testing.T) {
	start := time.Date(2026, time.July, 4, 9, 0, 0, 0, time.UTC)
	slot := NewSlot(start, 30)

	zoneStart, zoneEnd := slot.ProtectedZone(10, 5)
	assert.Equal(t, slot.Start.Add(-10*time.Minute), zoneStart)
	assert.Equal(t, slot.End.Add(5*time.Minute), zoneEnd)
}

func TestSlot_WithLocalEnrichment(t *testing.T) {
	loc, err := ValidateTimezone("America/New_York")
	require.NoError(t, err)

	t.Run("summer instant is flagged as DST", func(t *testing.T) {
		start := time.Date(2026, time.July, 4, 13, 0, 0, 0, time.UTC)
		slot := NewSlot(start, 30).WithLocalEnrichment(loc)

		require.NotNil(t, slot.LocalStart)
		require.NotNil(t, slot.LocalEnd)
		require.NotNil(t, slot.IsDST)
		assert.True(t, *slot.IsDST)
		assert.Equal(t, 9, slot.LocalStart.Hour())
	})

	t.Run("winter instant is not flagged as DST", func(t *testing.T) {
		start := time.Date(2026, time.January, 4, 13, 0, 0, 0, time.UTC)
		slot := NewSlot(start, 30).WithLocalEnrichment(loc)

		require.NotNil(t, slot.IsDST)
		assert.False(t, *slot.IsDST)
	})

	t.Run("southern hemisphere DST is not inverted by sampling month", func(t *testing.T) {
		sydney, err := ValidateTimezone("Australia/Sydney")
		require.NoError(t, err)

		// Sydney observes DST in January (summer) and standard time in July (winter) —
		// the reverse of the northern hemisphere.
		january := time.Date(2026, time.January, 15, 3, 0, 0, 0, time.UTC)
		janSlot := NewSlot(january, 30).WithLocalEnrichment(sydney)
		require.NotNil(t, janSlot.IsDST)
		assert.True(t, *janSlot.IsDST)

		july := time.Date(2026, time.July, 15, 3, 0, 0, 0, time.UTC)
		julSlot := NewSlot(july, 30).WithLocalEnrichment(sydney)
		require.NotNil(t, julSlot.IsDST)
		assert.False(t, *julSlot.IsDST)
	})

	t.Run("original slot is left untouched", func(t *testing.T) {
		start := time.Date(2026, time.July, 4, 13, 0, 0, 0, time.UTC)
		slot := NewSlot(start, 30)
		enriched := slot.WithLocalEnrichment(loc)

		assert.Nil(t, slot.LocalStart)
		assert.NotNil(t, enriched.LocalStart)
	})
}
