package services

import (
	"testing"
	"time"

	"github.com/slotforge/availability/internal/availability/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotEnumerator_Enumerate(t *testing.T) {
	date := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	enumerator := NewSlotEnumerator()

	t.Run("emits slots at the configured cadence", func(t *testing.T) {
		intervals := []domain.Interval{{Start: 540, End: 600}} // 09:00-10:00
		slots := enumerator.Enumerate(date, time.UTC, intervals, 30, 30)
		require.Len(t, slots, 2)
		assert.Equal(t, time.Date(2026, time.June, 1, 9, 0, 0, 0, time.UTC), slots[0].Start)
		assert.Equal(t, time.Date(2026, time.June, 1, 9, 30, 0, 0, time.UTC), slots[1].Start)
	})

	t.Run("excludes a slot whose duration would overrun the interval", func(t *testing.T) {
		intervals := []domain.Interval{{Start: 540, End: 590}} // 50 minutes
		slots := enumerator.Enumerate(date, time.UTC, intervals, 30, 30)
		require.Len(t, slots, 1)
	})

	t.Run("handles interval past midnight by rolling to the next day", func(t *testing.T) {
		intervals := []domain.Interval{{Start: 1410, End: 1470}} // 23:30-00:30, extended axis
		slots := enumerator.Enumerate(date, time.UTC, intervals, 30, 30)
		require.Len(t, slots, 2)
		assert.Equal(t, time.Date(2026, time.June, 1, 23, 30, 0, 0, time.UTC), slots[0].Start)
		assert.Equal(t, time.Date(2026, time.June, 2, 0, 0, 0, 0, time.UTC), slots[1].Start)
	})

	t.Run("zero or negative cadence yields no slots", func(t *testing.T) {
		intervals := []domain.Interval{{Start: 540, End: 600}}
		assert.Nil(t, enumerator.Enumerate(date, time.UTC, intervals, 30, 0))
		assert.Nil(t, enumerator.Enumerate(date, time.UTC, intervals, 0, 30))
	})

	t.Run("no intervals yields no slots", func(t *testing.T) {
		assert.Nil(t, enumerator.Enumerate(date, time.UTC, nil, 30, 30))
	})
}
