package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecurringBlockedTime(t *testing.T) {
	organizerID := uuid.New()
	start := mustTOD(t, 12, 0)
	end := mustTOD(t, 13, 0)

	t.Run("valid recurring block", func(t *testing.T) {
		block, err := NewRecurringBlockedTime(uuid.New(), organizerID, "lunch", Monday, start, end, nil, nil, true)
		require.NoError(t, err)
		assert.Equal(t, "lunch", block.Name())
		assert.Equal(t, Monday, block.Day())
	})

	t.Run("rejects zero-length window", func(t *testing.T) {
		_, err := NewRecurringBlockedTime(uuid.New(), organizerID, "lunch", Monday, start, start, nil, nil, true)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrRuleInvalidTimeRange))
	})

	t.Run("rejects start date after end date", func(t *testing.T) {
		startDate := time.Date(2026, time.December, 1, 0, 0, 0, 0, time.UTC)
		endDate := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
		_, err := NewRecurringBlockedTime(uuid.New(), organizerID, "seasonal", Monday, start, end, &startDate, &endDate, true)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrRecurringBlockDateRange))
	})

	t.Run("accepts start date equal to end date", func(t *testing.T) {
		same := time.Date(2026, time.December, 1, 0, 0, 0, 0, time.UTC)
		_, err := NewRecurringBlockedTime(uuid.New(), organizerID, "one day", Monday, start, end, &same, &same, true)
		require.NoError(t, err)
	})
}

func TestRecurringBlockedTime_Intervals(t *testing.T) {
	organizerID := uuid.New()
	block, err := NewRecurringBlockedTime(uuid.New(), organizerID, "overnight", Friday, mustTOD(t, 23, 0), mustTOD(t, 1, 0), nil, nil, true)
	require.NoError(t, err)

	intervals := block.Intervals()
	require.Len(t, intervals, 2)
	assert.Equal(t, Interval{Start: 1380, End: 1440}, intervals[0])
	assert.Equal(t, Interval{Start: 1440, End: 1500}, intervals[1])
}

func TestRecurringBlockedTime_AppliesToDate(t *testing.T) {
	organizerID := uuid.New()
	start := mustTOD(t, 12, 0)
	end := mustTOD(t, 13, 0)

	t.Run("unbounded block applies to any date", func(t *testing.T) {
		block, err := NewRecurringBlockedTime(uuid.New(), organizerID, "lunch", Monday, start, end, nil, nil, true)
		require.NoError(t, err)
		assert.True(t, block.AppliesToDate(time.Date(2030, time.January, 1, 0, 0, 0, 0, time.UTC)))
	})

	t.Run("bounded block respects start and end dates", func(t *testing.T) {
		startDate := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
		endDate := time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC)
		block, err := NewRecurringBlockedTime(uuid.New(), organizerID, "summer", Monday, start, end, &startDate, &endDate, true)
		require.NoError(t, err)

		assert.False(t, block.AppliesToDate(time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC)))
		assert.True(t, block.AppliesToDate(time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC)))
		assert.False(t, block.AppliesToDate(time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)))
	})
}

func TestValidateNoRecurringOverlap(t *testing.T) {
	organizerID := uuid.New()
	existingBlock, err := NewRecurringBlockedTime(uuid.New(), organizerID, "lunch", Monday, mustTOD(t, 12, 0), mustTOD(t, 13, 0), nil, nil, true)
	require.NoError(t, err)
	existing := []*RecurringBlockedTime{existingBlock}

	t.Run("overlapping block on same day is rejected", func(t *testing.T) {
		candidate, err := NewRecurringBlockedTime(uuid.New(), organizerID, "break", Monday, mustTOD(t, 12, 30), mustTOD(t, 13, 30), nil, nil, true)
		require.NoError(t, err)
		err = ValidateNoRecurringOverlap(existing, candidate)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrRuleOverlap))
	})

	t.Run("non-overlapping block on same day is accepted", func(t *testing.T) {
		candidate, err := NewRecurringBlockedTime(uuid.New(), organizerID, "break", Monday, mustTOD(t, 14, 0), mustTOD(t, 15, 0), nil, nil, true)
		require.NoError(t, err)
		assert.NoError(t, ValidateNoRecurringOverlap(existing, candidate))
	})

	t.Run("inactive existing block is ignored", func(t *testing.T) {
		inactive, err := NewRecurringBlockedTime(uuid.New(), organizerID, "lunch", Monday, mustTOD(t, 12, 0), mustTOD(t, 13, 0), nil, nil, false)
		require.NoError(t, err)
		candidate, err := NewRecurringBlockedTime(uuid.New(), organizerID, "break", Monday, mustTOD(t, 12, 30), mustTOD(t, 13, 30), nil, nil, true)
		require.NoError(t, err)
		assert.NoError(t, ValidateNoRecurringOverlap([]*RecurringBlockedTime{inactive}, candidate))
	})
}
