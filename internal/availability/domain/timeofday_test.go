package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeOfDay(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		tod, err := NewTimeOfDay(9, 30)
		require.NoError(t, err)
		assert.Equal(t, 9, tod.Hour)
		assert.Equal(t, 30, tod.Minute)
	})

	t.Run("rejects hour out of range", func(t *testing.T) {
		_, err := NewTimeOfDay(24, 0)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnexpected))
	})

	t.Run("rejects negative hour", func(t *testing.T) {
		_, err := NewTimeOfDay(-1, 0)
		require.Error(t, err)
	})

	t.Run("rejects minute out of range", func(t *testing.T) {
		_, err := NewTimeOfDay(9, 60)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnexpected))
	})
}

func TestTimeOfDay_MinutesSinceMidnight(t *testing.T) {
	tod, err := NewTimeOfDay(9, 30)
	require.NoError(t, err)
	assert.Equal(t, 9*60+30, tod.MinutesSinceMidnight())
}

func TestTimeOfDay_Before(t *testing.T) {
	morning, _ := NewTimeOfDay(9, 0)
	evening, _ := NewTimeOfDay(17, 0)

	assert.True(t, morning.Before(evening))
	assert.False(t, evening.Before(morning))
	assert.False(t, morning.Before(morning))
}

func TestTimeOfDay_String(t *testing.T) {
	tod, _ := NewTimeOfDay(9, 5)
	assert.Equal(t, "09:05", tod.String())
}

func TestIntervalFromTimes(t *testing.T) {
	t.Run("normal range", func(t *testing.T) {
		start, _ := NewTimeOfDay(9, 0)
		end, _ := NewTimeOfDay(17, 0)
		intervals := IntervalFromTimes(start, end)
		require.Len(t, intervals, 1)
		assert.Equal(t, Interval{Start: 540, End: 1020}, intervals[0])
	})

	t.Run("equal start and end means full day", func(t *testing.T) {
		tod, _ := NewTimeOfDay(0, 0)
		intervals := IntervalFromTimes(tod, tod)
		require.Len(t, intervals, 1)
		assert.Equal(t, Interval{Start: 0, End: 1440}, intervals[0])
	})

	t.Run("crosses midnight splits into two, the second on the extended axis", func(t *testing.T) {
		start, _ := NewTimeOfDay(22, 0)
		end, _ := NewTimeOfDay(2, 0)
		intervals := IntervalFromTimes(start, end)
		require.Len(t, intervals, 2)
		assert.Equal(t, Interval{Start: 1320, End: 1440}, intervals[0])
		assert.Equal(t, Interval{Start: 1440, End: 1560}, intervals[1])
	})
}

func TestIntervalsOverlap(t *testing.T) {
	a := Interval{Start: 0, End: 60}
	b := Interval{Start: 60, End: 120}
	c := Interval{Start: 30, End: 90}
	d := Interval{Start: 120, End: 180}

	t.Run("adjacent intervals overlap when allowAdjacency is true", func(t *testing.T) {
		assert.True(t, IntervalsOverlap(a, b, true))
	})

	t.Run("adjacent intervals do not overlap when allowAdjacency is false", func(t *testing.T) {
		assert.False(t, IntervalsOverlap(a, b, false))
	})

	t.Run("truly overlapping intervals overlap either way", func(t *testing.T) {
		assert.True(t, IntervalsOverlap(a, c, true))
		assert.True(t, IntervalsOverlap(a, c, false))
	})

	t.Run("disjoint intervals never overlap", func(t *testing.T) {
		assert.False(t, IntervalsOverlap(a, d, true))
		assert.False(t, IntervalsOverlap(a, d, false))
	})

	t.Run("overlap is symmetric", func(t *testing.T) {
		assert.Equal(t, IntervalsOverlap(a, c, true), IntervalsOverlap(c, a, true))
		assert.Equal(t, IntervalsOverlap(a, c, false), IntervalsOverlap(c, a, false))
	})
}

func TestMergeOverlapping(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		assert.Nil(t, MergeOverlapping(nil))
	})

	t.Run("single interval", func(t *testing.T) {
		in := []Interval{{Start: 0, End: 60}}
		assert.Equal(t, in, MergeOverlapping(in))
	})

	t.Run("merges overlapping and touching intervals, sorts unordered input", func(t *testing.T) {
		in := []Interval{
			{Start: 120, End: 180},
			{Start: 0, End: 60},
			{Start: 60, End: 90},
		}
		out := MergeOverlapping(in)
		assert.Equal(t, []Interval{{Start: 0, End: 90}, {Start: 120, End: 180}}, out)
	})

	t.Run("leaves disjoint intervals apart", func(t *testing.T) {
		in := []Interval{{Start: 0, End: 30}, {Start: 100, End: 130}}
		assert.Equal(t, in, MergeOverlapping(in))
	})

	t.Run("fully contained interval collapses", func(t *testing.T) {
		in := []Interval{{Start: 0, End: 100}, {Start: 20, End: 40}}
		out := MergeOverlapping(in)
		assert.Equal(t, []Interval{{Start: 0, End: 100}}, out)
	})
}

