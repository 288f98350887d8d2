package domain

import "fmt"

// TimeOfDay is a naive wall-clock time with minute resolution, independent
// of any timezone or calendar date. Rules and overrides are stored this way
// because they describe a recurring daily shape, not a specific instant.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// NewTimeOfDay validates and constructs a TimeOfDay.
func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 {
		return TimeOfDay{}, fmt.Errorf("%w: hour %d out of range", ErrUnexpected, hour)
	}
	if minute < 0 || minute > 59 {
		return TimeOfDay{}, fmt.Errorf("%w: minute %d out of range", ErrUnexpected, minute)
	}
	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

// MinutesSinceMidnight returns the time of day as an offset in minutes,
// the unit every interval comparison in this package works in.
func (t TimeOfDay) MinutesSinceMidnight() int {
	return t.Hour*60 + t.Minute
}

// Before reports whether t occurs strictly earlier in the day than other.
func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t.MinutesSinceMidnight() < other.MinutesSinceMidnight()
}

// String renders the time as HH:MM.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Interval is a half-open [Start, End) span expressed in minutes since
// midnight of its anchor date, on an extended axis: values at or beyond
// 1440 denote the following calendar day rather than wrapping back to 0.
// A span that crosses midnight (End <= Start) is represented by the caller
// splitting it into two Intervals on this axis — this type never wraps.
type Interval struct {
	Start int
	End   int
}

// IntervalFromTimes builds an Interval from a pair of TimeOfDay values,
// handling the midnight-crossing case (e.g. 22:00-02:00) by returning two
// intervals instead of one that wraps: [s, 1440) on the anchor date and
// [1440, 1440+e) on the date that follows it.
func IntervalFromTimes(start, end TimeOfDay) []Interval {
	s, e := start.MinutesSinceMidnight(), end.MinutesSinceMidnight()
	if e > s {
		return []Interval{{Start: s, End: e}}
	}
	if e == s {
		return []Interval{{Start: s, End: 24 * 60}}
	}
	// Crosses midnight: split into [s, 1440) and [1440, 1440+e).
	return []Interval{{Start: s, End: 24 * 60}, {Start: 24 * 60, End: 24*60 + e}}
}

// IntervalsOverlap reports whether a and b overlap. When allowAdjacency is
// true, touching boundaries (a.End == b.Start or b.End == a.Start) count as
// overlapping; this is used at write time to force rule consolidation.
// When false, touching boundaries are NOT overlapping; this is used at read
// time for block and booking conflict detection. The two call sites are
// deliberately asymmetric — see the design notes on this package.
func IntervalsOverlap(a, b Interval, allowAdjacency bool) bool {
	if allowAdjacency {
		return a.Start <= b.End && b.Start <= a.End
	}
	return a.Start < b.End && b.Start < a.End
}

// MergeOverlapping collapses a set of intervals into the minimal set of
// disjoint, sorted intervals covering the same minutes. Intervals that
// merely touch (end == start of next) are merged as well, matching the
// original implementation's treatment of adjacency as "no gap."
func MergeOverlapping(intervals []Interval) []Interval {
	if len(intervals) == 0 {
		return nil
	}
	sorted := make([]Interval, len(intervals))
	copy(sorted, intervals)
	for i := 1; i < len(sorted); i++ {
		j := i
		for j > 0 && sorted[j-1].Start > sorted[j].Start {
			sorted[j-1], sorted[j] = sorted[j], sorted[j-1]
			j--
		}
	}

	merged := []Interval{sorted[0]}
	for _, cur := range sorted[1:] {
		last := &merged[len(merged)-1]
		if cur.Start <= last.End {
			if cur.End > last.End {
				last.End = cur.End
			}
			continue
		}
		merged = append(merged, cur)
	}
	return merged
}
