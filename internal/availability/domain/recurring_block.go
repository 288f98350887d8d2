package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RecurringBlockedTime is a weekly recurring busy window layered on top of
// an organizer's availability, optionally bounded to a date range.
type RecurringBlockedTime struct {
	id          uuid.UUID
	organizerID uuid.UUID
	name        string
	day         Weekday
	start       TimeOfDay
	end         TimeOfDay
	startDate   *time.Time
	endDate     *time.Time
	active      bool
}

// NewRecurringBlockedTime constructs a recurring block.
func NewRecurringBlockedTime(
	id, organizerID uuid.UUID,
	name string,
	day Weekday,
	start, end TimeOfDay,
	startDate, endDate *time.Time,
	active bool,
) (*RecurringBlockedTime, error) {
	if start == end {
		return nil, ErrRuleInvalidTimeRange
	}
	if startDate != nil && endDate != nil && startDate.After(*endDate) {
		return nil, ErrRecurringBlockDateRange
	}
	return &RecurringBlockedTime{
		id:          id,
		organizerID: organizerID,
		name:        name,
		day:         day,
		start:       start,
		end:         end,
		startDate:   startDate,
		endDate:     endDate,
		active:      active,
	}, nil
}

func (b *RecurringBlockedTime) ID() uuid.UUID          { return b.id }
func (b *RecurringBlockedTime) OrganizerID() uuid.UUID { return b.organizerID }
func (b *RecurringBlockedTime) Name() string           { return b.name }
func (b *RecurringBlockedTime) Day() Weekday           { return b.day }
func (b *RecurringBlockedTime) Start() TimeOfDay       { return b.start }
func (b *RecurringBlockedTime) End() TimeOfDay         { return b.end }
func (b *RecurringBlockedTime) Active() bool           { return b.active }

// Intervals returns the block's busy window as minute-resolution
// Intervals, splitting a midnight-spanning window into two.
func (b *RecurringBlockedTime) Intervals() []Interval {
	return IntervalFromTimes(b.start, b.end)
}

// AppliesToDate reports whether d falls within the block's optional
// start/end date bounds (open bounds are treated as unbounded).
func (b *RecurringBlockedTime) AppliesToDate(d time.Time) bool {
	if b.startDate != nil && d.Before(dateOnly(*b.startDate)) {
		return false
	}
	if b.endDate != nil && dateOnly(d).After(dateOnly(*b.endDate)) {
		return false
	}
	return true
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ValidateNoRecurringOverlap enforces the invariant that no two active
// recurring blocks on the same organizer+day may overlap, adjacency
// included.
func ValidateNoRecurringOverlap(existing []*RecurringBlockedTime, candidate *RecurringBlockedTime) error {
	for _, other := range existing {
		if other.id == candidate.id || !other.active || other.day != candidate.day {
			continue
		}
		for _, a := range candidate.Intervals() {
			for _, b := range other.Intervals() {
				if IntervalsOverlap(a, b, true) {
					return fmt.Errorf("%w: recurring block on %s", ErrRuleOverlap, candidate.day)
				}
			}
		}
	}
	return nil
}
