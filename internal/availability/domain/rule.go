package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// AvailabilityRule is a weekly recurring availability window for one
// organizer. An empty EventTypeScope applies to every event type.
type AvailabilityRule struct {
	id             uuid.UUID
	organizerID    uuid.UUID
	day            Weekday
	start          TimeOfDay
	end            TimeOfDay
	eventTypeScope map[uuid.UUID]struct{}
	active         bool
}

// NewAvailabilityRule constructs a rule, rejecting a zero-length window.
// Scope membership is NOT validated here — overlap against sibling rules
// is a write-path concern handled by ValidateNoOverlap, since this
// constructor sees only one rule at a time.
func NewAvailabilityRule(
	id, organizerID uuid.UUID,
	day Weekday,
	start, end TimeOfDay,
	eventTypeScope []uuid.UUID,
	active bool,
) (*AvailabilityRule, error) {
	if start == end {
		return nil, ErrRuleInvalidTimeRange
	}
	return &AvailabilityRule{
		id:             id,
		organizerID:    organizerID,
		day:            day,
		start:          start,
		end:            end,
		eventTypeScope: scopeSet(eventTypeScope),
		active:         active,
	}, nil
}

func (r *AvailabilityRule) ID() uuid.UUID          { return r.id }
func (r *AvailabilityRule) OrganizerID() uuid.UUID { return r.organizerID }
func (r *AvailabilityRule) Day() Weekday           { return r.day }
func (r *AvailabilityRule) Start() TimeOfDay       { return r.start }
func (r *AvailabilityRule) End() TimeOfDay         { return r.end }
func (r *AvailabilityRule) Active() bool           { return r.active }

// SpansMidnight reports whether the rule's window wraps past midnight.
func (r *AvailabilityRule) SpansMidnight() bool {
	return r.end.MinutesSinceMidnight() <= r.start.MinutesSinceMidnight()
}

// InScope reports whether this rule applies to the given event type. An
// empty scope set matches every event type.
func (r *AvailabilityRule) InScope(eventTypeID uuid.UUID) bool {
	if len(r.eventTypeScope) == 0 {
		return true
	}
	_, ok := r.eventTypeScope[eventTypeID]
	return ok
}

// Intervals returns the rule's window as minute-resolution Intervals,
// splitting a midnight-spanning window into two.
func (r *AvailabilityRule) Intervals() []Interval {
	return IntervalFromTimes(r.start, r.end)
}

func scopeSet(ids []uuid.UUID) map[uuid.UUID]struct{} {
	if len(ids) == 0 {
		return nil
	}
	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func scopesIntersect(a, b map[uuid.UUID]struct{}) bool {
	if len(a) == 0 || len(b) == 0 {
		return true
	}
	if len(a) > len(b) {
		a, b = b, a
	}
	for id := range a {
		if _, ok := b[id]; ok {
			return true
		}
	}
	return false
}

// ValidateNoOverlap enforces the write-time invariant that within one
// organizer+day, two active rules with intersecting event-type scope must
// not overlap in time, and adjacency (touching boundaries) is forbidden
// too, to force callers to consolidate rather than create back-to-back
// rows. This uses adjacency-inclusive overlap, distinct from the strict
// overlap used by the read-time block/booking filters.
func ValidateNoOverlap(existing []*AvailabilityRule, candidate *AvailabilityRule) error {
	for _, other := range existing {
		if other.id == candidate.id {
			continue
		}
		if !other.active || other.day != candidate.day {
			continue
		}
		if !scopesIntersect(other.eventTypeScope, candidate.eventTypeScope) {
			continue
		}
		for _, a := range candidate.Intervals() {
			for _, b := range other.Intervals() {
				if IntervalsOverlap(a, b, true) {
					return fmt.Errorf("%w: rule on %s", ErrRuleOverlap, candidate.day)
				}
			}
		}
	}
	return nil
}
