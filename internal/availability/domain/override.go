package domain

import (
	"time"

	"github.com/google/uuid"
)

// DateOverrideRule is a per-date exception that, when applicable, fully
// replaces recurring AvailabilityRule rows for that date within its scope.
type DateOverrideRule struct {
	id             uuid.UUID
	organizerID    uuid.UUID
	date           time.Time
	isAvailable    bool
	start          *TimeOfDay
	end            *TimeOfDay
	eventTypeScope map[uuid.UUID]struct{}
	reason         string
	active         bool
}

// NewDateOverrideRule constructs an override. When isAvailable is true,
// both start and end must be present and unequal.
func NewDateOverrideRule(
	id, organizerID uuid.UUID,
	date time.Time,
	isAvailable bool,
	start, end *TimeOfDay,
	eventTypeScope []uuid.UUID,
	reason string,
	active bool,
) (*DateOverrideRule, error) {
	if isAvailable {
		if start == nil || end == nil {
			return nil, ErrOverrideMissingTimes
		}
		if *start == *end {
			return nil, ErrOverrideInvalidTimeRange
		}
	}
	return &DateOverrideRule{
		id:             id,
		organizerID:    organizerID,
		date:           date,
		isAvailable:    isAvailable,
		start:          start,
		end:            end,
		eventTypeScope: scopeSet(eventTypeScope),
		reason:         reason,
		active:         active,
	}, nil
}

func (o *DateOverrideRule) ID() uuid.UUID          { return o.id }
func (o *DateOverrideRule) OrganizerID() uuid.UUID { return o.organizerID }
func (o *DateOverrideRule) Date() time.Time        { return o.date }
func (o *DateOverrideRule) IsAvailable() bool      { return o.isAvailable }
func (o *DateOverrideRule) Start() *TimeOfDay      { return o.start }
func (o *DateOverrideRule) End() *TimeOfDay        { return o.end }
func (o *DateOverrideRule) Reason() string         { return o.reason }
func (o *DateOverrideRule) Active() bool           { return o.active }

// InScope reports whether this override applies to the given event type.
func (o *DateOverrideRule) InScope(eventTypeID uuid.UUID) bool {
	if len(o.eventTypeScope) == 0 {
		return true
	}
	_, ok := o.eventTypeScope[eventTypeID]
	return ok
}

// Intervals returns the override's available window, or nil when the
// override closes the day (is-available=false) or lacks times.
func (o *DateOverrideRule) Intervals() []Interval {
	if !o.isAvailable || o.start == nil || o.end == nil {
		return nil
	}
	return IntervalFromTimes(*o.start, *o.end)
}

// AppliesToDate reports whether this override governs the given calendar
// date (compared by year/month/day only, ignoring time-of-day/zone on the
// stored date field).
func (o *DateOverrideRule) AppliesToDate(d time.Time) bool {
	oy, om, od := o.date.Date()
	dy, dm, dd := d.Date()
	return oy == dy && om == dm && od == dd
}
