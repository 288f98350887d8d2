package domain

import "github.com/google/uuid"

// EventTypeView is the read-only shape the engine needs from the
// surrounding system's event-type model. It is never constructed or
// mutated by this engine.
type EventTypeView struct {
	ID                  uuid.UUID
	Slug                string
	OrganizerID         uuid.UUID
	DurationMinutes     int
	BufferBeforeOverride *int
	BufferAfterOverride  *int
	SlotIntervalOverride *int
	IsGroupEvent        bool
	MaxAttendees        int
}

// EffectiveBufferBefore returns the event type's buffer-before override if
// set, else the organizer's default.
func (e EventTypeView) EffectiveBufferBefore(defaults BufferTime) int {
	if e.BufferBeforeOverride != nil {
		return *e.BufferBeforeOverride
	}
	return defaults.BufferBefore
}

// EffectiveBufferAfter returns the event type's buffer-after override if
// set, else the organizer's default.
func (e EventTypeView) EffectiveBufferAfter(defaults BufferTime) int {
	if e.BufferAfterOverride != nil {
		return *e.BufferAfterOverride
	}
	return defaults.BufferAfter
}

// EffectiveSlotInterval returns the event type's cadence override if set,
// else the organizer's default.
func (e EventTypeView) EffectiveSlotInterval(defaults BufferTime) int {
	if e.SlotIntervalOverride != nil {
		return *e.SlotIntervalOverride
	}
	return defaults.SlotInterval
}
