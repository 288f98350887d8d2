package services

import (
	"time"

	"github.com/slotforge/availability/internal/availability/domain"
)

// SlotEnumerator emits candidate slots at a fixed cadence from a set of
// available intervals.
type SlotEnumerator struct{}

// NewSlotEnumerator constructs a SlotEnumerator. It holds no state; it
// exists as a type so the orchestrator can hold it as a pointer the way
// it holds the other pipeline stages.
func NewSlotEnumerator() *SlotEnumerator {
	return &SlotEnumerator{}
}

// Enumerate walks each [start, end) interval (minutes since midnight of
// date, in loc) and emits a Slot at every slotIntervalMinutes stride whose
// full duration fits before the interval's end. Slots are produced in the
// organizer's zone and converted to UTC.
func (e *SlotEnumerator) Enumerate(
	date time.Time,
	loc *time.Location,
	intervals []domain.Interval,
	durationMinutes, slotIntervalMinutes int,
) []domain.Slot {
	if slotIntervalMinutes <= 0 || durationMinutes <= 0 {
		return nil
	}

	var slots []domain.Slot
	for _, interval := range intervals {
		for cursor := interval.Start; cursor+durationMinutes <= interval.End; cursor += slotIntervalMinutes {
			localStart := domain.ComposeExtendedMinute(date, cursor, loc)
			slots = append(slots, domain.NewSlot(localStart.UTC(), durationMinutes))
		}
	}
	return slots
}
