package domain

import "github.com/google/uuid"

// DefaultBufferBeforeMinutes and friends are the values a BufferTime row
// is lazily created with, matching the original's get_or_create defaults.
const (
	DefaultBufferBeforeMinutes = 0
	DefaultBufferAfterMinutes  = 0
	DefaultMinimumGapMinutes   = 0
	DefaultSlotIntervalMinutes = 30
)

// BufferTime holds one organizer's global scheduling defaults. Exactly one
// row exists per organizer; the repository lazily creates it with the
// package defaults on first read.
type BufferTime struct {
	OrganizerID   uuid.UUID
	BufferBefore  int
	BufferAfter   int
	MinimumGap    int
	SlotInterval  int
}

// NewDefaultBufferTime returns the defaults a new organizer starts with.
func NewDefaultBufferTime(organizerID uuid.UUID) BufferTime {
	return BufferTime{
		OrganizerID:  organizerID,
		BufferBefore: DefaultBufferBeforeMinutes,
		BufferAfter:  DefaultBufferAfterMinutes,
		MinimumGap:   DefaultMinimumGapMinutes,
		SlotInterval: DefaultSlotIntervalMinutes,
	}
}
