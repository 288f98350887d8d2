package domain

import (
	"time"

	"github.com/google/uuid"
)

// BookingStatus mirrors the booking subsystem's status field; the engine
// only ever reasons about confirmed bookings.
type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusPending   BookingStatus = "pending"
)

// BookingView is the read-only shape the engine needs from the
// surrounding system's booking model.
type BookingView struct {
	ID             uuid.UUID
	OrganizerID    uuid.UUID
	EventTypeID    uuid.UUID
	Start          time.Time
	End            time.Time
	Status         BookingStatus
	AttendeeCount  int
}

// ProtectedZone returns the booking's own protected window: its span
// padded by the minimum gap the organizer's buffer settings require
// around every confirmed booking.
func (b BookingView) ProtectedZone(minimumGapMinutes int) (time.Time, time.Time) {
	gap := time.Duration(minimumGapMinutes) * time.Minute
	return b.Start.Add(-gap), b.End.Add(gap)
}
