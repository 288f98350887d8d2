package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/slotforge/availability/internal/availability/domain"
)

// ConflictFilter determines whether a candidate slot conflicts with
// existing confirmed bookings, honoring buffer zones, minimum gap, and
// group-event capacity.
type ConflictFilter struct {
	bookings domain.BookingRepository
}

// NewConflictFilter constructs a ConflictFilter over the given booking
// source.
func NewConflictFilter(bookings domain.BookingRepository) *ConflictFilter {
	return &ConflictFilter{bookings: bookings}
}

// IsSlotConflicting checks a candidate slot against confirmed bookings,
// padding each side with buffer/minimum-gap to form a protected zone, and
// for group events comparing combined attendee counts against capacity
// instead of rejecting on any overlap.
func (f *ConflictFilter) IsSlotConflicting(
	ctx context.Context,
	organizerID, eventTypeID uuid.UUID,
	slot domain.Slot,
	attendeeCount, bufferBeforeMin, bufferAfterMin, minimumGapMin int,
	isGroupEvent bool,
	maxAttendees int,
) (bool, error) {
	candidateStart, candidateEnd := slot.ProtectedZone(bufferBeforeMin, bufferAfterMin)

	existing, err := f.bookings.ActiveBookings(ctx, organizerID, candidateStart, candidateEnd)
	if err != nil {
		return false, fmt.Errorf("%w: loading bookings: %w", domain.ErrPersistence, err)
	}

	for _, b := range existing {
		if b.Status != domain.BookingStatusConfirmed {
			continue
		}
		bookingStart, bookingEnd := b.ProtectedZone(minimumGapMin)
		if !(candidateStart.Before(bookingEnd) && candidateEnd.After(bookingStart)) {
			continue
		}

		if isGroupEvent && b.EventTypeID == eventTypeID {
			sum := attendeeCount
			for _, other := range existing {
				if other.Status != domain.BookingStatusConfirmed || other.EventTypeID != eventTypeID {
					continue
				}
				if other.Start.Before(slot.End) && other.End.After(slot.Start) {
					sum += other.AttendeeCount
				}
			}
			if sum > maxAttendees {
				return true, nil
			}
			continue
		}

		return true, nil
	}

	return false, nil
}
