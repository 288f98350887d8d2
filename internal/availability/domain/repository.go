package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RuleRepository reads the rule and override sources that the resolver
// layers together for a given organizer/date.
type RuleRepository interface {
	// ActiveAvailabilityRules returns every active AvailabilityRule for
	// the organizer matching the given day of week.
	ActiveAvailabilityRules(ctx context.Context, organizerID uuid.UUID, day Weekday) ([]*AvailabilityRule, error)

	// ActiveDateOverrides returns every active DateOverrideRule for the
	// organizer on the given calendar date.
	ActiveDateOverrides(ctx context.Context, organizerID uuid.UUID, date time.Time) ([]*DateOverrideRule, error)
}

// BlockRepository reads the block sources the block filter checks a
// candidate slot against.
type BlockRepository interface {
	// ActiveBlockedTimes returns active one-off BlockedTime rows for the
	// organizer whose window can intersect [from, to).
	ActiveBlockedTimes(ctx context.Context, organizerID uuid.UUID, from, to time.Time) ([]*BlockedTime, error)

	// ActiveRecurringBlocks returns active RecurringBlockedTime rows for
	// the organizer matching the given day of week.
	ActiveRecurringBlocks(ctx context.Context, organizerID uuid.UUID, day Weekday) ([]*RecurringBlockedTime, error)
}

// BookingRepository reads confirmed bookings for conflict detection.
type BookingRepository interface {
	// ActiveBookings returns confirmed bookings for the organizer whose
	// window can intersect [from, to).
	ActiveBookings(ctx context.Context, organizerID uuid.UUID, from, to time.Time) ([]BookingView, error)
}

// BufferRepository reads (and lazily creates) an organizer's buffer
// defaults.
type BufferRepository interface {
	// GetOrCreate returns the organizer's BufferTime row, creating one
	// with package defaults on first access.
	GetOrCreate(ctx context.Context, organizerID uuid.UUID) (BufferTime, error)
}

// EventTypeRepository reads the read-only event-type model.
type EventTypeRepository interface {
	// FindBySlug resolves an event type by its public slug.
	FindBySlug(ctx context.Context, organizerID uuid.UUID, slug string) (EventTypeView, error)
}

// OrganizerRepository resolves an organizer's configured timezone.
type OrganizerRepository interface {
	// Timezone returns the organizer's IANA timezone identifier.
	Timezone(ctx context.Context, organizerID uuid.UUID) (string, error)
}

// BlockWriter persists externally-sourced blocks. Only a calendar sync
// worker should call this — the manual API surface never creates or
// mutates a BlockSourceExternalCalendar row directly.
type BlockWriter interface {
	// UpsertSyncedBlock inserts or updates a synced block keyed by
	// (organizer_id, external_id).
	UpsertSyncedBlock(ctx context.Context, block *BlockedTime) error

	// DeleteStaleSyncedBlocks removes synced blocks in [windowStart,
	// windowEnd) whose external ID is absent from keepExternalIDs,
	// reflecting events the remote calendar no longer reports. It
	// returns the number of rows removed.
	DeleteStaleSyncedBlocks(ctx context.Context, organizerID uuid.UUID, keepExternalIDs []string, windowStart, windowEnd time.Time) (int, error)
}
