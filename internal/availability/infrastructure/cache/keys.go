package cache

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// dateLayout matches the canonical key's date format (ISO, no time
// component — rules and slots are resolved per calendar date).
const dateLayout = "2006-01-02"

// AvailabilityKey builds the canonical key identifying one computed
// availability result.
func AvailabilityKey(organizerID, eventTypeID uuid.UUID, startDate, endDate time.Time, inviteeTZ string, attendeeCount int) string {
	return fmt.Sprintf("availability:%s:%s:%s:%s:%s:%d",
		organizerID, eventTypeID,
		startDate.Format(dateLayout), endDate.Format(dateLayout),
		inviteeTZ, attendeeCount,
	)
}

// GenerateCacheKeyVariations returns the cross product of a base key's
// parameters against the configured common timezones and attendee counts,
// used to pre-warm or invalidate the predictable permutations a sweeper
// cares about.
func GenerateCacheKeyVariations(
	organizerID, eventTypeID uuid.UUID,
	startDate, endDate time.Time,
	commonTimezones []string,
	commonAttendeeCounts []int,
) []string {
	var keys []string
	for _, tz := range commonTimezones {
		for _, count := range commonAttendeeCounts {
			keys = append(keys, AvailabilityKey(organizerID, eventTypeID, startDate, endDate, tz, count))
		}
	}
	return keys
}
