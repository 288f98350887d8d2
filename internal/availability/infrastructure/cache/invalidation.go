package cache

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PatternsForInvalidation plans the glob patterns that cover every cache
// key a given organizer and optional event-type/date-range scope could
// have produced.
func PatternsForInvalidation(organizerID uuid.UUID, eventTypeID *uuid.UUID, startDate, endDate *time.Time) []string {
	switch {
	case eventTypeID != nil && startDate != nil && endDate != nil:
		var patterns []string
		for d := *startDate; !d.After(*endDate); d = d.AddDate(0, 0, 1) {
			patterns = append(patterns, fmt.Sprintf("availability:%s:%s:%s*", organizerID, *eventTypeID, d.Format(dateLayout)))
		}
		return patterns
	case eventTypeID != nil:
		return []string{fmt.Sprintf("availability:%s:%s:*", organizerID, *eventTypeID)}
	case startDate != nil && endDate != nil:
		var patterns []string
		for d := *startDate; !d.After(*endDate); d = d.AddDate(0, 0, 1) {
			patterns = append(patterns, fmt.Sprintf("availability:%s:*:%s*", organizerID, d.Format(dateLayout)))
		}
		return patterns
	default:
		return []string{fmt.Sprintf("availability:%s:*", organizerID)}
	}
}

// WeeklyKeys emits one key per ISO week (Monday..Sunday) spanning
// [startDate, endDate], deduplicated.
func WeeklyKeys(organizerID uuid.UUID, startDate, endDate time.Time) []string {
	seen := make(map[string]struct{})
	var keys []string
	for d := startDate; !d.After(endDate); d = d.AddDate(0, 0, 1) {
		monday := startOfISOWeek(d)
		key := fmt.Sprintf("availability_week:%s:%s", organizerID, monday.Format(dateLayout))
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	return keys
}

func startOfISOWeek(d time.Time) time.Time {
	offset := int(d.Weekday())
	if offset == 0 {
		offset = 7 // Sunday is the end of the ISO week, not the start.
	}
	return d.AddDate(0, 0, -(offset - 1))
}
