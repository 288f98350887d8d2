package domain

import (
	"fmt"
	"time"
)

// ValidateTimezone resolves an IANA timezone identifier against the system
// tzdata, returning ErrInvalidTimezone if it does not exist. Every
// component that accepts a caller-supplied timezone string (the query API,
// invitee timezones) calls this before using it.
func ValidateTimezone(name string) (*time.Location, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidTimezone, name, err)
	}
	return loc, nil
}

// ComposeLocalDateTime attaches a naive date and time-of-day to a
// timezone, producing the concrete instant that wall-clock reading denotes
// in that zone (accounting for DST transitions the same way the stdlib
// does: a nonexistent or ambiguous local time resolves per time.Date's
// documented normalization).
func ComposeLocalDateTime(date time.Time, tod TimeOfDay, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), tod.Hour, tod.Minute, 0, 0, loc)
}

// TimezoneOffsetHours returns the difference between two zones' UTC
// offsets, in fractional hours, at noon of the reference date: to minus
// from. Used to gauge how far apart two invitee timezones sit so the
// multi-invitee intersector can favor slots with a tighter zone spread.
func TimezoneOffsetHours(referenceDate time.Time, from, to *time.Location) float64 {
	noon := time.Date(referenceDate.Year(), referenceDate.Month(), referenceDate.Day(), 12, 0, 0, 0, time.UTC)
	_, fromOffset := noon.In(from).Zone()
	_, toOffset := noon.In(to).Zone()
	return float64(toOffset-fromOffset) / 3600.0
}

// ComposeExtendedMinute attaches a minutes-since-midnight offset on the
// extended axis described by Interval (values at or beyond 1440 denote the
// following calendar day) to date within loc.
func ComposeExtendedMinute(date time.Time, minutesSinceMidnight int, loc *time.Location) time.Time {
	dayOffset := minutesSinceMidnight / (24 * 60)
	tod := TimeOfDay{Hour: (minutesSinceMidnight / 60) % 24, Minute: minutesSinceMidnight % 60}
	t := ComposeLocalDateTime(date, tod, loc)
	if dayOffset > 0 {
		t = t.AddDate(0, 0, dayOffset)
	}
	return t
}
