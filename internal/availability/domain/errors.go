// Package domain holds the availability engine's entities, value objects,
// and pure resolution logic. Nothing here talks to a database, a cache, or
// the network.
package domain

import "errors"

// Error taxonomy for the availability engine (see propagation policy in the
// design notes). Callers should use errors.Is/errors.As against these
// sentinels rather than comparing strings.
var (
	// ErrInvalidTimezone means a supplied IANA timezone identifier did not
	// resolve against the system's tzdata.
	ErrInvalidTimezone = errors.New("invalid timezone")

	// ErrInvalidDateRange means the requested date range violated the
	// query API's constraints (end before start, or range too wide).
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrScopeMismatch is internal: a rule or override was evaluated
	// against an event type outside its scope.
	ErrScopeMismatch = errors.New("event type outside rule scope")

	// ErrPersistence wraps a failure reading rules, blocks, or bookings
	// from the underlying store.
	ErrPersistence = errors.New("persistence error")

	// ErrCache wraps a cache backend failure. Callers must never let this
	// fail a request — it exists purely so a failure can be logged with
	// errors.Is discrimination before being swallowed.
	ErrCache = errors.New("cache error")

	// ErrTimeout means the orchestrator's deadline elapsed before the
	// query finished.
	ErrTimeout = errors.New("availability query timed out")

	// ErrUnexpected wraps any failure that doesn't fit the taxonomy above.
	ErrUnexpected = errors.New("unexpected availability engine error")
)

// Entity-level validation errors. These are returned by constructors and
// are not part of the request-facing taxonomy above, but are frequently
// wrapped into ErrUnexpected or surfaced directly by a write path this
// engine does not itself own.
var (
	ErrRuleInvalidTimeRange     = errors.New("start time and end time cannot be equal")
	ErrRuleOverlap              = errors.New("time range overlaps an existing active rule")
	ErrOverrideMissingTimes     = errors.New("start_time and end_time are required when is_available is true")
	ErrOverrideInvalidTimeRange = errors.New("start time and end time cannot be equal")
	ErrRecurringBlockDateRange  = errors.New("start date must be before or equal to end date")
	ErrBlockInvalidTimeRange    = errors.New("end instant must be strictly after start instant")
	ErrBlockSourceImmutable     = errors.New("cannot change source of a synced blocked time")
	ErrBlockManualSourceOnly    = errors.New("manual API cannot create or change the source field")
)
