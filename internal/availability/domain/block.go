package domain

import (
	"time"

	"github.com/google/uuid"
)

// BlockSource identifies what created a BlockedTime row.
type BlockSource string

const (
	BlockSourceManual           BlockSource = "manual"
	BlockSourceExternalCalendar BlockSource = "external-calendar"
)

// BlockedTime is a one-off absolute busy window.
type BlockedTime struct {
	id          uuid.UUID
	organizerID uuid.UUID
	start       time.Time
	end         time.Time
	reason      string
	source      BlockSource
	externalID  string
	active      bool
}

// NewManualBlockedTime constructs a BlockedTime created through the
// manual API. The source field is always BlockSourceManual — callers
// cannot set an external source through this constructor; only sync
// workers create non-manual rows.
func NewManualBlockedTime(id, organizerID uuid.UUID, start, end time.Time, reason string, active bool) (*BlockedTime, error) {
	if !end.After(start) {
		return nil, ErrBlockInvalidTimeRange
	}
	return &BlockedTime{
		id:          id,
		organizerID: organizerID,
		start:       start,
		end:         end,
		reason:      reason,
		source:      BlockSourceManual,
		active:      active,
	}, nil
}

// NewSyncedBlockedTime constructs a BlockedTime originating from an
// external calendar sync adapter, carrying the remote event's identifier
// so repeated syncs can upsert idempotently.
func NewSyncedBlockedTime(id, organizerID uuid.UUID, start, end time.Time, reason, externalID string, active bool) (*BlockedTime, error) {
	if !end.After(start) {
		return nil, ErrBlockInvalidTimeRange
	}
	return &BlockedTime{
		id:          id,
		organizerID: organizerID,
		start:       start,
		end:         end,
		reason:      reason,
		source:      BlockSourceExternalCalendar,
		externalID:  externalID,
		active:      active,
	}, nil
}

func (b *BlockedTime) ID() uuid.UUID          { return b.id }
func (b *BlockedTime) OrganizerID() uuid.UUID { return b.organizerID }
func (b *BlockedTime) Start() time.Time       { return b.start }
func (b *BlockedTime) End() time.Time         { return b.end }
func (b *BlockedTime) Reason() string         { return b.reason }
func (b *BlockedTime) Source() BlockSource    { return b.source }
func (b *BlockedTime) ExternalID() string     { return b.externalID }
func (b *BlockedTime) Active() bool           { return b.active }

// Reschedule updates a manually-created block's window. Synced blocks
// must go through Resync instead, since their instants come from the
// external calendar, not a manual edit.
func (b *BlockedTime) Reschedule(start, end time.Time) error {
	if b.source != BlockSourceManual {
		return ErrBlockSourceImmutable
	}
	if !end.After(start) {
		return ErrBlockInvalidTimeRange
	}
	b.start, b.end = start, end
	return nil
}

// Resync updates a synced block's window and reason from the external
// calendar's current state. It is a no-op guard against calling it on a
// manually-created row, which has no external counterpart to resync from.
func (b *BlockedTime) Resync(start, end time.Time, reason string) error {
	if b.source != BlockSourceExternalCalendar {
		return ErrBlockManualSourceOnly
	}
	if !end.After(start) {
		return ErrBlockInvalidTimeRange
	}
	b.start, b.end, b.reason = start, end, reason
	return nil
}
