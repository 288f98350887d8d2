package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/slotforge/availability/internal/availability/domain"
)

// BlockFilter determines whether a candidate slot is blocked by one-time
// blocks, recurring blocks, or date-override exclusions.
type BlockFilter struct {
	blocks domain.BlockRepository
	rules  domain.RuleRepository
}

// NewBlockFilter constructs a BlockFilter over the given block and rule
// sources (rules are needed here too, since date overrides can exclude a
// slot even when the rule resolver already consulted them for shape).
func NewBlockFilter(blocks domain.BlockRepository, rules domain.RuleRepository) *BlockFilter {
	return &BlockFilter{blocks: blocks, rules: rules}
}

// IsSlotBlocked reports whether the slot is blocked by any active
// one-time block, recurring block, or date-override exclusion. loc is the
// slot's timezone: recurring-block and override times are naive wall-clock
// values composed against this zone, deliberately inheriting the slot's
// zone rather than any zone the block or override might itself carry
// (see the design notes on this behavior).
func (f *BlockFilter) IsSlotBlocked(
	ctx context.Context,
	organizerID, eventTypeID uuid.UUID,
	slot domain.Slot,
	date time.Time,
	loc *time.Location,
) (bool, error) {
	oneOff, err := f.blocks.ActiveBlockedTimes(ctx, organizerID, slot.Start, slot.End)
	if err != nil {
		return false, fmt.Errorf("%w: loading blocked times: %w", domain.ErrPersistence, err)
	}
	for _, b := range oneOff {
		if !b.Active() {
			continue
		}
		if b.Start().Before(slot.End) && b.End().After(slot.Start) {
			return true, nil
		}
	}

	day := domain.FromTimeWeekday(date.Weekday())
	recurring, err := f.blocks.ActiveRecurringBlocks(ctx, organizerID, day)
	if err != nil {
		return false, fmt.Errorf("%w: loading recurring blocks: %w", domain.ErrPersistence, err)
	}
	for _, rb := range recurring {
		if !rb.Active() || !rb.AppliesToDate(date) {
			continue
		}
		for _, interval := range rb.Intervals() {
			start := domain.ComposeExtendedMinute(date, interval.Start, loc)
			end := domain.ComposeExtendedMinute(date, interval.End, loc)
			if slotOverlapsStrict(start, end, slot.Start, slot.End) {
				return true, nil
			}
		}
	}

	overrides, err := f.rules.ActiveDateOverrides(ctx, organizerID, date)
	if err != nil {
		return false, fmt.Errorf("%w: loading date overrides: %w", domain.ErrPersistence, err)
	}
	for _, o := range overrides {
		if !o.Active() || !o.AppliesToDate(date) || !o.InScope(eventTypeID) {
			continue
		}
		if !o.IsAvailable() {
			return true, nil
		}
		start, end := o.Start(), o.End()
		if start == nil || end == nil {
			continue
		}
		windowStart := domain.ComposeLocalDateTime(date, *start, loc)
		windowEnd := domain.ComposeLocalDateTime(date, *end, loc)
		if end.MinutesSinceMidnight() <= start.MinutesSinceMidnight() {
			windowEnd = windowEnd.AddDate(0, 0, 1)
		}
		if slot.Start.Before(windowStart) || slot.End.After(windowEnd) {
			return true, nil
		}
	}

	return false, nil
}

// slotOverlapsStrict reports whether [aStart, aEnd) overlaps [bStart,
// bEnd) with touching boundaries excluded — the strict read-time
// overlap rule used when filtering slots against blocks.
func slotOverlapsStrict(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}
