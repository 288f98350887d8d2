// Package services implements the per-day pipeline stages that the query
// orchestrator drives: rule resolution, block filtering, booking conflict
// detection, slot enumeration, and multi-invitee intersection.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/slotforge/availability/internal/availability/domain"
)

// RuleResolver resolves an organizer's effective available intervals for a
// single date, applying the precedence that date overrides fully replace
// recurring rules for that date.
type RuleResolver struct {
	rules domain.RuleRepository
}

// NewRuleResolver constructs a RuleResolver over the given rule source.
func NewRuleResolver(rules domain.RuleRepository) *RuleResolver {
	return &RuleResolver{rules: rules}
}

// DailyAvailableIntervals resolves the effective set of available
// intervals, in minutes-since-midnight of organizerTZ, for one calendar
// date: an applicable date override fully replaces recurring rules for
// that date; otherwise recurring rules in scope for the event type apply.
func (r *RuleResolver) DailyAvailableIntervals(
	ctx context.Context,
	organizerID, eventTypeID uuid.UUID,
	date time.Time,
) ([]domain.Interval, error) {
	overrides, err := r.rules.ActiveDateOverrides(ctx, organizerID, date)
	if err != nil {
		return nil, fmt.Errorf("%w: loading date overrides: %w", domain.ErrPersistence, err)
	}

	var applicable []*domain.DateOverrideRule
	for _, o := range overrides {
		if o.Active() && o.AppliesToDate(date) && o.InScope(eventTypeID) {
			applicable = append(applicable, o)
		}
	}

	if len(applicable) > 0 {
		var intervals []domain.Interval
		for _, o := range applicable {
			intervals = append(intervals, o.Intervals()...)
		}
		return domain.MergeOverlapping(intervals), nil
	}

	day := domain.FromTimeWeekday(date.Weekday())
	rules, err := r.rules.ActiveAvailabilityRules(ctx, organizerID, day)
	if err != nil {
		return nil, fmt.Errorf("%w: loading availability rules: %w", domain.ErrPersistence, err)
	}

	var intervals []domain.Interval
	for _, rule := range rules {
		if rule.Active() && rule.InScope(eventTypeID) {
			intervals = append(intervals, rule.Intervals()...)
		}
	}
	return domain.MergeOverlapping(intervals), nil
}
