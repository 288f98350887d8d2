// Package queries implements the query-side entry point of the
// availability engine: the orchestrator that drives rule resolution, slot
// enumeration, block/booking filtering, and multi-invitee intersection
// for a date range.
package queries

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/slotforge/availability/internal/availability/application/services"
	"github.com/slotforge/availability/internal/availability/domain"
	sharedApplication "github.com/slotforge/availability/internal/shared/application"
)

// CalculateAvailableSlotsQuery is the transport-agnostic request record
// for computing an organizer's available slots over a date range.
type CalculateAvailableSlotsQuery struct {
	OrganizerID      uuid.UUID
	EventTypeSlug    string
	StartDate        time.Time
	EndDate          time.Time
	InviteeTimezone  string
	AttendeeCount    int
	InviteeTimezones []string
}

// QueryName satisfies the generic Query interface.
func (CalculateAvailableSlotsQuery) QueryName() string { return "CalculateAvailableSlots" }

// PerformanceMetrics reports how long a query took and how much work it did.
type PerformanceMetrics struct {
	Duration           time.Duration
	TotalSlotsComputed int
	DateRangeDays      int
}

// CalculateAvailableSlotsResult is the response record returned by the
// handler: the computed slots, any degraded-but-non-fatal warnings, and
// timing/volume metrics.
type CalculateAvailableSlotsResult struct {
	Slots      []domain.Slot
	Warnings   []string
	Metrics    PerformanceMetrics
}

var _ sharedApplication.QueryHandler[CalculateAvailableSlotsQuery, CalculateAvailableSlotsResult] = (*CalculateAvailableSlotsHandler)(nil)

// CalculateAvailableSlotsHandler is the query orchestrator (component G).
// It owns no persistent state beyond its collaborators; every call is an
// independent, idempotent read.
type CalculateAvailableSlotsHandler struct {
	organizers  domain.OrganizerRepository
	eventTypes  domain.EventTypeRepository
	buffers     domain.BufferRepository
	resolver    *services.RuleResolver
	blockFilter *services.BlockFilter
	conflict    *services.ConflictFilter
	enumerator  *services.SlotEnumerator
	logger      *slog.Logger
}

// NewCalculateAvailableSlotsHandler wires the orchestrator to its
// collaborators.
func NewCalculateAvailableSlotsHandler(
	organizers domain.OrganizerRepository,
	eventTypes domain.EventTypeRepository,
	buffers domain.BufferRepository,
	resolver *services.RuleResolver,
	blockFilter *services.BlockFilter,
	conflict *services.ConflictFilter,
	enumerator *services.SlotEnumerator,
	logger *slog.Logger,
) *CalculateAvailableSlotsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CalculateAvailableSlotsHandler{
		organizers:  organizers,
		eventTypes:  eventTypes,
		buffers:     buffers,
		resolver:    resolver,
		blockFilter: blockFilter,
		conflict:    conflict,
		enumerator:  enumerator,
		logger:      logger,
	}
}

// Handle runs the full per-day pipeline: rule resolution, slot
// enumeration, block filtering, conflict filtering, then invitee
// intersection across the requested date range. It never returns a
// transport-visible error for anything downstream of input validation:
// persistence failures aside, a degraded dependency yields a warning and
// a best-effort result, not a failed call.
func (h *CalculateAvailableSlotsHandler) Handle(ctx context.Context, q CalculateAvailableSlotsQuery) (result CalculateAvailableSlotsResult, err error) {
	started := time.Now()
	var warnings []string
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("unexpected failure", "organizer_id", q.OrganizerID, "slug", q.EventTypeSlug, "panic", r)
			result = CalculateAvailableSlotsResult{
				Warnings: append(warnings, fmt.Sprintf("unexpected: %v", r)),
				Metrics:  PerformanceMetrics{Duration: time.Since(started)},
			}
			err = nil
		}
	}()

	if q.EndDate.Before(q.StartDate) {
		return CalculateAvailableSlotsResult{}, domain.ErrInvalidDateRange
	}
	if q.EndDate.Sub(q.StartDate) > 90*24*time.Hour {
		return CalculateAvailableSlotsResult{}, domain.ErrInvalidDateRange
	}

	attendeeCount := q.AttendeeCount
	if attendeeCount < 1 {
		attendeeCount = 1
	}

	inviteeTZName := q.InviteeTimezone
	if inviteeTZName == "" {
		inviteeTZName = "UTC"
	}
	inviteeLoc, err := domain.ValidateTimezone(inviteeTZName)
	if err != nil {
		warnings = append(warnings, "invalid invitee timezone, falling back to UTC: "+inviteeTZName)
		inviteeLoc = time.UTC
	}

	var inviteeLocs []*time.Location
	var inviteeNames []string
	for _, name := range q.InviteeTimezones {
		loc, err := domain.ValidateTimezone(name)
		if err != nil {
			warnings = append(warnings, "invalid invitee timezone, dropped: "+name)
			continue
		}
		inviteeLocs = append(inviteeLocs, loc)
		inviteeNames = append(inviteeNames, name)
	}

	organizerTZName, err := h.organizers.Timezone(ctx, q.OrganizerID)
	if err != nil {
		h.logger.Error("failed to resolve organizer timezone", "organizer_id", q.OrganizerID, "error", err)
		return CalculateAvailableSlotsResult{Warnings: append(warnings, "unexpected: "+err.Error()), Metrics: PerformanceMetrics{Duration: time.Since(started)}}, nil
	}
	organizerLoc, err := domain.ValidateTimezone(organizerTZName)
	if err != nil {
		warnings = append(warnings, "invalid organizer timezone, falling back to UTC")
		organizerLoc = time.UTC
	}

	eventType, err := h.eventTypes.FindBySlug(ctx, q.OrganizerID, q.EventTypeSlug)
	if err != nil {
		h.logger.Error("failed to resolve event type", "organizer_id", q.OrganizerID, "slug", q.EventTypeSlug, "error", err)
		return CalculateAvailableSlotsResult{}, domain.ErrPersistence
	}

	buffers, err := h.buffers.GetOrCreate(ctx, q.OrganizerID)
	if err != nil {
		h.logger.Error("failed to resolve buffer settings", "organizer_id", q.OrganizerID, "error", err)
		return CalculateAvailableSlotsResult{}, domain.ErrPersistence
	}

	bufferBefore := eventType.EffectiveBufferBefore(buffers)
	bufferAfter := eventType.EffectiveBufferAfter(buffers)
	slotInterval := eventType.EffectiveSlotInterval(buffers)

	var accepted []domain.Slot
	dayCount := 0
	for d := q.StartDate; !d.After(q.EndDate); d = d.AddDate(0, 0, 1) {
		if err := ctx.Err(); err != nil {
			warnings = append(warnings, "timeout")
			return CalculateAvailableSlotsResult{
				Slots:    accepted,
				Warnings: warnings,
				Metrics:  PerformanceMetrics{Duration: time.Since(started), TotalSlotsComputed: len(accepted), DateRangeDays: dayCount},
			}, nil
		}
		dayCount++

		daySlots, dayErr := h.processDay(ctx, q.OrganizerID, eventType.ID, d, organizerLoc, eventType.DurationMinutes, slotInterval, bufferBefore, bufferAfter, buffers.MinimumGap, attendeeCount, eventType.IsGroupEvent, eventType.MaxAttendees)
		if dayErr != nil {
			h.logger.Error("day processing failed", "organizer_id", q.OrganizerID, "date", d, "error", dayErr)
			warnings = append(warnings, "unexpected: "+dayErr.Error())
			continue
		}
		accepted = append(accepted, daySlots...)
	}

	if len(inviteeLocs) >= 2 {
		intersector := services.NewInviteeIntersector(services.DefaultReasonableHours())
		var tzWarnings []string
		accepted, tzWarnings = intersector.Intersect(accepted, inviteeLocs, inviteeNames)
		warnings = append(warnings, tzWarnings...)
	} else {
		intersector := services.NewInviteeIntersector(services.DefaultReasonableHours())
		accepted = intersector.EnrichSingleZone(accepted, inviteeLoc)
	}

	return CalculateAvailableSlotsResult{
		Slots:    accepted,
		Warnings: warnings,
		Metrics: PerformanceMetrics{
			Duration:           time.Since(started),
			TotalSlotsComputed: len(accepted),
			DateRangeDays:      dayCount,
		},
	}, nil
}

// processDay resolves rules, enumerates slots, then filters blocks and
// conflicts for a single date, recovering from any panic in the per-slot
// pipeline so one malformed slot cannot drop the whole day — it is
// logged and skipped instead.
func (h *CalculateAvailableSlotsHandler) processDay(
	ctx context.Context,
	organizerID, eventTypeID uuid.UUID,
	date time.Time,
	organizerLoc *time.Location,
	durationMinutes, slotIntervalMinutes, bufferBeforeMin, bufferAfterMin, minimumGapMin, attendeeCount int,
	isGroupEvent bool,
	maxAttendees int,
) (out []domain.Slot, err error) {
	intervals, err := h.resolver.DailyAvailableIntervals(ctx, organizerID, eventTypeID, date)
	if err != nil {
		return nil, err
	}

	candidates := h.enumerator.Enumerate(date, organizerLoc, intervals, durationMinutes, slotIntervalMinutes)

	for _, slot := range candidates {
		accept, slotErr := h.evaluateSlot(ctx, organizerID, eventTypeID, slot, date, organizerLoc, bufferBeforeMin, bufferAfterMin, minimumGapMin, attendeeCount, isGroupEvent, maxAttendees)
		if slotErr != nil {
			h.logger.Debug("slot dropped", "organizer_id", organizerID, "slot_start", slot.Start, "error", slotErr)
			continue
		}
		if accept {
			out = append(out, slot)
		}
	}
	return out, nil
}

func (h *CalculateAvailableSlotsHandler) evaluateSlot(
	ctx context.Context,
	organizerID, eventTypeID uuid.UUID,
	slot domain.Slot,
	date time.Time,
	loc *time.Location,
	bufferBeforeMin, bufferAfterMin, minimumGapMin, attendeeCount int,
	isGroupEvent bool,
	maxAttendees int,
) (accept bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			accept = false
			err = fmt.Errorf("%w: panic: %v", domain.ErrUnexpected, r)
		}
	}()

	blocked, err := h.blockFilter.IsSlotBlocked(ctx, organizerID, eventTypeID, slot, date, loc)
	if err != nil {
		return false, err
	}
	if blocked {
		return false, nil
	}

	conflicting, err := h.conflict.IsSlotConflicting(ctx, organizerID, eventTypeID, slot, attendeeCount, bufferBeforeMin, bufferAfterMin, minimumGapMin, isGroupEvent, maxAttendees)
	if err != nil {
		return false, err
	}
	return !conflicting, nil
}
