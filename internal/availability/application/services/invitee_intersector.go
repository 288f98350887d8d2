package services

import (
	"sort"
	"time"

	"github.com/slotforge/availability/internal/availability/domain"
)

// ReasonableHours bounds what counts as a civilized local hour for an
// invitee, inclusive on both ends.
type ReasonableHours struct {
	Start int
	End   int
}

// DefaultReasonableHours matches the organizer-configurable default of
// 9 through 18.
func DefaultReasonableHours() ReasonableHours {
	return ReasonableHours{Start: 9, End: 18}
}

// InviteeIntersector annotates UTC slots with per-invitee local times and
// a fairness score, then sorts by fairness.
type InviteeIntersector struct {
	reasonable ReasonableHours
}

// NewInviteeIntersector constructs an InviteeIntersector with the given
// reasonable-hours window.
func NewInviteeIntersector(reasonable ReasonableHours) *InviteeIntersector {
	return &InviteeIntersector{reasonable: reasonable}
}

// Intersect enriches every slot with per-timezone local times and a
// fairness score, then sorts descending by fairness with ties broken by
// chronological order. Zones that fail to resolve are logged by the
// caller and simply omitted from a slot's invitee-time map; the slot
// itself always survives. Intersect is only meaningful for n >= 2 zones;
// callers with fewer should use the single-zone DST enrichment instead.
func (in *InviteeIntersector) Intersect(slots []domain.Slot, zones []*time.Location, zoneNames []string) ([]domain.Slot, []string) {
	var warnings []string
	n := len(zones)
	enriched := make([]domain.Slot, len(slots))
	copy(enriched, slots)

	spreads := make([]float64, len(enriched))
	for i, slot := range enriched {
		times := make(map[string]domain.InviteeTime, n)
		reasonableCount := 0
		var resolved []*time.Location
		for zi, loc := range zones {
			if loc == nil {
				warnings = append(warnings, "invalid invitee timezone: "+zoneNames[zi])
				continue
			}
			resolved = append(resolved, loc)
			localStart := slot.Start.In(loc)
			localEnd := slot.End.In(loc)
			isReasonable := localStart.Hour() >= in.reasonable.Start && localStart.Hour() <= in.reasonable.End
			if isReasonable {
				reasonableCount++
			}
			times[zoneNames[zi]] = domain.InviteeTime{
				Timezone:     zoneNames[zi],
				Start:        localStart,
				End:          localEnd,
				StartHour:    localStart.Hour(),
				EndHour:      localEnd.Hour(),
				IsReasonable: isReasonable,
			}
		}
		score := float64(reasonableCount) / float64(n)
		enriched[i].InviteeTimes = times
		enriched[i].FairnessScore = &score
		spreads[i] = maxPairwiseOffsetSpread(slot.Start, resolved)
	}

	order := make([]int, len(enriched))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		a, b := order[i], order[j]
		sa, sb := *enriched[a].FairnessScore, *enriched[b].FairnessScore
		if sa != sb {
			return sa > sb
		}
		if spreads[a] != spreads[b] {
			return spreads[a] < spreads[b]
		}
		return enriched[a].Start.Before(enriched[b].Start)
	})

	sorted := make([]domain.Slot, len(enriched))
	for i, idx := range order {
		sorted[i] = enriched[idx]
	}

	return sorted, warnings
}

// maxPairwiseOffsetSpread returns the widest UTC-offset gap, in hours,
// between any two of the given zones at the reference instant — a measure
// of how far apart the invitees' clocks sit, used to prefer slots where
// "reasonable hours" generalizes across the whole party rather than
// happening to land well for a subset.
func maxPairwiseOffsetSpread(reference time.Time, zones []*time.Location) float64 {
	var max float64
	for i := range zones {
		for j := i + 1; j < len(zones); j++ {
			spread := domain.TimezoneOffsetHours(reference, zones[i], zones[j])
			if spread < 0 {
				spread = -spread
			}
			if spread > max {
				max = spread
			}
		}
	}
	return max
}

// EnrichSingleZone applies DST/local-time enrichment for the single-zone
// case (n <= 1), which always runs regardless of invitee count.
// Resolution failures leave the slot untouched rather than failing the
// pipeline.
func (in *InviteeIntersector) EnrichSingleZone(slots []domain.Slot, loc *time.Location) []domain.Slot {
	if loc == nil {
		return slots
	}
	enriched := make([]domain.Slot, len(slots))
	for i, slot := range slots {
		enriched[i] = slot.WithLocalEnrichment(loc)
	}
	return enriched
}
