package domain

import "time"

// Slot is a candidate bookable start time, always carried internally as
// an absolute UTC instant. It holds no reference back to the rules or
// blocks that produced it — enrichment fields are attached by value as
// the pipeline progresses.
type Slot struct {
	Start          time.Time
	End            time.Time
	DurationMin    int
	LocalStart     *time.Time
	LocalEnd       *time.Time
	IsDST          *bool
	InviteeTimes   map[string]InviteeTime
	FairnessScore  *float64
}

// NewSlot constructs a bare slot with no enrichment.
func NewSlot(start time.Time, durationMinutes int) Slot {
	return Slot{
		Start:       start,
		End:         start.Add(time.Duration(durationMinutes) * time.Minute),
		DurationMin: durationMinutes,
	}
}

// ProtectedZone returns the slot's own candidate protected zone, padded by
// the requested before/after buffers.
func (s Slot) ProtectedZone(bufferBeforeMin, bufferAfterMin int) (time.Time, time.Time) {
	before := time.Duration(bufferBeforeMin) * time.Minute
	after := time.Duration(bufferAfterMin) * time.Minute
	return s.Start.Add(-before), s.End.Add(after)
}

// InviteeTime is per-invitee-timezone enrichment of a Slot, computed by
// the multi-invitee intersector.
type InviteeTime struct {
	Timezone     string
	Start        time.Time
	End          time.Time
	StartHour    int
	EndHour      int
	IsReasonable bool
}

// WithLocalEnrichment returns a copy of s annotated with local start/end
// and a DST flag, applied when exactly one invitee timezone is known.
func (s Slot) WithLocalEnrichment(loc *time.Location) Slot {
	localStart := s.Start.In(loc)
	localEnd := s.End.In(loc)
	isDST := localStart.IsDST()
	out := s
	out.LocalStart = &localStart
	out.LocalEnd = &localEnd
	out.IsDST = &isDST
	return out
}
