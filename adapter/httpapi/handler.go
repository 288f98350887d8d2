package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/slotforge/availability/internal/availability/application/queries"
	"github.com/slotforge/availability/internal/availability/domain"
	"github.com/slotforge/availability/internal/availability/infrastructure/cache"
)

const dateLayout = "2006-01-02"

// Handler adapts gin requests onto the availability query handler and
// the cache dirty-set.
type Handler struct {
	calculate *queries.CalculateAvailableSlotsHandler
	dirty     cache.DirtyMarker
}

// NewHandler constructs a Handler over the given query handler and
// dirty-set tracker.
func NewHandler(calculate *queries.CalculateAvailableSlotsHandler, dirty cache.DirtyMarker) *Handler {
	return &Handler{calculate: calculate, dirty: dirty}
}

type calculateSlotsRequest struct {
	EventTypeSlug    string   `json:"event_type_slug" binding:"required"`
	StartDate        string   `json:"start_date" binding:"required"`
	EndDate          string   `json:"end_date" binding:"required"`
	InviteeTimezone  string   `json:"invitee_timezone"`
	InviteeTimezones []string `json:"invitee_timezones"`
	AttendeeCount    int      `json:"attendee_count"`
}

// CalculateSlots handles POST /v1/organizers/:organizerId/availability.
func (h *Handler) CalculateSlots(c *gin.Context) {
	organizerID, err := uuid.Parse(c.Param("organizerId"))
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid organizer id")
		return
	}

	var req calculateSlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}

	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		writeError(c, http.StatusBadRequest, "start_date must be YYYY-MM-DD")
		return
	}
	endDate, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		writeError(c, http.StatusBadRequest, "end_date must be YYYY-MM-DD")
		return
	}

	result, err := h.calculate.Handle(c.Request.Context(), queries.CalculateAvailableSlotsQuery{
		OrganizerID:      organizerID,
		EventTypeSlug:    req.EventTypeSlug,
		StartDate:        startDate,
		EndDate:          endDate,
		InviteeTimezone:  req.InviteeTimezone,
		InviteeTimezones: req.InviteeTimezones,
		AttendeeCount:    req.AttendeeCount,
	})
	if err != nil {
		writeError(c, statusForError(err), err.Error())
		return
	}

	c.JSON(http.StatusOK, toSlotsResponse(result))
}

type invalidateRequest struct {
	EventTypeID              *uuid.UUID `json:"event_type_id"`
	StartDate                *string    `json:"start_date"`
	EndDate                  *string    `json:"end_date"`
	RequiresFullInvalidation bool       `json:"requires_full_invalidation"`
}

// InvalidateCache handles POST
// /v1/organizers/:organizerId/availability/invalidate.
func (h *Handler) InvalidateCache(c *gin.Context) {
	organizerID, err := uuid.Parse(c.Param("organizerId"))
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid organizer id")
		return
	}

	var req invalidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}

	extras := map[string]any{}
	if req.EventTypeID != nil {
		extras["event_type_id"] = req.EventTypeID.String()
	}
	if req.StartDate != nil {
		extras["start_date"] = *req.StartDate
	}
	if req.EndDate != nil {
		extras["end_date"] = *req.EndDate
	}

	if err := h.dirty.MarkDirty(c.Request.Context(), organizerID, "availability", req.RequiresFullInvalidation, extras, time.Now().UTC()); err != nil {
		writeError(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.Status(http.StatusNoContent)
}

// ListDirty handles GET /v1/organizers/:organizerId/availability/dirty.
func (h *Handler) ListDirty(c *gin.Context) {
	organizerID, err := uuid.Parse(c.Param("organizerId"))
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid organizer id")
		return
	}

	ids, err := h.dirty.ListDirty(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, err.Error())
		return
	}

	dirty := false
	for _, id := range ids {
		if id == organizerID {
			dirty = true
			break
		}
	}
	c.JSON(http.StatusOK, gin.H{"organizer_id": organizerID, "dirty": dirty})
}

type slotResponse struct {
	Start         time.Time                      `json:"start"`
	End           time.Time                      `json:"end"`
	DurationMin   int                            `json:"duration_minutes"`
	FairnessScore *float64                       `json:"fairness_score,omitempty"`
	InviteeTimes  map[string]domain.InviteeTime  `json:"invitee_times,omitempty"`
}

type slotsResponse struct {
	Slots              []slotResponse `json:"slots"`
	Warnings           []string       `json:"warnings,omitempty"`
	TotalSlotsComputed int            `json:"total_slots_computed"`
	DateRangeDays      int            `json:"date_range_days"`
	DurationMs         int64          `json:"duration_ms"`
}

func toSlotsResponse(result queries.CalculateAvailableSlotsResult) slotsResponse {
	slots := make([]slotResponse, 0, len(result.Slots))
	for _, s := range result.Slots {
		slots = append(slots, slotResponse{
			Start:         s.Start,
			End:           s.End,
			DurationMin:   s.DurationMin,
			FairnessScore: s.FairnessScore,
			InviteeTimes:  s.InviteeTimes,
		})
	}
	return slotsResponse{
		Slots:              slots,
		Warnings:           result.Warnings,
		TotalSlotsComputed: result.Metrics.TotalSlotsComputed,
		DateRangeDays:      result.Metrics.DateRangeDays,
		DurationMs:         result.Metrics.Duration.Milliseconds(),
	}
}

func writeError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": http.StatusText(status), "message": message})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidDateRange), errors.Is(err, domain.ErrInvalidTimezone):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrPersistence):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
