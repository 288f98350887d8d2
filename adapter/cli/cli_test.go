package cli

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slotforge/availability/internal/availability/application/queries"
	"github.com/slotforge/availability/internal/availability/application/services"
	"github.com/slotforge/availability/internal/availability/domain"
	"github.com/slotforge/availability/internal/availability/infrastructure/cache"
	"github.com/slotforge/availability/internal/availability/infrastructure/persistence"
)

type stubOrganizerRepo struct{ timezone string }

func (s stubOrganizerRepo) Timezone(ctx context.Context, organizerID uuid.UUID) (string, error) {
	return s.timezone, nil
}

type stubEventTypeRepo struct{ view domain.EventTypeView }

func (s stubEventTypeRepo) FindBySlug(ctx context.Context, organizerID uuid.UUID, slug string) (domain.EventTypeView, error) {
	if slug != s.view.Slug {
		return domain.EventTypeView{}, fmt.Errorf("%w: no such event type", domain.ErrPersistence)
	}
	return s.view, nil
}

type stubBufferRepo struct{ bt domain.BufferTime }

func (s stubBufferRepo) GetOrCreate(ctx context.Context, organizerID uuid.UUID) (domain.BufferTime, error) {
	return s.bt, nil
}

type stubRuleRepo struct{ rule *domain.AvailabilityRule }

func (s stubRuleRepo) ActiveAvailabilityRules(ctx context.Context, organizerID uuid.UUID, day domain.Weekday) ([]*domain.AvailabilityRule, error) {
	if s.rule == nil || s.rule.Day() != day {
		return nil, nil
	}
	return []*domain.AvailabilityRule{s.rule}, nil
}
func (s stubRuleRepo) ActiveDateOverrides(ctx context.Context, organizerID uuid.UUID, date time.Time) ([]*domain.DateOverrideRule, error) {
	return nil, nil
}

type stubBlockRepo struct{}

func (stubBlockRepo) ActiveBlockedTimes(ctx context.Context, organizerID uuid.UUID, from, to time.Time) ([]*domain.BlockedTime, error) {
	return nil, nil
}
func (stubBlockRepo) ActiveRecurringBlocks(ctx context.Context, organizerID uuid.UUID, day domain.Weekday) ([]*domain.RecurringBlockedTime, error) {
	return nil, nil
}

type stubBookingRepo struct{}

func (stubBookingRepo) ActiveBookings(ctx context.Context, organizerID uuid.UUID, from, to time.Time) ([]domain.BookingView, error) {
	return nil, nil
}

func mustTOD(t *testing.T, hour, minute int) domain.TimeOfDay {
	t.Helper()
	tod, err := domain.NewTimeOfDay(hour, minute)
	require.NoError(t, err)
	return tod
}

func newTestApp(t *testing.T) (*App, uuid.UUID) {
	t.Helper()
	organizerID := uuid.New()
	eventTypeID := uuid.New()

	rule, err := domain.NewAvailabilityRule(uuid.New(), organizerID, domain.Monday, mustTOD(t, 9, 0), mustTOD(t, 17, 0), nil, true)
	require.NoError(t, err)

	organizers := stubOrganizerRepo{timezone: "UTC"}
	eventTypes := stubEventTypeRepo{view: domain.EventTypeView{ID: eventTypeID, Slug: "intro-call", OrganizerID: organizerID, DurationMinutes: 30, MaxAttendees: 1}}
	buffers := stubBufferRepo{bt: domain.NewDefaultBufferTime(organizerID)}
	rules := stubRuleRepo{rule: rule}

	resolver := services.NewRuleResolver(rules)
	blockFilter := services.NewBlockFilter(stubBlockRepo{}, rules)
	conflict := services.NewConflictFilter(stubBookingRepo{})
	enumerator := services.NewSlotEnumerator()

	calculate := queries.NewCalculateAvailableSlotsHandler(organizers, eventTypes, buffers, resolver, blockFilter, conflict, enumerator, nil)
	dirty := cache.NewDirtySet(cache.NewInMemoryCache())
	syncer := persistence.NewCalendarSyncer("https://caldav.example.com", "user", "pass", nil, nil)

	return NewApp(calculate, dirty, nil, syncer), organizerID
}

func TestApp_SetAndGetApp(t *testing.T) {
	app, _ := newTestApp(t)
	SetApp(app)
	defer SetApp(nil)

	assert.Same(t, app, GetApp())
}

func TestSlotsCmd_HappyPath(t *testing.T) {
	app, organizerID := newTestApp(t)
	SetApp(app)
	defer SetApp(nil)

	slotsOrganizerID = organizerID.String()
	slotsEventType = "intro-call"
	slotsStart = "2026-06-01"
	slotsEnd = "2026-06-01"
	slotsInviteeTZ = ""
	slotsInviteeTZs = ""
	slotsAttendeeCt = 1

	slotsCmd.SetContext(context.Background())
	require.NoError(t, slotsCmd.RunE(slotsCmd, nil))
}

func TestSlotsCmd_InvalidOrganizer(t *testing.T) {
	app, _ := newTestApp(t)
	SetApp(app)
	defer SetApp(nil)

	slotsOrganizerID = "not-a-uuid"
	slotsEventType = "intro-call"
	slotsStart = "2026-06-01"
	slotsEnd = "2026-06-01"

	slotsCmd.SetContext(context.Background())
	err := slotsCmd.RunE(slotsCmd, nil)
	assert.Error(t, err)
}

func TestSlotsCmd_InvalidDate(t *testing.T) {
	app, organizerID := newTestApp(t)
	SetApp(app)
	defer SetApp(nil)

	slotsOrganizerID = organizerID.String()
	slotsEventType = "intro-call"
	slotsStart = "06/01/2026"
	slotsEnd = "2026-06-01"

	slotsCmd.SetContext(context.Background())
	err := slotsCmd.RunE(slotsCmd, nil)
	assert.Error(t, err)
}

func TestSlotsCmd_NoAppConfigured(t *testing.T) {
	SetApp(nil)

	slotsOrganizerID = uuid.New().String()
	slotsEventType = "intro-call"
	slotsStart = "2026-06-01"
	slotsEnd = "2026-06-01"

	slotsCmd.SetContext(context.Background())
	require.NoError(t, slotsCmd.RunE(slotsCmd, nil))
}

func TestCacheCmds_MarkListClearDirty(t *testing.T) {
	app, organizerID := newTestApp(t)
	SetApp(app)
	defer SetApp(nil)
	ctx := context.Background()

	markDirtyOrganizerID = organizerID.String()
	markDirtyFull = true
	markDirtyReason = "manual test"
	markDirtyCmd.SetContext(ctx)
	require.NoError(t, markDirtyCmd.RunE(markDirtyCmd, nil))

	ids, err := app.DirtySet.ListDirty(ctx)
	require.NoError(t, err)
	assert.Contains(t, ids, organizerID)

	listDirtyCmd.SetContext(ctx)
	require.NoError(t, listDirtyCmd.RunE(listDirtyCmd, nil))

	clearDirtyOrganizerID = organizerID.String()
	clearDirtyCmd.SetContext(ctx)
	require.NoError(t, clearDirtyCmd.RunE(clearDirtyCmd, nil))

	ids, err = app.DirtySet.ListDirty(ctx)
	require.NoError(t, err)
	assert.NotContains(t, ids, organizerID)
}

func TestMarkDirtyCmd_InvalidOrganizer(t *testing.T) {
	app, _ := newTestApp(t)
	SetApp(app)
	defer SetApp(nil)

	markDirtyOrganizerID = "not-a-uuid"
	markDirtyCmd.SetContext(context.Background())
	assert.Error(t, markDirtyCmd.RunE(markDirtyCmd, nil))
}

func TestCacheCmds_NoAppConfigured(t *testing.T) {
	SetApp(nil)
	ctx := context.Background()

	markDirtyOrganizerID = uuid.New().String()
	markDirtyCmd.SetContext(ctx)
	require.NoError(t, markDirtyCmd.RunE(markDirtyCmd, nil))

	listDirtyCmd.SetContext(ctx)
	require.NoError(t, listDirtyCmd.RunE(listDirtyCmd, nil))

	clearDirtyOrganizerID = uuid.New().String()
	clearDirtyCmd.SetContext(ctx)
	require.NoError(t, clearDirtyCmd.RunE(clearDirtyCmd, nil))
}

func TestServeCmd_NoAppConfigured(t *testing.T) {
	SetApp(nil)
	serveCmd.SetContext(context.Background())
	require.NoError(t, serveCmd.RunE(serveCmd, nil))
}

func TestSyncCmd_NoAppConfigured(t *testing.T) {
	SetApp(nil)
	syncOrganizerID = uuid.New().String()
	syncCmd.SetContext(context.Background())
	require.NoError(t, syncCmd.RunE(syncCmd, nil))
}

func TestSyncCmd_InvalidOrganizer(t *testing.T) {
	app, _ := newTestApp(t)
	SetApp(app)
	defer SetApp(nil)

	syncOrganizerID = "not-a-uuid"
	syncCmd.SetContext(context.Background())
	err := syncCmd.RunE(syncCmd, nil)
	assert.Error(t, err)
}
