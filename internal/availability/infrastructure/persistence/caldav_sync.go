package persistence

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-webdav"
	"github.com/emersion/go-webdav/caldav"
	"github.com/google/uuid"

	"github.com/slotforge/availability/internal/availability/domain"
)

// PropSlotforgeBlock marks an event the syncer itself wrote to the
// remote calendar, so a future sync pass can tell its own round-trip
// copies apart from events organized on the external calendar.
const PropSlotforgeBlock = "X-SLOTFORGE-BLOCK"

// CalendarSyncer pulls busy windows from an external CalDAV calendar
// (Apple Calendar, Fastmail, Nextcloud, Google via CalDAV bridge) and
// upserts them as BlockedTime rows with BlockSourceExternalCalendar.
// Writes go through a BlockWriter — the manual API path never touches
// these rows directly.
type CalendarSyncer struct {
	baseURL      string
	username     string
	password     string
	calendarPath string
	writer       domain.BlockWriter
	logger       *slog.Logger
}

// NewCalendarSyncer constructs a syncer against the given CalDAV
// endpoint, writing synced blocks through writer.
func NewCalendarSyncer(baseURL, username, password string, writer domain.BlockWriter, logger *slog.Logger) *CalendarSyncer {
	if logger == nil {
		logger = slog.Default()
	}
	return &CalendarSyncer{
		baseURL:  baseURL,
		username: username,
		password: password,
		writer:   writer,
		logger:   logger,
	}
}

// WithCalendarPath pins the syncer to a specific calendar path instead
// of discovering the user's default calendar on every sync.
func (s *CalendarSyncer) WithCalendarPath(path string) *CalendarSyncer {
	s.calendarPath = path
	return s
}

// SyncResult summarizes one sync pass.
type SyncResult struct {
	Upserted int
	Deleted  int
	Failed   int
}

// Sync queries the remote calendar's VEVENTs overlapping [from, to) and
// upserts them as blocked windows, then removes any previously-synced
// block in that window whose remote event disappeared.
func (s *CalendarSyncer) Sync(ctx context.Context, organizerID uuid.UUID, from, to time.Time) (*SyncResult, error) {
	client, err := s.client()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnexpected, err)
	}

	calPath, err := s.resolveCalendarPath(ctx, client)
	if err != nil {
		return nil, fmt.Errorf("%w: resolving calendar path: %w", domain.ErrUnexpected, err)
	}

	query := &caldav.CalendarQuery{
		CompRequest: caldav.CalendarCompRequest{
			Name:  "VCALENDAR",
			Props: []string{"VERSION"},
			Comps: []caldav.CalendarCompRequest{
				{
					Name:  "VEVENT",
					Props: []string{"SUMMARY", "DTSTART", "DTEND", "UID", "STATUS"},
				},
			},
		},
		CompFilter: caldav.CompFilter{
			Name: "VCALENDAR",
			Comps: []caldav.CompFilter{
				{Name: "VEVENT", Start: from, End: to},
			},
		},
	}

	objects, err := client.QueryCalendar(ctx, calPath, query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying calendar: %w", domain.ErrUnexpected, err)
	}

	result := &SyncResult{}
	keepExternalIDs := make([]string, 0, len(objects))

	for _, obj := range objects {
		event := parseBusyWindow(&obj)
		if event == nil {
			continue
		}
		keepExternalIDs = append(keepExternalIDs, event.externalID)

		block, err := domain.NewSyncedBlockedTime(uuid.New(), organizerID, event.start, event.end, event.summary, event.externalID, true)
		if err != nil {
			s.logger.Warn("skipping unsyncable remote event", "external_id", event.externalID, "error", err)
			result.Failed++
			continue
		}
		if err := s.writer.UpsertSyncedBlock(ctx, block); err != nil {
			s.logger.Warn("failed to upsert synced block", "external_id", event.externalID, "error", err)
			result.Failed++
			continue
		}
		result.Upserted++
	}

	deleted, err := s.writer.DeleteStaleSyncedBlocks(ctx, organizerID, keepExternalIDs, from, to)
	if err != nil {
		s.logger.Warn("failed to prune stale synced blocks", "organizer_id", organizerID, "error", err)
	} else {
		result.Deleted = deleted
	}

	return result, nil
}

func (s *CalendarSyncer) client() (*caldav.Client, error) {
	httpClient := &http.Client{
		Timeout:   30 * time.Second,
		Transport: &basicAuthTransport{username: s.username, password: s.password, base: http.DefaultTransport},
	}
	client, err := caldav.NewClient(webdav.HTTPClientWithBasicAuth(httpClient, s.username, s.password), s.baseURL)
	if err != nil {
		return nil, fmt.Errorf("creating caldav client: %w", err)
	}
	return client, nil
}

func (s *CalendarSyncer) resolveCalendarPath(ctx context.Context, client *caldav.Client) (string, error) {
	if s.calendarPath != "" {
		return s.calendarPath, nil
	}
	principal, err := client.FindCurrentUserPrincipal(ctx)
	if err != nil {
		return "", err
	}
	homeSet, err := client.FindCalendarHomeSet(ctx, principal)
	if err != nil {
		return "", err
	}
	cals, err := client.FindCalendars(ctx, homeSet)
	if err != nil {
		return "", err
	}
	if len(cals) == 0 {
		return "", fmt.Errorf("no calendars found for principal %s", principal)
	}
	return cals[0].Path, nil
}

type remoteBusyWindow struct {
	externalID string
	summary    string
	start      time.Time
	end        time.Time
}

// parseBusyWindow extracts the fields needed to record a block from one
// VEVENT. Cancelled events are skipped since they no longer occupy time.
func parseBusyWindow(obj *caldav.CalendarObject) *remoteBusyWindow {
	if obj == nil || obj.Data == nil {
		return nil
	}
	for _, child := range obj.Data.Children {
		if child.Name != ical.CompEvent {
			continue
		}
		icalEvent := &ical.Event{Component: child}

		if props := child.Props[ical.PropStatus]; len(props) > 0 && props[0].Value == "CANCELLED" {
			return nil
		}

		start, err := icalEvent.DateTimeStart(time.UTC)
		if err != nil || start.IsZero() {
			return nil
		}
		end, err := icalEvent.DateTimeEnd(time.UTC)
		if err != nil {
			return nil
		}

		externalID := obj.Path
		if props := child.Props[ical.PropUID]; len(props) > 0 {
			externalID = props[0].Value
		}
		summary := "Busy (synced)"
		if props := child.Props[ical.PropSummary]; len(props) > 0 {
			summary = props[0].Value
		}

		return &remoteBusyWindow{externalID: externalID, summary: summary, start: start, end: end}
	}
	return nil
}

type basicAuthTransport struct {
	username string
	password string
	base     http.RoundTripper
}

func (t *basicAuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.SetBasicAuth(t.username, t.password)
	return t.base.RoundTrip(req)
}
