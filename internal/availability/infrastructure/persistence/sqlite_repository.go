package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/slotforge/availability/internal/availability/domain"
	_ "modernc.org/sqlite"
)

// SQLiteRepository implements every read-only repository interface
// against an embedded SQLite database, for local/offline mode. As in
// the Postgres driver, queries are hand-written, here against
// database/sql — no generated query layer is used, since nothing in this
// module runs a code generator.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository wraps an existing *sql.DB opened against the
// modernc.org/sqlite driver.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const sqliteTimeLayout = time.RFC3339
const sqliteDateLayout = "2006-01-02"

// ActiveAvailabilityRules implements domain.RuleRepository.
func (r *SQLiteRepository) ActiveAvailabilityRules(ctx context.Context, organizerID uuid.UUID, day domain.Weekday) ([]*domain.AvailabilityRule, error) {
	const query = `
		SELECT id, organizer_id, start_hour, start_minute, end_hour, end_minute, event_type_scope
		FROM availability_rules
		WHERE organizer_id = ? AND day_of_week = ? AND active = 1
	`
	rows, err := r.db.QueryContext(ctx, query, organizerID.String(), int(day))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	defer rows.Close()

	var rules []*domain.AvailabilityRule
	for rows.Next() {
		var (
			idStr, orgIDStr                           string
			startHour, startMinute, endHour, endMinute int
			scopeCSV                                  sql.NullString
		)
		if err := rows.Scan(&idStr, &orgIDStr, &startHour, &startMinute, &endHour, &endMinute, &scopeCSV); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
		}
		id, orgID, err := parseIDPair(idStr, orgIDStr)
		if err != nil {
			continue
		}
		start, err1 := domain.NewTimeOfDay(startHour, startMinute)
		end, err2 := domain.NewTimeOfDay(endHour, endMinute)
		if err1 != nil || err2 != nil {
			continue
		}
		rule, err := domain.NewAvailabilityRule(id, orgID, day, start, end, parseScope(scopeCSV), true)
		if err != nil {
			continue
		}
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

// ActiveDateOverrides implements domain.RuleRepository.
func (r *SQLiteRepository) ActiveDateOverrides(ctx context.Context, organizerID uuid.UUID, date time.Time) ([]*domain.DateOverrideRule, error) {
	const query = `
		SELECT id, organizer_id, override_date, is_available, start_hour, start_minute, end_hour, end_minute, event_type_scope, reason
		FROM date_override_rules
		WHERE organizer_id = ? AND override_date = ? AND active = 1
	`
	rows, err := r.db.QueryContext(ctx, query, organizerID.String(), date.Format(sqliteDateLayout))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	defer rows.Close()

	var overrides []*domain.DateOverrideRule
	for rows.Next() {
		var (
			idStr, orgIDStr, dateStr string
			isAvailable              bool
			startHour, startMinute   sql.NullInt64
			endHour, endMinute       sql.NullInt64
			scopeCSV                 sql.NullString
			reason                   string
		)
		if err := rows.Scan(&idStr, &orgIDStr, &dateStr, &isAvailable, &startHour, &startMinute, &endHour, &endMinute, &scopeCSV, &reason); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
		}
		id, orgID, err := parseIDPair(idStr, orgIDStr)
		if err != nil {
			continue
		}
		overrideDate, err := time.Parse(sqliteDateLayout, dateStr)
		if err != nil {
			continue
		}

		var start, end *domain.TimeOfDay
		if startHour.Valid && startMinute.Valid {
			t, err := domain.NewTimeOfDay(int(startHour.Int64), int(startMinute.Int64))
			if err == nil {
				start = &t
			}
		}
		if endHour.Valid && endMinute.Valid {
			t, err := domain.NewTimeOfDay(int(endHour.Int64), int(endMinute.Int64))
			if err == nil {
				end = &t
			}
		}

		override, err := domain.NewDateOverrideRule(id, orgID, overrideDate, isAvailable, start, end, parseScope(scopeCSV), reason, true)
		if err != nil {
			continue
		}
		overrides = append(overrides, override)
	}
	return overrides, rows.Err()
}

// ActiveBlockedTimes implements domain.BlockRepository.
func (r *SQLiteRepository) ActiveBlockedTimes(ctx context.Context, organizerID uuid.UUID, from, to time.Time) ([]*domain.BlockedTime, error) {
	const query = `
		SELECT id, organizer_id, start_time, end_time, reason, source, external_id
		FROM blocked_times
		WHERE organizer_id = ? AND active = 1 AND start_time < ? AND end_time > ?
	`
	rows, err := r.db.QueryContext(ctx, query, organizerID.String(), to.Format(sqliteTimeLayout), from.Format(sqliteTimeLayout))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	defer rows.Close()

	var blocks []*domain.BlockedTime
	for rows.Next() {
		var idStr, orgIDStr, startStr, endStr, reason, source string
		var extID sql.NullString
		if err := rows.Scan(&idStr, &orgIDStr, &startStr, &endStr, &reason, &source, &extID); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
		}
		id, orgID, err := parseIDPair(idStr, orgIDStr)
		if err != nil {
			continue
		}
		start, err1 := time.Parse(sqliteTimeLayout, startStr)
		end, err2 := time.Parse(sqliteTimeLayout, endStr)
		if err1 != nil || err2 != nil {
			continue
		}

		var block *domain.BlockedTime
		var blockErr error
		if domain.BlockSource(source) == domain.BlockSourceExternalCalendar {
			block, blockErr = domain.NewSyncedBlockedTime(id, orgID, start, end, reason, extID.String, true)
		} else {
			block, blockErr = domain.NewManualBlockedTime(id, orgID, start, end, reason, true)
		}
		if blockErr != nil {
			continue
		}
		blocks = append(blocks, block)
	}
	return blocks, rows.Err()
}

// ActiveRecurringBlocks implements domain.BlockRepository.
func (r *SQLiteRepository) ActiveRecurringBlocks(ctx context.Context, organizerID uuid.UUID, day domain.Weekday) ([]*domain.RecurringBlockedTime, error) {
	const query = `
		SELECT id, organizer_id, name, start_hour, start_minute, end_hour, end_minute, start_date, end_date
		FROM recurring_blocked_times
		WHERE organizer_id = ? AND day_of_week = ? AND active = 1
	`
	rows, err := r.db.QueryContext(ctx, query, organizerID.String(), int(day))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	defer rows.Close()

	var blocks []*domain.RecurringBlockedTime
	for rows.Next() {
		var (
			idStr, orgIDStr                             string
			name                                         string
			startHour, startMinute, endHour, endMinute   int
			startDateStr, endDateStr                     sql.NullString
		)
		if err := rows.Scan(&idStr, &orgIDStr, &name, &startHour, &startMinute, &endHour, &endMinute, &startDateStr, &endDateStr); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
		}
		id, orgID, err := parseIDPair(idStr, orgIDStr)
		if err != nil {
			continue
		}
		start, err1 := domain.NewTimeOfDay(startHour, startMinute)
		end, err2 := domain.NewTimeOfDay(endHour, endMinute)
		if err1 != nil || err2 != nil {
			continue
		}

		var startDate, endDate *time.Time
		if startDateStr.Valid {
			if t, err := time.Parse(sqliteDateLayout, startDateStr.String); err == nil {
				startDate = &t
			}
		}
		if endDateStr.Valid {
			if t, err := time.Parse(sqliteDateLayout, endDateStr.String); err == nil {
				endDate = &t
			}
		}

		block, err := domain.NewRecurringBlockedTime(id, orgID, name, day, start, end, startDate, endDate, true)
		if err != nil {
			continue
		}
		blocks = append(blocks, block)
	}
	return blocks, rows.Err()
}

// ActiveBookings implements domain.BookingRepository.
func (r *SQLiteRepository) ActiveBookings(ctx context.Context, organizerID uuid.UUID, from, to time.Time) ([]domain.BookingView, error) {
	const query = `
		SELECT id, organizer_id, event_type_id, start_time, end_time, status, attendee_count
		FROM bookings
		WHERE organizer_id = ? AND status = 'confirmed' AND start_time < ? AND end_time > ?
	`
	rows, err := r.db.QueryContext(ctx, query, organizerID.String(), to.Format(sqliteTimeLayout), from.Format(sqliteTimeLayout))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	defer rows.Close()

	var bookings []domain.BookingView
	for rows.Next() {
		var idStr, orgIDStr, eventTypeIDStr, startStr, endStr, status string
		var attendeeCount int
		if err := rows.Scan(&idStr, &orgIDStr, &eventTypeIDStr, &startStr, &endStr, &status, &attendeeCount); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
		}
		id, orgID, err := parseIDPair(idStr, orgIDStr)
		if err != nil {
			continue
		}
		eventTypeID, err := uuid.Parse(eventTypeIDStr)
		if err != nil {
			continue
		}
		start, err1 := time.Parse(sqliteTimeLayout, startStr)
		end, err2 := time.Parse(sqliteTimeLayout, endStr)
		if err1 != nil || err2 != nil {
			continue
		}
		bookings = append(bookings, domain.BookingView{
			ID:            id,
			OrganizerID:   orgID,
			EventTypeID:   eventTypeID,
			Start:         start,
			End:           end,
			Status:        domain.BookingStatus(status),
			AttendeeCount: attendeeCount,
		})
	}
	return bookings, rows.Err()
}

// GetOrCreate implements domain.BufferRepository.
func (r *SQLiteRepository) GetOrCreate(ctx context.Context, organizerID uuid.UUID) (domain.BufferTime, error) {
	const selectQuery = `SELECT buffer_before, buffer_after, minimum_gap, slot_interval FROM buffer_times WHERE organizer_id = ?`
	var bt domain.BufferTime
	bt.OrganizerID = organizerID
	err := r.db.QueryRowContext(ctx, selectQuery, organizerID.String()).Scan(&bt.BufferBefore, &bt.BufferAfter, &bt.MinimumGap, &bt.SlotInterval)
	if err == nil {
		return bt, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return domain.BufferTime{}, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}

	defaults := domain.NewDefaultBufferTime(organizerID)
	const insertQuery = `
		INSERT INTO buffer_times (organizer_id, buffer_before, buffer_after, minimum_gap, slot_interval)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(organizer_id) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, insertQuery, organizerID.String(), defaults.BufferBefore, defaults.BufferAfter, defaults.MinimumGap, defaults.SlotInterval); err != nil {
		return domain.BufferTime{}, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	return defaults, nil
}

// FindBySlug implements domain.EventTypeRepository.
func (r *SQLiteRepository) FindBySlug(ctx context.Context, organizerID uuid.UUID, slug string) (domain.EventTypeView, error) {
	const query = `
		SELECT id, duration_minutes, buffer_before_override, buffer_after_override, slot_interval_override, is_group_event, max_attendees
		FROM event_types WHERE organizer_id = ? AND slug = ?
	`
	var (
		idStr                     string
		duration                  int
		bufferBefore, bufferAfter sql.NullInt64
		slotInterval              sql.NullInt64
		isGroupEvent              bool
		maxAttendees              int
	)
	err := r.db.QueryRowContext(ctx, query, organizerID.String(), slug).Scan(&idStr, &duration, &bufferBefore, &bufferAfter, &slotInterval, &isGroupEvent, &maxAttendees)
	if err != nil {
		return domain.EventTypeView{}, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return domain.EventTypeView{}, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}

	e := domain.EventTypeView{
		ID:              id,
		Slug:            slug,
		OrganizerID:     organizerID,
		DurationMinutes: duration,
		IsGroupEvent:    isGroupEvent,
		MaxAttendees:    maxAttendees,
	}
	if bufferBefore.Valid {
		v := int(bufferBefore.Int64)
		e.BufferBeforeOverride = &v
	}
	if bufferAfter.Valid {
		v := int(bufferAfter.Int64)
		e.BufferAfterOverride = &v
	}
	if slotInterval.Valid {
		v := int(slotInterval.Int64)
		e.SlotIntervalOverride = &v
	}
	return e, nil
}

// Timezone implements domain.OrganizerRepository.
func (r *SQLiteRepository) Timezone(ctx context.Context, organizerID uuid.UUID) (string, error) {
	const query = `SELECT timezone FROM organizer_profiles WHERE organizer_id = ?`
	var tz string
	if err := r.db.QueryRowContext(ctx, query, organizerID.String()).Scan(&tz); err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	return tz, nil
}

// UpsertSyncedBlock implements domain.BlockWriter.
func (r *SQLiteRepository) UpsertSyncedBlock(ctx context.Context, block *domain.BlockedTime) error {
	const query = `
		INSERT INTO blocked_times (id, organizer_id, start_time, end_time, reason, source, external_id, active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(organizer_id, external_id) DO UPDATE SET
			start_time = excluded.start_time, end_time = excluded.end_time,
			reason = excluded.reason, active = excluded.active
	`
	_, err := r.db.ExecContext(ctx, query,
		block.ID().String(), block.OrganizerID().String(),
		block.Start().Format(sqliteTimeLayout), block.End().Format(sqliteTimeLayout),
		block.Reason(), string(block.Source()), block.ExternalID(), block.Active(),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	return nil
}

// DeleteStaleSyncedBlocks implements domain.BlockWriter.
func (r *SQLiteRepository) DeleteStaleSyncedBlocks(ctx context.Context, organizerID uuid.UUID, keepExternalIDs []string, windowStart, windowEnd time.Time) (int, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, external_id FROM blocked_times
		WHERE organizer_id = ? AND source = 'external-calendar'
		  AND start_time < ? AND end_time > ?
	`, organizerID.String(), windowEnd.Format(sqliteTimeLayout), windowStart.Format(sqliteTimeLayout))
	if err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}

	keep := make(map[string]struct{}, len(keepExternalIDs))
	for _, id := range keepExternalIDs {
		keep[id] = struct{}{}
	}

	var staleIDs []string
	for rows.Next() {
		var id, extID string
		if err := rows.Scan(&id, &extID); err != nil {
			rows.Close()
			return 0, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
		}
		if _, ok := keep[extID]; !ok {
			staleIDs = append(staleIDs, id)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}

	deleted := 0
	for _, id := range staleIDs {
		if _, err := r.db.ExecContext(ctx, `DELETE FROM blocked_times WHERE id = ?`, id); err != nil {
			return deleted, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
		}
		deleted++
	}
	return deleted, nil
}

func parseIDPair(idStr, orgIDStr string) (uuid.UUID, uuid.UUID, error) {
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.UUID{}, uuid.UUID{}, err
	}
	orgID, err := uuid.Parse(orgIDStr)
	if err != nil {
		return uuid.UUID{}, uuid.UUID{}, err
	}
	return id, orgID, nil
}

func parseScope(csv sql.NullString) []uuid.UUID {
	if !csv.Valid || csv.String == "" {
		return nil
	}
	var scope []uuid.UUID
	start := 0
	s := csv.String
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			if id, err := uuid.Parse(s[start:i]); err == nil {
				scope = append(scope, id)
			}
			start = i + 1
		}
	}
	return scope
}
