// Package persistence implements the engine's read-only repository
// interfaces against a real store: Postgres (primary), SQLite (embedded/
// local mode), and a CalDAV sync adapter that upserts BlockedTime rows
// from an external calendar.
package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/slotforge/availability/internal/availability/domain"
	sharedPersistence "github.com/slotforge/availability/internal/shared/infrastructure/persistence"
)

// PostgresRepository implements every read-only repository interface the
// availability engine depends on, backed by a single connection pool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository wraps an existing pgx pool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) exec(ctx context.Context) sharedPersistence.DBExecutor {
	return sharedPersistence.Executor(ctx, r.pool)
}

// ActiveAvailabilityRules implements domain.RuleRepository.
func (r *PostgresRepository) ActiveAvailabilityRules(ctx context.Context, organizerID uuid.UUID, day domain.Weekday) ([]*domain.AvailabilityRule, error) {
	const query = `
		SELECT id, organizer_id, day_of_week, start_hour, start_minute, end_hour, end_minute, event_type_scope, active
		FROM availability_rules
		WHERE organizer_id = $1 AND day_of_week = $2 AND active = true
	`
	rows, err := r.exec(ctx).Query(ctx, query, organizerID, int(day))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	defer rows.Close()

	var rules []*domain.AvailabilityRule
	for rows.Next() {
		var (
			id                                     uuid.UUID
			orgID                                  uuid.UUID
			dayOfWeek                              int
			startHour, startMinute, endHour, endMinute int
			scope                                  []uuid.UUID
			active                                 bool
		)
		if err := rows.Scan(&id, &orgID, &dayOfWeek, &startHour, &startMinute, &endHour, &endMinute, &scope, &active); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
		}
		start, err1 := domain.NewTimeOfDay(startHour, startMinute)
		end, err2 := domain.NewTimeOfDay(endHour, endMinute)
		if err1 != nil || err2 != nil {
			continue
		}
		rule, err := domain.NewAvailabilityRule(id, orgID, domain.Weekday(dayOfWeek), start, end, scope, active)
		if err != nil {
			continue
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	return rules, nil
}

// ActiveDateOverrides implements domain.RuleRepository.
func (r *PostgresRepository) ActiveDateOverrides(ctx context.Context, organizerID uuid.UUID, date time.Time) ([]*domain.DateOverrideRule, error) {
	const query = `
		SELECT id, organizer_id, override_date, is_available, start_hour, start_minute, end_hour, end_minute, event_type_scope, reason, active
		FROM date_override_rules
		WHERE organizer_id = $1 AND override_date = $2 AND active = true
	`
	rows, err := r.exec(ctx).Query(ctx, query, organizerID, dateOnly(date))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	defer rows.Close()

	var overrides []*domain.DateOverrideRule
	for rows.Next() {
		var (
			id, orgID                  uuid.UUID
			overrideDate               time.Time
			isAvailable                bool
			startHour, startMinute     *int
			endHour, endMinute         *int
			scope                      []uuid.UUID
			reason                     string
			active                     bool
		)
		if err := rows.Scan(&id, &orgID, &overrideDate, &isAvailable, &startHour, &startMinute, &endHour, &endMinute, &scope, &reason, &active); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
		}

		var start, end *domain.TimeOfDay
		if startHour != nil && startMinute != nil {
			t, err := domain.NewTimeOfDay(*startHour, *startMinute)
			if err == nil {
				start = &t
			}
		}
		if endHour != nil && endMinute != nil {
			t, err := domain.NewTimeOfDay(*endHour, *endMinute)
			if err == nil {
				end = &t
			}
		}

		override, err := domain.NewDateOverrideRule(id, orgID, overrideDate, isAvailable, start, end, scope, reason, active)
		if err != nil {
			continue
		}
		overrides = append(overrides, override)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	return overrides, nil
}

// ActiveBlockedTimes implements domain.BlockRepository.
func (r *PostgresRepository) ActiveBlockedTimes(ctx context.Context, organizerID uuid.UUID, from, to time.Time) ([]*domain.BlockedTime, error) {
	const query = `
		SELECT id, organizer_id, start_time, end_time, reason, source, external_id, active
		FROM blocked_times
		WHERE organizer_id = $1 AND active = true AND start_time < $3 AND end_time > $2
	`
	rows, err := r.exec(ctx).Query(ctx, query, organizerID, from, to)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	defer rows.Close()

	var blocks []*domain.BlockedTime
	for rows.Next() {
		var (
			id, orgID            uuid.UUID
			start, end           time.Time
			reason, source       string
			extID                *string
			active               bool
		)
		if err := rows.Scan(&id, &orgID, &start, &end, &reason, &source, &extID, &active); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
		}

		var block *domain.BlockedTime
		var err2 error
		if domain.BlockSource(source) == domain.BlockSourceExternalCalendar {
			var externalID string
			if extID != nil {
				externalID = *extID
			}
			block, err2 = domain.NewSyncedBlockedTime(id, orgID, start, end, reason, externalID, active)
		} else {
			block, err2 = domain.NewManualBlockedTime(id, orgID, start, end, reason, active)
		}
		if err2 != nil {
			continue
		}
		blocks = append(blocks, block)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	return blocks, nil
}

// ActiveRecurringBlocks implements domain.BlockRepository.
func (r *PostgresRepository) ActiveRecurringBlocks(ctx context.Context, organizerID uuid.UUID, day domain.Weekday) ([]*domain.RecurringBlockedTime, error) {
	const query = `
		SELECT id, organizer_id, name, day_of_week, start_hour, start_minute, end_hour, end_minute, start_date, end_date, active
		FROM recurring_blocked_times
		WHERE organizer_id = $1 AND day_of_week = $2 AND active = true
	`
	rows, err := r.exec(ctx).Query(ctx, query, organizerID, int(day))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	defer rows.Close()

	var blocks []*domain.RecurringBlockedTime
	for rows.Next() {
		var (
			id, orgID                              uuid.UUID
			name                                    string
			dayOfWeek                               int
			startHour, startMinute, endHour, endMinute int
			startDate, endDate                      *time.Time
			active                                  bool
		)
		if err := rows.Scan(&id, &orgID, &name, &dayOfWeek, &startHour, &startMinute, &endHour, &endMinute, &startDate, &endDate, &active); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
		}
		start, err1 := domain.NewTimeOfDay(startHour, startMinute)
		end, err2 := domain.NewTimeOfDay(endHour, endMinute)
		if err1 != nil || err2 != nil {
			continue
		}
		block, err := domain.NewRecurringBlockedTime(id, orgID, name, domain.Weekday(dayOfWeek), start, end, startDate, endDate, active)
		if err != nil {
			continue
		}
		blocks = append(blocks, block)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	return blocks, nil
}

// ActiveBookings implements domain.BookingRepository.
func (r *PostgresRepository) ActiveBookings(ctx context.Context, organizerID uuid.UUID, from, to time.Time) ([]domain.BookingView, error) {
	const query = `
		SELECT id, organizer_id, event_type_id, start_time, end_time, status, attendee_count
		FROM bookings
		WHERE organizer_id = $1 AND status = 'confirmed' AND start_time < $3 AND end_time > $2
	`
	rows, err := r.exec(ctx).Query(ctx, query, organizerID, from, to)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	defer rows.Close()

	var bookings []domain.BookingView
	for rows.Next() {
		var b domain.BookingView
		var status string
		if err := rows.Scan(&b.ID, &b.OrganizerID, &b.EventTypeID, &b.Start, &b.End, &status, &b.AttendeeCount); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
		}
		b.Status = domain.BookingStatus(status)
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	return bookings, nil
}

// GetOrCreate implements domain.BufferRepository, lazily inserting
// package defaults on first access for this organizer.
func (r *PostgresRepository) GetOrCreate(ctx context.Context, organizerID uuid.UUID) (domain.BufferTime, error) {
	const selectQuery = `
		SELECT buffer_before, buffer_after, minimum_gap, slot_interval
		FROM buffer_times WHERE organizer_id = $1
	`
	var bt domain.BufferTime
	bt.OrganizerID = organizerID
	err := r.exec(ctx).QueryRow(ctx, selectQuery, organizerID).Scan(&bt.BufferBefore, &bt.BufferAfter, &bt.MinimumGap, &bt.SlotInterval)
	if err == nil {
		return bt, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.BufferTime{}, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}

	defaults := domain.NewDefaultBufferTime(organizerID)
	const insertQuery = `
		INSERT INTO buffer_times (organizer_id, buffer_before, buffer_after, minimum_gap, slot_interval)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (organizer_id) DO NOTHING
	`
	if _, err := r.exec(ctx).Exec(ctx, insertQuery, organizerID, defaults.BufferBefore, defaults.BufferAfter, defaults.MinimumGap, defaults.SlotInterval); err != nil {
		return domain.BufferTime{}, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	return defaults, nil
}

// FindBySlug implements domain.EventTypeRepository.
func (r *PostgresRepository) FindBySlug(ctx context.Context, organizerID uuid.UUID, slug string) (domain.EventTypeView, error) {
	const query = `
		SELECT id, slug, organizer_id, duration_minutes, buffer_before_override, buffer_after_override,
		       slot_interval_override, is_group_event, max_attendees
		FROM event_types
		WHERE organizer_id = $1 AND slug = $2
	`
	var e domain.EventTypeView
	err := r.exec(ctx).QueryRow(ctx, query, organizerID, slug).Scan(
		&e.ID, &e.Slug, &e.OrganizerID, &e.DurationMinutes,
		&e.BufferBeforeOverride, &e.BufferAfterOverride, &e.SlotIntervalOverride,
		&e.IsGroupEvent, &e.MaxAttendees,
	)
	if err != nil {
		return domain.EventTypeView{}, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	return e, nil
}

// Timezone implements domain.OrganizerRepository.
func (r *PostgresRepository) Timezone(ctx context.Context, organizerID uuid.UUID) (string, error) {
	const query = `SELECT timezone FROM organizer_profiles WHERE organizer_id = $1`
	var tz string
	if err := r.exec(ctx).QueryRow(ctx, query, organizerID).Scan(&tz); err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	return tz, nil
}

// UpsertSyncedBlock implements domain.BlockWriter.
func (r *PostgresRepository) UpsertSyncedBlock(ctx context.Context, block *domain.BlockedTime) error {
	const query = `
		INSERT INTO blocked_times (id, organizer_id, start_time, end_time, reason, source, external_id, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (organizer_id, external_id) WHERE external_id IS NOT NULL DO UPDATE
		SET start_time = EXCLUDED.start_time, end_time = EXCLUDED.end_time,
		    reason = EXCLUDED.reason, active = EXCLUDED.active
	`
	_, err := r.exec(ctx).Exec(ctx, query,
		block.ID(), block.OrganizerID(), block.Start(), block.End(),
		block.Reason(), block.Source(), block.ExternalID(), block.Active(),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	return nil
}

// DeleteStaleSyncedBlocks implements domain.BlockWriter.
func (r *PostgresRepository) DeleteStaleSyncedBlocks(ctx context.Context, organizerID uuid.UUID, keepExternalIDs []string, windowStart, windowEnd time.Time) (int, error) {
	const query = `
		DELETE FROM blocked_times
		WHERE organizer_id = $1 AND source = 'external-calendar'
		  AND start_time < $2 AND end_time > $3
		  AND NOT (external_id = ANY($4))
	`
	tag, err := r.exec(ctx).Exec(ctx, query, organizerID, windowEnd, windowStart, keepExternalIDs)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	return int(tag.RowsAffected()), nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
