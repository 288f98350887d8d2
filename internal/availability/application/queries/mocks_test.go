package queries

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/slotforge/availability/internal/availability/domain"
	"github.com/stretchr/testify/mock"
)

type mockOrganizerRepo struct {
	mock.Mock
}

func (m *mockOrganizerRepo) Timezone(ctx context.Context, organizerID uuid.UUID) (string, error) {
	args := m.Called(ctx, organizerID)
	return args.String(0), args.Error(1)
}

type mockEventTypeRepo struct {
	mock.Mock
}

func (m *mockEventTypeRepo) FindBySlug(ctx context.Context, organizerID uuid.UUID, slug string) (domain.EventTypeView, error) {
	args := m.Called(ctx, organizerID, slug)
	return args.Get(0).(domain.EventTypeView), args.Error(1)
}

type mockBufferRepo struct {
	mock.Mock
}

func (m *mockBufferRepo) GetOrCreate(ctx context.Context, organizerID uuid.UUID) (domain.BufferTime, error) {
	args := m.Called(ctx, organizerID)
	return args.Get(0).(domain.BufferTime), args.Error(1)
}

type mockRuleRepo struct {
	mock.Mock
}

func (m *mockRuleRepo) ActiveAvailabilityRules(ctx context.Context, organizerID uuid.UUID, day domain.Weekday) ([]*domain.AvailabilityRule, error) {
	args := m.Called(ctx, organizerID, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.AvailabilityRule), args.Error(1)
}

func (m *mockRuleRepo) ActiveDateOverrides(ctx context.Context, organizerID uuid.UUID, date time.Time) ([]*domain.DateOverrideRule, error) {
	args := m.Called(ctx, organizerID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.DateOverrideRule), args.Error(1)
}

type mockBlockRepo struct {
	mock.Mock
}

func (m *mockBlockRepo) ActiveBlockedTimes(ctx context.Context, organizerID uuid.UUID, from, to time.Time) ([]*domain.BlockedTime, error) {
	args := m.Called(ctx, organizerID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.BlockedTime), args.Error(1)
}

func (m *mockBlockRepo) ActiveRecurringBlocks(ctx context.Context, organizerID uuid.UUID, day domain.Weekday) ([]*domain.RecurringBlockedTime, error) {
	args := m.Called(ctx, organizerID, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.RecurringBlockedTime), args.Error(1)
}

type mockBookingRepo struct {
	mock.Mock
}

func (m *mockBookingRepo) ActiveBookings(ctx context.Context, organizerID uuid.UUID, from, to time.Time) ([]domain.BookingView, error) {
	args := m.Called(ctx, organizerID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BookingView), args.Error(1)
}
