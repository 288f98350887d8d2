package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/slotforge/availability/internal/availability/domain"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func mustTOD(t *testing.T, hour, minute int) domain.TimeOfDay {
	t.Helper()
	tod, err := domain.NewTimeOfDay(hour, minute)
	require.NoError(t, err)
	return tod
}

// mockRuleRepo is a mock implementation of domain.RuleRepository.
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

// mockBlockRepo is a mock implementation of domain.BlockRepository.
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

// mockBookingRepo is a mock implementation of domain.BookingRepository.
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
