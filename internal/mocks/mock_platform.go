package mocks

import (
	"context"
	"time"

	"github.com/holydev99/debtSet/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockPlatform struct {
	mock.Mock
}

func (m *MockPlatform) PermissionStatus(ctx context.Context, owner string) (domain.PermissionStatus, error) {
	args := m.Called(ctx, owner)
	return args.Get(0).(domain.PermissionStatus), args.Error(1)
}

func (m *MockPlatform) RequestPermission(ctx context.Context, owner string) (domain.PermissionStatus, error) {
	args := m.Called(ctx, owner)
	return args.Get(0).(domain.PermissionStatus), args.Error(1)
}

func (m *MockPlatform) Schedule(ctx context.Context, owner string, content domain.NotificationContent, at time.Time, correlationID string) (string, error) {
	args := m.Called(ctx, owner, content, at, correlationID)
	return args.String(0), args.Error(1)
}

func (m *MockPlatform) Cancel(ctx context.Context, handle string) error {
	args := m.Called(ctx, handle)
	return args.Error(0)
}

func (m *MockPlatform) ListScheduled(ctx context.Context, owner string) ([]domain.ScheduledNotification, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ScheduledNotification), args.Error(1)
}

func (m *MockPlatform) SetPermission(ctx context.Context, owner string, status domain.PermissionStatus) error {
	args := m.Called(ctx, owner, status)
	return args.Error(0)
}

// GrantAll makes every permission check succeed
func (m *MockPlatform) GrantAll() *MockPlatform {
	m.On("PermissionStatus", mock.Anything, mock.Anything).Return(domain.PermissionGranted, nil).Maybe()
	return m
}
