package mocks

import (
	"context"

	"github.com/holydev99/debtSet/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockDebtService struct {
	mock.Mock
}

func (m *MockDebtService) Fetch(ctx context.Context, owner string) (*domain.DebtListResponse, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DebtListResponse), args.Error(1)
}

func (m *MockDebtService) History(ctx context.Context, owner string) (*domain.DebtListResponse, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DebtListResponse), args.Error(1)
}

func (m *MockDebtService) Create(ctx context.Context, owner string, request *domain.CreateDebtRequest) (*domain.CreateDebtResponse, error) {
	args := m.Called(ctx, owner, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CreateDebtResponse), args.Error(1)
}

func (m *MockDebtService) MarkPaid(ctx context.Context, owner, id string) error {
	args := m.Called(ctx, owner, id)
	return args.Error(0)
}

func (m *MockDebtService) MarkUnpaid(ctx context.Context, owner, id string) error {
	args := m.Called(ctx, owner, id)
	return args.Error(0)
}

func (m *MockDebtService) Delete(ctx context.Context, owner, id string) error {
	args := m.Called(ctx, owner, id)
	return args.Error(0)
}

func (m *MockDebtService) ToggleReminder(ctx context.Context, owner, id string, enabled *bool) (*domain.ToggleReminderResponse, error) {
	args := m.Called(ctx, owner, id, enabled)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ToggleReminderResponse), args.Error(1)
}

func (m *MockDebtService) Snapshot(owner string) *domain.DebtListResponse {
	args := m.Called(owner)
	return args.Get(0).(*domain.DebtListResponse)
}

// NewMockDebtService creates a new mock debt service instance
func NewMockDebtService() *MockDebtService {
	return &MockDebtService{}
}
