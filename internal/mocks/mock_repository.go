package mocks

import (
	"context"

	"github.com/holydev99/debtSet/internal/domain"
	"github.com/holydev99/debtSet/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockDebtRepository struct {
	mock.Mock
}

func (m *MockDebtRepository) List(ctx context.Context, filter repository.DebtFilter) ([]*domain.Debt, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Debt), args.Error(1)
}

func (m *MockDebtRepository) GetByID(ctx context.Context, owner, id string) (*domain.Debt, error) {
	args := m.Called(ctx, owner, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Debt), args.Error(1)
}

func (m *MockDebtRepository) Insert(ctx context.Context, debt *domain.Debt) error {
	args := m.Called(ctx, debt)
	return args.Error(0)
}

func (m *MockDebtRepository) Update(ctx context.Context, owner, id string, update repository.DebtUpdate) error {
	args := m.Called(ctx, owner, id, update)
	return args.Error(0)
}

func (m *MockDebtRepository) SetReminderHandle(ctx context.Context, owner, id string, handle *string) error {
	args := m.Called(ctx, owner, id, handle)
	return args.Error(0)
}

func (m *MockDebtRepository) Delete(ctx context.Context, owner, id string) error {
	args := m.Called(ctx, owner, id)
	return args.Error(0)
}
