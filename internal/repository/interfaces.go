package repository

import (
	"context"
	"time"

	"github.com/holydev99/debtSet/internal/domain"
)

// OrderField is a column debts can be ordered by
type OrderField string

const (
	OrderByCreatedAt OrderField = "created_at"
	OrderByPaidAt    OrderField = "paid_at"
)

// DebtFilter narrows a List call. Owner is mandatory; Paid nil means both.
type DebtFilter struct {
	Owner     string
	Paid      *bool
	OrderBy   OrderField
	Ascending bool
}

// DebtUpdate is a partial update. Only fields whose Set flag is true are written,
// which lets callers clear nullable columns.
type DebtUpdate struct {
	Paid *bool

	SetPaidAt bool
	PaidAt    *time.Time

	SetReminderHandle bool
	ReminderHandle    *string
}

// MarkPaidUpdate flips a debt to paid and drops its reminder handle
func MarkPaidUpdate(now time.Time) DebtUpdate {
	paid := true
	return DebtUpdate{
		Paid:              &paid,
		SetPaidAt:         true,
		PaidAt:            &now,
		SetReminderHandle: true,
	}
}

// MarkUnpaidUpdate restores a debt to the unpaid list without a reminder
func MarkUnpaidUpdate() DebtUpdate {
	paid := false
	return DebtUpdate{
		Paid:              &paid,
		SetPaidAt:         true,
		SetReminderHandle: true,
	}
}

// DebtRepository defines the interface for debt data operations
type DebtRepository interface {
	// List returns the owner's debts matching the filter
	List(ctx context.Context, filter DebtFilter) ([]*domain.Debt, error)

	// GetByID retrieves one of the owner's debts
	GetByID(ctx context.Context, owner, id string) (*domain.Debt, error)

	// Insert stores a new unpaid debt, assigning its ID and CreatedAt
	Insert(ctx context.Context, debt *domain.Debt) error

	// Update applies a partial update to one of the owner's debts
	Update(ctx context.Context, owner, id string, update DebtUpdate) error

	// SetReminderHandle records or clears the pending reminder of a debt
	SetReminderHandle(ctx context.Context, owner, id string, handle *string) error

	// Delete removes one of the owner's debts permanently
	Delete(ctx context.Context, owner, id string) error
}
