package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Debt represents money the owner still owes, or owed and paid off
type Debt struct {
	ID             string          `json:"id" db:"id" yaml:"id"`
	Owner          string          `json:"user_id" db:"user_id" yaml:"user_id"`
	Title          string          `json:"title" db:"title" yaml:"title"`
	Amount         decimal.Decimal `json:"amount" db:"amount" yaml:"amount"`
	Description    *string         `json:"description,omitempty" db:"description" yaml:"description,omitempty"`
	DueAt          *time.Time      `json:"payback_date,omitempty" db:"payback_date" yaml:"payback_date,omitempty"`
	Paid           bool            `json:"is_paid" db:"is_paid" yaml:"is_paid"`
	PaidAt         *time.Time      `json:"paid_at,omitempty" db:"paid_at" yaml:"paid_at,omitempty"`
	ReminderHandle *string         `json:"notification_id,omitempty" db:"notification_id" yaml:"notification_id,omitempty"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at" yaml:"created_at"`
}

// HasReminder reports whether a scheduled reminder is recorded for the debt
func (d *Debt) HasReminder() bool {
	return d.ReminderHandle != nil && *d.ReminderHandle != ""
}

// DTOs for requests and responses

type CreateDebtRequest struct {
	Title       string           `json:"title" validate:"required,notblank,max=120"`
	// Amount accepts a JSON number or a quoted decimal
	Amount      *decimal.Decimal `json:"amount" validate:"required,nonneg_decimal"`
	Description *string          `json:"description,omitempty" validate:"omitempty,max=1000"`
	// DueAt is either a calendar date (2006-01-02) or an RFC 3339 timestamp
	DueAt       string           `json:"payback_date,omitempty" validate:"omitempty,due_date"`
}

type CreateDebtResponse struct {
	Debt *Debt `json:"debt"`
	// ReminderWarning is set when the debt was stored but its reminder
	// could not be scheduled.
	ReminderWarning string `json:"reminder_warning,omitempty"`
}

type DebtListResponse struct {
	Debts []*Debt         `json:"debts"`
	Total decimal.Decimal `json:"total"`
}

type ToggleReminderRequest struct {
	Enabled *bool `json:"enabled,omitempty"`
}

type ToggleReminderResponse struct {
	DebtID         string  `json:"debt_id"`
	Enabled        bool    `json:"enabled"`
	ReminderHandle *string `json:"notification_id,omitempty"`
	Warning        string  `json:"warning,omitempty"`
}

// SumAmounts adds up the amounts of debts, zero for none
func SumAmounts(debts []*Debt) decimal.Decimal {
	total := decimal.Zero
	for _, d := range debts {
		total = total.Add(d.Amount)
	}
	return total
}
