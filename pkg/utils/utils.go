package utils

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNegativeAmount  = errors.New("amount must not be negative")
	ErrAmountPrecision = errors.New("amount must have at most 2 decimal places")
	ErrAmountTooLarge  = errors.New("amount is too large")
)

// MaxAmount is the first amount the debts.amount NUMERIC(14, 2) column cannot hold
var MaxAmount = decimal.New(1, 12)

// SameDate reports whether a and b fall on the same calendar day in loc
func SameDate(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

// StartOfDay returns midnight of t's calendar day in loc
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// DayBeforeAt returns hour:00 local time on the calendar day before due
func DayBeforeAt(due time.Time, hour int, loc *time.Location) time.Time {
	y, m, d := due.In(loc).Date()
	return time.Date(y, m, d-1, hour, 0, 0, 0, loc)
}

// ParseAmount parses a user-entered money amount. Negative values are rejected.
func ParseAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, err
	}
	if err := CheckAmount(amount); err != nil {
		return decimal.Zero, err
	}
	return amount, nil
}

// CheckAmount rejects amounts the debt store cannot hold exactly
func CheckAmount(amount decimal.Decimal) error {
	switch {
	case amount.IsNegative():
		return ErrNegativeAmount
	case !amount.Equal(amount.Truncate(2)):
		return ErrAmountPrecision
	case amount.GreaterThanOrEqual(MaxAmount):
		return ErrAmountTooLarge
	}
	return nil
}

// FormatAmount renders an amount with two decimal places
func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

// ParseDueDate accepts a calendar date (2006-01-02), taken as midnight in loc,
// or an RFC 3339 timestamp.
func ParseDueDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation(time.DateOnly, s, loc); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
