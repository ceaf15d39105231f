package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrValidation       = errors.New("validation failed")
	ErrDebtNotFound     = errors.New("debt not found")
	ErrStore            = errors.New("store operation failed")
	ErrReminder         = errors.New("reminder operation failed")
	ErrPermissionDenied = errors.New("notification permission denied")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeDebtNotFound     = "DEBT_NOT_FOUND"
	ErrCodeDatabaseError    = "DATABASE_ERROR"
	ErrCodeReminderError    = "REMINDER_ERROR"
	ErrCodePermissionDenied = "PERMISSION_DENIED"
)

func WrapValidation(message string) *BusinessError {
	return NewBusinessError(ErrCodeValidation, message, ErrValidation)
}

func WrapDebtNotFound(debtID string) *BusinessError {
	return NewBusinessError(
		ErrCodeDebtNotFound,
		fmt.Sprintf("Debt with ID %s not found", debtID),
		ErrDebtNotFound,
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		errors.Join(ErrStore, err),
	)
}

func WrapReminderError(op string, err error) *BusinessError {
	return NewBusinessError(
		ErrCodeReminderError,
		fmt.Sprintf("reminder %s failed", op),
		errors.Join(ErrReminder, err),
	)
}

func WrapPermissionDenied() *BusinessError {
	return NewBusinessError(
		ErrCodePermissionDenied,
		"notifications are not allowed for this user",
		errors.Join(ErrReminder, ErrPermissionDenied),
	)
}

// Code returns the business code carried by err, or "" for foreign errors
func Code(err error) string {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}

// PublicMessage returns text about err that is safe to show to a user.
// Foreign errors, such as raw driver errors, yield fallback.
func PublicMessage(err error, fallback string) string {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Message
	}
	return fallback
}

func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }
func IsNotFound(err error) bool   { return errors.Is(err, ErrDebtNotFound) }
func IsStore(err error) bool      { return errors.Is(err, ErrStore) }
func IsReminder(err error) bool   { return errors.Is(err, ErrReminder) }
