package domain

import "time"

// TriggerKind tells which branch of the reminder computation produced a trigger
type TriggerKind string

const (
	// TriggerDueToday fires shortly after scheduling because the debt is due today
	TriggerDueToday TriggerKind = "due_today"
	// TriggerDueTomorrow fires shortly after scheduling because the
	// morning-before slot has already passed
	TriggerDueTomorrow TriggerKind = "due_tomorrow"
	// TriggerDayBefore fires on the morning before the due date
	TriggerDayBefore TriggerKind = "day_before"
	// TriggerOverdue fires shortly after scheduling for a due date already past
	TriggerOverdue TriggerKind = "overdue"
)

// Trigger is the instant and wording of a reminder
type Trigger struct {
	At   time.Time   `json:"at"`
	Kind TriggerKind `json:"kind"`
	Body string      `json:"body"`
}

type PermissionStatus string

const (
	PermissionUndetermined PermissionStatus = "undetermined"
	PermissionGranted      PermissionStatus = "granted"
	PermissionDenied       PermissionStatus = "denied"
)

// NotificationContent is what the user sees when a reminder fires
type NotificationContent struct {
	Title string `json:"title" yaml:"title"`
	Body  string `json:"body" yaml:"body"`
}

// ScheduledNotification is a pending reminder as the notification platform
// reports it. CorrelationID carries the debt id.
type ScheduledNotification struct {
	Handle        string    `json:"handle" yaml:"handle"`
	Owner         string    `json:"owner" yaml:"owner"`
	CorrelationID string    `json:"correlation_id" yaml:"correlation_id"`
	Title         string    `json:"title" yaml:"title"`
	Body          string    `json:"body" yaml:"body"`
	TriggerAt     time.Time `json:"trigger_at" yaml:"trigger_at"`
}
