package notifier

import (
	"context"
	"time"

	"github.com/holydev99/debtSet/internal/domain"
)

// Platform is the notification platform reminders are scheduled on.
// Cancelling an unknown handle must not be an error.
type Platform interface {
	PermissionStatus(ctx context.Context, owner string) (domain.PermissionStatus, error)
	RequestPermission(ctx context.Context, owner string) (domain.PermissionStatus, error)
	Schedule(ctx context.Context, owner string, content domain.NotificationContent, at time.Time, correlationID string) (string, error)
	Cancel(ctx context.Context, handle string) error
	ListScheduled(ctx context.Context, owner string) ([]domain.ScheduledNotification, error)
}

// DueSource hands out notifications whose trigger time has passed. A
// notification is returned by at most one ClaimDue call.
type DueSource interface {
	ClaimDue(ctx context.Context, now time.Time, limit int64) ([]domain.ScheduledNotification, error)
}
