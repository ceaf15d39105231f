package reminder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/holydev99/debtSet/internal/config"
	"github.com/holydev99/debtSet/internal/domain"
	"github.com/holydev99/debtSet/internal/logger"
	"github.com/holydev99/debtSet/internal/notifier"
	customError "github.com/holydev99/debtSet/pkg/errors"
	"github.com/holydev99/debtSet/pkg/utils"
)

const notificationTitle = "Debt Reminder"

// Options tune reminder timing
type Options struct {
	FallbackWindow             time.Duration
	MorningHour                int
	Location                   *time.Location
	SupportsLocalNotifications bool
}

// DefaultOptions fire at 09:00 the day before, or 10 seconds out when that
// slot is gone.
func DefaultOptions() Options {
	return Options{
		FallbackWindow:             10 * time.Second,
		MorningHour:                9,
		Location:                   time.Local,
		SupportsLocalNotifications: true,
	}
}

func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		FallbackWindow:             cfg.GetFallbackWindow(),
		MorningHour:                cfg.Reminder.MorningHour,
		Location:                   cfg.GetLocation(),
		SupportsLocalNotifications: cfg.Reminder.SupportsLocalNotifications,
	}
}

// HandleStore persists the reminder handle of a debt
type HandleStore interface {
	SetReminderHandle(ctx context.Context, owner, id string, handle *string) error
}

// Scheduler keeps at most one pending reminder per unpaid debt
type Scheduler struct {
	platform notifier.Platform
	opts     Options
	now      func() time.Time
	log      logger.Logger
}

func NewScheduler(platform notifier.Platform, opts Options) *Scheduler {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	return &Scheduler{
		platform: platform,
		opts:     opts,
		now:      time.Now,
		log:      logger.Reminder(),
	}
}

// WithClock replaces the time source, for tests
func (s *Scheduler) WithClock(now func() time.Time) *Scheduler {
	s.now = now
	return s
}

// Options returns the timing options the scheduler was built with
func (s *Scheduler) Options() Options {
	return s.opts
}

// Schedule registers a reminder for an unpaid debt and returns its handle.
// A nil handle with a nil error means nothing needed scheduling. Errors are
// ReminderErrors and never fatal to the caller's debt operation.
func (s *Scheduler) Schedule(ctx context.Context, debt *domain.Debt) (*string, error) {
	if !s.opts.SupportsLocalNotifications || debt.Paid {
		return nil, nil
	}

	trigger := s.ComputeTrigger(debt.Title, debt.DueAt, s.now())
	if trigger == nil {
		return nil, nil
	}

	log := s.log.WithFields(map[string]any{"owner": debt.Owner, "debt_id": debt.ID})

	granted, err := s.ensurePermission(ctx, debt.Owner)
	if err != nil {
		log.Warn("permission check failed", "error", err)
		return nil, customError.WrapReminderError("permission", err)
	}
	if !granted {
		log.Warn("notification permission denied, reminder skipped")
		return nil, customError.WrapPermissionDenied()
	}

	content := domain.NotificationContent{
		Title: notificationTitle,
		Body:  fmt.Sprintf("%s Amount: %s", trigger.Body, utils.FormatAmount(debt.Amount)),
	}

	handle, err := s.platform.Schedule(ctx, debt.Owner, content, trigger.At, debt.ID)
	if err != nil {
		log.Error("failed to schedule reminder", "error", err)
		return nil, customError.WrapReminderError("schedule", err)
	}

	log.Info("reminder scheduled", "handle", handle, "trigger_at", trigger.At, "kind", trigger.Kind)
	return &handle, nil
}

func (s *Scheduler) ensurePermission(ctx context.Context, owner string) (bool, error) {
	status, err := s.platform.PermissionStatus(ctx, owner)
	if err != nil {
		return false, err
	}
	if status == domain.PermissionGranted {
		return true, nil
	}

	status, err = s.platform.RequestPermission(ctx, owner)
	if err != nil {
		return false, err
	}
	return status == domain.PermissionGranted, nil
}

// Cancel removes the pending reminder of a debt. With a handle only that
// notification is cancelled; without one every scheduled notification whose
// correlation id is debtID is cancelled. Unknown handles and ids are not errors.
func (s *Scheduler) Cancel(ctx context.Context, owner string, handle *string, debtID string) error {
	if handle == nil || *handle == "" {
		if !s.opts.SupportsLocalNotifications {
			return nil
		}
		return s.cancelByCorrelation(ctx, owner, debtID)
	}

	if err := s.platform.Cancel(ctx, *handle); err != nil {
		s.log.WithField("handle", *handle).Warn("failed to cancel reminder", "error", err)
		return customError.WrapReminderError("cancel", err)
	}
	return nil
}

func (s *Scheduler) cancelByCorrelation(ctx context.Context, owner, debtID string) error {
	scheduled, err := s.platform.ListScheduled(ctx, owner)
	if err != nil {
		s.log.WithField("debt_id", debtID).Warn("failed to list scheduled reminders", "error", err)
		return customError.WrapReminderError("lookup", err)
	}

	var errs []error
	for _, n := range scheduled {
		if n.CorrelationID != debtID {
			continue
		}
		if err := s.platform.Cancel(ctx, n.Handle); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		s.log.WithField("debt_id", debtID).Warn("failed to cancel some reminders", "count", len(errs))
		return customError.WrapReminderError("cancel", errors.Join(errs...))
	}
	return nil
}

// Toggle turns the reminder of a debt off when it has one and on otherwise.
// It returns the new handle, nil when the reminder is now off.
//
// Errors from store are returned as-is; reminder errors are ReminderErrors.
func (s *Scheduler) Toggle(ctx context.Context, debt *domain.Debt, store HandleStore) (*string, error) {
	if debt.HasReminder() {
		return s.Disable(ctx, debt, store)
	}
	return s.Enable(ctx, debt, store)
}

// Disable cancels the reminder of a debt and clears its handle. A failed
// cancel still clears the handle.
func (s *Scheduler) Disable(ctx context.Context, debt *domain.Debt, store HandleStore) (*string, error) {
	cancelErr := s.Cancel(ctx, debt.Owner, debt.ReminderHandle, debt.ID)
	if err := store.SetReminderHandle(ctx, debt.Owner, debt.ID, nil); err != nil {
		return debt.ReminderHandle, err
	}
	return nil, cancelErr
}

// Reschedule drops whatever reminder the debt may have, including strays
// found by correlation id, and schedules a fresh one.
func (s *Scheduler) Reschedule(ctx context.Context, debt *domain.Debt, store HandleStore) (*string, error) {
	if err := s.Cancel(ctx, debt.Owner, debt.ReminderHandle, debt.ID); err != nil {
		// A reminder we could not cancel must not be stacked on.
		return nil, err
	}
	if debt.HasReminder() {
		if err := s.cancelByCorrelation(ctx, debt.Owner, debt.ID); err != nil {
			return nil, err
		}
	}

	return s.Enable(ctx, debt, store)
}

// Enable schedules a reminder for a debt without one and records its handle.
// When the handle cannot be recorded the fresh notification is cancelled.
func (s *Scheduler) Enable(ctx context.Context, debt *domain.Debt, store HandleStore) (*string, error) {
	handle, err := s.Schedule(ctx, debt)
	if handle == nil {
		return nil, err
	}

	if err := store.SetReminderHandle(ctx, debt.Owner, debt.ID, handle); err != nil {
		// The debt has no record of the reminder, so it must not fire.
		if cancelErr := s.platform.Cancel(ctx, *handle); cancelErr != nil {
			s.log.WithField("handle", *handle).Warn("failed to cancel orphaned reminder", "error", cancelErr)
		}
		return nil, err
	}

	return handle, nil
}
