package service

import (
	"context"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/holydev99/debtSet/internal/domain"
	"github.com/holydev99/debtSet/internal/repository"
	customError "github.com/holydev99/debtSet/pkg/errors"
	"github.com/holydev99/debtSet/pkg/utils"
)

// DebtList is the unpaid debt list of one owner together with its total.
// Operations on a list run one at a time; the snapshot is only replaced
// wholesale after a successful fetch.
type DebtList struct {
	owner string
	svc   *DebtService

	opMu sync.Mutex

	snapMu sync.RWMutex
	debts  []*domain.Debt
	total  decimal.Decimal
	loaded bool
}

func newDebtList(owner string, svc *DebtService) *DebtList {
	return &DebtList{
		owner: owner,
		svc:   svc,
		debts: []*domain.Debt{},
		total: decimal.Zero,
	}
}

func (l *DebtList) Owner() string {
	return l.owner
}

// Snapshot returns the last successfully fetched list and total
func (l *DebtList) Snapshot() *domain.DebtListResponse {
	l.snapMu.RLock()
	defer l.snapMu.RUnlock()

	debts := make([]*domain.Debt, len(l.debts))
	copy(debts, l.debts)
	return &domain.DebtListResponse{Debts: debts, Total: l.total}
}

// Loaded reports whether the list has been fetched at least once
func (l *DebtList) Loaded() bool {
	l.snapMu.RLock()
	defer l.snapMu.RUnlock()
	return l.loaded
}

// Fetch reloads the owner's unpaid debts, newest first. On failure the
// previous snapshot is kept.
func (l *DebtList) Fetch(ctx context.Context) (*domain.DebtListResponse, error) {
	l.opMu.Lock()
	defer l.opMu.Unlock()

	if err := l.fetch(ctx); err != nil {
		return nil, err
	}
	return l.Snapshot(), nil
}

func (l *DebtList) fetch(ctx context.Context) error {
	paid := false
	debts, err := l.svc.DebtRepo.List(ctx, repository.DebtFilter{
		Owner:   l.owner,
		Paid:    &paid,
		OrderBy: repository.OrderByCreatedAt,
	})
	if err != nil {
		l.svc.log(l.owner).Error("failed to fetch debts", "error", err)
		return storeError(err)
	}
	if debts == nil {
		debts = []*domain.Debt{}
	}

	l.snapMu.Lock()
	l.debts = debts
	l.total = domain.SumAmounts(debts)
	l.loaded = true
	l.snapMu.Unlock()
	return nil
}

// refresh refetches after a write. The write already happened, so a failed
// refetch only leaves the snapshot stale.
func (l *DebtList) refresh(ctx context.Context) {
	if err := l.fetch(ctx); err != nil {
		l.svc.log(l.owner).Warn("debt list left stale after write", "error", err)
	}
}

// History returns the owner's paid debts, most recently paid first. It does
// not touch the unpaid snapshot.
func (l *DebtList) History(ctx context.Context) (*domain.DebtListResponse, error) {
	paid := true
	debts, err := l.svc.DebtRepo.List(ctx, repository.DebtFilter{
		Owner:   l.owner,
		Paid:    &paid,
		OrderBy: repository.OrderByPaidAt,
	})
	if err != nil {
		return nil, storeError(err)
	}
	if debts == nil {
		debts = []*domain.Debt{}
	}
	return &domain.DebtListResponse{Debts: debts, Total: domain.SumAmounts(debts)}, nil
}

// Create validates and stores a new debt, then schedules its reminder.
// A reminder that cannot be scheduled is reported as a warning on the
// response; the debt is kept.
func (l *DebtList) Create(ctx context.Context, request *domain.CreateDebtRequest) (*domain.CreateDebtResponse, error) {
	if err := l.svc.Validate(request); err != nil {
		return nil, err
	}

	debt := &domain.Debt{
		Owner:  l.owner,
		Title:  strings.TrimSpace(request.Title),
		Amount: *request.Amount,
	}
	if request.Description != nil {
		if desc := strings.TrimSpace(*request.Description); desc != "" {
			debt.Description = &desc
		}
	}
	if request.DueAt != "" {
		due, err := utils.ParseDueDate(request.DueAt, l.svc.reminders.Options().Location)
		if err != nil {
			return nil, customError.WrapValidation("payback_date must be a date (YYYY-MM-DD) or an RFC 3339 timestamp")
		}
		debt.DueAt = &due
	}

	l.opMu.Lock()
	defer l.opMu.Unlock()

	if err := l.svc.DebtRepo.Insert(ctx, debt); err != nil {
		l.svc.log(l.owner).Error("failed to create debt", "error", err)
		return nil, storeError(err)
	}

	response := &domain.CreateDebtResponse{Debt: debt}

	handle, err := l.svc.reminders.Enable(ctx, debt, l.svc.DebtRepo)
	if err != nil {
		l.svc.log(l.owner).WithField("debt_id", debt.ID).Warn("debt created without reminder", "error", err)
		response.ReminderWarning = warningFor(err)
	}
	debt.ReminderHandle = handle

	l.refresh(ctx)
	return response, nil
}

func (l *DebtList) load(ctx context.Context, id string) (*domain.Debt, error) {
	debt, err := l.svc.DebtRepo.GetByID(ctx, l.owner, id)
	if err != nil {
		return nil, storeError(err)
	}
	return debt, nil
}

// MarkPaid cancels the debt's reminder and moves it to history
func (l *DebtList) MarkPaid(ctx context.Context, id string) error {
	l.opMu.Lock()
	defer l.opMu.Unlock()

	debt, err := l.load(ctx, id)
	if err != nil {
		return err
	}
	if debt.Paid {
		l.refresh(ctx)
		return nil
	}

	if err := l.svc.reminders.Cancel(ctx, l.owner, debt.ReminderHandle, debt.ID); err != nil {
		l.svc.log(l.owner).WithField("debt_id", debt.ID).Warn("reminder not cancelled", "error", err)
	}

	if err := l.svc.DebtRepo.Update(ctx, l.owner, id, repository.MarkPaidUpdate(l.svc.now().UTC())); err != nil {
		l.svc.log(l.owner).WithField("debt_id", id).Error("failed to mark debt paid", "error", err)
		return storeError(err)
	}

	l.refresh(ctx)
	return nil
}

// MarkUnpaid moves a paid debt back to the unpaid list. It comes back
// without a reminder unless rescheduling on restore is enabled.
func (l *DebtList) MarkUnpaid(ctx context.Context, id string) error {
	l.opMu.Lock()
	defer l.opMu.Unlock()

	debt, err := l.load(ctx, id)
	if err != nil {
		return err
	}
	if !debt.Paid {
		l.refresh(ctx)
		return nil
	}

	if err := l.svc.DebtRepo.Update(ctx, l.owner, id, repository.MarkUnpaidUpdate()); err != nil {
		l.svc.log(l.owner).WithField("debt_id", id).Error("failed to mark debt unpaid", "error", err)
		return storeError(err)
	}

	if l.svc.rescheduleOnRestore {
		debt.Paid = false
		debt.PaidAt = nil
		debt.ReminderHandle = nil
		if _, err := l.svc.reminders.Reschedule(ctx, debt, l.svc.DebtRepo); err != nil {
			l.svc.log(l.owner).WithField("debt_id", id).Warn("restored debt has no reminder", "error", err)
		}
	}

	l.refresh(ctx)
	return nil
}

// Delete cancels the debt's reminder and removes the debt for good
func (l *DebtList) Delete(ctx context.Context, id string) error {
	l.opMu.Lock()
	defer l.opMu.Unlock()

	debt, err := l.load(ctx, id)
	if err != nil {
		return err
	}

	if err := l.svc.reminders.Cancel(ctx, l.owner, debt.ReminderHandle, debt.ID); err != nil {
		l.svc.log(l.owner).WithField("debt_id", debt.ID).Warn("reminder not cancelled", "error", err)
	}

	if err := l.svc.DebtRepo.Delete(ctx, l.owner, id); err != nil {
		l.svc.log(l.owner).WithField("debt_id", id).Error("failed to delete debt", "error", err)
		return storeError(err)
	}

	l.refresh(ctx)
	return nil
}

// ToggleReminder flips the reminder of an unpaid debt. When enabled is given
// and already matches the debt's state nothing is done.
func (l *DebtList) ToggleReminder(ctx context.Context, id string, enabled *bool) (*domain.ToggleReminderResponse, error) {
	l.opMu.Lock()
	defer l.opMu.Unlock()

	debt, err := l.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if debt.Paid {
		return nil, customError.WrapValidation("paid debts have no reminder")
	}

	response := &domain.ToggleReminderResponse{DebtID: debt.ID}

	if enabled != nil && *enabled == debt.HasReminder() {
		response.Enabled = debt.HasReminder()
		response.ReminderHandle = debt.ReminderHandle
		return response, nil
	}

	turningOn := !debt.HasReminder()
	handle, err := l.svc.reminders.Toggle(ctx, debt, l.svc.DebtRepo)
	if err != nil {
		if !customError.IsReminder(err) {
			l.svc.log(l.owner).WithField("debt_id", id).Error("failed to store reminder state", "error", err)
			return nil, storeError(err)
		}
		response.Warning = warningFor(err)
	} else if turningOn && handle == nil {
		response.Warning = "no reminder was scheduled for this debt"
	}

	response.Enabled = handle != nil
	response.ReminderHandle = handle

	l.refresh(ctx)
	return response, nil
}
