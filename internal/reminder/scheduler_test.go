package reminder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/holydev99/debtSet/internal/domain"
	"github.com/holydev99/debtSet/internal/mocks"
	customError "github.com/holydev99/debtSet/pkg/errors"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestScheduler(platform *mocks.MockPlatform) *Scheduler {
	opts := DefaultOptions()
	opts.Location = time.UTC
	return NewScheduler(platform, opts).WithClock(func() time.Time { return fixedNow })
}

func strPtr(s string) *string { return &s }

func unpaidDebt(due *time.Time) *domain.Debt {
	return &domain.Debt{
		ID:     "debt-1",
		Owner:  "user-1",
		Title:  "Rent",
		Amount: decimal.NewFromInt(500),
		DueAt:  due,
	}
}

func TestScheduler_Schedule(t *testing.T) {
	ctx := context.Background()

	t.Run("due today schedules ten seconds out", func(t *testing.T) {
		platform := (&mocks.MockPlatform{}).GrantAll()
		platform.On("Schedule", mock.Anything, "user-1",
			mock.MatchedBy(func(c domain.NotificationContent) bool {
				return c.Body == "Rent is due TODAY! Amount: 500.00"
			}),
			fixedNow.Add(10*time.Second), "debt-1").
			Return("n-1", nil).Once()

		handle, err := newTestScheduler(platform).Schedule(ctx, unpaidDebt(at(fixedNow)))

		require.NoError(t, err)
		require.NotNil(t, handle)
		assert.Equal(t, "n-1", *handle)
		platform.AssertExpectations(t)
	})

	t.Run("ten days out schedules the morning before", func(t *testing.T) {
		platform := (&mocks.MockPlatform{}).GrantAll()
		platform.On("Schedule", mock.Anything, "user-1", mock.Anything,
			time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC), "debt-1").
			Return("n-2", nil).Once()

		due := fixedNow.AddDate(0, 0, 10)
		handle, err := newTestScheduler(platform).Schedule(ctx, unpaidDebt(&due))

		require.NoError(t, err)
		assert.Equal(t, "n-2", *handle)
		platform.AssertExpectations(t)
	})

	t.Run("no due date schedules nothing", func(t *testing.T) {
		platform := &mocks.MockPlatform{}

		handle, err := newTestScheduler(platform).Schedule(ctx, unpaidDebt(nil))

		assert.NoError(t, err)
		assert.Nil(t, handle)
		platform.AssertNotCalled(t, "Schedule", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unsupported platform is a no-op", func(t *testing.T) {
		platform := &mocks.MockPlatform{}
		opts := DefaultOptions()
		opts.SupportsLocalNotifications = false

		handle, err := NewScheduler(platform, opts).Schedule(ctx, unpaidDebt(at(fixedNow)))

		assert.NoError(t, err)
		assert.Nil(t, handle)
		platform.AssertExpectations(t)
	})

	t.Run("permission requested once then granted", func(t *testing.T) {
		platform := &mocks.MockPlatform{}
		platform.On("PermissionStatus", mock.Anything, "user-1").Return(domain.PermissionUndetermined, nil).Once()
		platform.On("RequestPermission", mock.Anything, "user-1").Return(domain.PermissionGranted, nil).Once()
		platform.On("Schedule", mock.Anything, "user-1", mock.Anything, mock.Anything, "debt-1").Return("n-3", nil).Once()

		handle, err := newTestScheduler(platform).Schedule(ctx, unpaidDebt(at(fixedNow)))

		require.NoError(t, err)
		assert.Equal(t, "n-3", *handle)
		platform.AssertExpectations(t)
	})

	t.Run("permission refused is a soft warning", func(t *testing.T) {
		platform := &mocks.MockPlatform{}
		platform.On("PermissionStatus", mock.Anything, "user-1").Return(domain.PermissionDenied, nil).Once()
		platform.On("RequestPermission", mock.Anything, "user-1").Return(domain.PermissionDenied, nil).Once()

		handle, err := newTestScheduler(platform).Schedule(ctx, unpaidDebt(at(fixedNow)))

		assert.Nil(t, handle)
		assert.True(t, customError.IsReminder(err))
		assert.Equal(t, customError.ErrCodePermissionDenied, customError.Code(err))
		platform.AssertExpectations(t)
	})

	t.Run("platform failure is a reminder error", func(t *testing.T) {
		platform := (&mocks.MockPlatform{}).GrantAll()
		platform.On("Schedule", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return("", errors.New("redis down")).Once()

		handle, err := newTestScheduler(platform).Schedule(ctx, unpaidDebt(at(fixedNow)))

		assert.Nil(t, handle)
		assert.True(t, customError.IsReminder(err))
	})
}

func TestScheduler_Cancel(t *testing.T) {
	ctx := context.Background()

	t.Run("by handle", func(t *testing.T) {
		platform := &mocks.MockPlatform{}
		platform.On("Cancel", mock.Anything, "n-1").Return(nil).Once()

		err := newTestScheduler(platform).Cancel(ctx, "user-1", strPtr("n-1"), "debt-1")

		require.NoError(t, err)
		platform.AssertExpectations(t)
		platform.AssertNotCalled(t, "ListScheduled", mock.Anything, mock.Anything)
	})

	t.Run("unknown handle is not an error", func(t *testing.T) {
		platform := &mocks.MockPlatform{}
		platform.On("Cancel", mock.Anything, "gone").Return(nil).Twice()
		s := newTestScheduler(platform)

		assert.NoError(t, s.Cancel(ctx, "user-1", strPtr("gone"), "debt-1"))
		assert.NoError(t, s.Cancel(ctx, "user-1", strPtr("gone"), "debt-1"))
		platform.AssertExpectations(t)
	})

	t.Run("without handle cancels every correlated notification", func(t *testing.T) {
		platform := &mocks.MockPlatform{}
		platform.On("ListScheduled", mock.Anything, "user-1").Return([]domain.ScheduledNotification{
			{Handle: "n-1", CorrelationID: "debt-1"},
			{Handle: "n-2", CorrelationID: "debt-2"},
			{Handle: "n-3", CorrelationID: "debt-1"},
		}, nil).Once()
		platform.On("Cancel", mock.Anything, "n-1").Return(nil).Once()
		platform.On("Cancel", mock.Anything, "n-3").Return(nil).Once()

		err := newTestScheduler(platform).Cancel(ctx, "user-1", nil, "debt-1")

		require.NoError(t, err)
		platform.AssertExpectations(t)
		platform.AssertNotCalled(t, "Cancel", mock.Anything, "n-2")
	})

	t.Run("unknown debt id is not an error", func(t *testing.T) {
		platform := &mocks.MockPlatform{}
		platform.On("ListScheduled", mock.Anything, "user-1").Return([]domain.ScheduledNotification{}, nil).Once()

		err := newTestScheduler(platform).Cancel(ctx, "user-1", nil, "debt-404")

		assert.NoError(t, err)
		platform.AssertNotCalled(t, "Cancel", mock.Anything, mock.Anything)
	})

	t.Run("without handle on an unsupported platform nothing is scanned", func(t *testing.T) {
		platform := &mocks.MockPlatform{}
		opts := DefaultOptions()
		opts.SupportsLocalNotifications = false

		err := NewScheduler(platform, opts).Cancel(ctx, "user-1", nil, "debt-1")

		assert.NoError(t, err)
		assert.Empty(t, platform.Calls)
	})

	t.Run("platform failure is a reminder error", func(t *testing.T) {
		platform := &mocks.MockPlatform{}
		platform.On("Cancel", mock.Anything, "n-1").Return(errors.New("redis down")).Once()

		err := newTestScheduler(platform).Cancel(ctx, "user-1", strPtr("n-1"), "debt-1")

		assert.True(t, customError.IsReminder(err))
	})
}

func TestScheduler_Toggle(t *testing.T) {
	ctx := context.Background()

	t.Run("on: schedules and persists the handle", func(t *testing.T) {
		platform := (&mocks.MockPlatform{}).GrantAll()
		platform.On("Schedule", mock.Anything, "user-1", mock.Anything, mock.Anything, "debt-1").Return("n-1", nil).Once()
		store := &mocks.MockDebtRepository{}
		store.On("SetReminderHandle", mock.Anything, "user-1", "debt-1", strPtr("n-1")).Return(nil).Once()

		handle, err := newTestScheduler(platform).Toggle(ctx, unpaidDebt(at(fixedNow)), store)

		require.NoError(t, err)
		assert.Equal(t, "n-1", *handle)
		platform.AssertExpectations(t)
		store.AssertExpectations(t)
	})

	t.Run("off: cancels and clears the handle", func(t *testing.T) {
		platform := &mocks.MockPlatform{}
		platform.On("Cancel", mock.Anything, "n-1").Return(nil).Once()
		store := &mocks.MockDebtRepository{}
		store.On("SetReminderHandle", mock.Anything, "user-1", "debt-1", (*string)(nil)).Return(nil).Once()

		debt := unpaidDebt(at(fixedNow))
		debt.ReminderHandle = strPtr("n-1")
		handle, err := newTestScheduler(platform).Toggle(ctx, debt, store)

		require.NoError(t, err)
		assert.Nil(t, handle)
		platform.AssertExpectations(t)
		store.AssertExpectations(t)
	})

	t.Run("on without a trigger leaves the debt without reminder", func(t *testing.T) {
		platform := &mocks.MockPlatform{}
		store := &mocks.MockDebtRepository{}

		handle, err := newTestScheduler(platform).Toggle(ctx, unpaidDebt(nil), store)

		assert.NoError(t, err)
		assert.Nil(t, handle)
		store.AssertNotCalled(t, "SetReminderHandle", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("on with a failing store cancels the fresh reminder", func(t *testing.T) {
		platform := (&mocks.MockPlatform{}).GrantAll()
		platform.On("Schedule", mock.Anything, "user-1", mock.Anything, mock.Anything, "debt-1").Return("n-1", nil).Once()
		platform.On("Cancel", mock.Anything, "n-1").Return(nil).Once()
		store := &mocks.MockDebtRepository{}
		store.On("SetReminderHandle", mock.Anything, "user-1", "debt-1", strPtr("n-1")).Return(errors.New("db down")).Once()

		handle, err := newTestScheduler(platform).Toggle(ctx, unpaidDebt(at(fixedNow)), store)

		assert.Error(t, err)
		assert.False(t, customError.IsReminder(err))
		assert.Nil(t, handle)
		platform.AssertExpectations(t)
	})
}

func TestScheduler_Reschedule(t *testing.T) {
	platform := (&mocks.MockPlatform{}).GrantAll()
	platform.On("ListScheduled", mock.Anything, "user-1").Return([]domain.ScheduledNotification{
		{Handle: "stray", CorrelationID: "debt-1"},
	}, nil).Once()
	platform.On("Cancel", mock.Anything, "stray").Return(nil).Once()
	platform.On("Schedule", mock.Anything, "user-1", mock.Anything, mock.Anything, "debt-1").Return("n-2", nil).Once()
	store := &mocks.MockDebtRepository{}
	store.On("SetReminderHandle", mock.Anything, "user-1", "debt-1", strPtr("n-2")).Return(nil).Once()

	handle, err := newTestScheduler(platform).Reschedule(context.Background(), unpaidDebt(at(fixedNow)), store)

	require.NoError(t, err)
	assert.Equal(t, "n-2", *handle)
	platform.AssertExpectations(t)
	store.AssertExpectations(t)

	// the stray is cancelled before the new reminder exists
	var cancelIdx, scheduleIdx int
	for i, call := range platform.Calls {
		switch call.Method {
		case "Cancel":
			cancelIdx = i
		case "Schedule":
			scheduleIdx = i
		}
	}
	assert.Less(t, cancelIdx, scheduleIdx)
}
