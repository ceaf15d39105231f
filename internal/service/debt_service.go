package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/holydev99/debtSet/internal/config"
	"github.com/holydev99/debtSet/internal/domain"
	"github.com/holydev99/debtSet/internal/logger"
	"github.com/holydev99/debtSet/internal/reminder"
	"github.com/holydev99/debtSet/internal/repository"
	customError "github.com/holydev99/debtSet/pkg/errors"
)

// DefaultListCacheSize is how many idle owner lists are kept when no config is given
const DefaultListCacheSize = 1024

// DebtService owns the store and reminder scheduler and hands out one
// DebtList per owner. Lists with an operation in flight stay in active;
// idle ones move to an LRU and are dropped once it is full.
type DebtService struct {
	DebtRepo  repository.DebtRepository
	reminders *reminder.Scheduler
	validate  *validator.Validate

	rescheduleOnRestore bool
	now                 func() time.Time

	mu     sync.Mutex
	active map[string]*listRef
	idle   *lru.Cache[string, *DebtList]
}

type listRef struct {
	list *DebtList
	refs int
}

func NewDebtService(
	debtRepo repository.DebtRepository,
	reminders *reminder.Scheduler,
	config *config.Config,
) *DebtService {
	s := &DebtService{
		DebtRepo:  debtRepo,
		reminders: reminders,
		validate:  domain.NewValidator(),
		now:       time.Now,
		active:    make(map[string]*listRef),
	}

	size := DefaultListCacheSize
	if config != nil {
		s.rescheduleOnRestore = config.Reminder.RescheduleOnRestore
		if config.Cache.DebtListSize > 0 {
			size = config.Cache.DebtListSize
		}
	}
	s.idle, _ = lru.New[string, *DebtList](size)
	return s
}

// WithClock replaces the time source used for paid_at, for tests
func (s *DebtService) WithClock(now func() time.Time) *DebtService {
	s.now = now
	return s
}

// WithRescheduleOnRestore controls whether MarkUnpaid schedules a new reminder
func (s *DebtService) WithRescheduleOnRestore(enabled bool) *DebtService {
	s.rescheduleOnRestore = enabled
	return s
}

// WithListCacheSize replaces the idle list cache, dropping every idle list
func (s *DebtService) WithListCacheSize(size int) *DebtService {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idle, err := lru.New[string, *DebtList](size); err == nil {
		s.idle = idle
	}
	return s
}

// For returns the debt list of owner, creating it on first use. A list
// nobody is using may be dropped later; the next call starts a fresh one.
func (s *DebtService) For(owner string) *DebtList {
	list, done := s.acquire(owner)
	defer done()
	return list
}

// acquire pins the list of owner until done is called
func (s *DebtService) acquire(owner string) (*DebtList, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ref, ok := s.active[owner]
	if !ok {
		list, cached := s.idle.Peek(owner)
		if cached {
			s.idle.Remove(owner)
		} else {
			list = newDebtList(owner, s)
		}
		ref = &listRef{list: list}
		s.active[owner] = ref
	}
	ref.refs++

	return ref.list, func() { s.release(owner, ref) }
}

func (s *DebtService) release(owner string, ref *listRef) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ref.refs--
	if ref.refs > 0 {
		return
	}
	delete(s.active, owner)
	s.idle.Add(owner, ref.list)
}

// CachedLists reports how many owner lists are held in memory
func (s *DebtService) CachedLists() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.active) + s.idle.Len()
}

// storeError keeps business errors such as not-found as they are and wraps
// anything else coming from the store.
func storeError(err error) error {
	var be *customError.BusinessError
	if errors.As(err, &be) {
		return err
	}
	return customError.WrapDatabaseError(err)
}

// warningFor renders a reminder failure for the user
func warningFor(err error) string {
	return customError.PublicMessage(err, "the reminder could not be saved")
}

// Validate checks a create request without touching the store
func (s *DebtService) Validate(request *domain.CreateDebtRequest) error {
	if err := s.validate.Struct(request); err != nil {
		return customError.WrapValidation(domain.ValidationMessage(err))
	}
	return nil
}

// Logger for operations on one owner's list
func (s *DebtService) log(owner string) logger.Logger {
	return logger.Store().WithField("owner", owner)
}

// Owner-keyed shortcuts used by the HTTP layer

func (s *DebtService) Fetch(ctx context.Context, owner string) (*domain.DebtListResponse, error) {
	list, done := s.acquire(owner)
	defer done()
	return list.Fetch(ctx)
}

func (s *DebtService) History(ctx context.Context, owner string) (*domain.DebtListResponse, error) {
	list, done := s.acquire(owner)
	defer done()
	return list.History(ctx)
}

func (s *DebtService) Create(ctx context.Context, owner string, request *domain.CreateDebtRequest) (*domain.CreateDebtResponse, error) {
	list, done := s.acquire(owner)
	defer done()
	return list.Create(ctx, request)
}

func (s *DebtService) MarkPaid(ctx context.Context, owner, id string) error {
	list, done := s.acquire(owner)
	defer done()
	return list.MarkPaid(ctx, id)
}

func (s *DebtService) MarkUnpaid(ctx context.Context, owner, id string) error {
	list, done := s.acquire(owner)
	defer done()
	return list.MarkUnpaid(ctx, id)
}

func (s *DebtService) Delete(ctx context.Context, owner, id string) error {
	list, done := s.acquire(owner)
	defer done()
	return list.Delete(ctx, id)
}

func (s *DebtService) ToggleReminder(ctx context.Context, owner, id string, enabled *bool) (*domain.ToggleReminderResponse, error) {
	list, done := s.acquire(owner)
	defer done()
	return list.ToggleReminder(ctx, id, enabled)
}

func (s *DebtService) Snapshot(owner string) *domain.DebtListResponse {
	list, done := s.acquire(owner)
	defer done()
	return list.Snapshot()
}
