package notifier

import (
	"context"
	"time"

	"github.com/holydev99/debtSet/internal/domain"
	"github.com/holydev99/debtSet/internal/logger"

	"github.com/robfig/cron/v3"
)

// Deliverer puts a fired reminder in front of its owner
type Deliverer interface {
	Deliver(ctx context.Context, n domain.ScheduledNotification, settings HandlerSettings) error
}

// LogDeliverer writes fired reminders to the dispatcher log
type LogDeliverer struct {
	log logger.Logger
}

func NewLogDeliverer() *LogDeliverer {
	return &LogDeliverer{log: logger.Dispatcher()}
}

func (d *LogDeliverer) Deliver(ctx context.Context, n domain.ScheduledNotification, settings HandlerSettings) error {
	d.log.WithFields(map[string]any{
		"owner":      n.Owner,
		"debt_id":    n.CorrelationID,
		"handle":     n.Handle,
		"show_alert": settings.ShowAlert,
		"play_sound": settings.PlaySound,
		"set_badge":  settings.SetBadge,
	}).Info(n.Title + ": " + n.Body)
	return nil
}

// Dispatcher delivers reminders whose trigger time has passed
type Dispatcher struct {
	source    DueSource
	deliverer Deliverer
	batchSize int64
	now       func() time.Time
	log       logger.Logger
}

func NewDispatcher(source DueSource, deliverer Deliverer, batchSize int64) *Dispatcher {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &Dispatcher{
		source:    source,
		deliverer: deliverer,
		batchSize: batchSize,
		now:       time.Now,
		log:       logger.Dispatcher(),
	}
}

// RunOnce claims every due notification, batch by batch, and delivers it.
// It returns how many were delivered.
func (d *Dispatcher) RunOnce(ctx context.Context) (int, error) {
	delivered := 0
	settings := Handler()

	for {
		// claimed notifications are off the due set even when err is set
		due, err := d.source.ClaimDue(ctx, d.now(), d.batchSize)

		for _, n := range due {
			if err := d.deliverer.Deliver(ctx, n, settings); err != nil {
				d.log.WithField("handle", n.Handle).Error("failed to deliver reminder", "error", err)
				continue
			}
			delivered++
		}

		if err != nil {
			return delivered, err
		}
		if int64(len(due)) < d.batchSize {
			return delivered, nil
		}
	}
}

// Register adds the dispatch job to c, running every interval
func (d *Dispatcher) Register(c *cron.Cron, interval time.Duration) (cron.EntryID, error) {
	return c.AddFunc("@every "+interval.String(), func() {
		ctx, cancel := context.WithTimeout(context.Background(), interval+30*time.Second)
		defer cancel()

		n, err := d.RunOnce(ctx)
		if err != nil {
			d.log.Error("dispatch run failed", "error", err)
			return
		}
		if n > 0 {
			d.log.Info("reminders delivered", "count", n)
		}
	})
}
