package reminder

import (
	"fmt"
	"time"

	"github.com/holydev99/debtSet/internal/domain"
	"github.com/holydev99/debtSet/pkg/utils"
)

// ComputeTrigger picks the instant a reminder for a debt due at dueAt should
// fire. It returns nil when there is no due date.
//
// A debt due today fires after the fallback window. Otherwise the reminder
// fires at MorningHour on the day before the due date, or after the fallback
// window when that slot has already passed.
func (s *Scheduler) ComputeTrigger(title string, dueAt *time.Time, now time.Time) *domain.Trigger {
	if dueAt == nil || dueAt.IsZero() {
		return nil
	}

	loc := s.opts.Location
	soon := now.Add(s.opts.FallbackWindow)

	if utils.SameDate(*dueAt, now, loc) {
		return &domain.Trigger{
			At:   soon,
			Kind: domain.TriggerDueToday,
			Body: fmt.Sprintf("%s is due TODAY!", title),
		}
	}

	candidate := utils.DayBeforeAt(*dueAt, s.opts.MorningHour, loc)
	if !candidate.After(now) {
		if utils.StartOfDay(*dueAt, loc).Before(utils.StartOfDay(now, loc)) {
			return &domain.Trigger{
				At:   soon,
				Kind: domain.TriggerOverdue,
				Body: fmt.Sprintf("%s was due on %s.", title, dueAt.In(loc).Format("Jan 2")),
			}
		}
		return &domain.Trigger{
			At:   soon,
			Kind: domain.TriggerDueTomorrow,
			Body: fmt.Sprintf("%s is due tomorrow.", title),
		}
	}

	return &domain.Trigger{
		At:   candidate,
		Kind: domain.TriggerDayBefore,
		Body: fmt.Sprintf("%s is due tomorrow.", title),
	}
}
