package notifier

import (
	"sync"

	"github.com/holydev99/debtSet/internal/config"
)

// HandlerSettings control how a fired notification is presented
type HandlerSettings struct {
	ShowAlert bool `json:"show_alert"`
	PlaySound bool `json:"play_sound"`
	SetBadge  bool `json:"set_badge"`
}

// DefaultHandlerSettings are used when Configure was never called
var DefaultHandlerSettings = HandlerSettings{ShowAlert: true, PlaySound: true}

var (
	handlerMu         sync.RWMutex
	handlerConfigured bool
	handlerSettings   = DefaultHandlerSettings
)

func SettingsFromConfig(cfg *config.Config) HandlerSettings {
	return HandlerSettings{
		ShowAlert: cfg.Reminder.ShowAlert,
		PlaySound: cfg.Reminder.PlaySound,
		SetBadge:  cfg.Reminder.SetBadge,
	}
}

// Configure sets the process-wide handler settings at startup. Only the
// first call has an effect; it reports whether this call was applied.
func Configure(settings HandlerSettings) bool {
	handlerMu.Lock()
	defer handlerMu.Unlock()

	if handlerConfigured {
		return false
	}
	handlerSettings = settings
	handlerConfigured = true
	return true
}

// Handler returns the process-wide handler settings
func Handler() HandlerSettings {
	handlerMu.RLock()
	defer handlerMu.RUnlock()
	return handlerSettings
}

// resetHandler is for tests only
func resetHandler() {
	handlerMu.Lock()
	defer handlerMu.Unlock()
	handlerConfigured = false
	handlerSettings = DefaultHandlerSettings
}
