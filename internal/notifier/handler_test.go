package notifier

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/holydev99/debtSet/internal/config"
)

func TestSettingsFromConfig(t *testing.T) {
	cfg := &config.Config{}
	cfg.Reminder.ShowAlert = true
	cfg.Reminder.SetBadge = true

	assert.Equal(t, HandlerSettings{ShowAlert: true, SetBadge: true}, SettingsFromConfig(cfg))
}
