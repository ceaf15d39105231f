package cli

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/holydev99/debtSet/internal/config"
	"github.com/holydev99/debtSet/internal/logger"
	"github.com/holydev99/debtSet/internal/notifier"
	"github.com/holydev99/debtSet/internal/reminder"
	"github.com/holydev99/debtSet/internal/repository"
)

// ConfigOpener connects to the database and Redis named by cfg. The postgres
// driver must be registered by the caller.
func ConfigOpener(cfg *config.Config) Opener {
	return func(ctx context.Context) (*Backend, error) {
		log := logger.CLI()

		db, err := sqlx.ConnectContext(ctx, "postgres", cfg.Database.DSN())
		if err != nil {
			return nil, err
		}
		log.Debug("connected to database", "host", cfg.Database.Host)

		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		platform := notifier.NewRedisPlatform(rdb, cfg.Redis.Prefix, cfg.Reminder.AutoGrantPermission)
		if err := platform.Ping(ctx); err != nil {
			_ = rdb.Close()
			_ = db.Close()
			return nil, err
		}
		log.Debug("connected to redis", "addr", cfg.Redis.Addr())

		return &Backend{
			DB:        db,
			Debts:     repository.NewDebtRepository(db),
			Platform:  platform,
			Reminders: reminder.NewScheduler(platform, reminder.OptionsFromConfig(cfg)),
			Close: func() error {
				return errors.Join(rdb.Close(), db.Close())
			},
		}, nil
	}
}
