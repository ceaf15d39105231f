package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	"github.com/holydev99/debtSet/internal/config"
	"github.com/holydev99/debtSet/internal/logger"
	"github.com/holydev99/debtSet/internal/notifier"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	log := logger.Dispatcher()

	log.Info("starting reminder dispatcher")

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	notifier.Configure(notifier.SettingsFromConfig(cfg))

	platform := notifier.NewRedisPlatform(redisClient, cfg.Redis.Prefix, cfg.Reminder.AutoGrantPermission)
	dispatcher := notifier.NewDispatcher(platform, notifier.NewLogDeliverer(), cfg.Dispatcher.BatchSize)

	c := cron.New()
	if _, err := dispatcher.Register(c, cfg.GetDispatchInterval()); err != nil {
		log.Error("failed to schedule dispatch job", "error", err)
		os.Exit(1)
	}

	c.Start()
	log.Info("dispatcher started", "interval", cfg.GetDispatchInterval())

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down dispatcher")
	<-c.Stop().Done()
	log.Info("dispatcher stopped")
}
