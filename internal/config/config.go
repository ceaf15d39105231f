package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for our application
type Config struct {
	Server     ServerConfig     `mapstructure:",squash"`
	Database   DatabaseConfig   `mapstructure:",squash"`
	Redis      RedisConfig      `mapstructure:",squash"`
	Reminder   ReminderConfig   `mapstructure:",squash"`
	Dispatcher DispatcherConfig `mapstructure:",squash"`
	Logging    LoggingConfig    `mapstructure:",squash"`
	Health     HealthConfig     `mapstructure:",squash"`
	Cache      CacheConfig      `mapstructure:",squash"`
}

type ServerConfig struct {
	Port         string `mapstructure:"SERVER_PORT"`
	Host         string `mapstructure:"SERVER_HOST"`
	Env          string `mapstructure:"ENV"`
	ReadTimeout  string `mapstructure:"SERVER_READ_TIMEOUT"`
	WriteTimeout string `mapstructure:"SERVER_WRITE_TIMEOUT"`
}

type DatabaseConfig struct {
	URL             string `mapstructure:"DATABASE_URL"`
	Host            string `mapstructure:"DATABASE_HOST"`
	Port            string `mapstructure:"DATABASE_PORT"`
	Name            string `mapstructure:"DATABASE_NAME"`
	User            string `mapstructure:"DATABASE_USER"`
	Password        string `mapstructure:"DATABASE_PASSWORD"`
	SSLMode         string `mapstructure:"DATABASE_SSLMODE"`
	MaxOpenConns    int    `mapstructure:"DATABASE_MAX_OPEN_CONNS"`
	MaxIdleConns    int    `mapstructure:"DATABASE_MAX_IDLE_CONNS"`
	ConnMaxLifetime string `mapstructure:"DATABASE_CONN_MAX_LIFETIME"`
}

type RedisConfig struct {
	Host     string `mapstructure:"REDIS_HOST"`
	Port     string `mapstructure:"REDIS_PORT"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB"`
	Prefix   string `mapstructure:"REDIS_KEY_PREFIX"`
}

// ReminderConfig drives when due-date reminders fire and how the
// notification platform behaves.
type ReminderConfig struct {
	FallbackWindow             string `mapstructure:"REMINDER_FALLBACK_WINDOW"`
	MorningHour                int    `mapstructure:"REMINDER_MORNING_HOUR"`
	Timezone                   string `mapstructure:"REMINDER_TIMEZONE"`
	SupportsLocalNotifications bool   `mapstructure:"REMINDER_SUPPORTS_NOTIFICATIONS"`
	AutoGrantPermission        bool   `mapstructure:"REMINDER_AUTO_GRANT_PERMISSION"`
	RescheduleOnRestore        bool   `mapstructure:"REMINDER_RESCHEDULE_ON_RESTORE"`
	ShowAlert                  bool   `mapstructure:"NOTIFICATION_SHOW_ALERT"`
	PlaySound                  bool   `mapstructure:"NOTIFICATION_PLAY_SOUND"`
	SetBadge                   bool   `mapstructure:"NOTIFICATION_SET_BADGE"`
}

type DispatcherConfig struct {
	Interval  string `mapstructure:"DISPATCH_INTERVAL"`
	BatchSize int64  `mapstructure:"DISPATCH_BATCH_SIZE"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"LOG_LEVEL"`
	Format string `mapstructure:"LOG_FORMAT"`
}

// CacheConfig bounds in-memory state kept by the API server
type CacheConfig struct {
	DebtListSize int `mapstructure:"DEBT_LIST_CACHE_SIZE"`
}

type HealthConfig struct {
	Timeout string `mapstructure:"HEALTH_CHECK_TIMEOUT"`
}

var defaults = map[string]interface{}{
	"SERVER_PORT":                     "8080",
	"SERVER_HOST":                     "0.0.0.0",
	"ENV":                             "development",
	"SERVER_READ_TIMEOUT":             "15s",
	"SERVER_WRITE_TIMEOUT":            "15s",
	"DATABASE_URL":                    "",
	"DATABASE_HOST":                   "localhost",
	"DATABASE_PORT":                   "5432",
	"DATABASE_NAME":                   "debtset",
	"DATABASE_USER":                   "postgres",
	"DATABASE_PASSWORD":               "",
	"DATABASE_SSLMODE":                "disable",
	"DATABASE_MAX_OPEN_CONNS":         25,
	"DATABASE_MAX_IDLE_CONNS":         5,
	"DATABASE_CONN_MAX_LIFETIME":      "5m",
	"REDIS_HOST":                      "localhost",
	"REDIS_PORT":                      "6379",
	"REDIS_PASSWORD":                  "",
	"REDIS_DB":                        0,
	"REDIS_KEY_PREFIX":                "debtset",
	"REMINDER_FALLBACK_WINDOW":        "10s",
	"REMINDER_MORNING_HOUR":           9,
	"REMINDER_TIMEZONE":               "Local",
	"REMINDER_SUPPORTS_NOTIFICATIONS": true,
	"REMINDER_AUTO_GRANT_PERMISSION":  true,
	"REMINDER_RESCHEDULE_ON_RESTORE":  false,
	"NOTIFICATION_SHOW_ALERT":         true,
	"NOTIFICATION_PLAY_SOUND":         true,
	"NOTIFICATION_SET_BADGE":          false,
	"DISPATCH_INTERVAL":               "5s",
	"DISPATCH_BATCH_SIZE":             100,
	"LOG_LEVEL":                       "info",
	"LOG_FORMAT":                      "json",
	"HEALTH_CHECK_TIMEOUT":            "5s",
	"DEBT_LIST_CACHE_SIZE":            1024,
}

// Load reads configuration from environment variables and files
func Load() (*Config, error) {
	// A missing .env is fine, the environment wins anyway.
	_ = godotenv.Load()

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.AutomaticEnv()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./deployments")
	_ = v.ReadInConfig()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	if c.Database.URL == "" && c.Database.Host == "" {
		return fmt.Errorf("DATABASE_URL or DATABASE_HOST is required")
	}

	durations := map[string]string{
		"SERVER_READ_TIMEOUT":        c.Server.ReadTimeout,
		"SERVER_WRITE_TIMEOUT":       c.Server.WriteTimeout,
		"DATABASE_CONN_MAX_LIFETIME": c.Database.ConnMaxLifetime,
		"REMINDER_FALLBACK_WINDOW":   c.Reminder.FallbackWindow,
		"DISPATCH_INTERVAL":          c.Dispatcher.Interval,
		"HEALTH_CHECK_TIMEOUT":       c.Health.Timeout,
	}
	for key, value := range durations {
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("%s must be a valid duration: %w", key, err)
		}
		if d < 0 {
			return fmt.Errorf("%s must not be negative", key)
		}
	}

	if c.Reminder.MorningHour < 0 || c.Reminder.MorningHour > 23 {
		return fmt.Errorf("REMINDER_MORNING_HOUR must be between 0 and 23")
	}

	if _, err := time.LoadLocation(c.Reminder.Timezone); err != nil {
		return fmt.Errorf("REMINDER_TIMEZONE must be a valid IANA zone: %w", err)
	}

	if c.Dispatcher.BatchSize <= 0 {
		return fmt.Errorf("DISPATCH_BATCH_SIZE must be greater than 0")
	}

	if c.Cache.DebtListSize <= 0 {
		return fmt.Errorf("DEBT_LIST_CACHE_SIZE must be greater than 0")
	}

	return nil
}

// DSN returns the postgres connection string, preferring DATABASE_URL.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}

	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   d.Host + ":" + d.Port,
		Path:   "/" + d.Name,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()

	return u.String()
}

// Addr returns host:port of the redis server
func (r RedisConfig) Addr() string {
	return r.Host + ":" + r.Port
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development" || c.Server.Env == "dev"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production" || c.Server.Env == "prod"
}

// GetFallbackWindow returns how soon a reminder fires when its
// regular slot has already passed.
func (c *Config) GetFallbackWindow() time.Duration {
	return mustDuration(c.Reminder.FallbackWindow)
}

// GetLocation returns the zone reminders are computed in
func (c *Config) GetLocation() *time.Location {
	loc, err := time.LoadLocation(c.Reminder.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func (c *Config) GetDispatchInterval() time.Duration {
	return mustDuration(c.Dispatcher.Interval)
}

func (c *Config) GetConnMaxLifetime() time.Duration {
	return mustDuration(c.Database.ConnMaxLifetime)
}

func (c *Config) GetReadTimeout() time.Duration {
	return mustDuration(c.Server.ReadTimeout)
}

func (c *Config) GetWriteTimeout() time.Duration {
	return mustDuration(c.Server.WriteTimeout)
}

// GetHealthTimeout returns the health check timeout as duration
func (c *Config) GetHealthTimeout() time.Duration {
	return mustDuration(c.Health.Timeout)
}

func mustDuration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}
