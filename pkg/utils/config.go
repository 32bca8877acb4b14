package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Notify   NotifyConfig
	Booking  BookingConfig
	Session  SessionConfig
	Metrics  MetricsConfig
}

type AppConfig struct {
	Name            string
	Port            string
	Debug           bool
	LogPath         string
	Timezone        string
	ShutdownTimeout time.Duration
	CORSOrigins     []string
}

type DatabaseConfig struct {
	Host          string
	Port          string
	Name          string
	User          string
	Password      string
	MaxConns      int32
	RetryAttempts int
	RetryBackoff  time.Duration
}

// RedisConfig is optional; an empty URL disables the slot cache.
type RedisConfig struct {
	URL     string
	SlotTTL time.Duration
}

// NotifyConfig is optional; an empty AMQPURL makes notifications log-only.
type NotifyConfig struct {
	AMQPURL     string
	Exchange    string
	Workers     int
	QueueSize   int
	MaxAttempts int
	Backoff     time.Duration
}

type BookingConfig struct {
	DailyCap                 int
	CompensationValidityDays int
	CodeLength               int
	CancelUseSlotHour        bool
}

type SessionConfig struct {
	ExpiryHours int
}

type MetricsConfig struct {
	Enabled bool
	Path    string
}

// Location resolves the configured timezone used for slot arithmetic.
func (c *Config) Location() (*time.Location, error) {
	if c.App.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %s: %w", c.App.Timezone, err)
	}
	return loc, nil
}

func LoadConfig() (*Config, error) {
	return LoadConfigFrom(".env")
}

// LoadConfigFrom reads an optional dotenv file, then lets the environment override it.
func LoadConfigFrom(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")

	v.SetDefault("APP_NAME", "pitch-booking")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("APP_TIMEZONE", "UTC")
	v.SetDefault("SHUTDOWN_TIMEOUT", 10*time.Second)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_RETRY_ATTEMPTS", 3)
	v.SetDefault("DB_RETRY_BACKOFF", 100*time.Millisecond)

	v.SetDefault("CACHE_SLOT_TTL", 30*time.Second)

	v.SetDefault("NOTIFY_EXCHANGE", "pitch.notifications")
	v.SetDefault("NOTIFY_WORKERS", 2)
	v.SetDefault("NOTIFY_QUEUE_SIZE", 256)
	v.SetDefault("NOTIFY_MAX_ATTEMPTS", 3)
	v.SetDefault("NOTIFY_BACKOFF", 500*time.Millisecond)

	v.SetDefault("BOOKING_DAILY_CAP", 3)
	v.SetDefault("COMPENSATION_VALIDITY_DAYS", 14)
	v.SetDefault("CODE_LENGTH", 8)
	v.SetDefault("CANCEL_USE_SLOT_HOUR", false)

	v.SetDefault("SESSION_EXPIRY_HOURS", 24)

	v.SetDefault("METRICS_ENABLED", true)
	v.SetDefault("METRICS_PATH", "/metrics")

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	v.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:            v.GetString("APP_NAME"),
			Port:            v.GetString("PORT"),
			Debug:           v.GetBool("DEBUG"),
			LogPath:         v.GetString("LOG_PATH"),
			Timezone:        v.GetString("APP_TIMEZONE"),
			ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
			CORSOrigins:     splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Database: DatabaseConfig{
			Host:          v.GetString("DB_HOST"),
			Port:          v.GetString("DB_PORT"),
			Name:          v.GetString("DB_NAME"),
			User:          v.GetString("DB_USER"),
			Password:      v.GetString("DB_PASS"),
			MaxConns:      v.GetInt32("DB_MAX_CONNS"),
			RetryAttempts: v.GetInt("DB_RETRY_ATTEMPTS"),
			RetryBackoff:  v.GetDuration("DB_RETRY_BACKOFF"),
		},
		Redis: RedisConfig{
			URL:     v.GetString("REDIS_URL"),
			SlotTTL: v.GetDuration("CACHE_SLOT_TTL"),
		},
		Notify: NotifyConfig{
			AMQPURL:     v.GetString("AMQP_URL"),
			Exchange:    v.GetString("NOTIFY_EXCHANGE"),
			Workers:     v.GetInt("NOTIFY_WORKERS"),
			QueueSize:   v.GetInt("NOTIFY_QUEUE_SIZE"),
			MaxAttempts: v.GetInt("NOTIFY_MAX_ATTEMPTS"),
			Backoff:     v.GetDuration("NOTIFY_BACKOFF"),
		},
		Booking: BookingConfig{
			DailyCap:                 v.GetInt("BOOKING_DAILY_CAP"),
			CompensationValidityDays: v.GetInt("COMPENSATION_VALIDITY_DAYS"),
			CodeLength:               v.GetInt("CODE_LENGTH"),
			CancelUseSlotHour:        v.GetBool("CANCEL_USE_SLOT_HOUR"),
		},
		Session: SessionConfig{
			ExpiryHours: v.GetInt("SESSION_EXPIRY_HOURS"),
		},
		Metrics: MetricsConfig{
			Enabled: v.GetBool("METRICS_ENABLED"),
			Path:    v.GetString("METRICS_PATH"),
		},
	}

	return config, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
