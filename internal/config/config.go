// Package config loads runtime settings from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/dailytutor/dailytutor/internal/oracle"
)

// Config is the full runtime configuration.
type Config struct {
	// TelegramToken authenticates the bot with the Telegram API.
	TelegramToken string

	// DeveloperChatID receives crash reports. Zero disables forwarding.
	DeveloperChatID int64

	// DatabaseDSN selects the Postgres database. When empty, SQLitePath
	// is used instead.
	DatabaseDSN string

	// SQLitePath is the fallback embedded database file.
	SQLitePath string

	// HealthPort is the liveness probe port.
	HealthPort string

	// LogMode selects the logger preset ("dev" or "prod").
	LogMode string

	// DeliveryCron is the fan-out schedule.
	DeliveryCron string

	// DeliveryTimezone is the IANA zone the schedule runs in.
	DeliveryTimezone string

	Oracle oracle.Config
}

// Load reads configuration from the environment. A .env file in the
// working directory is merged in first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		TelegramToken:    getEnv("TELEGRAM_BOT_TOKEN", ""),
		DeveloperChatID:  getEnvInt64("TUTOR_DEVELOPER_CHAT_ID", 0),
		DatabaseDSN:      getEnv("DATABASE_URL", ""),
		SQLitePath:       getEnv("TUTOR_SQLITE_PATH", "dailytutor.db"),
		HealthPort:       getEnv("PORT", "8080"),
		LogMode:          getEnv("TUTOR_LOG_MODE", "prod"),
		DeliveryCron:     getEnv("TUTOR_DELIVERY_CRON", "0 15 * * *"),
		DeliveryTimezone: getEnv("TUTOR_DELIVERY_TZ", "US/Eastern"),
		Oracle:           oracle.ConfigFromEnv(),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings a running bot cannot do without.
func (c *Config) Validate() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("config: TELEGRAM_BOT_TOKEN is required")
	}
	if c.DatabaseDSN == "" && c.SQLitePath == "" {
		return fmt.Errorf("config: DATABASE_URL or TUTOR_SQLITE_PATH is required")
	}
	return c.Oracle.Validate()
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}
