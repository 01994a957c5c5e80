package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "test-token")
	t.Setenv("OPENAI_API_KEY", "test-key")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "test-token", cfg.TelegramToken)
	require.Equal(t, "8080", cfg.HealthPort)
	require.Equal(t, "0 15 * * *", cfg.DeliveryCron)
	require.Equal(t, "US/Eastern", cfg.DeliveryTimezone)
	require.Equal(t, "dailytutor.db", cfg.SQLitePath)
}

func TestLoad_MissingTokenFails(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("OPENAI_API_KEY", "test-key")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "test-token")
	t.Setenv("OPENAI_API_KEY", "test-key")
	t.Setenv("TUTOR_DEVELOPER_CHAT_ID", "12345")
	t.Setenv("TUTOR_DELIVERY_CRON", "30 9 * * *")
	t.Setenv("TUTOR_DELIVERY_TZ", "Europe/Berlin")
	t.Setenv("DATABASE_URL", "postgres://localhost/tutor")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, int64(12345), cfg.DeveloperChatID)
	require.Equal(t, "30 9 * * *", cfg.DeliveryCron)
	require.Equal(t, "Europe/Berlin", cfg.DeliveryTimezone)
	require.Equal(t, "postgres://localhost/tutor", cfg.DatabaseDSN)
}
