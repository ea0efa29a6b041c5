package config

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8000", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DB.Driver)
	assert.Equal(t, 20, cfg.MaxTables)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
	assert.False(t, cfg.Auth.Enabled())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "memory")
	t.Setenv("MAX_TABLES", "12")
	t.Setenv("JWT_SECRET_KEY", "s3cret")
	t.Setenv("CORS_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("TELEGRAM_CHAT_ID", "-100200")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.DB.Driver)
	assert.Equal(t, 12, cfg.MaxTables)
	assert.True(t, cfg.Auth.Enabled())
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Equal(t, int64(-100200), cfg.Telegram.ChatID)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"unknown driver", "DB_DRIVER", "mysql"},
		{"zero tables", "MAX_TABLES", "0"},
		{"not a number", "MAX_TABLES", "many"},
		{"zero rps", "RATE_LIMIT_RPS", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestSetupLogging(t *testing.T) {
	defer logrus.SetLevel(logrus.InfoLevel)
	defer logrus.SetFormatter(&logrus.TextFormatter{})

	cfg := &Config{LogLevel: "debug", LogFormat: "json"}
	cfg.SetupLogging()
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logrus.StandardLogger().Formatter)

	cfg = &Config{LogLevel: "nonsense"}
	cfg.SetupLogging()
	assert.Equal(t, logrus.InfoLevel, logrus.GetLevel())
}
