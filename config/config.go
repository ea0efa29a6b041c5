package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Port            string        `env:"PORT" envDefault:":8000"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT" envDefault:"text"`
	CORSOrigins     []string      `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
	MaxTables       int           `env:"MAX_TABLES" envDefault:"20"`

	DB        DBConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Redis     RedisConfig
	Telegram  TelegramConfig
}

type DBConfig struct {
	Driver      string `env:"DB_DRIVER" envDefault:"sqlite"`
	DSN         string `env:"DB_DSN" envDefault:"file:swiftserve.db?_pragma=foreign_keys(1)"`
	AutoMigrate bool   `env:"AUTO_MIGRATE" envDefault:"true"`
	SeedMenu    bool   `env:"SEED_MENU" envDefault:"true"`
}

type AuthConfig struct {
	SecretKey         string `env:"JWT_SECRET_KEY"`
	StaffPasswordHash string `env:"STAFF_PASSWORD_HASH"`
	AdminPasswordHash string `env:"ADMIN_PASSWORD_HASH"`
	SecureCookies     bool   `env:"SECURE_COOKIES" envDefault:"false"`
}

// Enabled reports whether staff routes are guarded.
func (a AuthConfig) Enabled() bool {
	return a.SecretKey != ""
}

type RateLimitConfig struct {
	RPS   int `env:"RATE_LIMIT_RPS" envDefault:"5"`
	Burst int `env:"RATE_LIMIT_BURST" envDefault:"10"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
	Channel  string `env:"REDIS_CHANNEL" envDefault:"swiftserve:events"`
}

type TelegramConfig struct {
	Token  string `env:"TELEGRAM_TOKEN"`
	ChatID int64  `env:"TELEGRAM_CHAT_ID"`
}

// Load reads an optional .env file and parses the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.DB.Driver {
	case "sqlite", "postgres", "memory":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver)
	}
	if c.MaxTables < 1 {
		return fmt.Errorf("MAX_TABLES must be positive, got %d", c.MaxTables)
	}
	if c.RateLimit.RPS < 1 || c.RateLimit.Burst < 1 {
		return fmt.Errorf("rate limit must be positive, got rps=%d burst=%d", c.RateLimit.RPS, c.RateLimit.Burst)
	}
	return nil
}

// SetupLogging applies the configured level and format to the standard logrus logger.
func (c *Config) SetupLogging() {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		logrus.Warnf("unknown log level %q, falling back to info", c.LogLevel)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	if strings.EqualFold(c.LogFormat, "json") {
		logrus.SetFormatter(&logrus.JSONFormatter{})
		return
	}
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}
