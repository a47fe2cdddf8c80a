// Package config handles application configuration from environment variables.
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// DefaultJournalPath is where the journal tools look when JOURNAL_PATH is unset.
const DefaultJournalPath = "./data/journal.db"

// LevelCritical is the slog level for conditions that stop the process.
const LevelCritical = slog.Level(12)

// Config holds the application configuration.
type Config struct {
	PracticumToken string        `env:"PRACTICUM_TOKEN"`
	TelegramToken  string        `env:"TELEGRAM_TOKEN"`
	TelegramChatID int64         `env:"TELEGRAM_CHAT_ID"`
	Endpoint       string        `env:"PRACTICUM_ENDPOINT" envDefault:"https://practicum.yandex.ru/api/user_api/homework_statuses/"`
	RetryInterval  time.Duration `env:"RETRY_TIME" envDefault:"60s"`
	FromDate       int64         `env:"FROM_DATE" envDefault:"1609448400"`
	HTTPTimeout    time.Duration `env:"HTTP_TIMEOUT" envDefault:"30s"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`
	JournalPath    string        `env:"JOURNAL_PATH"`
}

// Load reads configuration from environment variables, after loading
// an optional .env file from the working directory.
// Missing credentials are not an error here; see CheckTokens.
func Load() (*Config, error) {
	// A missing .env is fine; already exported variables win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if cfg.RetryInterval <= 0 {
		return nil, fmt.Errorf("RETRY_TIME must be positive, got %s", cfg.RetryInterval)
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	return &cfg, nil
}

// CheckTokens reports whether every credential needed to poll and notify is set.
// Each missing variable is logged at critical level.
func CheckTokens(cfg *Config, log *slog.Logger) bool {
	var missing []string
	if cfg.PracticumToken == "" {
		missing = append(missing, "PRACTICUM_TOKEN")
	}
	if cfg.TelegramToken == "" {
		missing = append(missing, "TELEGRAM_TOKEN")
	}
	if cfg.TelegramChatID == 0 {
		missing = append(missing, "TELEGRAM_CHAT_ID")
	}
	if len(missing) > 0 {
		log.Log(context.Background(), LevelCritical, "required environment variables are missing",
			"missing", strings.Join(missing, ","))
		return false
	}
	return true
}

// JournalPath returns JOURNAL_PATH, or DefaultJournalPath when it is unset.
func JournalPath() string {
	if v := os.Getenv("JOURNAL_PATH"); v != "" {
		return v
	}
	return DefaultJournalPath
}
