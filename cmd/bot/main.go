package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"homework_bot/internal/bot"
	"homework_bot/internal/config"
	"homework_bot/internal/scheduler"
	"homework_bot/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	log := newLogger(cfg.LogLevel)

	if !config.CheckTokens(cfg, log) {
		os.Exit(1)
	}

	b, err := bot.New(cfg.TelegramToken, log)
	if err != nil {
		log.Error("create bot", "error", err)
		os.Exit(1)
	}

	var journal storage.Storage
	if cfg.JournalPath != "" {
		store, err := openJournal(cfg.JournalPath, log)
		if err != nil {
			os.Exit(1)
		}
		defer func() { _ = store.Close() }()
		journal = store
	}

	poller := scheduler.New(cfg, b, journal, log)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Info("starting poller", "interval", cfg.RetryInterval, "from_date", cfg.FromDate)

	poller.Run(ctx)

	log.Info("poller stopped")
}

func openJournal(path string, log *slog.Logger) (*storage.SQLite, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			log.Error("create journal directory", "path", dir, "error", err)
			return nil, err
		}
	}

	store, err := storage.NewSQLite(path)
	if err != nil {
		log.Error("open journal", "path", path, "error", err)
		return nil, err
	}
	return store, nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				if l, ok := a.Value.Any().(slog.Level); ok && l >= config.LevelCritical {
					a.Value = slog.StringValue("CRITICAL")
				}
			}
			return a
		},
	}))
}
