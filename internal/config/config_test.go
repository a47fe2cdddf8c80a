package config

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

var envKeys = []string{
	"PRACTICUM_TOKEN", "TELEGRAM_TOKEN", "TELEGRAM_CHAT_ID", "PRACTICUM_ENDPOINT",
	"RETRY_TIME", "FROM_DATE", "HTTP_TIMEOUT", "LOG_LEVEL", "JOURNAL_PATH",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		// Setenv registers the restore; Unsetenv makes the variable truly absent.
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("unset %s: %v", key, err)
		}
	}
}

func TestLoad(t *testing.T) {
	defaults := Config{
		Endpoint:      "https://practicum.yandex.ru/api/user_api/homework_statuses/",
		RetryInterval: 60 * time.Second,
		FromDate:      1609448400,
		HTTPTimeout:   30 * time.Second,
		LogLevel:      "info",
	}

	tests := []struct {
		name    string
		env     map[string]string
		want    func() Config
		wantErr bool
	}{
		{
			name: "nothing set, defaults applied",
			env:  map[string]string{},
			want: func() Config { return defaults },
		},
		{
			name: "credentials set",
			env: map[string]string{
				"PRACTICUM_TOKEN":  "p-tok",
				"TELEGRAM_TOKEN":   "t-tok",
				"TELEGRAM_CHAT_ID": "-100123",
			},
			want: func() Config {
				c := defaults
				c.PracticumToken = "p-tok"
				c.TelegramToken = "t-tok"
				c.TelegramChatID = -100123
				return c
			},
		},
		{
			name: "all values set",
			env: map[string]string{
				"PRACTICUM_TOKEN":    "p",
				"TELEGRAM_TOKEN":     "t",
				"TELEGRAM_CHAT_ID":   "42",
				"PRACTICUM_ENDPOINT": "http://localhost:8080/statuses/",
				"RETRY_TIME":         "5m",
				"FROM_DATE":          "0",
				"HTTP_TIMEOUT":       "3s",
				"LOG_LEVEL":          "DEBUG",
				"JOURNAL_PATH":       "/tmp/journal.db",
			},
			want: func() Config {
				return Config{
					PracticumToken: "p",
					TelegramToken:  "t",
					TelegramChatID: 42,
					Endpoint:       "http://localhost:8080/statuses/",
					RetryInterval:  5 * time.Minute,
					FromDate:       0,
					HTTPTimeout:    3 * time.Second,
					LogLevel:       "debug",
					JournalPath:    "/tmp/journal.db",
				}
			},
		},
		{
			name:    "invalid chat id",
			env:     map[string]string{"TELEGRAM_CHAT_ID": "@channel"},
			wantErr: true,
		},
		{
			name:    "invalid retry time",
			env:     map[string]string{"RETRY_TIME": "soon"},
			wantErr: true,
		},
		{
			name:    "non-positive retry time",
			env:     map[string]string{"RETRY_TIME": "0s"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			got, err := Load()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want(), *got); diff != "" {
				t.Errorf("Load() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadDotenv(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(t *testing.T, dir string)
		wantToken string
		wantErr   bool
	}{
		{
			name:  "no .env file",
			setup: func(*testing.T, string) {},
		},
		{
			name: "values read from .env",
			setup: func(t *testing.T, dir string) {
				data := []byte("PRACTICUM_TOKEN=from-file\nTELEGRAM_CHAT_ID=7\n")
				if err := os.WriteFile(filepath.Join(dir, ".env"), data, 0o600); err != nil {
					t.Fatalf("write .env: %v", err)
				}
			},
			wantToken: "from-file",
		},
		{
			name: "unreadable .env is an error",
			setup: func(t *testing.T, dir string) {
				if err := os.Mkdir(filepath.Join(dir, ".env"), 0o750); err != nil {
					t.Fatalf("mkdir .env: %v", err)
				}
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			dir := t.TempDir()
			tt.setup(t, dir)
			wd, err := os.Getwd()
			if err != nil {
				t.Fatalf("getwd: %v", err)
			}
			if err := os.Chdir(dir); err != nil {
				t.Fatalf("chdir: %v", err)
			}
			t.Cleanup(func() { _ = os.Chdir(wd) })

			got, err := Load()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.wantToken, got.PracticumToken); diff != "" {
				t.Errorf("PracticumToken mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCheckTokens(t *testing.T) {
	full := Config{PracticumToken: "p", TelegramToken: "t", TelegramChatID: 1}

	tests := []struct {
		name        string
		mutate      func(c *Config)
		want        bool
		wantMissing string
	}{
		{
			name:   "all present",
			mutate: func(*Config) {},
			want:   true,
		},
		{
			name:        "practicum token missing",
			mutate:      func(c *Config) { c.PracticumToken = "" },
			wantMissing: "missing=PRACTICUM_TOKEN",
		},
		{
			name:        "telegram token missing",
			mutate:      func(c *Config) { c.TelegramToken = "" },
			wantMissing: "missing=TELEGRAM_TOKEN",
		},
		{
			name:        "chat id missing",
			mutate:      func(c *Config) { c.TelegramChatID = 0 },
			wantMissing: "missing=TELEGRAM_CHAT_ID",
		},
		{
			name:        "everything missing",
			mutate:      func(c *Config) { *c = Config{} },
			wantMissing: "missing=PRACTICUM_TOKEN,TELEGRAM_TOKEN,TELEGRAM_CHAT_ID",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := full
			tt.mutate(&cfg)

			var buf bytes.Buffer
			log := slog.New(slog.NewTextHandler(&buf, nil))

			got := CheckTokens(&cfg, log)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("CheckTokens() mismatch (-want +got):\n%s", diff)
			}
			if tt.want {
				if buf.Len() != 0 {
					t.Errorf("expected no log output, got %q", buf.String())
				}
				return
			}
			if !strings.Contains(buf.String(), tt.wantMissing) {
				t.Errorf("log %q does not contain %q", buf.String(), tt.wantMissing)
			}
		})
	}
}

func TestCheckTokensLevel(t *testing.T) {
	var buf bytes.Buffer
	// A handler that drops everything below critical still sees the diagnostic.
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: LevelCritical}))

	if CheckTokens(&Config{}, log) {
		t.Fatal("expected false for empty config")
	}
	if buf.Len() == 0 {
		t.Error("expected critical diagnostic to be logged")
	}

	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	if !CheckTokens(&Config{PracticumToken: "p", TelegramToken: "t", TelegramChatID: 7}, quiet) {
		t.Error("expected true for complete config")
	}
}

func TestJournalPath(t *testing.T) {
	tests := []struct {
		name string
		env  string
		want string
	}{
		{name: "unset uses default", env: "", want: DefaultJournalPath},
		{name: "explicit path", env: "/var/lib/homework/journal.db", want: "/var/lib/homework/journal.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JOURNAL_PATH", tt.env)
			if diff := cmp.Diff(tt.want, JournalPath()); diff != "" {
				t.Errorf("JournalPath() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
