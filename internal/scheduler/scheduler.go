// Package scheduler polls the review API and reports status changes.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"homework_bot/internal/bot"
	"homework_bot/internal/config"
	"homework_bot/internal/fetcher"
	"homework_bot/internal/model"
	"homework_bot/internal/storage"
)

// Sender is the interface for sending Telegram messages.
type Sender interface {
	SendMessage(chatID int64, text string)
}

// Poller samples the latest homework status twice per cycle and
// notifies the chat when the two samples differ.
type Poller struct {
	cfg      *config.Config
	fetcher  *fetcher.Fetcher
	sender   Sender
	journal  storage.Storage
	log      *slog.Logger
	interval time.Duration
}

// New creates a Poller that talks to the configured endpoint over HTTP.
// journal may be nil.
func New(cfg *config.Config, sender Sender, journal storage.Storage, log *slog.Logger) *Poller {
	client := &http.Client{Timeout: cfg.HTTPTimeout}
	return NewWithFetcher(cfg, fetcher.New(client, cfg.Endpoint, cfg.PracticumToken), sender, journal, log)
}

// NewWithFetcher creates a Poller with a custom fetcher (useful for testing).
func NewWithFetcher(cfg *config.Config, f *fetcher.Fetcher, sender Sender, journal storage.Storage, log *slog.Logger) *Poller {
	return &Poller{
		cfg:      cfg,
		fetcher:  f,
		sender:   sender,
		journal:  journal,
		log:      log,
		interval: cfg.RetryInterval,
	}
}

// SetInterval overrides the delay between samples.
func (p *Poller) SetInterval(d time.Duration) {
	p.interval = d
}

// Run polls until ctx is cancelled or the credentials check fails.
func (p *Poller) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		if !config.CheckTokens(p.cfg, p.log) {
			p.log.Error("credentials unavailable, stopping poller")
			return
		}

		if err := p.cycle(ctx); err != nil {
			p.log.Error("poll cycle failed", "error", err)
			p.sender.SendMessage(p.cfg.TelegramChatID, bot.FormatFailure(err))
			if !p.wait(ctx) {
				return
			}
		}
	}
}

// Sample returns the notification message for the most recent homework.
func (p *Poller) Sample(ctx context.Context) (string, error) {
	_, msg, err := p.sample(ctx)
	return msg, err
}

func (p *Poller) sample(ctx context.Context) (model.Homework, string, error) {
	payload, err := p.fetcher.Fetch(ctx, p.cfg.FromDate)
	if err != nil {
		return model.Homework{}, "", fmt.Errorf("fetch statuses: %w", err)
	}
	homeworks, err := fetcher.Homeworks(payload)
	if err != nil {
		return model.Homework{}, "", fmt.Errorf("extract homeworks: %w", err)
	}
	latest := homeworks[0]
	msg, err := bot.FormatStatus(latest)
	if err != nil {
		return model.Homework{}, "", fmt.Errorf("format status: %w", err)
	}
	return latest, msg, nil
}

// cycle takes the before and after samples. Panics are returned as errors.
func (p *Poller) cycle(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("unexpected panic: %v", r)
		}
	}()

	// An absent first sample still compares unequal to a valid second one.
	_, before, err := p.sample(ctx)
	if err != nil {
		p.logNoData(ctx, "before", err)
		if errors.Is(err, fetcher.ErrEmptyHomeworks) {
			p.wait(ctx)
			return nil
		}
	}

	if !p.wait(ctx) {
		return nil
	}

	hw, after, err := p.sample(ctx)
	if err != nil {
		p.logNoData(ctx, "after", err)
		return nil
	}

	if before == after {
		p.log.Debug("review status has not changed", "lesson", hw.LessonName, "status", hw.Status)
		return nil
	}

	p.log.Info("review status changed", "lesson", hw.LessonName, "status", hw.Status)
	p.sender.SendMessage(p.cfg.TelegramChatID, after)
	p.record(ctx, hw, after)
	return nil
}

func (p *Poller) logNoData(ctx context.Context, sample string, err error) {
	if ctx.Err() != nil {
		return
	}
	if errors.Is(err, fetcher.ErrEmptyHomeworks) {
		p.log.Debug("no homeworks yet", "sample", sample)
		return
	}
	p.log.Warn("no data this cycle", "sample", sample, "error", err)
}

func (p *Poller) record(ctx context.Context, hw model.Homework, msg string) {
	if p.journal == nil {
		return
	}
	change := &model.StatusChange{
		LessonName: hw.LessonName,
		Status:     hw.Status,
		Message:    msg,
	}
	if err := p.journal.RecordChange(ctx, change); err != nil {
		p.log.Error("record status change", "lesson", hw.LessonName, "error", err)
	}
}

// wait sleeps for the polling interval and reports false if ctx ended first.
func (p *Poller) wait(ctx context.Context) bool {
	t := time.NewTimer(p.interval)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
