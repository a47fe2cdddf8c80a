// Package bot formats review statuses and delivers them to Telegram.
package bot

import (
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type telegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Bot sends notifications to Telegram chats.
type Bot struct {
	api telegramAPI
	log *slog.Logger
}

// New creates a Bot with the given Telegram token.
func New(token string, log *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}
	log.Debug("authorized on telegram", "username", api.Self.UserName)

	return newWithAPI(api, log), nil
}

func newWithAPI(api telegramAPI, log *slog.Logger) *Bot {
	return &Bot{api: api, log: log}
}

// SendMessage sends a text message to the given chat.
// Delivery is attempted once; failures are logged and dropped.
func (b *Bot) SendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.DisableWebPagePreview = true
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send message", "chat_id", chatID, "error", err)
		return
	}
	b.log.Info("message sent", "chat_id", chatID, "text", text)
}
