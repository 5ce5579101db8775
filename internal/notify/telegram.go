package notify

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramSink posts booking events to a chat channel.
type TelegramSink struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegramSink creates a sink posting to the given chat.
func NewTelegramSink(token string, chatID int64) (*TelegramSink, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &TelegramSink{bot: bot, chatID: chatID}, nil
}

// Name implements Sink.
func (s *TelegramSink) Name() string { return "telegram" }

// Send implements Sink.
func (s *TelegramSink) Send(_ context.Context, e Event) error {
	msg := tgbotapi.NewMessage(s.chatID, Body(e))
	_, err := s.bot.Send(msg)
	return err
}
