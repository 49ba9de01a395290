package transport

import (
	"context"
	"log/slog"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ahleite/plannito-bot/internal/bot"
)

// Telegram adapts the Telegram Bot API to the bot's Transport
// interface. Chat ids become the conversation's user ids.
type Telegram struct {
	api    *tgbotapi.BotAPI
	logger *slog.Logger
}

func NewTelegram(token string, logger *slog.Logger) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &Telegram{api: api, logger: logger}, nil
}

func (t *Telegram) SendText(ctx context.Context, to, text string) error {
	chatID, err := strconv.ParseInt(to, 10, 64)
	if err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	_, err = t.api.Send(msg)
	return err
}

func (t *Telegram) SendPhoto(ctx context.Context, to string, photo []byte, caption string) error {
	chatID, err := strconv.ParseInt(to, 10, 64)
	if err != nil {
		return err
	}
	msg := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "resumo.png", Bytes: photo})
	msg.Caption = caption
	_, err = t.api.Send(msg)
	return err
}

// Listen runs the long-polling loop, delivering each text message to
// the bot until the context is canceled.
func (t *Telegram) Listen(ctx context.Context, deliver func(context.Context, bot.Message)) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := t.api.GetUpdatesChan(u)
	for {
		select {
		case <-ctx.Done():
			t.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil || update.Message.Text == "" {
				continue
			}
			deliver(ctx, bot.Message{
				From: strconv.FormatInt(update.Message.Chat.ID, 10),
				Body: update.Message.Text,
			})
		}
	}
}
