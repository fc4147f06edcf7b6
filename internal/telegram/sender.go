package telegram

import (
	"skybot/backend/internal/presenter"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Sender is the outbound half of the Bot API. *tgbotapi.BotAPI satisfies it.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// outbox builds Telegram messages and sends them, logging failures.
// Send errors never reach the user.
type outbox struct {
	api Sender
}

// text sends an HTML message. markup may be nil.
func (o outbox) text(l *zap.Logger, chatID int64, text string, markup interface{}) error {
	msg := htmlMessage(chatID, text)
	if markup != nil {
		msg.ReplyMarkup = markup
	}
	return o.send(l, msg, "text")
}

// long sends text that may exceed the message limit as several messages,
// without link previews.
func (o outbox) long(l *zap.Logger, chatID int64, text string) error {
	for _, chunk := range presenter.Split(text, presenter.MaxMessageLength) {
		msg := htmlMessage(chatID, chunk)
		msg.LinkPreviewOptions.IsDisabled = true
		if err := o.send(l, msg, "text"); err != nil {
			return err
		}
	}
	return nil
}

func htmlMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = presenter.ParseMode
	return msg
}

// photo sends a picture by URL with an HTML caption and keyboard.
func (o outbox) photo(l *zap.Logger, chatID int64, url, caption string, markup tgbotapi.InlineKeyboardMarkup) error {
	msg := tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(url))
	msg.Caption = caption
	msg.ParseMode = presenter.ParseMode
	msg.ReplyMarkup = markup
	return o.send(l, msg, "photo")
}

// answer acknowledges a callback query; a non-empty text is shown as a toast.
func (o outbox) answer(l *zap.Logger, queryID, text string) {
	callback := tgbotapi.NewCallback(queryID, text)
	if _, err := o.api.Request(callback); err != nil {
		l.Warn("failed to answer callback query", zap.Error(err))
	}
}

func (o outbox) send(l *zap.Logger, c tgbotapi.Chattable, kind string) error {
	if _, err := o.api.Send(c); err != nil {
		l.Error("failed to send telegram message", zap.String("kind", kind), zap.Error(err))
		return err
	}
	return nil
}
