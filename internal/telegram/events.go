package telegram

import (
	"strings"
	"unicode"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Session identifies who an event came from. It lives for one event only.
type Session struct {
	ChatID   int64
	UserID   int64
	Language string
}

// Event is one classified update. The set of implementations is closed:
// CommandEvent, TextEvent, CallbackEvent and IgnoredEvent.
type Event interface {
	event()
}

// CommandEvent is a message starting with "/".
type CommandEvent struct {
	Session
	Name string // lower case, without "/" and "@botname"
	Args string
}

// TextEvent is free text, treated as a search query.
type TextEvent struct {
	Session
	Text string
}

// CallbackEvent is an inline button press.
type CallbackEvent struct {
	Session
	QueryID string
	Data    string
}

// IgnoredEvent is every update the bot has no handler for.
type IgnoredEvent struct {
	Reason string
}

func (CommandEvent) event()  {}
func (TextEvent) event()     {}
func (CallbackEvent) event() {}
func (IgnoredEvent) event()  {}

// Classify turns a raw update into an Event.
func Classify(update tgbotapi.Update) Event {
	switch {
	case update.CallbackQuery != nil:
		return classifyCallback(update.CallbackQuery)
	case update.Message != nil:
		return classifyMessage(update.Message)
	case update.EditedMessage != nil:
		return IgnoredEvent{Reason: "edited message"}
	default:
		return IgnoredEvent{Reason: "unsupported update"}
	}
}

func classifyMessage(msg *tgbotapi.Message) Event {
	if msg.From == nil {
		return IgnoredEvent{Reason: "message without sender"}
	}
	if msg.Text == "" {
		return IgnoredEvent{Reason: "non-text message"}
	}

	s := Session{
		ChatID:   msg.Chat.ID,
		UserID:   msg.From.ID,
		Language: msg.From.LanguageCode,
	}
	if strings.HasPrefix(msg.Text, "/") {
		name, args := parseCommand(msg.Text)
		return CommandEvent{Session: s, Name: name, Args: args}
	}
	return TextEvent{Session: s, Text: msg.Text}
}

func classifyCallback(cq *tgbotapi.CallbackQuery) Event {
	if cq.Message == nil || cq.From == nil {
		return IgnoredEvent{Reason: "callback without message"}
	}
	return CallbackEvent{
		Session: Session{
			ChatID:   cq.Message.Chat.ID,
			UserID:   cq.From.ID,
			Language: cq.From.LanguageCode,
		},
		QueryID: cq.ID,
		Data:    cq.Data,
	}
}

// parseCommand splits "/Name@bot rest of line" into ("name", "rest of line").
func parseCommand(text string) (name, args string) {
	rest := strings.TrimPrefix(text, "/")
	if i := strings.IndexFunc(rest, unicode.IsSpace); i >= 0 {
		name, args = rest[:i], strings.TrimSpace(rest[i:])
	} else {
		name = rest
	}
	name, _, _ = strings.Cut(name, "@")
	return strings.ToLower(name), args
}
