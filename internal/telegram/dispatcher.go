package telegram

import (
	"context"

	"skybot/backend/internal/catalog"
	"skybot/backend/internal/localization"
	"skybot/backend/internal/presenter"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SubscriptionGate decides whether a user may search the catalog.
type SubscriptionGate interface {
	IsSubscribed(ctx context.Context, userID int64) bool
}

// Catalog is the movie catalog the bot proxies.
type Catalog interface {
	Search(ctx context.Context, query string) ([]catalog.Item, error)
	FetchLinks(ctx context.Context, id catalog.ItemID) (*catalog.DownloadRecord, error)
}

// Dispatcher handles one update at a time. It keeps no state between
// updates, so one Dispatcher may serve many goroutines.
type Dispatcher struct {
	out        outbox
	gate       SubscriptionGate
	catalog    Catalog
	presenter  *presenter.Presenter
	channelURL string
	logger     *zap.Logger
}

// NewDispatcher wires a dispatcher. channel is the configured channel handle,
// used for the join button.
func NewDispatcher(
	api Sender,
	gate SubscriptionGate,
	cat Catalog,
	p *presenter.Presenter,
	channel string,
	logger *zap.Logger,
) *Dispatcher {
	return &Dispatcher{
		out:        outbox{api: api},
		gate:       gate,
		catalog:    cat,
		presenter:  p,
		channelURL: presenter.JoinChannelURL(channel),
		logger:     logger,
	}
}

// HandleUpdate classifies the update and runs its handler.
func (d *Dispatcher) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	l := d.logger.With(
		zap.String("event_id", uuid.NewString()),
		zap.Int("update_id", update.UpdateID),
	)

	switch ev := Classify(update).(type) {
	case CommandEvent:
		d.handleCommand(l.With(zap.Int64("chat_id", ev.ChatID), zap.String("command", ev.Name)), ev)
	case TextEvent:
		d.handleSearch(ctx, l.With(zap.Int64("chat_id", ev.ChatID), zap.Int64("user_id", ev.UserID)), ev)
	case CallbackEvent:
		d.handleCallback(ctx, l.With(zap.Int64("chat_id", ev.ChatID), zap.Int64("user_id", ev.UserID)), ev)
	case IgnoredEvent:
		l.Debug("update ignored", zap.String("reason", ev.Reason))
	default:
		l.Warn("no handler for event", zap.Any("event", ev))
	}
}

func (d *Dispatcher) handleCommand(l *zap.Logger, ev CommandEvent) {
	var key string
	switch ev.Name {
	case "start":
		key = localization.Welcome
	case "help":
		key = localization.Help
	default:
		l.Debug("unknown command ignored")
		return
	}
	d.out.text(l, ev.ChatID, d.presenter.Text(ev.Language, key), nil)
}

func (d *Dispatcher) handleSearch(ctx context.Context, l *zap.Logger, ev TextEvent) {
	if !d.gate.IsSubscribed(ctx, ev.UserID) {
		l.Info("search refused, user not subscribed")
		d.out.text(l, ev.ChatID,
			d.presenter.Text(ev.Language, localization.SubscribePrompt),
			d.presenter.JoinKeyboard(ev.Language, d.channelURL),
		)
		return
	}

	items, err := d.catalog.Search(ctx, ev.Text)
	if err != nil {
		l.Error("catalog search failed", zap.String("query", ev.Text), zap.Error(err))
		d.out.text(l, ev.ChatID, d.presenter.Text(ev.Language, localization.NoResults), nil)
		return
	}
	if len(items) == 0 {
		l.Info("catalog search empty", zap.String("query", ev.Text))
		d.out.text(l, ev.ChatID, d.presenter.Text(ev.Language, localization.NoResults), nil)
		return
	}

	l.Info("catalog search", zap.String("query", ev.Text), zap.Int("results", len(items)))
	for _, item := range items {
		d.sendItem(l, ev, item)
	}
}

// sendItem sends one result as a photo, or as text when there is no image
// or Telegram refuses it.
func (d *Dispatcher) sendItem(l *zap.Logger, ev TextEvent, item catalog.Item) {
	caption := d.presenter.ItemCaption(ev.Language, item)
	keyboard := d.presenter.DownloadKeyboard(ev.Language, DownloadPayload(item.ID))

	if item.Image != "" {
		err := d.out.photo(l, ev.ChatID, item.Image, caption, keyboard)
		if err == nil {
			return
		}
		l.Warn("photo rejected, sending text instead", zap.String("item_id", item.ID.String()))
	}
	d.out.text(l, ev.ChatID, caption, keyboard)
}

func (d *Dispatcher) handleCallback(ctx context.Context, l *zap.Logger, ev CallbackEvent) {
	payload, err := ParsePayload(ev.Data)
	if err != nil {
		l.Warn("invalid callback payload", zap.String("data", ev.Data), zap.Error(err))
		d.out.answer(l, ev.QueryID, d.presenter.Text(ev.Language, localization.InvalidButton))
		return
	}
	d.out.answer(l, ev.QueryID, "")

	l = l.With(zap.String("item_id", payload.ItemID.String()))
	record, err := d.catalog.FetchLinks(ctx, payload.ItemID)
	if err != nil {
		l.Error("fetching download links failed", zap.Error(err))
		d.out.text(l, ev.ChatID, d.presenter.Text(ev.Language, localization.FetchFailed), nil)
		return
	}

	d.out.long(l, ev.ChatID, d.presenter.DownloadRecord(ev.Language, *record))
}
