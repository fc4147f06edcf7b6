// Package telegram connects the bot to Telegram: it keeps a long-polling
// connection alive, classifies incoming updates and routes them to the
// search, subscription and download-link handlers.
package telegram

import (
	"context"
	"fmt"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const (
	DefaultReconnectDelay = 5 * time.Second
	DefaultPollTimeout    = 60
)

// BotAPI is everything the bot uses from one Telegram connection.
// *tgbotapi.BotAPI satisfies it.
type BotAPI interface {
	Sender
	GetUpdates(config tgbotapi.UpdateConfig) ([]tgbotapi.Update, error)
	GetChatMember(config tgbotapi.GetChatMemberConfig) (tgbotapi.ChatMember, error)
}

// UpdateHandler processes a single update.
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update tgbotapi.Update)
}

// Dialer opens a fresh connection to Telegram.
type Dialer func() (BotAPI, error)

// HandlerFactory builds the handler bound to one connection.
type HandlerFactory func(api BotAPI) UpdateHandler

// BotService owns the Telegram connection. When dialing or polling fails the
// connection is thrown away and a new one is dialed after a fixed delay,
// forever, until the context is cancelled.
type BotService struct {
	dial           Dialer
	newHandler     HandlerFactory
	reconnectDelay time.Duration
	pollTimeout    int
	logger         *zap.Logger

	offset   int // next update id to ask for; survives reconnects
	inflight sync.WaitGroup
}

// Option configures a BotService.
type Option func(*BotService)

// WithReconnectDelay sets the pause between a failure and the next dial.
func WithReconnectDelay(d time.Duration) Option {
	return func(s *BotService) { s.reconnectDelay = d }
}

// WithPollTimeout sets the long-polling timeout in seconds.
func WithPollTimeout(seconds int) Option {
	return func(s *BotService) { s.pollTimeout = seconds }
}

// NewBotService creates a new BotService instance.
func NewBotService(dial Dialer, newHandler HandlerFactory, logger *zap.Logger, opts ...Option) *BotService {
	s := &BotService{
		dial:           dial,
		newHandler:     newHandler,
		reconnectDelay: DefaultReconnectDelay,
		pollTimeout:    DefaultPollTimeout,
		logger:         logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run polls Telegram until ctx is cancelled, then waits for the updates
// still being handled.
func (s *BotService) Run(ctx context.Context) error {
	defer s.inflight.Wait()

	for {
		err := s.serve(ctx)
		if ctx.Err() != nil {
			s.logger.Info("bot stopped")
			return nil
		}
		s.logger.Error("telegram connection failed, reconnecting",
			zap.Error(err),
			zap.Duration("delay", s.reconnectDelay),
		)

		t := time.NewTimer(s.reconnectDelay)
		select {
		case <-ctx.Done():
			t.Stop()
			s.logger.Info("bot stopped")
			return nil
		case <-t.C:
		}
	}
}

// serve runs one connection until it fails.
func (s *BotService) serve(ctx context.Context) error {
	api, err := s.dial()
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	handler := s.newHandler(api)
	s.logger.Info("listening for updates", zap.Int("offset", s.offset))

	for {
		updates, err := s.poll(ctx, api)
		if err != nil {
			return err
		}
		for _, update := range updates {
			if update.UpdateID >= s.offset {
				s.offset = update.UpdateID + 1
			}
			s.inflight.Add(1)
			go s.handle(ctx, handler, update)
		}
	}
}

// poll makes one getUpdates call, giving up early if ctx is cancelled.
func (s *BotService) poll(ctx context.Context, api BotAPI) ([]tgbotapi.Update, error) {
	type result struct {
		updates []tgbotapi.Update
		err     error
	}

	u := tgbotapi.NewUpdate(s.offset)
	u.Timeout = s.pollTimeout

	ch := make(chan result, 1)
	go func() {
		updates, err := api.GetUpdates(u)
		ch <- result{updates, err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.err != nil {
			return nil, fmt.Errorf("get updates: %w", r.err)
		}
		return r.updates, nil
	}
}

func (s *BotService) handle(ctx context.Context, handler UpdateHandler, update tgbotapi.Update) {
	defer s.inflight.Done()
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("panic while handling update",
				zap.Int("update_id", update.UpdateID),
				zap.Any("panic", r),
				zap.Stack("stack"),
			)
		}
	}()
	handler.HandleUpdate(ctx, update)
}
