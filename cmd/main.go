package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"skybot/backend/internal/catalog"
	"skybot/backend/internal/config"
	"skybot/backend/internal/health"
	"skybot/backend/internal/localization"
	"skybot/backend/internal/logger"
	"skybot/backend/internal/membership"
	"skybot/backend/internal/presenter"
	"skybot/backend/internal/telegram"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, dialTelegram); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		stop()
		os.Exit(1)
	}
}

// dialer opens a Telegram connection for the given token.
type dialer func(token string, debug bool) (telegram.BotAPI, error)

func dialTelegram(token string, debug bool) (telegram.BotAPI, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	bot.Debug = debug
	return bot, nil
}

// run loads the config and serves until ctx is cancelled. Nothing is dialed
// unless the config is valid.
func run(ctx context.Context, dialBot dialer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l := logger.New(cfg.LogLevel)
	defer l.Sync()

	if err := tgbotapi.SetLogger(zap.NewStdLog(l.Named("tgbotapi"))); err != nil {
		l.Warn("failed to redirect bot api logger", zap.Error(err))
	}

	cat := catalog.NewClient(cfg.CatalogBaseURL, cfg.APIKey, cfg.CatalogTimeout)
	pres := presenter.New(localization.Default())

	dial := func() (telegram.BotAPI, error) {
		bot, err := dialBot(cfg.BotToken, cfg.BotDebug)
		if err != nil {
			return nil, err
		}
		if self, ok := bot.(*tgbotapi.BotAPI); ok {
			l.Info("authorized on account", zap.String("username", self.Self.UserName))
		}
		return bot, nil
	}
	newHandler := func(api telegram.BotAPI) telegram.UpdateHandler {
		gate := membership.NewGate(api, cfg.ChannelID, l.Named("membership"))
		return telegram.NewDispatcher(api, gate, cat, pres, cfg.ChannelID, l.Named("dispatcher"))
	}

	botService := telegram.NewBotService(dial, newHandler, l.Named("bot"),
		telegram.WithReconnectDelay(cfg.ReconnectDelay),
		telegram.WithPollTimeout(cfg.PollTimeout),
	)
	liveness := health.NewServer(cfg.Port, l.Named("health"))

	l.Info("starting bot", zap.String("channel", cfg.ChannelID))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return liveness.Run(ctx) })
	g.Go(func() error { return botService.Run(ctx) })

	if err := g.Wait(); err != nil {
		l.Error("shutting down", zap.Error(err))
		return err
	}
	return nil
}
