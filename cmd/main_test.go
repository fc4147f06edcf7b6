package main

import (
	"context"
	"errors"
	"net"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"skybot/backend/internal/config"
	"skybot/backend/internal/telegram"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countingDialer(calls *atomic.Int32) dialer {
	return func(token string, debug bool) (telegram.BotAPI, error) {
		calls.Add(1)
		return nil, errors.New("offline")
	}
}

func TestRun_MissingSecretStopsBeforeDialing(t *testing.T) {
	for _, name := range []string{"BOT_TOKEN", "CHANNEL_ID", "API_KEY"} {
		t.Setenv(name, "")
	}

	var calls atomic.Int32
	err := run(context.Background(), countingDialer(&calls))

	require.ErrorIs(t, err, config.ErrMissingSecret)
	assert.Contains(t, err.Error(), "API_KEY, BOT_TOKEN, CHANNEL_ID")
	assert.Zero(t, calls.Load())
}

func TestRun_OneMissingSecret(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("CHANNEL_ID", "@skymovies")
	t.Setenv("API_KEY", "")

	var calls atomic.Int32
	err := run(context.Background(), countingDialer(&calls))

	require.ErrorIs(t, err, config.ErrMissingSecret)
	assert.Contains(t, err.Error(), "API_KEY")
	assert.NotContains(t, err.Error(), "BOT_TOKEN")
	assert.Zero(t, calls.Load())
}

func TestRun_ValidConfigDialsAndStopsOnCancel(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := strconv.Itoa(l.Addr().(*net.TCPAddr).Port)
	require.NoError(t, l.Close())

	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("CHANNEL_ID", "@skymovies")
	t.Setenv("API_KEY", "key")
	t.Setenv("PORT", port)
	t.Setenv("RECONNECT_DELAY", "10ms")

	var calls atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- run(ctx, countingDialer(&calls)) }()

	require.Eventually(t, func() bool { return calls.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return after cancel")
	}
}
