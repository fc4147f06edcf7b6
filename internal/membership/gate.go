// Package membership checks whether a Telegram user belongs to the channel
// that unlocks the bot.
package membership

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Status is the outcome of a membership check.
type Status int

const (
	// StatusUnknown means the check itself failed.
	StatusUnknown Status = iota
	StatusNotSubscribed
	StatusSubscribed
)

func (s Status) String() string {
	switch s {
	case StatusSubscribed:
		return "subscribed"
	case StatusNotSubscribed:
		return "not_subscribed"
	default:
		return "unknown"
	}
}

// MemberLookup is the part of the Bot API the gate needs. *tgbotapi.BotAPI
// satisfies it.
type MemberLookup interface {
	GetChatMember(config tgbotapi.GetChatMemberConfig) (tgbotapi.ChatMember, error)
}

// Gate verifies channel membership.
type Gate struct {
	api     MemberLookup
	channel string
	logger  *zap.Logger
}

// NewGate creates a Gate for the given channel (an @handle or a numeric id).
func NewGate(api MemberLookup, channel string, logger *zap.Logger) *Gate {
	return &Gate{api: api, channel: channel, logger: logger}
}

// Check queries the member status of userID in the channel.
func (g *Gate) Check(ctx context.Context, userID int64) (Status, error) {
	if err := ctx.Err(); err != nil {
		return StatusUnknown, err
	}

	member, err := g.api.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
			ChatConfig: ChatConfig(g.channel),
			UserID:     userID,
		},
	})
	if err != nil {
		return StatusUnknown, fmt.Errorf("get chat member %d: %w", userID, err)
	}
	return Classify(member.Status), nil
}

// ChatConfig addresses the channel by numeric id when channel parses as one,
// otherwise by its @handle.
func ChatConfig(channel string) tgbotapi.ChatConfig {
	channel = strings.TrimSpace(channel)
	if id, err := strconv.ParseInt(channel, 10, 64); err == nil {
		return tgbotapi.ChatConfig{ChatID: id}
	}
	if !strings.HasPrefix(channel, "@") {
		channel = "@" + channel
	}
	return tgbotapi.ChatConfig{ChannelUsername: channel}
}

// IsSubscribed reports whether userID may use the bot. Any failure to verify
// counts as not subscribed.
func (g *Gate) IsSubscribed(ctx context.Context, userID int64) bool {
	status, err := g.Check(ctx, userID)
	if err != nil {
		g.logger.Warn("membership check failed, denying access",
			zap.Int64("user_id", userID),
			zap.String("channel", g.channel),
			zap.Error(err),
		)
		return false
	}
	g.logger.Debug("membership checked",
		zap.Int64("user_id", userID),
		zap.Stringer("status", status),
	)
	return status == StatusSubscribed
}

// Classify maps a Telegram chat member status to a Status.
func Classify(status string) Status {
	switch status {
	case "member", "administrator", "creator", "owner":
		return StatusSubscribed
	default:
		return StatusNotSubscribed
	}
}

