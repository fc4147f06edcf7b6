package telegram_test

import (
	"context"

	"skybot/backend/internal/catalog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/mock"
)

// MockSender is a mock implementation of the telegram.Sender interface.
type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	args := m.Called(c)
	return args.Get(0).(tgbotapi.Message), args.Error(1)
}

func (m *MockSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	args := m.Called(c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tgbotapi.APIResponse), args.Error(1)
}

// sent returns every Chattable passed to Send, in order.
func (m *MockSender) sent() []tgbotapi.Chattable {
	var out []tgbotapi.Chattable
	for _, call := range m.Calls {
		if call.Method == "Send" {
			out = append(out, call.Arguments.Get(0).(tgbotapi.Chattable))
		}
	}
	return out
}

// answers returns every callback answer passed to Request.
func (m *MockSender) answers() []tgbotapi.CallbackConfig {
	var out []tgbotapi.CallbackConfig
	for _, call := range m.Calls {
		if call.Method != "Request" {
			continue
		}
		if cb, ok := call.Arguments.Get(0).(tgbotapi.CallbackConfig); ok {
			out = append(out, cb)
		}
	}
	return out
}

// MockGate is a mock implementation of the telegram.SubscriptionGate interface.
type MockGate struct {
	mock.Mock
}

func (m *MockGate) IsSubscribed(ctx context.Context, userID int64) bool {
	args := m.Called(ctx, userID)
	return args.Bool(0)
}

// MockCatalog is a mock implementation of the telegram.Catalog interface.
type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) Search(ctx context.Context, query string) ([]catalog.Item, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Item), args.Error(1)
}

func (m *MockCatalog) FetchLinks(ctx context.Context, id catalog.ItemID) (*catalog.DownloadRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.DownloadRecord), args.Error(1)
}
