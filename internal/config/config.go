// Package config loads the bot configuration from the process environment.
// A .env file in the working directory is honoured when present.
package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/caarlos0/env"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// ErrMissingSecret is returned when one of the required secrets is absent.
var ErrMissingSecret = errors.New("missing required environment variables")

// Config for app
type Config struct {
	BotToken  string `env:"BOT_TOKEN" validate:"required" json:"-"`
	ChannelID string `env:"CHANNEL_ID" validate:"required"`
	APIKey    string `env:"API_KEY" validate:"required" json:"-"`

	Port           string        `env:"PORT" envDefault:"8080"`
	CatalogBaseURL string        `env:"CATALOG_BASE_URL" envDefault:"https://api.skymansion.site/movies-dl" validate:"url"`
	CatalogTimeout time.Duration `env:"CATALOG_TIMEOUT" envDefault:"15s"`
	ReconnectDelay time.Duration `env:"RECONNECT_DELAY" envDefault:"5s"`
	PollTimeout    int           `env:"POLL_TIMEOUT" envDefault:"60" validate:"gte=0"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
	BotDebug       bool          `env:"BOT_DEBUG" envDefault:"false"`
}

// envNames maps struct fields to the variable that feeds them, for diagnostics.
var envNames = map[string]string{
	"BotToken":       "BOT_TOKEN",
	"ChannelID":      "CHANNEL_ID",
	"APIKey":         "API_KEY",
	"CatalogBaseURL": "CATALOG_BASE_URL",
	"PollTimeout":    "POLL_TIMEOUT",
	"LogLevel":       "LOG_LEVEL",
}

var validate = validator.New()

// Load reads .env (if any) and then the environment.
func Load() (Config, error) {
	// A missing .env is normal in containers.
	_ = godotenv.Load()
	return New()
}

// New parses and validates the config from the current environment.
func New() (Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	cfg.BotToken = strings.TrimSpace(cfg.BotToken)
	cfg.ChannelID = strings.TrimSpace(cfg.ChannelID)
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	return cfg, cfg.Validate()
}

// Validate checks required secrets first so their absence is reported as
// ErrMissingSecret, then the remaining constraints.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	var missing, invalid []string
	for _, fe := range verrs {
		name := envNames[fe.Field()]
		if name == "" {
			name = fe.Field()
		}
		if fe.Tag() == "required" {
			missing = append(missing, name)
			continue
		}
		invalid = append(invalid, fmt.Sprintf("%s (%s)", name, fe.Tag()))
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("%w: %s", ErrMissingSecret, strings.Join(missing, ", "))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(invalid, ", "))
}
