package config

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/barista/pkg/log"
)

const (
	DefaultGreeting = "Hi! I'm Barista ☕\n\nTell me which city you are in and I'll suggest the three best coffee shops there. Ask me anything about them afterwards."
	DefaultApology  = "Sorry, something went wrong while preparing your answer. Please try again in a moment."
)

type TelegramConfig struct {
	Token       string        `env:"BARISTA_TELEGRAM_TOKEN,required,notEmpty"`
	AllowedIDs  []int64       `env:"BARISTA_TELEGRAM_ALLOWED_IDS" envSeparator:","`
	Greeting    string        `env:"BARISTA_GREETING"`
	Apology     string        `env:"BARISTA_APOLOGY"`
	PollTimeout time.Duration `env:"BARISTA_TELEGRAM_POLL_TIMEOUT" envDefault:"10s"`
	RatePerMin  int           `env:"BARISTA_RATE_LIMIT_PER_MINUTE" envDefault:"20" validate:"gte=0"`
	RateBurst   int           `env:"BARISTA_RATE_LIMIT_BURST" envDefault:"3" validate:"gte=1"`
}

func ParseTelegramConfig() (*TelegramConfig, error) {
	c := &TelegramConfig{}
	if err := env.Parse(c); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if c.Greeting == "" {
		c.Greeting = DefaultGreeting
	}
	if c.Apology == "" {
		c.Apology = DefaultApology
	}
	if err := Validate(c); err != nil {
		return nil, err
	}
	return c, nil
}

func NewTelegramConfig(ctx context.Context) *TelegramConfig {
	c, err := ParseTelegramConfig()
	if err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Telegram config")
	}
	return c
}

// IsAllowed reports whether the sender may talk to the bot. An empty
// allow-list admits everyone.
func (c TelegramConfig) IsAllowed(senderID int64) bool {
	if len(c.AllowedIDs) == 0 {
		return true
	}
	return slices.Contains(c.AllowedIDs, senderID)
}
