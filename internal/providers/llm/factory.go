package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/sandevgo/barista/internal/config"
	"github.com/sandevgo/barista/internal/core"
	"github.com/sandevgo/barista/pkg/log"
)

const defaultTimeout = 120 * time.Second

// Options are shared by every provider constructor.
type Options struct {
	MaxTokens int
	Timeout   time.Duration
	BaseURL   string // Anthropic only; OpenAI-compatible constructors take it explicitly
	Prompt    *Prompt
}

// NewProvider creates the completer selected by configuration.
func NewProvider(ctx context.Context, cfg *config.AppConfig, prompt *Prompt) (core.Completer, error) {
	log.FromCtx(ctx).Info().
		Str("provider", cfg.Provider).
		Str("model", cfg.Model).
		Msg("starting llm provider")

	opts := Options{
		MaxTokens: cfg.MaxTokens,
		Timeout:   cfg.RequestTimeout,
		Prompt:    prompt,
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}

	switch cfg.Provider {
	case config.ProviderOpenAI:
		return NewOpenAI(cfg.OpenAIAPIKey, cfg.Model, opts), nil
	case config.ProviderAnthropic:
		opts.BaseURL = cfg.AnthropicBaseURL
		return NewAnthropic(cfg.AnthropicAPIKey, cfg.Model, opts), nil
	case config.ProviderOpenRouter:
		return NewOpenRouter(cfg.OpenRouterAPIKey, cfg.Model, opts), nil
	case config.ProviderOllama:
		return NewOllama(cfg.OllamaBaseURL, cfg.OllamaAPIKey, cfg.Model, opts), nil
	case config.ProviderCustom:
		return NewCustomOpenAI(cfg.CustomOpenAIBaseURL, cfg.CustomOpenAIAPIKey, cfg.Model, opts), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}
}
