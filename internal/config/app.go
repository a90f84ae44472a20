package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/barista/pkg/log"
)

const (
	ProviderOpenAI     = "openai"
	ProviderAnthropic  = "anthropic"
	ProviderOpenRouter = "openrouter"
	ProviderOllama     = "ollama"
	ProviderCustom     = "custom"

	HistoryLabeled = "labeled"
	HistoryFlat    = "flat"
)

type AppConfig struct {
	RuntimePath string `env:"BARISTA_RUNTIME_PATH"`

	// Completion service
	Provider            string        `env:"BARISTA_PROVIDER" envDefault:"openai" validate:"oneof=openai anthropic openrouter ollama custom"`
	Model               string        `env:"BARISTA_MODEL" envDefault:"gpt-4o-mini" validate:"required"`
	OpenAIAPIKey        string        `env:"BARISTA_OPENAI_API_KEY" validate:"required_if=Provider openai"`
	AnthropicAPIKey     string        `env:"BARISTA_ANTHROPIC_API_KEY" validate:"required_if=Provider anthropic"`
	AnthropicBaseURL    string        `env:"BARISTA_ANTHROPIC_BASE_URL" validate:"omitempty,url"`
	OpenRouterAPIKey    string        `env:"BARISTA_OPENROUTER_API_KEY" validate:"required_if=Provider openrouter"`
	OllamaAPIKey        string        `env:"BARISTA_OLLAMA_API_KEY"`
	OllamaBaseURL       string        `env:"BARISTA_OLLAMA_BASE_URL" envDefault:"http://localhost:11434" validate:"omitempty,url"`
	CustomOpenAIBaseURL string        `env:"BARISTA_CUSTOM_BASE_URL" validate:"required_if=Provider custom,omitempty,url"`
	CustomOpenAIAPIKey  string        `env:"BARISTA_CUSTOM_API_KEY"`
	MaxTokens           int           `env:"BARISTA_MAX_TOKENS" envDefault:"1024" validate:"min=1"`
	RequestTimeout      time.Duration `env:"BARISTA_REQUEST_TIMEOUT" envDefault:"120s"`

	// Conversation memory
	MaxTurns            int    `env:"BARISTA_MEMORY_MAX_TURNS" envDefault:"4" validate:"min=1"`
	HistoryFormat       string `env:"BARISTA_HISTORY_FORMAT" envDefault:"labeled" validate:"oneof=labeled flat"`
	HistoryIncludeInput bool   `env:"BARISTA_HISTORY_INCLUDE_INPUT" envDefault:"false"`

	// Transport Flags
	EnableTelegram bool `env:"BARISTA_ENABLE_TELEGRAM" envDefault:"true"`
}

// ParseAppConfig reads the environment and validates the result.
func ParseAppConfig() (*AppConfig, error) {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if c.RuntimePath == "" {
		c.RuntimePath = GetRuntimePath()
	}
	if err := Validate(c); err != nil {
		return nil, err
	}
	return c, nil
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c, err := ParseAppConfig()
	if err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	return c
}

func (c AppConfig) GetRuntimePath() string {
	return c.RuntimePath
}

func (c AppConfig) GetSystemPath() string {
	return filepath.Join(c.RuntimePath, "SYSTEM.md")
}

func (c AppConfig) GetPromptPath() string {
	return filepath.Join(c.RuntimePath, "PROMPT.md")
}

func (c AppConfig) GetProvider() string {
	return c.Provider
}

func (c AppConfig) GetModel() string {
	return c.Model
}

func (c AppConfig) GetMaxTurns() int {
	return c.MaxTurns
}

func (c AppConfig) GetHistoryFormat() string {
	return c.HistoryFormat
}

func (c AppConfig) HistoryIncludesInput() bool {
	return c.HistoryIncludeInput
}

func (c AppConfig) IsTelegramSelected() bool {
	return c.EnableTelegram
}
