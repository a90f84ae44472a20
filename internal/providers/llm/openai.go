package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sandevgo/barista/internal/core"
	"github.com/sashabaranov/go-openai"
)

var ErrEmptyCompletion = errors.New("completion returned no choices")

// OpenAICompatible talks to any backend exposing the OpenAI chat completions
// API: OpenAI itself, OpenRouter, Ollama and self-hosted gateways.
type OpenAICompatible struct {
	client    *openai.Client
	model     string
	maxTokens int
	prompt    *Prompt
}

type OpenAICompatibleConfig struct {
	BaseURL      string // including the /v1 suffix
	APIKey       string
	Model        string
	MaxTokens    int
	Timeout      time.Duration
	ExtraHeaders map[string]string
	Prompt       *Prompt
}

func NewOpenAICompatible(cfg OpenAICompatibleConfig) *OpenAICompatible {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	clientCfg.HTTPClient = &http.Client{
		Timeout: cfg.Timeout,
		Transport: &headerTransport{
			base:    http.DefaultTransport,
			headers: cfg.ExtraHeaders,
		},
	}

	prompt := cfg.Prompt
	if prompt == nil {
		prompt = DefaultPrompt()
	}

	return &OpenAICompatible{
		client:    openai.NewClientWithConfig(clientCfg),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		prompt:    prompt,
	}
}

func NewOpenAI(apiKey, model string, opts Options) *OpenAICompatible {
	return NewOpenAICompatible(OpenAICompatibleConfig{
		APIKey:    apiKey,
		Model:     model,
		MaxTokens: opts.MaxTokens,
		Timeout:   opts.Timeout,
		Prompt:    opts.Prompt,
	})
}

func NewOpenRouter(apiKey, model string, opts Options) *OpenAICompatible {
	return NewOpenAICompatible(OpenAICompatibleConfig{
		BaseURL:   "https://openrouter.ai/api/v1",
		APIKey:    apiKey,
		Model:     model,
		MaxTokens: opts.MaxTokens,
		Timeout:   opts.Timeout,
		Prompt:    opts.Prompt,
		ExtraHeaders: map[string]string{
			"HTTP-Referer": core.BaristaRepositoryURL,
			"X-Title":      core.BaristaName,
		},
	})
}

func NewOllama(baseURL, apiKey, model string, opts Options) *OpenAICompatible {
	return NewCustomOpenAI(baseURL, apiKey, model, opts)
}

// NewCustomOpenAI targets a self-hosted server. baseURL is the server root;
// the /v1 prefix is added here.
func NewCustomOpenAI(baseURL, apiKey, model string, opts Options) *OpenAICompatible {
	return NewOpenAICompatible(OpenAICompatibleConfig{
		BaseURL:   strings.TrimRight(baseURL, "/") + "/v1",
		APIKey:    apiKey,
		Model:     model,
		MaxTokens: opts.MaxTokens,
		Timeout:   opts.Timeout,
		Prompt:    opts.Prompt,
	})
}

func (o *OpenAICompatible) Complete(ctx context.Context, req core.CompletionRequest) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if o.prompt.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: o.prompt.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: o.prompt.Render(req),
	})

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     o.model,
		Messages:  messages,
		MaxTokens: o.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	return resp.Choices[0].Message.Content, nil
}

type headerTransport struct {
	base    http.RoundTripper
	headers map[string]string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if len(t.headers) == 0 {
		return t.base.RoundTrip(req)
	}
	req = req.Clone(req.Context())
	for k, v := range t.headers {
		req.Header.Set(k, v)
	}
	return t.base.RoundTrip(req)
}
