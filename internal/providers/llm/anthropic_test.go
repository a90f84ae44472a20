package llm

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/sandevgo/barista/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnthropic_Complete(t *testing.T) {
	srv, captured := newChatServer(t, http.StatusOK, `{
		"id": "msg_1",
		"type": "message",
		"role": "assistant",
		"model": "claude-test",
		"content": [{"type": "text", "text": "Try "}, {"type": "text", "text": "Cafe A"}],
		"stop_reason": "end_turn",
		"usage": {"input_tokens": 10, "output_tokens": 3}
	}`)

	prompt, err := NewPrompt("Be brief.", "{context}|{history}")
	require.NoError(t, err)

	p := NewAnthropic("ant-key", "claude-test", Options{
		BaseURL: srv.URL,
		Timeout: 5 * time.Second,
		Prompt:  prompt,
	})

	got, err := p.Complete(context.Background(), core.CompletionRequest{Context: "Paris", History: "none"})
	require.NoError(t, err)
	assert.Equal(t, "Try Cafe A", got)

	assert.Equal(t, "/v1/messages", captured.path)
	assert.Equal(t, "ant-key", captured.headers.Get("X-Api-Key"))
	assert.Equal(t, "claude-test", captured.body["model"])
	assert.EqualValues(t, 1024, captured.body["max_tokens"])

	messages := captured.body["messages"].([]any)
	require.Len(t, messages, 1)
	assert.Equal(t, "user", messages[0].(map[string]any)["role"])
	assert.Contains(t, captured.body, "system")
}

func TestAnthropic_ErrorPropagates(t *testing.T) {
	srv, _ := newChatServer(t, http.StatusInternalServerError,
		`{"type": "error", "error": {"type": "api_error", "message": "boom"}}`)

	p := NewAnthropic("k", "claude-test", Options{BaseURL: srv.URL})

	_, err := p.Complete(context.Background(), core.CompletionRequest{Context: "Paris"})
	assert.Error(t, err)
}
