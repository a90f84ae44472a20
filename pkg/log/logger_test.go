package log

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithRequest(t *testing.T) {
	var buf bytes.Buffer
	ctx := NewContextWithWriter(context.Background(), &buf)
	ctx = WithRequest(ctx, "req-1", "telegram-42")

	FromCtx(ctx).Info().Msg("handled")

	out := buf.String()
	assert.Contains(t, out, "handled")
	assert.Contains(t, out, "request_id=req-1")
	assert.Contains(t, out, "user_id=telegram-42")
}

func TestFromCtx_NoLogger(t *testing.T) {
	logger := FromCtx(context.Background())
	assert.NotNil(t, logger)
}
