package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sandevgo/barista/pkg/conv"
	"github.com/sandevgo/barista/pkg/log"
	"github.com/sandevgo/barista/pkg/retry"
	tele "gopkg.in/telebot.v3"
)

const maxTelegramMsgLen = 4000 // Safety margin below 4096

type messageSender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

type sender struct {
	bot     messageSender
	retrier *retry.Retrier
}

func newSender(bot messageSender, retrier *retry.Retrier) *sender {
	return &sender{bot: bot, retrier: retrier}
}

// sendMarkdown converts Markdown to Telegram HTML and sends it in chunks if needed.
// A chunk Telegram refuses to parse is resent as plain text.
func (s *sender) sendMarkdown(ctx context.Context, to tele.Recipient, md string) error {
	logger := log.FromCtx(ctx)
	html := strings.TrimSpace(conv.MarkdownToTelegramHTML([]byte(md)))
	if html == "" {
		return nil
	}

	for i, chunk := range splitHTML(html, maxTelegramMsgLen) {
		err := s.send(ctx, to, chunk, tele.ModeHTML)
		if err == nil {
			continue
		}

		logger.Warn().Err(err).Int("chunk", i).Int("len", len(chunk)).Msg("html send failed, falling back to plain text")
		plain := conv.HTMLToText(chunk)
		if plain == "" {
			plain = chunk
		}
		if err := s.send(ctx, to, plain); err != nil {
			return fmt.Errorf("send chunk %d: %w", i, err)
		}
	}
	return nil
}

// sendText sends a plain message without any parse mode.
func (s *sender) sendText(ctx context.Context, to tele.Recipient, text string) error {
	return s.send(ctx, to, text)
}

func (s *sender) send(ctx context.Context, to tele.Recipient, text string, opts ...interface{}) error {
	return s.retrier.Do(ctx, func() error {
		_, err := s.bot.Send(to, text, opts...)
		return classify(err)
	})
}

// classify marks client errors as permanent. Flood control and network
// failures stay retryable.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var flood tele.FloodError
	if errors.As(err, &flood) {
		return err
	}

	var apiErr *tele.Error
	if errors.As(err, &apiErr) && apiErr.Code >= 400 && apiErr.Code < 500 {
		return retry.Permanent(err)
	}

	// Unregistered API errors come back as "telegram: <description> (<code>)"
	msg := err.Error()
	if strings.HasPrefix(msg, "telegram: ") && (strings.HasSuffix(msg, "(400)") || strings.HasSuffix(msg, "(403)")) {
		return retry.Permanent(err)
	}
	return err
}

// splitHTML splits text into chunks respecting Telegram's limit.
// It tries to split at newlines to preserve formatting.
func splitHTML(text string, maxLen int) []string {
	if len(text) <= maxLen {
		return []string{text}
	}

	var chunks []string
	for len(text) > 0 {
		if len(text) <= maxLen {
			chunks = append(chunks, text)
			break
		}

		cut := maxLen
		// Try to find a good break point (newline) in the second half of the chunk
		if idx := strings.LastIndex(text[:maxLen], "\n"); idx > maxLen/3 {
			cut = idx
		}
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		if cut == 0 {
			cut = maxLen
		}

		chunks = append(chunks, text[:cut])
		text = strings.TrimSpace(text[cut:])
	}
	return chunks
}
