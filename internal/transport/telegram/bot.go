package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/sandevgo/barista/internal/config"
	"github.com/sandevgo/barista/internal/core"
	"github.com/sandevgo/barista/pkg/log"
	"github.com/sandevgo/barista/pkg/retry"
	tele "gopkg.in/telebot.v3"
)

const (
	baseContextKey    = "base_context"
	rateLimitedNotice = "You're sending messages a bit too fast. Give me a moment and try again."
)

type Runner interface {
	Run(ctx context.Context, userID core.UserID, input string) (string, error)
}

type Bot struct {
	bot     *tele.Bot
	cfg     *config.TelegramConfig
	agent   Runner
	router  core.CmdRouter
	sender  *sender
	limiter *rateLimiter
}

func NewBot(
	ctx context.Context,
	cfg *config.TelegramConfig,
	agent Runner,
	router core.CmdRouter,
) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: cfg.PollTimeout},
		OnError: func(err error, c tele.Context) {
			log.FromCtx(ctx).Error().Err(err).Msg("telegram handler failed")
		},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	bot := newBot(b, cfg, agent, router)

	b.Use(withContext(ctx), allowList(cfg))

	b.Handle(tele.OnText, bot.handleMessage)

	return bot, nil
}

// withContext hands the signal context carrying the logger to handlers.
func withContext(ctx context.Context) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			c.Set(baseContextKey, ctx)
			return next(c)
		}
	}
}

// allowList drops updates from senders outside cfg.AllowedIDs.
func allowList(cfg *config.TelegramConfig) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if c.Sender() == nil || !cfg.IsAllowed(c.Sender().ID) {
				return nil
			}
			return next(c)
		}
	}
}

func newBot(b *tele.Bot, cfg *config.TelegramConfig, agent Runner, router core.CmdRouter) *Bot {
	return &Bot{
		bot:     b,
		cfg:     cfg,
		agent:   agent,
		router:  router,
		sender:  newSender(b, retry.NewDefaultRetrier()),
		limiter: newRateLimiter(cfg.RatePerMin, cfg.RateBurst),
	}
}

func (b *Bot) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Str("bot", b.bot.Me.Username).Msg("starting telegram bot")
	b.bot.Start()
	return nil
}

func (b *Bot) Shutdown(ctx context.Context) error {
	b.bot.Stop()
	return nil
}

// UserIDFor derives the memory key for a Telegram sender.
func UserIDFor(senderID int64) core.UserID {
	return core.UserID("telegram-" + strconv.FormatInt(senderID, 10))
}

func (b *Bot) handleMessage(c tele.Context) error {
	ctx := c.Get(baseContextKey).(context.Context)
	senderID := c.Sender().ID
	ctx = log.WithRequest(ctx, uuid.NewString(), string(UserIDFor(senderID)))
	logger := log.FromCtx(ctx)

	text := strings.TrimSpace(c.Text())
	if text == "" {
		return nil
	}

	if !strings.HasPrefix(text, "/") {
		// Notify user we are working
		_ = c.Notify(tele.Typing)
	}

	res := b.respond(ctx, senderID, text)
	if !res.markdown {
		return b.sender.sendText(ctx, c.Recipient(), res.text)
	}
	if err := b.sender.sendMarkdown(ctx, c.Recipient(), res.text); err != nil {
		logger.Error().Err(err).Msg("failed to send telegram message")
		return b.sender.sendText(ctx, c.Recipient(), b.cfg.Apology)
	}
	return nil
}

type reply struct {
	text     string
	markdown bool
}

// respond decides what to answer to one inbound text. Commands bypass the
// rate limit and never touch the conversation history.
func (b *Bot) respond(ctx context.Context, senderID int64, text string) reply {
	logger := log.FromCtx(ctx)
	userID := UserIDFor(senderID)

	if out, ok := b.router.Execute(ctx, userID, text); ok {
		return reply{text: out, markdown: true}
	}

	if !b.limiter.Allow(senderID) {
		logger.Warn().Msg("rate limited")
		return reply{text: rateLimitedNotice}
	}

	logger.Debug().Int("len", len(text)).Msg("message received")
	answer, err := b.agent.Run(ctx, userID, text)
	if err != nil {
		logger.Error().Err(err).Msg("agent run failed")
		return reply{text: b.cfg.Apology}
	}
	return reply{text: answer, markdown: true}
}
