package agent

import (
	"context"

	"github.com/sandevgo/barista/internal/core"
	"github.com/sandevgo/barista/internal/service/memory"
	"github.com/sandevgo/barista/pkg/log"
)

// TokenCounter estimates prompt size for debug logs. Optional.
type TokenCounter func(text string) (int, error)

type Agent struct {
	cfg      core.MemoryConfig
	ai       core.Completer
	store    core.MemoryStore
	locker   core.UserLocker
	renderer core.HistoryRenderer
	tokens   TokenCounter
}

func NewAgent(
	cfg core.MemoryConfig,
	ai core.Completer,
	store core.MemoryStore,
	locker core.UserLocker,
	renderer core.HistoryRenderer,
	tokens TokenCounter,
) *Agent {
	return &Agent{
		cfg:      cfg,
		ai:       ai,
		store:    store,
		locker:   locker,
		renderer: renderer,
		tokens:   tokens,
	}
}

// Run turns one inbound message into one response and records both in the
// user's history. A completion error is returned as is and leaves the
// history untouched.
func (a *Agent) Run(ctx context.Context, userID core.UserID, input string) (string, error) {
	logger := log.FromCtx(ctx)

	unlock, err := a.locker.Lock(ctx, userID)
	if err != nil {
		return "", err
	}
	defer unlock()

	history := a.store.Get(userID)
	working := append(history, core.UserTurn(input))

	rendered := a.renderer.Render(history)
	if a.cfg.HistoryIncludesInput() {
		rendered = a.renderer.Render(working)
	}
	a.debugTokens(ctx, len(history), rendered)

	response, err := a.ai.Complete(ctx, core.CompletionRequest{
		Context: input,
		History: rendered,
	})
	if err != nil {
		return "", err
	}

	working = append(working, core.AssistantTurn(response))
	trimmed := memory.TrimTurns(working, a.cfg.GetMaxTurns())
	a.store.Put(userID, trimmed)

	logger.Debug().
		Int("stored", len(trimmed)).
		Int("evicted", len(working)-len(trimmed)).
		Msg("history updated")

	return response, nil
}

// History returns the user's stored turns.
func (a *Agent) History(userID core.UserID) []core.Turn {
	return a.store.Get(userID)
}

func (a *Agent) MaxTurns() int {
	return a.cfg.GetMaxTurns()
}

func (a *Agent) debugTokens(ctx context.Context, turns int, rendered string) {
	if a.tokens == nil {
		return
	}

	logger := log.FromCtx(ctx)
	n, err := a.tokens(rendered)
	if err != nil {
		logger.Debug().Err(err).Msg("failed to count history tokens")
		return
	}
	logger.Debug().Int("turns", turns).Int("tokens", n).Msg("rendered history")
}
