package command

import (
	"context"
	"fmt"

	"github.com/sandevgo/barista/internal/core"
)

type HistoryReader interface {
	History(userID core.UserID) []core.Turn
	MaxTurns() int
}

type TokenCounter func(text string) (int, error)

// MemoryCommand reports what the bot currently remembers about the caller.
type MemoryCommand struct {
	history   HistoryReader
	renderer  core.HistoryRenderer
	tokens    TokenCounter
	formatter *ResponseFormatter
}

func NewMemoryCommand(history HistoryReader, renderer core.HistoryRenderer, tokens TokenCounter) *MemoryCommand {
	return &MemoryCommand{
		history:   history,
		renderer:  renderer,
		tokens:    tokens,
		formatter: NewResponseFormatter(),
	}
}

func (c *MemoryCommand) Name() string {
	return "memory"
}

func (c *MemoryCommand) Description() string {
	return "Show how much of our conversation I remember"
}

func (c *MemoryCommand) Execute(ctx context.Context, userID core.UserID, args []string) (string, error) {
	turns := c.history.History(userID)

	sections := []string{
		c.formatter.Info("Memory"),
		c.formatter.Label("Turns", fmt.Sprintf("%d / %d", len(turns), c.history.MaxTurns())),
	}

	if c.tokens != nil && len(turns) > 0 {
		if n, err := c.tokens(c.renderer.Render(turns)); err == nil {
			sections = append(sections, c.formatter.Label("Tokens", fmt.Sprintf("~%d", n)))
		}
	}

	if len(turns) == 0 {
		sections = append(sections, c.formatter.Tip("Nothing yet. Tell me which city you are in."))
	}

	return c.formatter.Combine(sections...), nil
}
