package command

import (
	"context"

	"github.com/sandevgo/barista/internal/core"
)

// ModelCommand shows the configured completion model. Switching models at
// runtime is not supported.
type ModelCommand struct {
	cfg       core.Model
	formatter *ResponseFormatter
}

func NewModelCommand(cfg core.Model) *ModelCommand {
	return &ModelCommand{
		cfg:       cfg,
		formatter: NewResponseFormatter(),
	}
}

func (c *ModelCommand) Name() string {
	return "model"
}

func (c *ModelCommand) Description() string {
	return "Show current model"
}

func (c *ModelCommand) Execute(ctx context.Context, userID core.UserID, args []string) (string, error) {
	return c.formatter.Combine(
		c.formatter.Info("Current Model"),
		c.formatter.Label("Provider", c.cfg.GetProvider()),
		c.formatter.Label("Model", c.cfg.GetModel()),
	), nil
}
