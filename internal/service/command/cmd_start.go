package command

import (
	"context"

	"github.com/sandevgo/barista/internal/core"
)

// StartCommand answers the platform "start" event with a fixed greeting.
type StartCommand struct {
	greeting string
}

func NewStartCommand(greeting string) *StartCommand {
	return &StartCommand{greeting: greeting}
}

func (c *StartCommand) Name() string {
	return "start"
}

func (c *StartCommand) Description() string {
	return "Say hello"
}

func (c *StartCommand) Execute(ctx context.Context, userID core.UserID, args []string) (string, error) {
	return c.greeting, nil
}
