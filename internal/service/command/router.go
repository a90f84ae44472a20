package command

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/sandevgo/barista/internal/core"
)

var errUnknownCommand = errors.New("unknown command")

type Router struct {
	commands  map[string]core.Command
	formatter *ResponseFormatter
}

func New(commands []core.Command) *Router {
	c := &Router{
		commands:  make(map[string]core.Command),
		formatter: NewResponseFormatter(),
	}

	for _, cmd := range commands {
		c.Register(cmd)
	}
	return c
}

func (c *Router) Register(cmd core.Command) {
	c.commands[cmd.Name()] = cmd
}

// Execute runs input as a slash command. The bool is false when input is not
// a command and should go to the orchestrator instead.
func (c *Router) Execute(ctx context.Context, userID core.UserID, input string) (string, bool) {
	if !strings.HasPrefix(input, "/") {
		return "", false
	}

	parts := strings.Fields(input)
	name := strings.TrimPrefix(parts[0], "/")
	// Group chats address commands as /name@BotName
	name, _, _ = strings.Cut(name, "@")
	args := parts[1:]

	cmd, ok := c.commands[strings.ToLower(name)]
	if !ok {
		return c.formatter.Error(name, errUnknownCommand), true
	}

	result, err := cmd.Execute(ctx, userID, args)
	if err != nil {
		return c.formatter.Error(cmd.Name(), err), true
	}
	return result, true
}

func (c *Router) ListCommands() []core.Command {
	res := make([]core.Command, 0, len(c.commands))
	for _, cmd := range c.commands {
		res = append(res, cmd)
	}
	slices.SortFunc(res, func(a, b core.Command) int {
		return cmp.Compare(a.Name(), b.Name())
	})
	return res
}
