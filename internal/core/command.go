package core

import "context"

type CmdRouter interface {
	Execute(ctx context.Context, userID UserID, input string) (string, bool)
	ListCommands() []Command
}

type Command interface {
	Name() string
	Description() string
	Execute(ctx context.Context, userID UserID, args []string) (string, error)
}
