package command

import (
	"github.com/sandevgo/barista/internal/core"
)

// NewRouter wires every chat command. /help lists the router's own commands.
func NewRouter(
	greeting string,
	model core.Model,
	history HistoryReader,
	renderer core.HistoryRenderer,
	tokens TokenCounter,
) *Router {
	r := New([]core.Command{
		NewStartCommand(greeting),
		NewModelCommand(model),
		NewMemoryCommand(history, renderer, tokens),
	})
	r.Register(NewHelpCommand(r))
	return r
}
