package core

import "context"

type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

type Model interface {
	GetProvider() string
	GetModel() string
}
