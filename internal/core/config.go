package core

type PromptConfig interface {
	GetSystemPath() string
	GetPromptPath() string
}

type MemoryConfig interface {
	GetMaxTurns() int
	GetHistoryFormat() string
	HistoryIncludesInput() bool
}
