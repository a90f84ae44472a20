package core

const (
	BaristaName          = "Barista"
	BaristaRepositoryURL = "https://github.com/sandevgo/barista"
	BaristaVersion       = "0.1.0"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// UserID identifies one conversation. Gateways derive it from the platform
// sender id.
type UserID string

// Turn is a single memory entry: either user input or a generated response.
type Turn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

func UserTurn(text string) Turn {
	return Turn{Role: RoleUser, Text: text}
}

func AssistantTurn(text string) Turn {
	return Turn{Role: RoleAssistant, Text: text}
}

// CompletionRequest is what the completion service receives for one inbound
// message. Context is the raw inbound text, History the rendered memory.
type CompletionRequest struct {
	Context string `json:"context"`
	History string `json:"history"`
}
