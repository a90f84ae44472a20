package installer

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandevgo/barista/internal/config"
)

// APIKeyStep collects the provider-specific API key. Local providers may skip it.
type APIKeyStep struct {
	input      textinput.Model
	provider   string
	envKey     string
	title      string
	isOptional bool
}

func NewAPIKeyStep() Step {
	return &APIKeyStep{}
}

func (s *APIKeyStep) Init() tea.Cmd {
	return nudge
}

func (s *APIKeyStep) initProvider(state *InstallState) bool {
	s.provider = state.provider()
	if s.provider == "" {
		return false
	}

	s.input = textinput.New()
	s.input.Focus()
	s.input.CharLimit = 255
	s.input.Width = 40
	s.input.EchoMode = textinput.EchoPassword
	s.input.EchoCharacter = '•'

	switch s.provider {
	case config.ProviderAnthropic:
		s.envKey = "BARISTA_ANTHROPIC_API_KEY"
		s.title = "Anthropic API Key"
		s.input.Placeholder = "sk-ant-..."
	case config.ProviderOpenAI:
		s.envKey = "BARISTA_OPENAI_API_KEY"
		s.title = "OpenAI API Key"
		s.input.Placeholder = "sk-..."
	case config.ProviderOpenRouter:
		s.envKey = "BARISTA_OPENROUTER_API_KEY"
		s.title = "OpenRouter API Key"
		s.input.Placeholder = "sk-or-v1-..."
	case config.ProviderOllama:
		s.envKey = "BARISTA_OLLAMA_API_KEY"
		s.title = "Ollama API Key"
		s.isOptional = true
	case config.ProviderCustom:
		s.envKey = "BARISTA_CUSTOM_API_KEY"
		s.title = "API Key"
		s.isOptional = true
	default:
		return false
	}

	if s.isOptional {
		s.input.Placeholder = "Optional - press Enter to skip"
		s.input.EchoMode = textinput.EchoNormal
	}
	return true
}

func (s *APIKeyStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if s.provider == "" {
		if !s.initProvider(state) {
			return nil, nil
		}
		return s, textinput.Blink
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		val := s.input.Value()
		if val == "" && !s.isOptional {
			return s, cmd
		}
		if val != "" {
			state.EnvVars[s.envKey] = val
		}
		return nil, nil
	}
	return s, cmd
}

func (s *APIKeyStep) View(state *InstallState) string {
	if s.provider == "" {
		return "Loading..."
	}

	optionalHint := ""
	if s.isOptional {
		optionalHint = " (optional - press Enter to skip)"
	}

	return fmt.Sprintf("Enter your %s%s:\n\n%s\n\n(press enter to confirm)\n",
		s.title, optionalHint, s.input.View())
}
