package installer

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandevgo/barista/internal/config"
)

// ProviderStep allows selection of the completion provider
type ProviderStep struct {
	choices []item
	cursor  int
}

func NewProviderStep() Step {
	return &ProviderStep{
		choices: []item{
			{id: config.ProviderOpenAI, title: "OpenAI"},
			{id: config.ProviderAnthropic, title: "Anthropic"},
			{id: config.ProviderOpenRouter, title: "OpenRouter"},
			{id: config.ProviderOllama, title: "Ollama"},
			{id: config.ProviderCustom, title: "Custom (OpenAI-compatible)"},
		},
	}
}

func (s *ProviderStep) Init() tea.Cmd {
	return nil
}

func (s *ProviderStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.cursor > 0 {
				s.cursor--
			}
		case "down", "j":
			if s.cursor < len(s.choices)-1 {
				s.cursor++
			}
		case "enter":
			state.EnvVars[envProvider] = s.choices[s.cursor].id
			return nil, nil
		}
	}
	return s, nil
}

func (s *ProviderStep) View(state *InstallState) string {
	var b strings.Builder
	b.WriteString("Select your AI Provider:\n\n")
	for i, choice := range s.choices {
		if s.cursor == i {
			b.WriteString(selStyle.Render(fmt.Sprintf("❯ %s", choice.title)) + "\n")
		} else {
			b.WriteString(itemStyle.Render(fmt.Sprintf("  %s", choice.title)) + "\n")
		}
	}
	b.WriteString("\n(press ctrl+c to quit)\n")
	return b.String()
}
