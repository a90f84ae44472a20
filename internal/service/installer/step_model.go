package installer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandevgo/barista/internal/config"
	"github.com/sandevgo/barista/internal/providers/llm"
)

// modelsErrMsg stays inside the step so the user can retry or type a name.
type modelsErrMsg struct{ err error }

// ModelStep lets the user pick a model reported by the provider. When the
// provider cannot list models the name is typed in instead.
type ModelStep struct {
	list     list.Model
	input    textinput.Model
	manual   bool
	loading  bool
	fetching bool // Ensures we only trigger the API call once
	err      error
}

func NewModelStep() Step {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Select AI Model"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle

	ti := textinput.New()
	ti.Placeholder = "model name"
	ti.Width = 40

	return &ModelStep{
		list:    l,
		input:   ti,
		loading: true,
	}
}

func (s *ModelStep) Init() tea.Cmd {
	return nudge
}

func (s *ModelStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if s.manual {
		return s.updateManual(msg, state)
	}

	// 1. Trigger fetch once when we enter the step
	if s.loading && !s.fetching {
		s.fetching = true
		cfg := stateToConfig(state)

		return s, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			items, err := fetchModels(ctx, cfg)
			if err != nil {
				return modelsErrMsg{err: err}
			}
			return modelsMsg(items)
		}
	}

	// Update list size
	s.list.SetSize(width, height-4)

	var cmd tea.Cmd
	switch msg := msg.(type) {
	case modelsMsg:
		s.list.SetItems(msg)
		s.loading = false
		s.fetching = false
		if len(msg) == 0 {
			return s, s.switchToManual()
		}
		return s, nil

	case modelsErrMsg:
		s.loading = false
		s.fetching = false
		s.err = msg.err
		return s, nil // Return nil command to break the error loop

	case tea.KeyMsg:
		if s.err != nil {
			switch msg.String() {
			case "enter":
				s.err = nil
				s.loading = true
				s.fetching = false
			case "tab":
				s.err = nil
				return s, s.switchToManual()
			}
			return s, nil
		}

		if msg.String() == "enter" {
			wasFiltering := s.list.FilterState() == list.Filtering
			s.list, cmd = s.list.Update(msg)

			if wasFiltering || s.list.FilterState() == list.Filtering {
				return s, cmd
			}

			if i, ok := s.list.SelectedItem().(item); ok {
				state.EnvVars[envModel] = i.id
				return nil, nil
			}
			return s, cmd
		}
	}

	s.list, cmd = s.list.Update(msg)
	return s, cmd
}

func (s *ModelStep) switchToManual() tea.Cmd {
	s.manual = true
	s.input.Focus()
	return textinput.Blink
}

func (s *ModelStep) updateManual(msg tea.Msg, state *InstallState) (Step, tea.Cmd) {
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		val := strings.TrimSpace(s.input.Value())
		if val != "" {
			state.EnvVars[envModel] = val
			return nil, nil
		}
	}
	return s, cmd
}

func (s *ModelStep) View(state *InstallState) string {
	if s.manual {
		return "Enter the model name:\n\n" + s.input.View() + "\n\n(press enter to confirm)\n"
	}
	if s.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error fetching models: %v", s.err)) +
			"\n\nCheck your API key and internet connection.\n\n(press enter to retry, tab to type a model name, ctrl+c to quit)\n"
	}
	if s.loading {
		return fmt.Sprintf("Fetching models from %s...\n", state.provider())
	}
	return s.list.View()
}

func fetchModels(ctx context.Context, cfg *config.AppConfig) ([]list.Item, error) {
	p, err := llm.NewProvider(ctx, cfg, nil)
	if err != nil {
		return nil, err
	}

	lister, ok := p.(llm.ModelLister)
	if !ok {
		return nil, nil
	}

	models, err := lister.ListModels(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]list.Item, 0, len(models))
	for _, mod := range models {
		items = append(items, item{
			id:    mod.ID,
			title: mod.Name,
			desc:  "ID: " + mod.ID,
		})
	}
	return items, nil
}

// stateToConfig builds just enough configuration to reach the provider's
// model listing endpoint.
func stateToConfig(state *InstallState) *config.AppConfig {
	return &config.AppConfig{
		Provider:            state.provider(),
		OpenAIAPIKey:        state.EnvVars["BARISTA_OPENAI_API_KEY"],
		AnthropicAPIKey:     state.EnvVars["BARISTA_ANTHROPIC_API_KEY"],
		OpenRouterAPIKey:    state.EnvVars["BARISTA_OPENROUTER_API_KEY"],
		OllamaAPIKey:        state.EnvVars["BARISTA_OLLAMA_API_KEY"],
		OllamaBaseURL:       valueOr(state.EnvVars[envOllamaBaseURL], "http://localhost:11434"),
		CustomOpenAIBaseURL: state.EnvVars[envCustomBaseURL],
		CustomOpenAIAPIKey:  state.EnvVars["BARISTA_CUSTOM_API_KEY"],
		RequestTimeout:      30 * time.Second,
	}
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
