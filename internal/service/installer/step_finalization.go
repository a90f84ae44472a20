package installer

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandevgo/barista/internal/config"
)

// FinalizationStep computes derived values and final env var formatting
type FinalizationStep struct{}

func NewFinalizationStep() Step {
	return &FinalizationStep{}
}

func (s *FinalizationStep) Init() tea.Cmd {
	return nudge
}

func (s *FinalizationStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	finalize(state)
	return nil, nil
}

func (s *FinalizationStep) View(state *InstallState) string {
	return "Finalizing configuration...\n"
}

func finalize(state *InstallState) {
	if state.EnvVars[envTelegramToken] != "" {
		state.EnvVars[envEnableTelegram] = "true"
	} else {
		state.EnvVars[envEnableTelegram] = "false"
	}

	// Set defaults
	defaults := map[string]string{
		envDebug:         "0",
		envMaxTurns:      "4",
		envHistoryFormat: config.HistoryLabeled,
	}
	for k, v := range defaults {
		if state.EnvVars[k] == "" {
			state.EnvVars[k] = v
		}
	}
}
