package installer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

func telegramEnabled(state *InstallState) bool {
	return state.EnvVars[envEnableTelegram] != "false"
}

// TelegramTokenStep collects the Telegram bot token
type TelegramTokenStep struct {
	input textinput.Model
}

func NewTelegramTokenStep() Step {
	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 255
	ti.Width = 40
	ti.Placeholder = "123456789:ABCDEF..."
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'

	return &TelegramTokenStep{
		input: ti,
	}
}

func (s *TelegramTokenStep) Init() tea.Cmd {
	return textinput.Blink
}

func (s *TelegramTokenStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if !telegramEnabled(state) {
		return nil, nil
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		if val := strings.TrimSpace(s.input.Value()); val != "" {
			state.EnvVars[envTelegramToken] = val
			return nil, nil
		}
	}
	return s, cmd
}

func (s *TelegramTokenStep) View(state *InstallState) string {
	return "Enter your Telegram Bot Token:\n\n" +
		s.input.View() + "\n\n" +
		"(press enter to confirm)\n"
}

// TelegramAllowListStep collects the optional list of user ids allowed to chat
type TelegramAllowListStep struct {
	input textinput.Model
	err   error
}

func NewTelegramAllowListStep() Step {
	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 512
	ti.Width = 40
	ti.Placeholder = "123456789,987654321"

	return &TelegramAllowListStep{
		input: ti,
	}
}

func (s *TelegramAllowListStep) Init() tea.Cmd {
	return textinput.Blink
}

func (s *TelegramAllowListStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if !telegramEnabled(state) {
		return nil, nil
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		ids, err := normalizeIDs(s.input.Value())
		if err != nil {
			s.err = err
			return s, cmd
		}
		if ids != "" {
			state.EnvVars[envAllowedIDs] = ids
		}
		return nil, nil
	}
	return s, cmd
}

func (s *TelegramAllowListStep) View(state *InstallState) string {
	view := "Telegram user IDs allowed to chat, comma separated (optional - press Enter to allow everyone):\n\n" +
		s.input.View() + "\n\n"
	if s.err != nil {
		view += errorStyle.Render(s.err.Error()) + "\n\n"
	}
	return view + "(press enter to confirm)\n"
}

// normalizeIDs validates a comma separated id list and strips blanks.
func normalizeIDs(raw string) (string, error) {
	var ids []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if _, err := strconv.ParseInt(part, 10, 64); err != nil {
			return "", fmt.Errorf("not a Telegram user id: %s", part)
		}
		ids = append(ids, part)
	}
	return strings.Join(ids, ","), nil
}
