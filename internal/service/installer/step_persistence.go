package installer

import (
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/sandevgo/barista/internal/providers/llm"
	"github.com/spf13/afero"
)

const (
	promptFile = "PROMPT.md"
	systemFile = "SYSTEM.md"
)

const defaultSystemPrompt = `You are Barista, a friendly assistant who knows the coffee scene of every city.
Answer in the language of the user's message. Keep answers short and concrete.
`

// SaveEnvStep writes the collected configuration to .env file
type SaveEnvStep struct {
	fs    afero.Fs
	dir   string
	err   error
	saved bool
}

func NewSaveEnvStep(fs afero.Fs, dir string) Step {
	return &SaveEnvStep{fs: fs, dir: dir}
}

func (s *SaveEnvStep) Init() tea.Cmd {
	return nudge
}

func (s *SaveEnvStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if s.saved {
		return nil, nil
	}

	if err := saveEnv(s.fs, s.dir, state.EnvVars); err != nil {
		s.err = err
		return s, nil
	}

	s.saved = true
	return nil, nil // Signal completion
}

func (s *SaveEnvStep) View(state *InstallState) string {
	if s.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", s.err)) + "\n\n(press ctrl+c to quit)\n"
	}
	if s.saved {
		return "Configuration saved successfully!\n"
	}
	return "Saving configuration...\n"
}

// saveEnv writes vars to dir/.env. An existing file is never overwritten.
func saveEnv(fs afero.Fs, dir string, vars map[string]string) error {
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create runtime directory: %w", err)
	}

	envPath := filepath.Join(dir, ".env")
	exists, err := afero.Exists(fs, envPath)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf(".env file already exists at %s", envPath)
	}

	content, err := godotenv.Marshal(vars)
	if err != nil {
		return fmt.Errorf("failed to encode .env: %w", err)
	}

	return afero.WriteFile(fs, envPath, []byte(content+"\n"), 0600)
}

// InitializeFilesStep seeds the prompt files in the runtime directory
type InitializeFilesStep struct {
	fs   afero.Fs
	dir  string
	err  error
	done bool
}

func NewInitializeFilesStep(fs afero.Fs, dir string) Step {
	return &InitializeFilesStep{fs: fs, dir: dir}
}

func (s *InitializeFilesStep) Init() tea.Cmd {
	return nudge
}

func (s *InitializeFilesStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if s.done {
		return nil, nil
	}

	if err := seedFiles(s.fs, s.dir); err != nil {
		s.err = err
		return s, nil
	}

	s.done = true
	return nil, nil
}

func (s *InitializeFilesStep) View(state *InstallState) string {
	if s.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", s.err)) + "\n\n(press ctrl+c to quit)\n"
	}
	if s.done {
		return "Runtime files initialized successfully!\n"
	}
	return "Initializing runtime files...\n"
}

// seedFiles writes the default prompt files, keeping any the user already edited.
func seedFiles(fs afero.Fs, dir string) error {
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create runtime directory: %w", err)
	}

	files := map[string]string{
		promptFile: llm.DefaultPromptTemplate + "\n",
		systemFile: defaultSystemPrompt,
	}

	for name, content := range files {
		dst := filepath.Join(dir, name)
		exists, err := afero.Exists(fs, dst)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		if err := afero.WriteFile(fs, dst, []byte(content), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", dst, err)
		}
	}
	return nil
}
