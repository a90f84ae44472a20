package installer

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/sandevgo/barista/internal/config"
	"github.com/sandevgo/barista/internal/providers/llm"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
)

func TestProviderStep(t *testing.T) {
	state := NewInstallState()
	step := NewProviderStep()

	next, _ := step.Update(keyDown, state, 80, 24)
	require.Same(t, step, next)

	next, _ = step.Update(keyEnter, state, 80, 24)
	assert.Nil(t, next)
	assert.Equal(t, config.ProviderAnthropic, state.EnvVars[envProvider])
}

func TestProviderSpecificStepsSkip(t *testing.T) {
	state := NewInstallState()
	state.EnvVars[envProvider] = config.ProviderOpenAI

	next, _ := NewCustomURLStep().Update(keyEnter, state, 80, 24)
	assert.Nil(t, next)
	next, _ = NewOllamaURLStep().Update(keyEnter, state, 80, 24)
	assert.Nil(t, next)
	assert.NotContains(t, state.EnvVars, envOllamaBaseURL)
}

func TestOllamaURLStep_DefaultsToPlaceholder(t *testing.T) {
	state := NewInstallState()
	state.EnvVars[envProvider] = config.ProviderOllama

	next, _ := NewOllamaURLStep().Update(keyEnter, state, 80, 24)
	assert.Nil(t, next)
	assert.Equal(t, "http://localhost:11434", state.EnvVars[envOllamaBaseURL])
}

func TestAPIKeyStep(t *testing.T) {
	t.Run("required key blocks empty input", func(t *testing.T) {
		state := NewInstallState()
		state.EnvVars[envProvider] = config.ProviderOpenAI
		step := NewAPIKeyStep()

		step, _ = step.Update(nil, state, 80, 24)
		require.NotNil(t, step)

		next, _ := step.Update(keyEnter, state, 80, 24)
		assert.NotNil(t, next)

		next, _ = step.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("sk-1")}, state, 80, 24)
		require.NotNil(t, next)
		next, _ = next.Update(keyEnter, state, 80, 24)
		assert.Nil(t, next)
		assert.Equal(t, "sk-1", state.EnvVars["BARISTA_OPENAI_API_KEY"])
	})

	t.Run("optional key may be skipped", func(t *testing.T) {
		state := NewInstallState()
		state.EnvVars[envProvider] = config.ProviderOllama
		step := NewAPIKeyStep()

		step, _ = step.Update(nil, state, 80, 24)
		require.NotNil(t, step)

		next, _ := step.Update(keyEnter, state, 80, 24)
		assert.Nil(t, next)
		assert.NotContains(t, state.EnvVars, "BARISTA_OLLAMA_API_KEY")
	})
}

func TestTelegramStepsSkipWhenDisabled(t *testing.T) {
	state := NewInstallState()
	state.EnvVars[envEnableTelegram] = "false"

	next, _ := NewTelegramTokenStep().Update(keyEnter, state, 80, 24)
	assert.Nil(t, next)
	next, _ = NewTelegramAllowListStep().Update(keyEnter, state, 80, 24)
	assert.Nil(t, next)
}

func TestNormalizeIDs(t *testing.T) {
	ids, err := normalizeIDs(" 123, ,456 ")
	require.NoError(t, err)
	assert.Equal(t, "123,456", ids)

	ids, err = normalizeIDs("")
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, err = normalizeIDs("123,abc")
	assert.ErrorContains(t, err, "abc")
}

func TestFinalize(t *testing.T) {
	state := NewInstallState()
	state.EnvVars[envTelegramToken] = "123:abc"
	state.EnvVars[envMaxTurns] = "6"

	finalize(state)

	assert.Equal(t, "true", state.EnvVars[envEnableTelegram])
	assert.Equal(t, "6", state.EnvVars[envMaxTurns])
	assert.Equal(t, config.HistoryLabeled, state.EnvVars[envHistoryFormat])
	assert.Equal(t, "0", state.EnvVars[envDebug])

	state = NewInstallState()
	finalize(state)
	assert.Equal(t, "false", state.EnvVars[envEnableTelegram])
}

func TestStateToConfig(t *testing.T) {
	state := NewInstallState()
	state.EnvVars[envProvider] = config.ProviderOllama

	cfg := stateToConfig(state)
	assert.Equal(t, config.ProviderOllama, cfg.Provider)
	assert.Equal(t, "http://localhost:11434", cfg.OllamaBaseURL)
}

func TestSaveEnv(t *testing.T) {
	fs := afero.NewMemMapFs()
	vars := map[string]string{
		envProvider: "openai",
		envModel:    "gpt-4o-mini",
	}

	require.NoError(t, saveEnv(fs, "/rt", vars))

	f, err := fs.Open("/rt/.env")
	require.NoError(t, err)
	defer f.Close()
	parsed, err := godotenv.Parse(f)
	require.NoError(t, err)
	assert.Equal(t, vars, parsed)

	err = saveEnv(fs, "/rt", vars)
	assert.ErrorContains(t, err, "already exists")
}

func TestSeedFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/rt/SYSTEM.md", []byte("custom"), 0644))

	require.NoError(t, seedFiles(fs, "/rt"))

	prompt, err := afero.ReadFile(fs, "/rt/PROMPT.md")
	require.NoError(t, err)
	assert.Contains(t, string(prompt), "{context}")
	assert.Contains(t, string(prompt), "{history}")
	assert.Equal(t, llm.DefaultPromptTemplate+"\n", string(prompt))

	system, err := afero.ReadFile(fs, "/rt/SYSTEM.md")
	require.NoError(t, err)
	assert.Equal(t, "custom", string(system))
}
