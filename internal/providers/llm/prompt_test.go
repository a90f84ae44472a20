package llm

import (
	"path/filepath"
	"testing"

	"github.com/sandevgo/barista/internal/config"
	"github.com/sandevgo/barista/internal/core"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrompt_Render(t *testing.T) {
	tests := []struct {
		name     string
		template string
		req      core.CompletionRequest
		expected string
	}{
		{
			name:     "both placeholders",
			template: "Q: {context}\nH: {history}",
			req:      core.CompletionRequest{Context: "Paris", History: "User: hi"},
			expected: "Q: Paris\nH: User: hi",
		},
		{
			name:     "empty history",
			template: "{context} | {history}",
			req:      core.CompletionRequest{Context: "Paris"},
			expected: "Paris | ",
		},
		{
			name:     "unknown tags are kept",
			template: "{context} {city}",
			req:      core.CompletionRequest{Context: "Paris"},
			expected: "Paris {city}",
		},
		{
			name:     "values are not re-parsed",
			template: "{context}",
			req:      core.CompletionRequest{Context: "{history}", History: "secret"},
			expected: "{history}",
		},
		{
			name:     "placeholder used twice",
			template: "{context}/{context}",
			req:      core.CompletionRequest{Context: "Berlin"},
			expected: "Berlin/Berlin",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPrompt("", tt.template)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, p.Render(tt.req))
		})
	}
}

func TestNewPrompt_UnclosedTag(t *testing.T) {
	_, err := NewPrompt("", "{context")
	assert.Error(t, err)
}

func TestDefaultPrompt(t *testing.T) {
	p := DefaultPrompt()
	out := p.Render(core.CompletionRequest{Context: "Best coffee in Lisbon?", History: "User: hi"})

	assert.Contains(t, out, "Best coffee in Lisbon?")
	assert.Contains(t, out, "User: hi")
	assert.Contains(t, out, "https://www.google.com/maps/search/")
	assert.NotContains(t, out, "{context}")
	assert.NotContains(t, out, "{history}")
	assert.Empty(t, p.System)
}

func TestLoadPrompt(t *testing.T) {
	cfg := config.AppConfig{RuntimePath: "/runtime"}

	t.Run("defaults when files are missing", func(t *testing.T) {
		fs := afero.NewMemMapFs()

		p, err := LoadPrompt(fs, cfg)
		require.NoError(t, err)

		assert.Empty(t, p.System)
		assert.Equal(t, DefaultPrompt().Render(core.CompletionRequest{Context: "x"}), p.Render(core.CompletionRequest{Context: "x"}))
	})

	t.Run("overrides from runtime dir", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, filepath.Join("/runtime", "SYSTEM.md"), []byte("  Be brief.\n"), 0o644))
		require.NoError(t, afero.WriteFile(fs, filepath.Join("/runtime", "PROMPT.md"), []byte("{history} >> {context}"), 0o644))

		p, err := LoadPrompt(fs, cfg)
		require.NoError(t, err)

		assert.Equal(t, "Be brief.", p.System)
		assert.Equal(t, "h >> c", p.Render(core.CompletionRequest{Context: "c", History: "h"}))
	})

	t.Run("blank template falls back", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "/runtime/PROMPT.md", []byte("\n\n"), 0o644))

		p, err := LoadPrompt(fs, cfg)
		require.NoError(t, err)
		assert.Contains(t, p.Render(core.CompletionRequest{Context: "Rome"}), "Rome")
	})

	t.Run("broken template", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "/runtime/PROMPT.md", []byte("{context"), 0o644))

		_, err := LoadPrompt(fs, cfg)
		assert.Error(t, err)
	})
}
