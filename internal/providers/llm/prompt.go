package llm

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sandevgo/barista/internal/core"
	"github.com/spf13/afero"
	"github.com/valyala/fasttemplate"
)

const (
	contextTag = "context"
	historyTag = "history"
)

// DefaultPromptTemplate makes the model a coffee-shop finder. {context} is the
// raw inbound message, {history} the rendered conversation memory.
const DefaultPromptTemplate = `{context}

Work out which city the message above is about. If the city is not clear, ask the user to name it.
Otherwise suggest the top 3 coffee shops in that city. For each one write, on separate lines starting with a dash:
- the coffee shop name as a link in the form https://www.google.com/maps/search/<coffee shop>+<city>
- the average bill
- what makes the place special

Also answer follow-up questions using the conversation so far:
{history}

Answer:`

// Prompt turns a completion request into the text sent to the model.
type Prompt struct {
	System   string
	template *fasttemplate.Template
}

func NewPrompt(system, tmpl string) (*Prompt, error) {
	t, err := fasttemplate.NewTemplate(tmpl, "{", "}")
	if err != nil {
		return nil, fmt.Errorf("parse prompt template: %w", err)
	}
	return &Prompt{
		System:   strings.TrimSpace(system),
		template: t,
	}, nil
}

func DefaultPrompt() *Prompt {
	p, err := NewPrompt("", DefaultPromptTemplate)
	if err != nil {
		panic(err)
	}
	return p
}

// Render substitutes {context} and {history}. Other brace-delimited text is
// written back untouched, and substituted values are never re-parsed.
func (p *Prompt) Render(req core.CompletionRequest) string {
	return p.template.ExecuteFuncString(func(w io.Writer, tag string) (int, error) {
		switch tag {
		case contextTag:
			return io.WriteString(w, req.Context)
		case historyTag:
			return io.WriteString(w, req.History)
		default:
			return fmt.Fprintf(w, "{%s}", tag)
		}
	})
}

// LoadPrompt reads the optional system prompt and template override from the
// runtime directory. Missing files fall back to defaults.
func LoadPrompt(fs afero.Fs, cfg core.PromptConfig) (*Prompt, error) {
	system, err := readOptional(fs, cfg.GetSystemPath())
	if err != nil {
		return nil, err
	}

	tmpl, err := readOptional(fs, cfg.GetPromptPath())
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(tmpl) == "" {
		tmpl = DefaultPromptTemplate
	}

	return NewPrompt(system, tmpl)
}

func readOptional(fs afero.Fs, path string) (string, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}
