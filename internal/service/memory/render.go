package memory

import (
	"fmt"
	"strings"

	"github.com/sandevgo/barista/internal/core"
)

// FlatRenderer joins turn texts with a single space. Speakers are not
// distinguished.
type FlatRenderer struct{}

func (FlatRenderer) Render(turns []core.Turn) string {
	texts := make([]string, len(turns))
	for i, t := range turns {
		texts[i] = t.Text
	}
	return strings.Join(texts, " ")
}

// LabeledRenderer writes one "Speaker: text" line per turn.
type LabeledRenderer struct{}

func (LabeledRenderer) Render(turns []core.Turn) string {
	lines := make([]string, len(turns))
	for i, t := range turns {
		lines[i] = fmt.Sprintf("%s: %s", speaker(t.Role), t.Text)
	}
	return strings.Join(lines, "\n")
}

func speaker(role string) string {
	switch role {
	case core.RoleUser:
		return "User"
	case core.RoleAssistant:
		return "Assistant"
	case core.RoleSystem:
		return "System"
	default:
		return role
	}
}

// NewRenderer picks a renderer by its config name.
func NewRenderer(format string) (core.HistoryRenderer, error) {
	switch format {
	case "", "labeled":
		return LabeledRenderer{}, nil
	case "flat":
		return FlatRenderer{}, nil
	default:
		return nil, fmt.Errorf("unknown history format: %s", format)
	}
}
