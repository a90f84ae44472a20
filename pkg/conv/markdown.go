package conv

import (
	"fmt"
	"io"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"
)

var (
	extensions = parser.CommonExtensions | parser.NoEmptyLineBeforeBlock
	htmlFlags  = html.CommonFlags | html.HrefTargetBlank
	tgPolicy   = bluemonday.NewPolicy()
)

func init() {
	// Allowed tags https://core.telegram.org/bots/api#html-style
	tgPolicy.AllowElements("b", "strong", "i", "em", "u", "ins", "s", "strike", "del", "code", "pre", "blockquote")
	tgPolicy.AllowAttrs("href").OnElements("a")
	tgPolicy.AllowAttrs("class").OnElements("code")
}

// MarkdownToTelegramHTML renders model output into the HTML subset Telegram
// accepts. Lists have no Telegram tag, so items become bullet lines.
func MarkdownToTelegramHTML(md []byte) string {
	p := parser.NewWithExtensions(extensions)
	renderer := html.NewRenderer(html.RendererOptions{
		Flags:          htmlFlags,
		RenderNodeHook: renderListItem,
	})
	unsafeHTML := markdown.Render(p.Parse(md), renderer)

	return string(tgPolicy.SanitizeBytes(unsafeHTML))
}

func renderListItem(w io.Writer, node ast.Node, entering bool) (ast.WalkStatus, bool) {
	item, ok := node.(*ast.ListItem)
	if !ok {
		return ast.GoToNext, false
	}

	if !entering {
		_, _ = io.WriteString(w, "\n")
		return ast.GoToNext, true
	}

	if item.ListFlags&ast.ListTypeOrdered != 0 {
		_, _ = fmt.Fprintf(w, "%d. ", itemNumber(item))
	} else {
		_, _ = io.WriteString(w, "• ")
	}
	return ast.GoToNext, true
}

func itemNumber(item *ast.ListItem) int {
	start := 1
	parent := item.GetParent()
	if list, ok := parent.(*ast.List); ok && list.Start > 0 {
		start = list.Start
	}
	if parent == nil {
		return start
	}
	for i, child := range parent.GetChildren() {
		if child == item {
			return start + i
		}
	}
	return start
}
