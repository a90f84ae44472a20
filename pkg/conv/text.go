package conv

import (
	"strings"

	"github.com/inbucket/html2text"
)

// HTMLToText renders Telegram HTML as plain text. Used when Telegram rejects
// a message because of its markup.
func HTMLToText(html string) string {
	text, err := html2text.FromString(html, html2text.Options{
		OmitLinks: false,
		TextOnly:  true,
	})
	if err != nil {
		return html
	}
	return strings.TrimSpace(text)
}
