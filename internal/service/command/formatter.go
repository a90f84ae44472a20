package command

import (
	"fmt"
	"strings"
)

// ResponseFormatter builds the Markdown replies of chat commands. The
// transport converts them to Telegram HTML.
type ResponseFormatter struct{}

func NewResponseFormatter() *ResponseFormatter {
	return &ResponseFormatter{}
}

func (f *ResponseFormatter) Info(title string) string {
	return fmt.Sprintf("☕ **%s**\n", title)
}

// Error reports a failed or unknown command, pointing at /help.
func (f *ResponseFormatter) Error(command string, err error) string {
	return fmt.Sprintf("❌ **/%s**: %s\n\n%s", command, err.Error(), f.Tip("send /help to see what I can do"))
}

func (f *ResponseFormatter) Label(label, value string) string {
	return fmt.Sprintf("**%s**  ›  `%s`\n", label, value)
}

func (f *ResponseFormatter) List(items []string) string {
	var sb strings.Builder
	for _, item := range items {
		sb.WriteString("› " + item + "\n")
	}
	return sb.String()
}

func (f *ResponseFormatter) Tip(text string) string {
	return "_" + text + "_\n"
}

func (f *ResponseFormatter) Combine(sections ...string) string {
	return strings.Join(sections, "\n")
}
