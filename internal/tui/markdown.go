package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// renderMarkdown renders assistant content as markdown, falling back to the
// raw text when rendering fails.
func renderMarkdown(content string, width int) string {
	if width < 10 {
		width = 10
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return content
	}
	out, err := r.Render(content)
	if err != nil {
		return content
	}
	return strings.Trim(out, "\n")
}
