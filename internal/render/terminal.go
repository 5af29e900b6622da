package render

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// Terminal renders assistant text for an ANSI terminal.
type Terminal struct {
	renderer *glamour.TermRenderer
}

// NewTerminal builds a renderer wrapping at width columns. When styling is
// unavailable Render returns the text unchanged.
func NewTerminal(width int) *Terminal {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return &Terminal{}
	}
	return &Terminal{renderer: r}
}

// Render formats text, falling back to the raw text on failure.
func (t *Terminal) Render(text string) string {
	if t == nil || t.renderer == nil {
		return text
	}
	out, err := t.renderer.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n") + "\n"
}
