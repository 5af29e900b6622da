package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartfarm/assistant/backend/internal/model/chat"
)

func TestHTMLStructure(t *testing.T) {
	out, err := HTML("Here is the plan:\n\n- **Water** at dawn\n- Mulch beds\n\n1. Scout\n2. Spray\n\nDone.")
	require.NoError(t, err)

	assert.Contains(t, out, "<p>Here is the plan:</p>")
	assert.Contains(t, out, "<strong>Water</strong>")
	assert.Contains(t, out, "<ul>")
	assert.Contains(t, out, "<ol>")
	assert.Contains(t, out, "<p>Done.</p>")
}

func TestHTMLDoesNotExecuteMarkup(t *testing.T) {
	out, err := HTML("Hi <script>alert('x')</script> <img src=x onerror=alert(1)> [link](javascript:alert(1))")
	require.NoError(t, err)

	assert.NotContains(t, out, "<script")
	assert.NotContains(t, out, "onerror")
	assert.NotContains(t, out, "javascript:")
}

func TestDecorateOnlyAssistant(t *testing.T) {
	snap := chat.Snapshot{Messages: []chat.Message{
		{ID: "1", Sender: chat.SenderAssistant, Text: "**hi**"},
		{ID: "2", Sender: chat.SenderUser, Text: "**me**"},
	}}

	out := Decorate(snap)
	assert.Contains(t, out.Messages[0].HTML, "<strong>hi</strong>")
	assert.Empty(t, out.Messages[1].HTML)
	assert.Empty(t, snap.Messages[0].HTML, "input snapshot must not be modified")
}

func TestTerminalRenderKeepsText(t *testing.T) {
	term := NewTerminal(60)
	out := term.Render("Use **drip irrigation** where possible.")
	assert.Contains(t, out, "drip irrigation")

	var nilTerm *Terminal
	assert.Equal(t, "plain", nilTerm.Render("plain"))
}
