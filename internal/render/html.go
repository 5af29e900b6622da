// Package render turns assistant text into display formats. Assistant text is
// treated as lightweight markdown: paragraphs, bold spans and lists. Markup
// embedded in the text is never passed through as executable content.
package render

import (
	"bytes"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/smartfarm/assistant/backend/internal/model/chat"
)

var (
	markdown = goldmark.New(
		goldmark.WithExtensions(extension.Linkify, extension.Strikethrough),
	)
	policy = bluemonday.UGCPolicy()
)

// HTML renders text to sanitized HTML.
func HTML(text string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(text), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return string(policy.SanitizeBytes(buf.Bytes())), nil
}

// Decorate fills the HTML field of every assistant message in snap.
// A message that fails to render keeps an empty HTML field and is shown as plain text.
func Decorate(snap chat.Snapshot) chat.Snapshot {
	out := snap
	out.Messages = make([]chat.Message, len(snap.Messages))
	for i, msg := range snap.Messages {
		if msg.Sender == chat.SenderAssistant {
			if html, err := HTML(msg.Text); err == nil {
				msg.HTML = html
			}
		}
		out.Messages[i] = msg
	}
	return out
}
