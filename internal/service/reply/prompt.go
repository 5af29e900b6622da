package reply

import (
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"

	"github.com/smartfarm/assistant/backend/internal/analysis/topic"
	"github.com/smartfarm/assistant/backend/internal/model/chat"
)

const basePrompt = `You are a helpful farming assistant that explains recommendations clearly.
Answer in short paragraphs. Use bullet or numbered lists for steps and **bold** for key figures.
Never include HTML or scripts in your answer.`

// buildSystemPrompt adds the session context to the base prompt.
func buildSystemPrompt(req Request) string {
	var b strings.Builder
	b.WriteString(basePrompt)

	if req.DisplayName != "" || req.FarmID != "" {
		b.WriteString("\n\nContext:")
		if req.DisplayName != "" {
			fmt.Fprintf(&b, "\n- The farmer's name is %s.", req.DisplayName)
		}
		if req.FarmID != "" {
			fmt.Fprintf(&b, "\n- Their farm id is %s.", req.FarmID)
		}
	}

	if len(req.Facts) > 0 {
		b.WriteString("\n\nCurrent field data:")
		for _, f := range req.Facts {
			fmt.Fprintf(&b, "\n- %s: %s", f.Name, f.Value)
		}
	}

	if labels := topic.Mentions(req.Text); len(labels) > 0 {
		names := make([]string, len(labels))
		for i, l := range labels {
			names[i] = string(l)
		}
		fmt.Fprintf(&b, "\n\nThe question touches on: %s.", strings.Join(names, ", "))
	}
	return b.String()
}

// buildHistory converts the most recent limit log entries into chat model messages.
func buildHistory(messages []chat.Message, limit int) []*schema.Message {
	if len(messages) == 0 {
		return nil
	}

	start := 0
	if limit > 0 && len(messages) > limit {
		start = len(messages) - limit
	}

	history := make([]*schema.Message, 0, len(messages)-start)
	for _, msg := range messages[start:] {
		switch msg.Sender {
		case chat.SenderUser:
			history = append(history, schema.UserMessage(msg.Text))
		case chat.SenderAssistant:
			history = append(history, schema.AssistantMessage(msg.Text, nil))
		}
	}
	return history
}
