package reply

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"
)

// Model answers through a chat model chain: system prompt, recent history, question.
type Model struct {
	chain        compose.Runnable[map[string]any, *schema.Message]
	historyLimit int
	log          zerolog.Logger
}

// NewModel compiles the prompt chain around chatModel.
func NewModel(ctx context.Context, chatModel model.BaseChatModel, historyLimit int, log zerolog.Logger) (*Model, error) {
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &Model{
		chain:        runnable,
		historyLimit: historyLimit,
		log:          log.With().Str("component", "reply.model").Logger(),
	}, nil
}

// Generate runs the chain once.
func (m *Model) Generate(ctx context.Context, req Request) (string, error) {
	input := map[string]any{
		"system":  buildSystemPrompt(req),
		"history": buildHistory(req.History, m.historyLimit),
		"query":   req.Text,
	}

	msg, err := m.chain.Invoke(ctx, input)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReplyUnavailable, err)
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return "", fmt.Errorf("%w: empty model output", ErrReplyUnavailable)
	}
	return msg.Content, nil
}

// Resolve returns the model's answer, or FallbackText on any failure.
func (m *Model) Resolve(ctx context.Context, req Request) string {
	answer, err := m.Generate(ctx, req)
	if err != nil {
		m.log.Warn().Err(err).Msg("model reply failed, using fallback")
		return FallbackText
	}

	m.log.Debug().Int("length", len(answer)).Msg("generated reply")
	return answer
}
