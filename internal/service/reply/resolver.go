package reply

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/smartfarm/assistant/backend/internal/config"
	"github.com/smartfarm/assistant/backend/internal/model/chat"
)

// FallbackText is shown whenever no reply could be produced.
const FallbackText = "Sorry, I could not reach the assistant service right now. Please try again in a moment."

// ErrReplyUnavailable marks any failure to obtain a reply from a collaborator.
// It never leaves this package: Resolve turns it into FallbackText.
var ErrReplyUnavailable = errors.New("reply unavailable")

// Request carries the utterance and the minimal session context a resolver may use.
type Request struct {
	Text        string
	DisplayName string
	FarmID      string
	// History holds the log entries preceding Text, oldest first.
	History []chat.Message
	// Facts are field observations the answer should take into account.
	Facts []Fact
}

// Fact is one named observation, such as a sensor reading.
type Fact struct {
	Name  string
	Value string
}

// Resolver maps a user utterance to assistant text. Implementations absorb
// their own failures and return FallbackText instead of an error.
type Resolver interface {
	Resolve(ctx context.Context, req Request) string
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(ctx context.Context, req Request) string

// Resolve calls f.
func (f ResolverFunc) Resolve(ctx context.Context, req Request) string {
	return f(ctx, req)
}

// New builds the resolver selected by cfg.Assistant.Mode.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (Resolver, error) {
	switch cfg.Assistant.Mode {
	case config.ModeLocal:
		return NewLocal(WithDelay(cfg.Assistant.LocalDelayMin, cfg.Assistant.LocalDelayMax)), nil
	case config.ModeRemote:
		return NewRemote(cfg.Assistant.RemoteURL, cfg.Assistant.RemoteTimeout, log), nil
	case config.ModeModel:
		chatModel, err := cfg.AI.NewChatModel(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create chat model: %w", err)
		}
		return NewModel(ctx, chatModel, cfg.Assistant.HistoryLimit, log)
	default:
		return nil, fmt.Errorf("unknown assistant mode %q", cfg.Assistant.Mode)
	}
}

// NewAnswerer builds the resolver behind the question endpoint and dashboard
// explanations. It uses the chat model when one is configured and the
// keyword table otherwise, never the remote variant, so an instance cannot
// end up querying itself.
func NewAnswerer(ctx context.Context, cfg *config.Config, log zerolog.Logger) (Resolver, error) {
	if !cfg.AI.Enabled() {
		return NewLocal(), nil
	}
	chatModel, err := cfg.AI.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}
	return NewModel(ctx, chatModel, cfg.Assistant.HistoryLimit, log)
}
