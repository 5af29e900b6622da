package reply

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartfarm/assistant/backend/internal/config"
)

func TestNewSelectsVariant(t *testing.T) {
	cfg := &config.Config{Assistant: config.AssistantConfig{
		Mode:          config.ModeLocal,
		LocalDelayMin: time.Millisecond,
		LocalDelayMax: 2 * time.Millisecond,
	}}

	r, err := New(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	local, ok := r.(*Local)
	require.True(t, ok)
	assert.Equal(t, time.Millisecond, local.minDelay)

	cfg.Assistant.Mode = config.ModeRemote
	cfg.Assistant.RemoteURL = "http://localhost:1"
	cfg.Assistant.RemoteTimeout = time.Second
	r, err = New(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &Remote{}, r)
}

func TestNewModelModeWithoutCredentials(t *testing.T) {
	cfg := &config.Config{Assistant: config.AssistantConfig{Mode: config.ModeModel}}
	_, err := New(context.Background(), cfg, zerolog.Nop())
	require.Error(t, err)
}

func TestNewUnknownMode(t *testing.T) {
	cfg := &config.Config{Assistant: config.AssistantConfig{Mode: "psychic"}}
	_, err := New(context.Background(), cfg, zerolog.Nop())
	require.Error(t, err)
}

func TestResolverFunc(t *testing.T) {
	var r Resolver = ResolverFunc(func(_ context.Context, req Request) string {
		return "echo: " + req.Text
	})
	assert.Equal(t, "echo: hi", r.Resolve(context.Background(), Request{Text: "hi"}))
}

func TestNewAnswererWithoutModelIsLocal(t *testing.T) {
	cfg := &config.Config{Assistant: config.AssistantConfig{
		Mode:      config.ModeRemote,
		RemoteURL: "http://localhost:1",
	}}

	r, err := NewAnswerer(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	local, ok := r.(*Local)
	require.True(t, ok)
	assert.Zero(t, local.maxDelay)
}
