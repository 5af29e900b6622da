package chat_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartfarm/assistant/backend/internal/model/chat"
	"github.com/smartfarm/assistant/backend/internal/service/reply"
	chatservice "github.com/smartfarm/assistant/backend/internal/service/chat"
)

func newService() *chatservice.Service {
	return chatservice.NewService(reply.NewLocal(), zerolog.Nop())
}

func TestServiceGetSession(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, chat.Profile{Name: " Juma ", FarmID: "F-12"})
	require.NoError(t, err)

	got, err := svc.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, got.ID)
	assert.Equal(t, "Juma", got.Profile.Name)
	assert.Equal(t, "F-12", got.Profile.FarmID)
}

func TestServiceGetSessionNotFound(t *testing.T) {
	svc := newService()
	_, err := svc.GetSession(context.Background(), "missing")
	assert.ErrorIs(t, err, chatservice.ErrSessionNotFound)
}

func TestServiceCreateSessionRequiresName(t *testing.T) {
	svc := newService()
	_, err := svc.CreateSession(context.Background(), chat.Profile{Email: "a@b.c"})
	assert.ErrorIs(t, err, chatservice.ErrProfileNameRequired)
}

func TestServiceSubmitAndTranscript(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	session, err := svc.CreateSession(ctx, chat.Profile{Name: "Juma"})
	require.NoError(t, err)

	require.NoError(t, svc.Submit(ctx, session.ID, "any pest alerts?"))

	conv, err := svc.Conversation(ctx, session.ID)
	require.NoError(t, err)
	waitCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	require.NoError(t, conv.Wait(waitCtx))

	transcript, err := svc.LoadTranscript(ctx, session.ID)
	require.NoError(t, err)
	require.Len(t, transcript, 3)
	assert.Contains(t, transcript[0].Text, "Juma")
	assert.Contains(t, transcript[2].Text, "pest management")

	assert.ErrorIs(t, svc.Submit(ctx, "missing", "hi"), chatservice.ErrSessionNotFound)
}

func TestServiceSessionsAreIsolated(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	a, _ := svc.CreateSession(ctx, chat.Profile{Name: "A"})
	b, _ := svc.CreateSession(ctx, chat.Profile{Name: "B"})

	require.NoError(t, svc.Submit(ctx, a.ID, "weather?"))

	tb, err := svc.LoadTranscript(ctx, b.ID)
	require.NoError(t, err)
	assert.Len(t, tb, 1)
}

func TestServiceCloseSession(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	session, _ := svc.CreateSession(ctx, chat.Profile{Name: "Juma"})
	conv, _ := svc.Conversation(ctx, session.ID)

	require.NoError(t, svc.CloseSession(ctx, session.ID))
	assert.ErrorIs(t, svc.CloseSession(ctx, session.ID), chatservice.ErrSessionNotFound)
	assert.ErrorIs(t, conv.Submit(ctx, "hi"), chatservice.ErrConversationClosed)

	_, err := svc.GetSession(ctx, session.ID)
	assert.ErrorIs(t, err, chatservice.ErrSessionNotFound)
}

func TestServiceShutdown(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	session, _ := svc.CreateSession(ctx, chat.Profile{Name: "Juma"})
	conv, _ := svc.Conversation(ctx, session.ID)

	svc.Shutdown()
	assert.ErrorIs(t, conv.Submit(ctx, "hi"), chatservice.ErrConversationClosed)
}
