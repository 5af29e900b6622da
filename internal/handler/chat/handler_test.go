package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartfarm/assistant/backend/internal/model/chat"
	chatservice "github.com/smartfarm/assistant/backend/internal/service/chat"
	"github.com/smartfarm/assistant/backend/internal/service/reply"
)

func setupRouter(resolver reply.Resolver) (*chi.Mux, *chatservice.Service) {
	chatSvc := chatservice.NewService(resolver, zerolog.Nop())
	handler := New(chatSvc)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r, chatSvc
}

func do(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func createSession(t *testing.T, r http.Handler) createSessionResponse {
	t.Helper()
	resp := do(t, r, http.MethodPost, "/sessions", `{"name":"Amina","email":"amina@example.com","farmId":"F-7"}`)
	require.Equal(t, http.StatusCreated, resp.Code)

	var out createSessionResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	return out
}

func decodeSnapshot(t *testing.T, resp *httptest.ResponseRecorder) chat.Snapshot {
	t.Helper()
	var snap chat.Snapshot
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &snap))
	return snap
}

func TestCreateSessionSeedsGreeting(t *testing.T) {
	r, _ := setupRouter(reply.NewLocal())

	out := createSession(t, r)
	assert.NotEmpty(t, out.Session.ID)
	assert.Equal(t, "F-7", out.Session.Profile.FarmID)
	require.Len(t, out.Snapshot.Messages, 1)
	assert.Equal(t, chat.SenderAssistant, out.Snapshot.Messages[0].Sender)
	assert.Contains(t, out.Snapshot.Messages[0].Text, "Amina")
	assert.False(t, out.Snapshot.Pending)
}

func TestCreateSessionValidation(t *testing.T) {
	r, _ := setupRouter(reply.NewLocal())

	assert.Equal(t, http.StatusBadRequest, do(t, r, http.MethodPost, "/sessions", `{"name":"  "}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, r, http.MethodPost, "/sessions", `not json`).Code)
}

func TestSubmitAndReply(t *testing.T) {
	r, chatSvc := setupRouter(reply.NewLocal())
	out := createSession(t, r)
	path := "/sessions/" + out.Session.ID

	resp := do(t, r, http.MethodPost, path+"/messages", `{"text":"How much water do my crops need?"}`)
	require.Equal(t, http.StatusAccepted, resp.Code)
	snap := decodeSnapshot(t, resp)
	require.GreaterOrEqual(t, len(snap.Messages), 2)
	assert.Equal(t, chat.SenderUser, snap.Messages[1].Sender)
	assert.Equal(t, "How much water do my crops need?", snap.Messages[1].Text)

	conv, err := chatSvc.Conversation(context.Background(), out.Session.ID)
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, conv.Wait(ctx))

	snap = decodeSnapshot(t, do(t, r, http.MethodGet, path, ""))
	require.Len(t, snap.Messages, 3)
	assert.False(t, snap.Pending)
	assert.Equal(t, snap.Messages[2].ID, snap.LatestID)
	assert.True(t, strings.HasPrefix(snap.Messages[2].Text, "Based on your current soil moisture levels"))
}

func TestSubmitStatusCodes(t *testing.T) {
	release := make(chan struct{})
	gated := reply.ResolverFunc(func(ctx context.Context, req reply.Request) string {
		select {
		case <-release:
		case <-ctx.Done():
		}
		return "done"
	})
	r, _ := setupRouter(gated)
	out := createSession(t, r)
	path := "/sessions/" + out.Session.ID
	defer close(release)

	assert.Equal(t, http.StatusBadRequest, do(t, r, http.MethodPost, path+"/messages", `{"text":"   "}`).Code)
	assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodPost, "/sessions/nope/messages", `{"text":"hi"}`).Code)

	require.Equal(t, http.StatusAccepted, do(t, r, http.MethodPost, path+"/messages", `{"text":"first"}`).Code)
	resp := do(t, r, http.MethodPost, path+"/messages", `{"text":"second"}`)
	assert.Equal(t, http.StatusConflict, resp.Code)
	assert.JSONEq(t, `{"error":"a reply is still pending"}`, resp.Body.String())

	snap := decodeSnapshot(t, do(t, r, http.MethodGet, path, ""))
	assert.Len(t, snap.Messages, 2)
	assert.True(t, snap.Pending)
}

func TestLogOnlyGrowsWithinSession(t *testing.T) {
	r, chatSvc := setupRouter(reply.NewLocal())
	out := createSession(t, r)
	path := "/sessions/" + out.Session.ID
	conv, err := chatSvc.Conversation(context.Background(), out.Session.ID)
	require.NoError(t, err)

	require.Equal(t, http.StatusAccepted, do(t, r, http.MethodPost, path+"/messages", `{"text":"pest control"}`).Code)
	require.NoError(t, conv.Wait(context.Background()))
	before := decodeSnapshot(t, do(t, r, http.MethodGet, path, ""))
	require.Len(t, before.Messages, 3)

	// There is no route that clears a live session.
	assert.Equal(t, http.StatusMethodNotAllowed, do(t, r, http.MethodPost, path, "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodPost, path+"/reset", "").Code)

	require.Equal(t, http.StatusAccepted, do(t, r, http.MethodPost, path+"/messages", `{"text":"weather?"}`).Code)
	require.NoError(t, conv.Wait(context.Background()))
	after := decodeSnapshot(t, do(t, r, http.MethodGet, path, ""))
	require.Len(t, after.Messages, 5)
	assert.Equal(t, before.Messages, after.Messages[:3])
}

func TestStartOverWithNewSession(t *testing.T) {
	r, _ := setupRouter(reply.NewLocal())
	first := createSession(t, r)

	require.Equal(t, http.StatusNoContent, do(t, r, http.MethodDelete, "/sessions/"+first.Session.ID, "").Code)
	second := createSession(t, r)

	assert.NotEqual(t, first.Session.ID, second.Session.ID)
	require.Len(t, second.Snapshot.Messages, 1)
	assert.Equal(t, chat.SenderAssistant, second.Snapshot.Messages[0].Sender)
}

func TestGetSessionHTMLFormat(t *testing.T) {
	resolver := reply.ResolverFunc(func(context.Context, reply.Request) string {
		return "**Tip**\n\n<script>alert(1)</script>"
	})
	r, chatSvc := setupRouter(resolver)
	out := createSession(t, r)
	path := "/sessions/" + out.Session.ID

	require.Equal(t, http.StatusAccepted, do(t, r, http.MethodPost, path+"/messages", `{"text":"hi"}`).Code)
	conv, err := chatSvc.Conversation(context.Background(), out.Session.ID)
	require.NoError(t, err)
	require.NoError(t, conv.Wait(context.Background()))

	plain := decodeSnapshot(t, do(t, r, http.MethodGet, path, ""))
	assert.Empty(t, plain.Messages[2].HTML)

	snap := decodeSnapshot(t, do(t, r, http.MethodGet, path+"?format=html", ""))
	require.Len(t, snap.Messages, 3)
	assert.Contains(t, snap.Messages[2].HTML, "<strong>Tip</strong>")
	assert.NotContains(t, snap.Messages[2].HTML, "<script>")
	assert.Empty(t, snap.Messages[1].HTML)
}

func TestDeleteSession(t *testing.T) {
	r, _ := setupRouter(reply.NewLocal())
	out := createSession(t, r)
	path := "/sessions/" + out.Session.ID

	assert.Equal(t, http.StatusNoContent, do(t, r, http.MethodDelete, path, "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodGet, path, "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodDelete, path, "").Code)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusGone, StatusFor(chatservice.ErrConversationClosed))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(assert.AnError))
}
