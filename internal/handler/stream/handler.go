package stream

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	handlerChat "github.com/smartfarm/assistant/backend/internal/handler/chat"
	"github.com/smartfarm/assistant/backend/internal/model/chat"
	"github.com/smartfarm/assistant/backend/internal/render"
	chatService "github.com/smartfarm/assistant/backend/internal/service/chat"
	"github.com/smartfarm/assistant/backend/pkg/utils"
)

// SSE event names.
const (
	EventSnapshot = "snapshot"
	EventClosed   = "closed"
)

const defaultKeepAlive = 15 * time.Second

// Handler streams conversation snapshots as Server-Sent Events.
type Handler struct {
	chatSvc   *chatService.Service
	keepAlive time.Duration
}

// New creates a stream handler.
func New(chatSvc *chatService.Service) *Handler {
	return &Handler{chatSvc: chatSvc, keepAlive: defaultKeepAlive}
}

// RegisterRoutes mounts the event stream below /sessions/{sessionID}.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/sessions/{sessionID}/events", h.handleEvents)
}

func (h *Handler) handleEvents(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	log := zerolog.Ctx(r.Context()).With().Str("session", sessionID).Logger()

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	conv, err := h.chatSvc.Conversation(r.Context(), sessionID)
	if err != nil {
		utils.RespondError(w, handlerChat.StatusFor(err), err.Error())
		return
	}

	asHTML := r.URL.Query().Get("format") == "html"
	updates, cancel := conv.Subscribe()
	defer cancel()

	utils.SetupSSEHeaders(w)
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	log.Debug().Msg("event stream opened")
	defer log.Debug().Msg("event stream closed")

	for {
		select {
		case <-r.Context().Done():
			return
		case snap, ok := <-updates:
			if !ok {
				_ = utils.SendSSEEvent(w, flusher, EventClosed, map[string]string{"sessionId": sessionID})
				return
			}
			if err := utils.SendSSEEvent(w, flusher, EventSnapshot, present(snap, asHTML)); err != nil {
				log.Debug().Err(err).Msg("client went away")
				return
			}
		case <-ticker.C:
			if err := utils.SendSSEComment(w, flusher, "keep-alive"); err != nil {
				return
			}
		}
	}
}

func present(snap chat.Snapshot, asHTML bool) chat.Snapshot {
	if asHTML {
		return render.Decorate(snap)
	}
	return snap
}
