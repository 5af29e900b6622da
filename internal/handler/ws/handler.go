package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	handlerChat "github.com/smartfarm/assistant/backend/internal/handler/chat"
	"github.com/smartfarm/assistant/backend/internal/model/chat"
	"github.com/smartfarm/assistant/backend/internal/render"
	chatService "github.com/smartfarm/assistant/backend/internal/service/chat"
	"github.com/smartfarm/assistant/backend/pkg/utils"
)

// Frame types.
const (
	TypeSnapshot = "snapshot"
	TypeSubmit   = "submit"
	TypeError    = "error"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
	writeWait  = 10 * time.Second
)

// Handler pushes conversation snapshots over a WebSocket and accepts
// submit frames from the client.
type Handler struct {
	chatSvc  *chatService.Service
	upgrader websocket.Upgrader
}

// New creates a WebSocket handler.
func New(chatSvc *chatService.Service) *Handler {
	return &Handler{
		chatSvc: chatSvc,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes mounts the socket below /sessions/{sessionID}.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/sessions/{sessionID}/ws", h.handleWebSocket)
}

type inboundMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type outgoingMessage struct {
	Type      string `json:"type"`
	SessionID string `json:"sessionId"`
	Data      any    `json:"data,omitempty"`
	Error     string `json:"error,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	log := zerolog.Ctx(r.Context()).With().Str("session", sessionID).Logger()

	conv, err := h.chatSvc.Conversation(r.Context(), sessionID)
	if err != nil {
		utils.RespondError(w, handlerChat.StatusFor(err), err.Error())
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	asHTML := r.URL.Query().Get("format") == "html"
	updates, unsubscribe := conv.Subscribe()
	defer unsubscribe()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	rejections := make(chan string, 4)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		defer conn.Close()
		defer cancel()
		h.writeLoop(ctx, conn, sessionID, updates, rejections, asHTML)
	}()

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	log.Debug().Msg("websocket connected")
	h.readLoop(ctx, conn, conv, rejections, log)
	cancel()
	<-writerDone
	log.Debug().Msg("websocket disconnected")
}

func (h *Handler) readLoop(ctx context.Context, conn *websocket.Conn, conv *chatService.Conversation, rejections chan<- string, log zerolog.Logger) {
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug().Err(err).Msg("websocket read failed")
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))

		var msg inboundMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			reject(ctx, rejections, "invalid frame")
			continue
		}

		if msg.Type != TypeSubmit {
			reject(ctx, rejections, "unknown frame type "+msg.Type)
			continue
		}
		if err := conv.Submit(ctx, msg.Text); err != nil {
			reject(ctx, rejections, err.Error())
		}
	}
}

func reject(ctx context.Context, rejections chan<- string, message string) {
	select {
	case rejections <- message:
	case <-ctx.Done():
	}
}

// writeLoop owns every write on conn.
func (h *Handler) writeLoop(ctx context.Context, conn *websocket.Conn, sessionID string, updates <-chan chat.Snapshot, rejections <-chan string, asHTML bool) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	write := func(msg outgoingMessage) error {
		msg.SessionID = sessionID
		msg.Timestamp = time.Now().Unix()
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteJSON(msg)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-updates:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed"),
					time.Now().Add(writeWait))
				return
			}
			if asHTML {
				snap = render.Decorate(snap)
			}
			if err := write(outgoingMessage{Type: TypeSnapshot, Data: snap}); err != nil {
				return
			}
		case message := <-rejections:
			if err := write(outgoingMessage{Type: TypeError, Error: message}); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
