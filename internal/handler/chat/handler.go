package chat

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/smartfarm/assistant/backend/internal/model/chat"
	"github.com/smartfarm/assistant/backend/internal/render"
	chatService "github.com/smartfarm/assistant/backend/internal/service/chat"
	"github.com/smartfarm/assistant/backend/pkg/utils"
)

// Handler exposes session lifecycle and message submission over HTTP.
type Handler struct {
	chatSvc *chatService.Service
}

// New creates a session handler.
func New(chatSvc *chatService.Service) *Handler {
	return &Handler{chatSvc: chatSvc}
}

// RegisterRoutes mounts the session routes on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/sessions", h.handleCreateSession)
	r.Get("/sessions/{sessionID}", h.handleGetSession)
	r.Delete("/sessions/{sessionID}", h.handleDeleteSession)
	r.Post("/sessions/{sessionID}/messages", h.handleSubmit)
}

type createSessionResponse struct {
	Session  chat.Session  `json:"session"`
	Snapshot chat.Snapshot `json:"snapshot"`
}

func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var payload chat.Profile
	if err := utils.DecodeJSON(r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.chatSvc.CreateSession(r.Context(), payload)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	conv, err := h.chatSvc.Conversation(r.Context(), session.ID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	utils.RespondJSON(w, http.StatusCreated, createSessionResponse{
		Session:  session,
		Snapshot: present(r, conv.Snapshot()),
	})
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	conv, ok := h.conversation(w, r)
	if !ok {
		return
	}
	utils.RespondJSON(w, http.StatusOK, present(r, conv.Snapshot()))
}

func (h *Handler) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.chatSvc.CloseSession(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Text string `json:"text"`
	}
	if err := utils.DecodeJSON(r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	conv, ok := h.conversation(w, r)
	if !ok {
		return
	}

	if err := conv.Submit(r.Context(), payload.Text); err != nil {
		respondServiceError(w, r, err)
		return
	}

	utils.RespondJSON(w, http.StatusAccepted, present(r, conv.Snapshot()))
}

func (h *Handler) conversation(w http.ResponseWriter, r *http.Request) (*chatService.Conversation, bool) {
	conv, err := h.chatSvc.Conversation(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		respondServiceError(w, r, err)
		return nil, false
	}
	return conv, true
}

// present renders assistant text to sanitized HTML when the caller asks for it.
func present(r *http.Request, snap chat.Snapshot) chat.Snapshot {
	if r.URL.Query().Get("format") == "html" {
		return render.Decorate(snap)
	}
	return snap
}

// StatusFor maps conversation and registry errors to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, chatService.ErrEmptyMessage), errors.Is(err, chatService.ErrProfileNameRequired):
		return http.StatusBadRequest
	case errors.Is(err, chatService.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, chatService.ErrReplyPending):
		return http.StatusConflict
	case errors.Is(err, chatService.ErrConversationClosed):
		return http.StatusGone
	default:
		return http.StatusInternalServerError
	}
}

func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("chat request failed")
	}
	utils.RespondError(w, status, err.Error())
}
