package query

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/smartfarm/assistant/backend/internal/analysis/topic"
	"github.com/smartfarm/assistant/backend/internal/service/reply"
	"github.com/smartfarm/assistant/backend/pkg/utils"
)

// Handler answers single questions in the wire format the remote resolver
// speaks, so one instance can serve as another's assistant service.
type Handler struct {
	answerer reply.Resolver
}

// New creates a question handler answering through answerer.
func New(answerer reply.Resolver) *Handler {
	return &Handler{answerer: answerer}
}

// RegisterRoutes mounts POST /query on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/query", h.handleQuery)
}

func (h *Handler) handleQuery(w http.ResponseWriter, r *http.Request) {
	var payload reply.QueryRequest
	if err := utils.DecodeJSON(r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	question := strings.TrimSpace(payload.Question)
	if question == "" {
		utils.RespondError(w, http.StatusBadRequest, "question is required")
		return
	}

	zerolog.Ctx(r.Context()).Debug().Str("topic", string(topic.Classify(question))).Msg("answering question")

	answer := h.answerer.Resolve(r.Context(), reply.Request{Text: question})
	utils.RespondJSON(w, http.StatusOK, reply.QueryResponse{Response: &answer})
}
