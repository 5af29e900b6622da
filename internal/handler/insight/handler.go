package insight

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/smartfarm/assistant/backend/internal/model/insight"
	"github.com/smartfarm/assistant/backend/pkg/utils"
)

// Handler serves the read-only insight catalog.
type Handler struct {
	insights insight.Store
}

// New creates an insight handler.
func New(insights insight.Store) *Handler {
	return &Handler{insights: insights}
}

// RegisterRoutes mounts the insight list and lookup routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/insights", h.handleList)
	r.Get("/insights/{insightID}", h.handleGet)
}

// handleList returns the catalog, optionally filtered by ?priority=.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	if p := r.URL.Query().Get("priority"); p != "" {
		utils.RespondJSON(w, http.StatusOK, h.insights.ByPriority(insight.Priority(p)))
		return
	}
	utils.RespondJSON(w, http.StatusOK, h.insights.List())
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	item, ok := h.insights.FindByID(chi.URLParam(r, "insightID"))
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "insight not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, item)
}
