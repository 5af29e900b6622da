package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/smartfarm/assistant/backend/internal/handler/chat"
	"github.com/smartfarm/assistant/backend/internal/handler/farm"
	"github.com/smartfarm/assistant/backend/internal/handler/insight"
	"github.com/smartfarm/assistant/backend/internal/handler/query"
	"github.com/smartfarm/assistant/backend/internal/handler/stream"
	"github.com/smartfarm/assistant/backend/internal/handler/ws"
	middlewarePkg "github.com/smartfarm/assistant/backend/internal/middleware"
	insightModel "github.com/smartfarm/assistant/backend/internal/model/insight"
	chatService "github.com/smartfarm/assistant/backend/internal/service/chat"
	farmService "github.com/smartfarm/assistant/backend/internal/service/farm"
	"github.com/smartfarm/assistant/backend/internal/service/reply"
	"github.com/smartfarm/assistant/backend/pkg/utils"
)

// Services groups what the HTTP layer needs. Farm may be nil, which leaves
// the farm data routes unmounted.
type Services struct {
	Chat     *chatService.Service
	Farm     *farmService.Service
	Insights insightModel.Store
	Answerer reply.Resolver
}

// NewRouter wires HTTP routes to core services.
func NewRouter(svc Services, log zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewarePkg.RequestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	started := time.Now()
	health := func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]any{
			"status": "ok",
			"uptime": time.Since(started).Round(time.Second).String(),
		})
	}
	r.Get("/", health)
	r.Get("/health", health)

	if svc.Answerer != nil {
		query.New(svc.Answerer).RegisterRoutes(r)
	}

	r.Route("/api", func(api chi.Router) {
		chat.New(svc.Chat).RegisterRoutes(api)
		stream.New(svc.Chat).RegisterRoutes(api)
		ws.New(svc.Chat).RegisterRoutes(api)

		if svc.Insights != nil {
			insight.New(svc.Insights).RegisterRoutes(api)
		}
		if svc.Farm != nil {
			farm.New(svc.Farm).RegisterRoutes(api)
		}
	})

	return r
}
