package farm

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/smartfarm/assistant/backend/internal/model/farm"
	farmService "github.com/smartfarm/assistant/backend/internal/service/farm"
	"github.com/smartfarm/assistant/backend/pkg/utils"
)

// Handler exposes the data the dashboard and settings pages consume.
type Handler struct {
	farmSvc *farmService.Service
}

// New creates a farm data handler.
func New(farmSvc *farmService.Service) *Handler {
	return &Handler{farmSvc: farmSvc}
}

// RegisterRoutes mounts the sensor, weather, recommendation and dashboard routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/sensor-data", h.handleSensorData)
	r.Get("/weather", h.handleWeather)
	r.Get("/recommendations", h.handleRecommendations)
	r.Get("/dashboard", h.handleDashboard)
}

func (h *Handler) handleSensorData(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.farmSvc.Sensors())
}

func (h *Handler) handleWeather(w http.ResponseWriter, r *http.Request) {
	report, err := h.farmSvc.Weather(r.Context(), r.URL.Query().Get("city"))
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, farmService.ErrWeatherNotConfigured) {
			status = http.StatusServiceUnavailable
		}
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("weather lookup failed")
		utils.RespondError(w, status, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, report)
}

type recommendationsResponse struct {
	SensorData      farm.SensorReading    `json:"sensorData"`
	Weather         *farm.WeatherReport   `json:"weather"`
	Recommendations []farm.Recommendation `json:"recommendations"`
}

func (h *Handler) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	reading, report, recs := h.farmSvc.Recommendations(r.Context(), r.URL.Query().Get("city"))
	utils.RespondJSON(w, http.StatusOK, recommendationsResponse{
		SensorData:      reading,
		Weather:         report,
		Recommendations: recs,
	})
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.farmSvc.Dashboard(r.Context(), r.URL.Query().Get("city")))
}
