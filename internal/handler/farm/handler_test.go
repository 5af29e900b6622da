package farm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartfarm/assistant/backend/internal/model/farm"
	farmservice "github.com/smartfarm/assistant/backend/internal/service/farm"
	"github.com/smartfarm/assistant/backend/internal/service/reply"
)

type drySoil struct{}

func (drySoil) Read() farm.SensorReading {
	return farm.SensorReading{Moisture: 14, PH: 6.4, Temperature: 29, Humidity: 55}
}

func setupRouter(t *testing.T, apiKey string) *chi.Mux {
	t.Helper()
	owm := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"Eldoret","weather":[{"description":"scattered clouds"}],"main":{"temp":21.3,"humidity":64},"wind":{"speed":4.1}}`))
	}))
	t.Cleanup(owm.Close)

	weather := farmservice.NewWeatherClient(owm.URL, apiKey, "Eldoret", time.Second)
	explainer := reply.ResolverFunc(func(context.Context, reply.Request) string {
		return "Dry soil stresses roots."
	})
	svc := farmservice.NewService(drySoil{}, weather, explainer, zerolog.Nop())

	r := chi.NewRouter()
	New(svc).RegisterRoutes(r)
	return r
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
	return resp
}

func TestSensorData(t *testing.T) {
	resp := get(setupRouter(t, "key"), "/sensor-data")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"moisture":14,"pH":6.4,"temperature":29,"humidity":55}`, resp.Body.String())
}

func TestWeather(t *testing.T) {
	resp := get(setupRouter(t, "key"), "/weather?city=Eldoret")
	require.Equal(t, http.StatusOK, resp.Code)

	var report farm.WeatherReport
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &report))
	assert.Equal(t, "scattered clouds", report.Description)
}

func TestWeatherNotConfigured(t *testing.T) {
	resp := get(setupRouter(t, ""), "/weather")
	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
}

func TestRecommendations(t *testing.T) {
	resp := get(setupRouter(t, "key"), "/recommendations")
	require.Equal(t, http.StatusOK, resp.Code)

	var out recommendationsResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	require.Len(t, out.Recommendations, 1)
	assert.Equal(t, farmservice.ActionWater, out.Recommendations[0].Action)
	require.NotNil(t, out.Weather)
	assert.Equal(t, "Eldoret", out.Weather.Location)
}

func TestDashboardWithoutWeather(t *testing.T) {
	resp := get(setupRouter(t, ""), "/dashboard")
	require.Equal(t, http.StatusOK, resp.Code)

	var dash farm.Dashboard
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &dash))
	assert.Nil(t, dash.Weather)
	require.Len(t, dash.Recommendations, 1)
	assert.Equal(t, "Dry soil stresses roots.", dash.Explanation)
}
