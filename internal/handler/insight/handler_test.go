package insight

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartfarm/assistant/backend/internal/model/insight"
)

func setupRouter() *chi.Mux {
	r := chi.NewRouter()
	New(insight.NewMemoryStore(insight.Seed())).RegisterRoutes(r)
	return r
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
	return resp
}

func TestListInsights(t *testing.T) {
	resp := get(setupRouter(), "/insights")
	require.Equal(t, http.StatusOK, resp.Code)

	var items []insight.Insight
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &items))
	assert.Len(t, items, 6)
}

func TestListInsightsByPriority(t *testing.T) {
	resp := get(setupRouter(), "/insights?priority=medium")
	require.Equal(t, http.StatusOK, resp.Code)

	var items []insight.Insight
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &items))
	require.Len(t, items, 3)
	for _, item := range items {
		assert.Equal(t, insight.PriorityMedium, item.Priority)
	}
}

func TestGetInsight(t *testing.T) {
	r := setupRouter()

	resp := get(r, "/insights/6")
	require.Equal(t, http.StatusOK, resp.Code)
	var item insight.Insight
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &item))
	assert.Equal(t, "Pest Prevention", item.Category)

	assert.Equal(t, http.StatusNotFound, get(r, "/insights/99").Code)
}
