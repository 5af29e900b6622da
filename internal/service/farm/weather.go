package farm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/smartfarm/assistant/backend/internal/model/farm"
)

var (
	// ErrWeatherUnavailable wraps every failure to obtain a forecast.
	ErrWeatherUnavailable = errors.New("weather unavailable")

	// ErrWeatherNotConfigured is returned, wrapped, when no API key is set.
	ErrWeatherNotConfigured = errors.New("no weather api key configured")
)

// WeatherClient fetches current conditions from OpenWeatherMap.
type WeatherClient struct {
	httpClient  *resty.Client
	apiKey      string
	defaultCity string
}

// NewWeatherClient creates a Resty-backed client. An empty apiKey makes every Fetch fail.
func NewWeatherClient(baseURL, apiKey, defaultCity string, timeout time.Duration) *WeatherClient {
	return &WeatherClient{
		httpClient: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetHeader("Accept", "application/json").
			SetTimeout(timeout),
		apiKey:      strings.TrimSpace(apiKey),
		defaultCity: defaultCity,
	}
}

type openWeatherResponse struct {
	Name    string `json:"name"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

// DefaultCity is used when a caller passes no city.
func (c *WeatherClient) DefaultCity() string {
	return c.defaultCity
}

// Fetch returns the current weather for city in metric units.
func (c *WeatherClient) Fetch(ctx context.Context, city string) (*farm.WeatherReport, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("%w: %w", ErrWeatherUnavailable, ErrWeatherNotConfigured)
	}
	city = strings.TrimSpace(city)
	if city == "" {
		city = c.defaultCity
	}

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":     city,
			"appid": c.apiKey,
			"units": "metric",
		}).
		Get("/weather")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWeatherUnavailable, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: status %d", ErrWeatherUnavailable, resp.StatusCode())
	}

	var payload openWeatherResponse
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrWeatherUnavailable, err)
	}

	report := &farm.WeatherReport{
		Location:    payload.Name,
		Temperature: payload.Main.Temp,
		Humidity:    payload.Main.Humidity,
		WindSpeed:   payload.Wind.Speed,
	}
	if len(payload.Weather) > 0 {
		report.Description = payload.Weather[0].Description
	}
	return report, nil
}
