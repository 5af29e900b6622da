package farm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/smartfarm/assistant/backend/internal/model/farm"
	"github.com/smartfarm/assistant/backend/internal/service/reply"
)

// WeatherSource is satisfied by WeatherClient.
type WeatherSource interface {
	Fetch(ctx context.Context, city string) (*farm.WeatherReport, error)
}

// SensorSource is satisfied by Simulator.
type SensorSource interface {
	Read() farm.SensorReading
}

// Service assembles sensor, weather and recommendation data.
type Service struct {
	sensors   SensorSource
	weather   WeatherSource
	explainer reply.Resolver
	log       zerolog.Logger
}

// NewService wires the farm data sources. explainer may be nil to skip explanations.
func NewService(sensors SensorSource, weather WeatherSource, explainer reply.Resolver, log zerolog.Logger) *Service {
	return &Service{
		sensors:   sensors,
		weather:   weather,
		explainer: explainer,
		log:       log.With().Str("component", "farm").Logger(),
	}
}

// Sensors returns a fresh reading.
func (s *Service) Sensors() farm.SensorReading {
	return s.sensors.Read()
}

// Weather returns the current weather for city.
func (s *Service) Weather(ctx context.Context, city string) (*farm.WeatherReport, error) {
	return s.weather.Fetch(ctx, city)
}

// Recommendations reads the sensors and applies the field rules. A weather
// failure is logged and the rules run without a forecast.
func (s *Service) Recommendations(ctx context.Context, city string) (farm.SensorReading, *farm.WeatherReport, []farm.Recommendation) {
	reading, report := s.gather(ctx, city)
	return reading, report, Recommend(reading, report)
}

// Dashboard builds the dashboard aggregate, explaining the first recommendation.
func (s *Service) Dashboard(ctx context.Context, city string) farm.Dashboard {
	reading, report, recs := s.Recommendations(ctx, city)

	dash := farm.Dashboard{
		Timestamp:       time.Now().UTC(),
		SensorData:      reading,
		Weather:         report,
		Recommendations: recs,
	}

	if len(recs) > 0 && s.explainer != nil {
		dash.Explanation = s.explainer.Resolve(ctx, reply.Request{
			Text:  fmt.Sprintf("Why should I %s?", strings.ToLower(recs[0].Action)),
			Facts: explanationFacts(reading, report, recs[0]),
		})
	}
	return dash
}

// explanationFacts lists what the explainer sees alongside the question.
func explanationFacts(reading farm.SensorReading, report *farm.WeatherReport, rec farm.Recommendation) []reply.Fact {
	facts := []reply.Fact{
		{Name: "Soil moisture", Value: fmt.Sprintf("%d%%", reading.Moisture)},
		{Name: "Soil pH", Value: fmt.Sprintf("%.1f", reading.PH)},
		{Name: "Temperature", Value: fmt.Sprintf("%d°C", reading.Temperature)},
		{Name: "Humidity", Value: fmt.Sprintf("%d%%", reading.Humidity)},
	}
	if report != nil && report.Description != "" {
		facts = append(facts, reply.Fact{Name: "Weather", Value: report.Description})
	} else {
		facts = append(facts, reply.Fact{Name: "Weather", Value: "unavailable"})
	}
	return append(facts, reply.Fact{Name: "Recommendation", Value: rec.Action + ". " + rec.Reason})
}

func (s *Service) gather(ctx context.Context, city string) (farm.SensorReading, *farm.WeatherReport) {
	var (
		reading farm.SensorReading
		report  *farm.WeatherReport
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		reading = s.sensors.Read()
		return nil
	})
	g.Go(func() error {
		var err error
		report, err = s.weather.Fetch(gctx, city)
		return err
	})

	if err := g.Wait(); err != nil {
		level := s.log.Warn()
		if errors.Is(err, ErrWeatherNotConfigured) {
			level = s.log.Debug()
		}
		level.Err(err).Str("city", city).Msg("continuing without weather")
		report = nil
	}
	return reading, report
}
