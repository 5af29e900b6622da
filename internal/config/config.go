package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
)

// Assistant modes select the reply resolver variant.
const (
	ModeLocal  = "local"
	ModeRemote = "remote"
	ModeModel  = "model"
)

// Config aggregates the service configuration.
type Config struct {
	ServiceName string `env:"SERVICE_NAME" envDefault:"farm-assistant"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	Server    ServerConfig
	Assistant AssistantConfig
	AI        AIConfig
	Weather   WeatherConfig
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}

	addr, err := normalizeAddr(cfg.Server.Port)
	if err != nil {
		return nil, err
	}
	cfg.Server.Addr = addr

	if err := cfg.Assistant.validate(); err != nil {
		return nil, err
	}

	if cfg.Assistant.Mode == ModeModel && !cfg.AI.Enabled() {
		return nil, fmt.Errorf("ASSISTANT_MODE=model requires ARK_API_KEY (or ARK_ACCESS_KEY/ARK_SECRET_KEY) and ARK_MODEL")
	}

	return cfg, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Port            string        `env:"PORT" envDefault:"8080"`
	Addr            string
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// normalizeAddr accepts "8080", ":8080" or "127.0.0.1:8080".
func normalizeAddr(port string) (string, error) {
	port = strings.TrimSpace(port)
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, " ") {
		return "", fmt.Errorf("invalid PORT value: %q", port)
	}

	if strings.Contains(port, ":") {
		return port, nil
	}

	return ":" + port, nil
}

// AssistantConfig selects and tunes the reply resolver.
type AssistantConfig struct {
	Mode          string        `env:"ASSISTANT_MODE" envDefault:"local"`
	LocalDelayMin time.Duration `env:"ASSISTANT_LOCAL_DELAY_MIN" envDefault:"1s"`
	LocalDelayMax time.Duration `env:"ASSISTANT_LOCAL_DELAY_MAX" envDefault:"2s"`
	RemoteURL     string        `env:"ASSISTANT_REMOTE_URL" envDefault:"http://localhost:8000"`
	RemoteTimeout time.Duration `env:"ASSISTANT_REMOTE_TIMEOUT" envDefault:"15s"`
	HistoryLimit  int           `env:"ASSISTANT_HISTORY_LIMIT" envDefault:"10"`
}

func (c *AssistantConfig) validate() error {
	c.Mode = strings.ToLower(strings.TrimSpace(c.Mode))
	switch c.Mode {
	case ModeLocal, ModeRemote, ModeModel:
	default:
		return fmt.Errorf("invalid ASSISTANT_MODE value %q: want local, remote or model", c.Mode)
	}

	if c.LocalDelayMin < 0 || c.LocalDelayMax < 0 {
		return fmt.Errorf("assistant local delay must not be negative")
	}
	if c.LocalDelayMax < c.LocalDelayMin {
		return fmt.Errorf("ASSISTANT_LOCAL_DELAY_MAX (%s) is below ASSISTANT_LOCAL_DELAY_MIN (%s)", c.LocalDelayMax, c.LocalDelayMin)
	}

	if c.Mode == ModeRemote && strings.TrimSpace(c.RemoteURL) == "" {
		return fmt.Errorf("ASSISTANT_REMOTE_URL is required when ASSISTANT_MODE is remote")
	}
	if c.RemoteTimeout <= 0 {
		c.RemoteTimeout = 15 * time.Second
	}
	if c.HistoryLimit < 1 {
		c.HistoryLimit = 1
	}
	return nil
}

// AIConfig describes the chat model backing the "model" assistant mode.
type AIConfig struct {
	APIKey      string   `env:"ARK_API_KEY"`
	AccessKey   string   `env:"ARK_ACCESS_KEY"`
	SecretKey   string   `env:"ARK_SECRET_KEY"`
	Model       string   `env:"ARK_MODEL"`
	BaseURL     string   `env:"ARK_BASE_URL" envDefault:"https://ark.cn-beijing.volces.com/api/v3"`
	Region      string   `env:"ARK_REGION" envDefault:"cn-beijing"`
	Temperature *float64 `env:"ARK_TEMPERATURE"`
	TopP        *float64 `env:"ARK_TOP_P"`
	MaxTokens   *int     `env:"ARK_MAX_TOKENS"`
}

// Enabled reports whether the required credentials were provided.
func (c AIConfig) Enabled() bool {
	return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

// NewChatModel builds a chat model from the configuration.
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("ark credentials or model missing: set ARK_API_KEY + ARK_MODEL or an AK/SK pair")
	}

	var temperature *float32
	if c.Temperature != nil {
		val := float32(*c.Temperature)
		temperature = &val
	}

	var topP *float32
	if c.TopP != nil {
		val := float32(*c.TopP)
		topP = &val
	}

	cfg := &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		AccessKey:   c.AccessKey,
		SecretKey:   c.SecretKey,
		Model:       c.Model,
		MaxTokens:   c.MaxTokens,
		Temperature: temperature,
		TopP:        topP,
	}

	return ark.NewChatModel(ctx, cfg)
}

// WeatherConfig configures the OpenWeatherMap lookup used by the dashboard.
type WeatherConfig struct {
	APIKey      string        `env:"OPENWEATHER_API_KEY"`
	BaseURL     string        `env:"OPENWEATHER_BASE_URL" envDefault:"https://api.openweathermap.org/data/2.5"`
	DefaultCity string        `env:"WEATHER_DEFAULT_CITY" envDefault:"Nairobi"`
	Timeout     time.Duration `env:"WEATHER_TIMEOUT" envDefault:"10s"`
}

// Enabled reports whether an API key is configured.
func (c WeatherConfig) Enabled() bool {
	return strings.TrimSpace(c.APIKey) != ""
}
