package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/smartfarm/assistant/backend/internal/config"
	"github.com/smartfarm/assistant/backend/internal/handler"
	"github.com/smartfarm/assistant/backend/internal/logger"
	"github.com/smartfarm/assistant/backend/internal/model/insight"
	"github.com/smartfarm/assistant/backend/internal/service/chat"
	"github.com/smartfarm/assistant/backend/internal/service/farm"
	"github.com/smartfarm/assistant/backend/internal/service/reply"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.New(cfg.ServiceName, cfg.LogLevel)
	zlog.Logger = log
	if envErr != nil {
		log.Debug().Err(envErr).Msg("no .env file, using process environment only")
	}

	resolver, err := reply.New(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("mode", cfg.Assistant.Mode).Msg("failed to build reply resolver")
	}
	log.Info().Str("mode", cfg.Assistant.Mode).Msg("reply resolver ready")

	answerer, err := reply.NewAnswerer(ctx, cfg, log)
	if err != nil {
		log.Warn().Err(err).Msg("chat model unavailable, answering questions from the keyword table")
		answerer = reply.NewLocal()
	}

	chatService := chat.NewService(resolver, log)
	defer chatService.Shutdown()

	if !cfg.Weather.Enabled() {
		log.Info().Msg("OPENWEATHER_API_KEY not set, dashboard runs without weather")
	}
	weather := farm.NewWeatherClient(cfg.Weather.BaseURL, cfg.Weather.APIKey, cfg.Weather.DefaultCity, cfg.Weather.Timeout)
	farmService := farm.NewService(farm.NewSimulator(uint64(time.Now().UnixNano())), weather, answerer, log)

	router := handler.NewRouter(handler.Services{
		Chat:     chatService,
		Farm:     farmService,
		Insights: insight.NewMemoryStore(insight.Seed()),
		Answerer: answerer,
	}, log)

	startServer(ctx, cfg.Server, router, log)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler, log zerolog.Logger) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Info().Str("addr", serverCfg.Addr).Msg("farm assistant listening")
	if err := runServer(ctx, srv, serverCfg.ShutdownTimeout); err != nil {
		log.Error().Err(err).Msg("server error")
		return
	}
	log.Info().Msg("server stopped")
}

func runServer(ctx context.Context, srv *http.Server, shutdownTimeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
