package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/papercrane/storybook/internal/config"
	"github.com/papercrane/storybook/internal/handlers"
	"github.com/papercrane/storybook/internal/llm"
	"github.com/papercrane/storybook/internal/pdf"
	"github.com/papercrane/storybook/internal/services"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg := config.Load()

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	log.Info().Msg("Starting Storybook API")

	secrets, err := config.LoadSecrets(cfg.SecretsPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load secrets")
	}

	client, err := llm.NewClient(llm.Options{
		StoryAPIKey:     secrets.StoryAPIKey,
		StoryModel:      cfg.StoryModel,
		StoryAPIBaseURL: cfg.StoryAPIBaseURL,
		ImageAPIKey:     secrets.ImageAPIKey,
		ImageAPIBaseURL: cfg.ImageAPIBaseURL,
		ImageModel:      cfg.ImageModel,
		ImageSize:       cfg.ImageSize,
		ImageQuality:    cfg.ImageQuality,
		ImageStyle:      cfg.ImageStyle,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize LLM client")
	}

	renderer := pdf.NewRenderer(cfg.FontPath, cfg.FontFamily, nil)
	if err := renderer.CheckFont(); err != nil {
		log.Fatal().Err(err).Msg("Font asset check failed")
	}

	storybookService := services.NewStorybookService(client, client, renderer, cfg.PipelineTimeout, nil)
	h := handlers.NewHandler(storybookService)

	r := mux.NewRouter()
	r.HandleFunc("/", h.Index).Methods("GET")
	r.HandleFunc("/healthz", h.Healthz).Methods("GET")

	api := r.PathPrefix("/v1").Subrouter()
	api.HandleFunc("/storybooks", h.CreateStorybook).Methods("POST")
	api.HandleFunc("/storybooks/pdf", h.DownloadStorybookPDF).Methods("POST")

	// Write timeout covers the full pipeline: both upstream calls block
	// until the remote answers.
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.PipelineTimeout + 15*time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down API...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server shutdown error")
	}
	log.Info().Msg("API exited")
}
