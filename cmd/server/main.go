package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"predleague/engine/internal/config"
	"predleague/engine/internal/crypto"
	"predleague/engine/internal/league"
	"predleague/engine/internal/repository"
	"predleague/engine/internal/server"
	"predleague/engine/internal/store"
)

func main() {
	setupLogger()

	log.Info().Msg("Starting prediction league server")

	cfg := config.MustLoad()
	log.Info().
		Str("env", cfg.AppEnv).
		Str("log_level", cfg.LogLevel).
		Str("repo", cfg.GitHubRepoOwner+"/"+cfg.GitHubRepoName).
		Msg("Configuration loaded")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	docStore := store.NewGitHubStore(store.GitHubConfig{
		Token:      cfg.GitHubToken,
		RepoOwner:  cfg.GitHubRepoOwner,
		RepoName:   cfg.GitHubRepoName,
		Branch:     cfg.GitHubBranch,
		BaseURL:    cfg.GitHubBaseURL,
		Timeout:    cfg.StoreTimeout,
		MaxRetries: cfg.StoreMaxRetries,
	})
	log.Info().Str("branch", cfg.GitHubBranch).Msg("Document store client initialized")

	codec, err := crypto.NewCodec(cfg.EncryptionKey, cfg.EncryptionPassword)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize encryption codec")
	}

	repo := repository.New(docStore, codec)
	if err := repo.EnsureDefaults(ctx, cfg.AdminPasscode); err != nil {
		log.Fatal().Err(err).Msg("Failed to bootstrap league documents")
	}
	log.Info().Msg("League documents ready")

	engine := league.NewEngine(repo)
	srv := server.New(repo, engine, cfg.ScoreCurrentWeek)

	if cfg.EnableMetrics {
		go startMetricsServer(cfg.MetricsPort)
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      srv.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	<-sigChan
	log.Info().Msg("Received shutdown signal, gracefully shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	log.Info().Msg("Server shutdown complete")
}

// setupLogger configures the zerolog logger
func setupLogger() {
	// Pretty console logging in development
	if os.Getenv("APP_ENV") == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	}

	// Set log level
	level := zerolog.InfoLevel
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		parsedLevel, err := zerolog.ParseLevel(lvl)
		if err == nil {
			level = parsedLevel
		}
	}
	zerolog.SetGlobalLevel(level)

	log.Info().
		Str("level", level.String()).
		Msg("Logger initialized")
}

// startMetricsServer serves Prometheus metrics on its own port.
func startMetricsServer(port int) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	addr := fmt.Sprintf(":%d", port)
	log.Info().Str("addr", addr).Msg("Metrics server listening")
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Error().Err(err).Msg("Metrics server failed")
	}
}
