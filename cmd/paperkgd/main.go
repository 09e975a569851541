// Package main provides the entry point for the paper graph API server.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/confmesh/paperkg/internal/config"
	"github.com/confmesh/paperkg/internal/embedding"
	"github.com/confmesh/paperkg/internal/graphdb"
	"github.com/confmesh/paperkg/internal/llm"
	"github.com/confmesh/paperkg/internal/search"
	"github.com/confmesh/paperkg/internal/server"
)

var Version = "dev"

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	log.Info().Str("version", Version).Msg("Starting paperkg API server")

	store, err := graphdb.Connect(cfg.FalkorDBURL, cfg.GraphName, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to graph database")
	}
	defer store.Close()

	embedder := embedding.NewOpenAI(embedding.Options{
		BaseURL:    cfg.EmbeddingBaseURL,
		APIKey:     cfg.EmbeddingAPIKey,
		Model:      cfg.EmbeddingModel,
		Dimensions: cfg.EmbeddingDimensions,
	}, log.Logger)

	chat := llm.NewClient(cfg.LLMAPIKey,
		llm.WithBaseURL(cfg.LLMBaseURL),
		llm.WithModel(cfg.LLMModel))
	translator := llm.NewTranslator(chat, log.Logger)

	retriever := search.NewRetriever(store, store, embedder, log.Logger,
		search.WithMinScore(cfg.SearchMinScore))

	svc := server.NewService(server.Options{
		Version:  Version,
		Port:     cfg.HTTPPort,
		MinScore: cfg.SearchMinScore,
		Store:    store,
		Searcher: retriever,
		Answerer: translator,
		Embedder: embedder,
	}, log.Logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- svc.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := svc.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Shutdown error")
	}

	log.Info().Msg("Server shutdown complete")
}
