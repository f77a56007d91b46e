package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"manualqa/internal/api"
	"manualqa/internal/config"
	"manualqa/internal/docstore"
	"manualqa/internal/extract"
	"manualqa/internal/pipeline"
	"manualqa/internal/service"
)

func main() {
	_ = godotenv.Load()

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	client := extract.NewClient(cfg.AnthropicAPIKey, cfg.AnthropicModel)

	batcher := pipeline.NewBatcher(client, pipeline.BatchConfig{
		BatchSize: cfg.BatchSize,
		PaceDelay: cfg.PaceDelay,
		Retry: pipeline.Policy{
			MaxAttempts: cfg.MaxRetries,
			Delay:       cfg.RetryDelay,
		},
	}, log)

	store := docstore.New()
	ingestor := service.NewIngestor(batcher, store, service.ChunkConfig{
		MaxSize:  cfg.ChunkSize,
		Overlap:  cfg.ChunkOverlap,
		MinChars: cfg.MinChunkChars,
	}, cfg.IngestTimeout, log)
	querier := service.NewQuerier(store, client, cfg.SearchTopK, log)

	srv := api.NewServer(ingestor, querier, store, client.Stats(), log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 15 * time.Minute, // summarization synchronously drives paced model calls
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		client.Close()
	}()

	log.Info("starting manualqa", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
