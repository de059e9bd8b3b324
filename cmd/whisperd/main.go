package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"pdfstruct/internal/cache"
	"pdfstruct/internal/common"
	"pdfstruct/internal/extract"
	"pdfstruct/internal/history"
	"pdfstruct/internal/llm/gemini"
	"pdfstruct/internal/logging"
	"pdfstruct/internal/pipeline"
	"pdfstruct/internal/server"
	"pdfstruct/internal/whisper"
)

func main() {
	_ = godotenv.Load()

	cfg := common.LoadConfig()
	logger := logging.New(cfg.Log)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Remote clients are constructed once and shared read-only across requests.
	whisperClient := whisper.NewClient(whisper.Config{
		APIKey:  cfg.Whisperer.APIKey,
		BaseURL: cfg.Whisperer.BaseURL,
		Timeout: cfg.Whisperer.Timeout,
	}, logger)
	poller := whisper.NewPoller(whisperClient, whisper.PollConfig{
		MaxAttempts: cfg.Whisperer.MaxAttempts,
	}, logger)
	geminiClient := gemini.NewClient(gemini.Config{
		APIKey:  cfg.Gemini.APIKey,
		BaseURL: cfg.Gemini.BaseURL,
		Model:   cfg.Gemini.Model,
		Timeout: cfg.Gemini.Timeout,
	}, logger)

	var resultCache cache.Cache
	if cfg.Cache.RedisURL != "" {
		rc, err := cache.NewRedisCache(cfg.Cache.RedisURL)
		if err != nil {
			logger.Error("redis cache init failed", "error", err)
			os.Exit(1)
		}
		if err := rc.Ping(ctx); err != nil {
			logger.Warn("redis unreachable, continuing without cache", "error", err)
		} else {
			resultCache = rc
		}
	}

	var hist history.Store
	if cfg.History.Path != "" {
		st, err := history.Open(ctx, cfg.History.Path, logger)
		if err != nil {
			logger.Error("history store init failed", "error", err)
			os.Exit(1)
		}
		defer func() {
			if cerr := st.Close(); cerr != nil {
				logger.Error("history store close failed", "error", cerr)
			}
		}()
		hist = st
	}

	p := pipeline.New(logger, extract.NewWhisperAdapter(poller), geminiClient, resultCache, cfg.Cache.TTL)
	svc := server.NewService(logger, p, hist, cfg.Server.MaxUploadBytes)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: svc.NewRouter(),
	}

	go func() {
		logger.Info("http serving", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
	logger.Info("stopped")
}
