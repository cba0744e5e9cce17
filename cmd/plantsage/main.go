package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	"github.com/joho/godotenv"

	"github.com/vbonduro/plantsage/internal/analysis"
	"github.com/vbonduro/plantsage/internal/analysis/claude"
	"github.com/vbonduro/plantsage/internal/analysis/gemini"
	"github.com/vbonduro/plantsage/internal/config"
	"github.com/vbonduro/plantsage/internal/db"
	"github.com/vbonduro/plantsage/internal/imagestore/local"
	"github.com/vbonduro/plantsage/internal/logging"
	"github.com/vbonduro/plantsage/internal/service"
	"github.com/vbonduro/plantsage/internal/store"
	"github.com/vbonduro/plantsage/internal/web"
)

func main() {
	// A missing .env is fine; plain environment variables still apply.
	_ = godotenv.Load()

	cfg := config.Load()

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	historyStore := store.NewAnalysisStore(database)

	images, err := local.NewLocalImageStore(cfg.ImagePath)
	if err != nil {
		logger.Error("failed to initialize image store", "error", err)
		return
	}

	ai, err := newGenerator(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize AI backend", "error", err)
		return
	}

	svc := service.NewAnalysisService(ai, historyStore, images, logger)
	server := web.NewServer(svc, images, logger)

	if err := server.ListenAndServe(cfg.ListenAddr); err != nil {
		logger.Error("server error", "error", err)
	}
}

func newGenerator(cfg *config.Config, logger *slog.Logger) (analysis.Generator, error) {
	switch cfg.AIBackend {
	case "claude":
		if cfg.ClaudeAPIKey == "" {
			return nil, fmt.Errorf("CLAUDE_API_KEY is required when AI_BACKEND=claude")
		}
		logger.Info("using Claude backend")
		return claude.New(cfg.ClaudeAPIKey, cfg.ClaudeModel), nil
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required when AI_BACKEND=gemini")
		}
		logger.Info("using Gemini backend")
		return gemini.New(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
	default:
		return nil, fmt.Errorf("unknown AI_BACKEND %q", cfg.AIBackend)
	}
}
