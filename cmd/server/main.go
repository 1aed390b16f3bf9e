package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/shouni/gemini-explorer/internal/app"
	"github.com/shouni/gemini-explorer/internal/config"
	"github.com/shouni/gemini-explorer/internal/proxy"
)

func main() {
	if err := run(); err != nil {
		slog.Error("shutting down due to error", "error", err)
		os.Exit(1)
	}
	slog.Info("shutdown complete")
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := setupLogger(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	if cfg.GeminiAPIKey == "" {
		slog.Warn("GEMINI_API_KEY is not set; generation requests will fail with 500")
	}

	gin.SetMode(gin.ReleaseMode)
	handler := proxy.New(cfg.GeminiConfig(), proxy.WithMaxBodyBytes(cfg.MaxRequestBytes))
	router := app.NewRouter(logger, handler, cfg.AllowedOrigins)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return app.Serve(ctx, cfg.Addr(), router, cfg.ShutdownTimeout)
}
