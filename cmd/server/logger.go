package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/shouni/gemini-explorer/internal/config"
	"github.com/shouni/gemini-explorer/internal/middleware"
)

// setupLogger は LOG_LEVEL と LOG_FORMAT に従ってロガーを作成します。
// ハンドラーはリクエスト ID を付与する middleware.ContextHandler でラップされます。
func setupLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	lvl, err := config.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: lvl}

	var h slog.Handler
	switch format {
	case "json":
		h = slog.NewJSONHandler(w, opts)
	case "text", "":
		h = slog.NewTextHandler(w, opts)
	default:
		return nil, fmt.Errorf("invalid LOG_FORMAT %q", format)
	}
	return slog.New(middleware.NewContextHandler(h)), nil
}
