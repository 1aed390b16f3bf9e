package middleware

import (
	"context"
	"log/slog"
)

// ContextHandler はコンテキストのリクエスト ID を各ログレコードに付与する slog.Handler です。
type ContextHandler struct {
	slog.Handler
}

// NewContextHandler は h をラップした ContextHandler を返します。
func NewContextHandler(h slog.Handler) *ContextHandler {
	return &ContextHandler{Handler: h}
}

// Handle は ctx にリクエスト ID があれば request_id 属性を追加して委譲します。
func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if id := GetRequestID(ctx); id != "" {
		r.AddAttrs(slog.String(string(RequestIDKey), id))
	}
	return h.Handler.Handle(ctx, r)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{Handler: h.Handler.WithGroup(name)}
}
