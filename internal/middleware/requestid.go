// Package middleware は HTTP リクエスト処理用の gin ミドルウェアを提供します。
package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// contextKey はコンテキストキーの衝突を避けるための独自型です。
type contextKey string

// RequestIDKey はリクエスト ID のコンテキストキーです。
const RequestIDKey contextKey = "request_id"

// RequestIDHeader はリクエスト ID の HTTP ヘッダーです。
const RequestIDHeader = "X-Request-ID"

// GetRequestID はコンテキストからリクエスト ID を取得します。
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}

// RequestID は各リクエストに一意の ID を付与します。
// クライアントが X-Request-ID を送った場合はその値を引き継ぎます。
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		c.Header(RequestIDHeader, requestID)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), RequestIDKey, requestID))
		c.Next()
	}
}
