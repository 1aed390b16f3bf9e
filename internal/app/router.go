// Package app は HTTP ルーターとサーバーのライフサイクルを組み立てます。
package app

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shouni/gemini-explorer/internal/middleware"
	"github.com/shouni/gemini-explorer/internal/proxy"
)

const (
	EndPointHealth  = "/health"
	EndPointOptions = "/api/options"
	EndPointExplore = "/api/explore_gemini"
	// 既存のフロントエンドが呼び出す Netlify Functions 互換のパス
	EndPointNetlifyExplore = "/.netlify/functions/explore_gemini"

	serviceName = "gemini-explorer"
)

// Version はビルド時に -ldflags で上書きされます。
var Version = "dev"

// NewRouter はミドルウェアとルートを登録した gin.Engine を返します。
// プロキシのパスはすべてのメソッドを受け付け、POST 以外はハンドラーが 405 を返します。
func NewRouter(logger *slog.Logger, h *proxy.Handler, allowedOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger(logger))
	if len(allowedOrigins) > 0 {
		router.Use(middleware.CORS(allowedOrigins))
	}

	router.GET(EndPointHealth, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": serviceName,
			"version": Version,
		})
	})
	router.GET(EndPointOptions, h.Options)
	router.Any(EndPointExplore, h.Explore)
	router.Any(EndPointNetlifyExplore, h.Explore)

	return router
}
