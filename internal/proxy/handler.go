// Package proxy はプロンプトと画像を受け取り Gemini API へ中継する HTTP ハンドラーを提供します。
//
// モデルに応じて、結果を単一の JSON 本文として返すか、行区切りのテキストとしてストリーミングします。
package proxy

import (
	"context"
	"iter"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"google.golang.org/genai"

	"github.com/shouni/gemini-explorer/internal/instruction"
	"github.com/shouni/gemini-explorer/internal/relay"
	"github.com/shouni/gemini-explorer/pkg/gemini"
)

// DefaultMaxBodyBytes はリクエスト本文の既定の上限です。
const DefaultMaxBodyBytes int64 = 10 << 20

// ModelFactory はリクエストごとに上流クライアントを作成します。
type ModelFactory func(ctx context.Context, cfg gemini.Config) (gemini.GenerativeModel, error)

// NewGeminiModel は gemini.Client を作成する既定の ModelFactory です。
func NewGeminiModel(ctx context.Context, cfg gemini.Config) (gemini.GenerativeModel, error) {
	c, err := gemini.NewClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Handler は Gemini へのプロキシハンドラーです。
// リクエスト間で共有するのは不変の設定とテーブルのみです。
type Handler struct {
	gemini       gemini.Config
	newModel     ModelFactory
	instructions *instruction.Table
	maxBodyBytes int64
}

// Option は Handler の設定を変更します。
type Option func(*Handler)

// WithModelFactory は上流クライアントの作成方法を差し替えます。
func WithModelFactory(f ModelFactory) Option {
	return func(h *Handler) { h.newModel = f }
}

// WithInstructions はシステムインストラクションのテーブルを差し替えます。
func WithInstructions(t *instruction.Table) Option {
	return func(h *Handler) { h.instructions = t }
}

// WithMaxBodyBytes はリクエスト本文の上限を設定します。
func WithMaxBodyBytes(n int64) Option {
	return func(h *Handler) {
		if n > 0 {
			h.maxBodyBytes = n
		}
	}
}

// New は Handler を作成します。cfg.APIKey が空の場合、各リクエストはサーバー設定エラーになります。
func New(cfg gemini.Config, opts ...Option) *Handler {
	h := &Handler{
		gemini:       cfg,
		newModel:     NewGeminiModel,
		instructions: instruction.Default(),
		maxBodyBytes: DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Payload は非ストリーミング時の JSON 本文です。
type Payload struct {
	ResponseText  string              `json:"responseText,omitempty"`
	ResponseImage *gemini.InlineImage `json:"responseImage,omitempty"`
}

// Explore は 1 回の生成リクエストを処理します。POST 以外は 405 を返します。
func (h *Handler) Explore(c *gin.Context) {
	ctx := c.Request.Context()

	if c.Request.Method != http.MethodPost {
		h.fail(c, methodNotAllowed())
		return
	}

	if h.gemini.APIKey == "" {
		slog.ErrorContext(ctx, "GEMINI_API_KEY environment variable not set")
		h.fail(c, misconfigured())
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodyBytes)
	req, err := decodeRequest(c.Request)
	if err != nil {
		slog.WarnContext(ctx, "Invalid request body", "error", err)
		h.fail(c, err)
		return
	}

	model := ResolveModel(req.ModelName)
	streaming := IsStreaming(model)
	systemPrompt, source := h.instructions.Resolve(req.CustomSystemInstruction, req.SystemInstructionID)

	slog.InfoContext(ctx, "Using model",
		"model", model,
		"streaming", streaming,
		"system_instruction", source.String(),
		"has_prompt", req.Prompt != "",
		"has_image", req.ImageData != nil,
	)

	client, err := h.newModel(ctx, h.gemini)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to create Gemini client", "error", err)
		h.fail(c, upstreamSetup("create client", err))
		return
	}

	opts := gemini.GenerateOptions{SystemPrompt: systemPrompt}
	if streaming {
		h.stream(c, client, model, req.Parts(), opts)
		return
	}
	h.generate(c, client, model, req.Parts(), opts)
}

// generate は 1 回のブロッキング呼び出しを行い、結果を JSON で返します。
func (h *Handler) generate(c *gin.Context, client gemini.GenerativeModel, model string, parts []*genai.Part, opts gemini.GenerateOptions) {
	ctx := c.Request.Context()

	resp, err := client.GenerateWithParts(ctx, model, parts, opts)
	if err != nil {
		slog.ErrorContext(ctx, "Gemini generation failed", "model", model, "error", err)
		h.fail(c, upstreamSetup("generate content", err))
		return
	}

	payload := Payload{}
	if resp != nil {
		payload.ResponseText = resp.Text
		payload.ResponseImage = resp.Image
	}
	c.JSON(http.StatusOK, payload)
}

// stream はストリーミング呼び出しの結果を行区切りで書き出します。
// 最初のチャンクを受け取るまではヘッダーを送らないため、開始時の失敗は JSON のエラーとして返せます。
func (h *Handler) stream(c *gin.Context, client gemini.GenerativeModel, model string, parts []*genai.Part, opts gemini.GenerateOptions) {
	ctx := c.Request.Context()

	next, stop := iter.Pull2(client.GenerateStream(ctx, model, parts, opts))
	defer stop()

	first, err, ok := next()
	if ok && err != nil {
		slog.ErrorContext(ctx, "Failed to start Gemini stream", "model", model, "error", err)
		h.fail(c, upstreamSetup("set up stream", err))
		return
	}

	c.Header("Content-Type", relay.ContentType)
	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.Writer.WriteHeaderNow()
	c.Writer.Flush()

	rest := func(yield func(*gemini.Response, error) bool) {
		if !ok || !yield(first, nil) {
			return
		}
		for {
			resp, err, ok := next()
			if !ok || !yield(resp, err) {
				return
			}
		}
	}

	w := relay.NewWriter(c.Writer)
	if err := relay.Relay(ctx, w, rest); err != nil {
		slog.WarnContext(ctx, "Gemini stream ended with error", "model", model, "lines", w.Lines(), "error", err)
		return
	}
	slog.InfoContext(ctx, "Gemini stream finished", "model", model, "lines", w.Lines())
}

func (h *Handler) fail(c *gin.Context, err error) {
	c.AbortWithStatusJSON(statusCode(err), ErrorResponse{Error: err.Error()})
}

// OptionsResponse は選択可能なモデルとシステムインストラクションの一覧です。
type OptionsResponse struct {
	Models             []string `json:"models"`
	DefaultModel       string   `json:"defaultModel"`
	StreamingModel     string   `json:"streamingModel"`
	SystemInstructions []string `json:"systemInstructions"`
}

// Options はフロントエンドが選択肢を表示するための一覧を返します。
func (h *Handler) Options(c *gin.Context) {
	c.JSON(http.StatusOK, OptionsResponse{
		Models:             Models(),
		DefaultModel:       DefaultModel,
		StreamingModel:     StreamingModel,
		SystemInstructions: h.instructions.IDs(),
	})
}
