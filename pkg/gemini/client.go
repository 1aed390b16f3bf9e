package gemini

import (
	"context"
	"fmt"
	"iter"

	"github.com/shouni/netarmor/retry"
	"google.golang.org/genai"
)

// NewClient は提供された設定に基づいて、新しい Gemini クライアントを作成します。
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	clientCfg := cfg.toClientConfig()
	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("Geminiクライアントの作成に失敗しました: %w", err)
	}

	return &Client{
		client:      client,
		temperature: cfg.getTemperature(),
		retryConfig: buildRetryConfig(cfg),
		backend:     clientCfg.Backend,
	}, nil
}

// GenerateContent は純粋なテキストプロンプトからコンテンツを生成します。
// より詳細な生成オプションを指定する場合は、GenerateWithParts を使用してください。
func (c *Client) GenerateContent(ctx context.Context, modelName string, prompt string) (*Response, error) {
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}
	parts := []*genai.Part{{Text: prompt}}
	return c.GenerateWithParts(ctx, modelName, parts, GenerateOptions{})
}

// GenerateWithParts はテキストや画像などのマルチモーダルパーツを処理してコンテンツを生成します。
// 最初の候補のテキストパーツはすべて連結され、インライン画像は Response.Image に格納されます。
func (c *Client) GenerateWithParts(ctx context.Context, modelName string, parts []*genai.Part, opts GenerateOptions) (*Response, error) {
	if len(parts) == 0 {
		return nil, ErrNoParts
	}
	contents := []*genai.Content{{Role: RoleUser, Parts: parts}}
	return c.generate(ctx, modelName, contents, c.buildGenerateConfig(opts))
}

// GenerateStream はストリーミングでコンテンツを生成します。
// 返されるシーケンスはチャンクごとに Response を返し、エラーが発生した時点で終了します。
// ストリームはリトライされません。
func (c *Client) GenerateStream(ctx context.Context, modelName string, parts []*genai.Part, opts GenerateOptions) iter.Seq2[*Response, error] {
	return func(yield func(*Response, error) bool) {
		if len(parts) == 0 {
			yield(nil, ErrNoParts)
			return
		}
		contents := []*genai.Content{{Role: RoleUser, Parts: parts}}
		stream := c.client.Models.GenerateContentStream(ctx, modelName, contents, c.buildGenerateConfig(opts))
		for chunk, err := range stream {
			// エラーはそのまま呼び出し側へ渡し、メッセージをストリームに載せられるようにします。
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(responseFromChunk(chunk), nil) {
				return
			}
		}
	}
}

// buildGenerateConfig は固定の生成パラメータと安全性設定から GenerateContentConfig を組み立てます。
func (c *Client) buildGenerateConfig(opts GenerateOptions) *genai.GenerateContentConfig {
	safety := opts.SafetySettings
	if safety == nil {
		safety = DefaultSafetySettings()
	}

	genConfig := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(c.temperature),
		TopK:            genai.Ptr(DefaultTopK),
		TopP:            genai.Ptr(DefaultTopP),
		MaxOutputTokens: DefaultMaxOutputTokens,
		CandidateCount:  DefaultCandidateCount,
		SafetySettings:  safety,
	}
	if opts.SystemPrompt != "" {
		genConfig.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: opts.SystemPrompt}},
		}
	}
	return genConfig
}

// generate は共通の API 呼び出しとリトライロジックをカプセル化します。
func (c *Client) generate(ctx context.Context, modelName string, contents []*genai.Content, config *genai.GenerateContentConfig) (*Response, error) {
	var finalResp *Response

	op := func() error {
		resp, err := c.client.Models.GenerateContent(ctx, modelName, contents, config)
		if err != nil {
			return err
		}
		finalResp = extractResponse(ctx, resp)
		return nil
	}

	if c.retryConfig.MaxRetries == 0 {
		if err := op(); err != nil {
			return nil, err
		}
		return finalResp, nil
	}

	err := retry.Do(ctx, c.retryConfig, fmt.Sprintf("Gemini API 呼び出し（モデル: %s）", modelName), op, shouldRetry)
	if err != nil {
		return nil, err
	}

	return finalResp, nil
}
