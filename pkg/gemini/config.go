package gemini

import (
	"fmt"
	"time"

	"github.com/shouni/netarmor/retry"
	"google.golang.org/genai"
)

// Config は初期化用の設定です。
// Gemini API (Google AI Studio) の APIKey が必須です。
// BaseURL を指定すると、API のエンドポイントを差し替えます（プロキシやテスト用）。
type Config struct {
	APIKey       string
	BaseURL      string
	Temperature  *float32
	MaxRetries   uint64
	InitialDelay time.Duration
	MaxDelay     time.Duration
}

// validate は設定内容が正しいか、必須項目や値の範囲をチェックします。
func (c Config) validate() error {
	if c.APIKey == "" {
		return ErrAPIKeyRequired
	}
	return c.validateTemperature()
}

// validateTemperature は Temperature の値が許容範囲内にあるかのみを検証します。
func (c Config) validateTemperature() error {
	if c.Temperature == nil {
		return nil
	}
	val := *c.Temperature
	if val < 0.0 || val > 2.0 {
		return fmt.Errorf("%w (入力値: %f)", ErrInvalidTemperature, val)
	}
	return nil
}

// getTemperature は検証済みの Temperature またはデフォルト値を返します。
func (c Config) getTemperature() float32 {
	if c.Temperature == nil {
		return DefaultTemperature
	}
	return *c.Temperature
}

// toClientConfig Config を genai.ClientConfig に変換します。
func (c Config) toClientConfig() *genai.ClientConfig {
	return &genai.ClientConfig{
		APIKey:      c.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: c.BaseURL},
	}
}

// buildRetryConfig はゼロ値の項目をデフォルト値で補完したリトライ設定を返します。
// MaxRetries が 0 の場合、呼び出しは一度だけ実行されます。
func buildRetryConfig(c Config) retry.Config {
	cfg := retry.Config{
		MaxRetries:      DefaultMaxRetries,
		InitialInterval: DefaultInitialDelay,
		MaxInterval:     DefaultMaxDelay,
	}
	if c.MaxRetries > 0 {
		cfg.MaxRetries = c.MaxRetries
	}
	if c.InitialDelay > 0 {
		cfg.InitialInterval = c.InitialDelay
	}
	if c.MaxDelay > 0 {
		cfg.MaxInterval = c.MaxDelay
	}
	return cfg
}
