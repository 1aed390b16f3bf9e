// Package config は環境変数からサーバー設定を読み込みます。
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v9"

	"github.com/shouni/gemini-explorer/pkg/gemini"
)

// Config はプロセス全体の設定です。
// GEMINI_API_KEY が未設定でもサーバーは起動し、各リクエストがサーバー設定エラーになります。
type Config struct {
	GeminiAPIKey   string   `env:"GEMINI_API_KEY"`
	GeminiBaseURL  string   `env:"GEMINI_BASE_URL"`
	Port           string   `env:"PORT" envDefault:"8080"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	MaxRequestBytes int64 `env:"MAX_REQUEST_BYTES" envDefault:"10485760"`

	UpstreamMaxRetries   uint64        `env:"UPSTREAM_MAX_RETRIES" envDefault:"0"`
	UpstreamInitialDelay time.Duration `env:"UPSTREAM_INITIAL_DELAY" envDefault:"1s"`
	UpstreamMaxDelay     time.Duration `env:"UPSTREAM_MAX_DELAY" envDefault:"10s"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Load は環境変数を解析して Config を返します。
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing env config: %w", err)
	}
	if cfg.MaxRequestBytes <= 0 {
		return nil, fmt.Errorf("MAX_REQUEST_BYTES must be positive, got %d", cfg.MaxRequestBytes)
	}
	if _, err := ParseLevel(cfg.LogLevel); err != nil {
		return nil, err
	}
	cfg.AllowedOrigins = compact(cfg.AllowedOrigins)
	return cfg, nil
}

// Addr は http.Server 用の待ち受けアドレスを返します。
func (c *Config) Addr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

// GeminiConfig はリクエストごとに Gemini クライアントを作成するための設定を返します。
func (c *Config) GeminiConfig() gemini.Config {
	return gemini.Config{
		APIKey:       c.GeminiAPIKey,
		BaseURL:      c.GeminiBaseURL,
		MaxRetries:   c.UpstreamMaxRetries,
		InitialDelay: c.UpstreamInitialDelay,
		MaxDelay:     c.UpstreamMaxDelay,
	}
}

// ParseLevel は LOG_LEVEL の値を slog.Level に変換します。
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid LOG_LEVEL %q: %w", s, err)
	}
	return level, nil
}

// compact は前後の空白を除去し、空の要素を取り除きます。
func compact(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
