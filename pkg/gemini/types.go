package gemini

import (
	"errors"
	"time"

	"github.com/shouni/netarmor/retry"
	"google.golang.org/genai"
)

const (
	DefaultMaxRetries   uint64        = 0
	DefaultInitialDelay time.Duration = 1 * time.Second
	DefaultMaxDelay     time.Duration = 10 * time.Second

	DefaultTemperature     float32 = 0.9
	DefaultTopK            float32 = 1
	DefaultTopP            float32 = 1
	DefaultMaxOutputTokens int32   = 2048
	DefaultCandidateCount  int32   = 1

	// RoleUser はリクエスト側コンテンツのロールです。
	RoleUser = "user"
)

// Client は Gemini SDK をラップしたメイン構造体です。
type Client struct {
	client      *genai.Client
	temperature float32
	retryConfig retry.Config
	backend     genai.Backend
}

// GenerateOptions は各生成リクエストごとのオプションです。
// SafetySettings が nil の場合は DefaultSafetySettings が適用されます。
type GenerateOptions struct {
	SystemPrompt   string
	SafetySettings []*genai.SafetySetting
}

// InlineImage はレスポンスに含まれるインラインデータ（画像）です。
// Data は JSON エンコード時に base64 文字列になります。
type InlineImage struct {
	MIMEType string `json:"mimeType"`
	Data     []byte `json:"data"`
}

// Response は生成結果のラッパーです。
// ストリーミングでは 1 チャンクにつき 1 つの Response が返されます。
type Response struct {
	Text        string
	Image       *InlineImage
	RawResponse *genai.GenerateContentResponse
}

// IsEmpty はテキストも画像も含まれていない場合に true を返します。
func (r *Response) IsEmpty() bool {
	return r == nil || (r.Text == "" && r.Image == nil)
}

// 堅牢なエラーハンドリングのためのパッケージレベルのセンチネルエラー。
var (
	// 初期化時のエラー
	ErrAPIKeyRequired = errors.New("APIKey は必須です")

	// 設定・バリデーションのエラー
	ErrInvalidTemperature = errors.New("温度設定（Temperature）は 0.0 から 2.0 の間である必要があります")
	ErrEmptyPrompt        = errors.New("プロンプトを空にすることはできません")
	ErrNoParts            = errors.New("生成対象のパーツが指定されていません")
)
