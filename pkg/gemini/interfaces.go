package gemini

import (
	"context"
	"iter"

	"google.golang.org/genai"
)

// GenerativeModel インターフェース
// Client がこれを満たすように実装します
type GenerativeModel interface {
	GenerateWithParts(ctx context.Context, modelName string, parts []*genai.Part, opts GenerateOptions) (*Response, error)
	GenerateStream(ctx context.Context, modelName string, parts []*genai.Part, opts GenerateOptions) iter.Seq2[*Response, error]
}

var _ GenerativeModel = (*Client)(nil)
