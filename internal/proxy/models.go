package proxy

import "slices"

const (
	// DefaultModel はモデル名が未指定または不明な場合に使われます。
	DefaultModel = "gemini-1.5-flash"
	// StreamingModel だけがストリーミング経路で処理されます。
	StreamingModel = "gemini-2.5-pro-exp-03-25"
)

var validModels = []string{
	"gemini-1.5-flash",
	"gemini-2.0-flash",
	"gemini-2.0-flash-lite",
	StreamingModel,
}

// ResolveModel は許可リストにあるモデル名をそのまま返し、それ以外はデフォルトモデルを返します。
func ResolveModel(name string) string {
	if slices.Contains(validModels, name) {
		return name
	}
	return DefaultModel
}

// IsStreaming はモデルの応答をストリーミングで返すかどうかを判定します。
func IsStreaming(model string) bool {
	return model == StreamingModel
}

// Models は許可されたモデル名の一覧を返します。
func Models() []string {
	return slices.Clone(validModels)
}
