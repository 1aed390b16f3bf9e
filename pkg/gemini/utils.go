package gemini

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"strings"

	"google.golang.org/genai"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// DefaultSafetySettings はハームカテゴリごとの固定のブロックしきい値を返します。
// 呼び出しごとに新しいスライスを返すため、呼び出し側で変更しても共有されません。
func DefaultSafetySettings() []*genai.SafetySetting {
	return []*genai.SafetySetting{
		{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockThresholdBlockOnlyHigh},
		{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockThresholdBlockMediumAndAbove},
		{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockThresholdBlockMediumAndAbove},
		{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockThresholdBlockNone},
	}
}

// shouldRetry は、発生したエラーがリトライによって解決可能かどうかを判定します。
func shouldRetry(err error) bool {
	if err == nil {
		return false
	}

	// コンテキストのキャンセルやタイムアウト（呼び出し側管理）はリトライ対象外です。
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	// SDK の HTTP エラーはステータスコードで判定します。
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == 429 || apiErr.Code >= 500
	}

	// gRPC ステータスコードに基づいた判定。
	if st, ok := status.FromError(err); ok {
		switch st.Code() {
		case codes.DeadlineExceeded, // サーバー側でのタイムアウト
			codes.Unavailable,       // 一時的なサービス停止
			codes.ResourceExhausted, // レート制限
			codes.Internal:          // サーバー内部エラー
			return true
		default:
			return false
		}
	}

	// gRPCエラー以外（ネットワーク接続エラー、EOFなど）は一時的な障害の可能性があるためリトライを許可します。
	if errors.Is(err, io.EOF) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}

	return false
}

// extractResponse は非ストリーミングのレスポンスから最初の候補のテキスト（思考パーツを除く）と画像を取り出します。
// 構造化されたパーツから何も得られない場合は SDK の Text() にフォールバックします。
// 候補もテキストも無い場合は空の Response を返します（エラーではありません）。
func extractResponse(ctx context.Context, resp *genai.GenerateContentResponse) *Response {
	out := &Response{RawResponse: resp}
	if resp == nil {
		return out
	}

	if len(resp.Candidates) > 0 {
		candidate := resp.Candidates[0]
		if candidate.FinishReason != genai.FinishReasonUnspecified && candidate.FinishReason != genai.FinishReasonStop {
			slog.WarnContext(ctx, "Gemini の生成が通常とは異なる理由で終了しました", "finish_reason", candidate.FinishReason)
		}
		if candidate.Content != nil {
			var sb strings.Builder
			for _, part := range candidate.Content.Parts {
				if part == nil {
					continue
				}
				if part.Text != "" && !part.Thought {
					sb.WriteString(part.Text)
				}
				// 後に現れた画像が優先されます。
				if part.InlineData != nil {
					out.Image = &InlineImage{MIMEType: part.InlineData.MIMEType, Data: part.InlineData.Data}
				}
			}
			out.Text = sb.String()
		}
	}

	if out.IsEmpty() {
		out.Text = resp.Text()
	}
	return out
}

// responseFromChunk はストリームの 1 チャンクを Response に変換します。
// テキストは最初の候補のテキストパーツ（思考パーツを除く）の連結、画像は最初のインラインデータです。
func responseFromChunk(chunk *genai.GenerateContentResponse) *Response {
	out := &Response{RawResponse: chunk}
	if chunk == nil || len(chunk.Candidates) == 0 || chunk.Candidates[0].Content == nil {
		return out
	}

	var sb strings.Builder
	for _, part := range chunk.Candidates[0].Content.Parts {
		if part == nil {
			continue
		}
		if part.Text != "" && !part.Thought {
			sb.WriteString(part.Text)
		}
		if part.InlineData != nil && out.Image == nil {
			out.Image = &InlineImage{MIMEType: part.InlineData.MIMEType, Data: part.InlineData.Data}
		}
	}
	out.Text = sb.String()
	return out
}
