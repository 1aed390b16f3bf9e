// Package relay は生成結果のストリームを行区切りのテキストとして HTTP レスポンスへ書き出します。
//
// 各行は "TEXT:" （テキストチャンク）または "JSON:" （画像ペイロード）で始まり、改行で終わります。
// ストリーム途中のエラーは最後の行 "TEXT:[STREAM_ERROR]: <message>" として書き込まれます。
package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"net/http"

	"github.com/shouni/gemini-explorer/pkg/gemini"
)

const (
	ContentType = "text/plain; charset=utf-8"

	TextPrefix        = "TEXT:"
	JSONPrefix        = "JSON:"
	StreamErrorMarker = "[STREAM_ERROR]: "

	unknownStreamError = "Unknown stream error"
)

// ImagePayload は JSON 行で送られる画像です。Data は base64 文字列としてエンコードされます。
type ImagePayload struct {
	Type     string `json:"type"`
	MIMEType string `json:"mimeType"`
	Data     []byte `json:"data"`
}

// Writer は 1 行ごとに書き込み、下位の Writer が http.Flusher であればフラッシュします。
type Writer struct {
	w       io.Writer
	flusher http.Flusher
	lines   int
}

// NewWriter は w に書き込む Writer を作成します。
func NewWriter(w io.Writer) *Writer {
	f, _ := w.(http.Flusher)
	return &Writer{w: w, flusher: f}
}

// Lines はこれまでに書き込んだ行数を返します。
func (w *Writer) Lines() int {
	return w.lines
}

// WriteText はテキストチャンクを 1 行として書き込みます。チャンク内の改行はそのまま送られます。
func (w *Writer) WriteText(text string) error {
	return w.writeLine(TextPrefix + text)
}

// WriteImage は画像を JSON 行として書き込みます。
func (w *Writer) WriteImage(img *gemini.InlineImage) error {
	b, err := json.Marshal(ImagePayload{Type: "image", MIMEType: img.MIMEType, Data: img.Data})
	if err != nil {
		return fmt.Errorf("encoding image payload: %w", err)
	}
	return w.writeLine(JSONPrefix + string(b))
}

// WriteStreamError はストリーム途中のエラーを最終行として書き込みます。
func (w *Writer) WriteStreamError(streamErr error) error {
	msg := unknownStreamError
	if streamErr != nil && streamErr.Error() != "" {
		msg = streamErr.Error()
	}
	return w.writeLine(TextPrefix + StreamErrorMarker + msg)
}

// WriteResponse はチャンクのテキスト行、続けて画像行を書き込みます。空の要素は書き込みません。
func (w *Writer) WriteResponse(resp *gemini.Response) error {
	if resp == nil {
		return nil
	}
	if resp.Text != "" {
		if err := w.WriteText(resp.Text); err != nil {
			return err
		}
	}
	if resp.Image != nil {
		if err := w.WriteImage(resp.Image); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeLine(line string) error {
	if _, err := io.WriteString(w.w, line+"\n"); err != nil {
		return err
	}
	w.lines++
	if w.flusher != nil {
		w.flusher.Flush()
	}
	return nil
}

// Relay は seq のすべてのチャンクを w に書き込みます。
//
// 上流のエラーは [STREAM_ERROR] 行として書き込んだうえで返されます。その後は何も書き込みません。
// ctx がキャンセルされた場合（呼び出し元の切断など）は、それ以上書き込まずに ctx.Err() を返します。
func Relay(ctx context.Context, w *Writer, seq iter.Seq2[*gemini.Response, error]) error {
	for resp, err := range seq {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			if writeErr := w.WriteStreamError(err); writeErr != nil {
				return errors.Join(err, writeErr)
			}
			return err
		}
		if err := w.WriteResponse(resp); err != nil {
			return err
		}
	}
	return ctx.Err()
}
