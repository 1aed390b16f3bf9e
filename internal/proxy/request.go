package proxy

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"google.golang.org/genai"
)

const (
	msgPromptOrImage = "Request must include 'prompt' and/or 'imageData'"
	msgImageFields   = "Invalid 'imageData' provided. Both mimeType and data are required."
	msgImageEncoding = "Invalid 'imageData' provided. data must be base64-encoded."
)

// ImageData はリクエストに埋め込まれた画像です。Data は base64 文字列です。
type ImageData struct {
	MIMEType string `json:"mimeType" binding:"required"`
	Data     string `json:"data" binding:"required"`
}

// Request は生成リクエストの本文です。prompt と imageData の少なくとも一方が必要です。
type Request struct {
	Prompt                  string     `json:"prompt" binding:"required_without=ImageData"`
	ModelName               string     `json:"modelName"`
	ImageData               *ImageData `json:"imageData"`
	SystemInstructionID     string     `json:"systemInstructionId"`
	CustomSystemInstruction string     `json:"customSystemInstruction"`

	imageBytes []byte
}

// decodeRequest は本文を読み取り、解析と検証を行います。空の本文は "{}" として扱います。
// 返されるエラーはすべて ErrBadRequest に分類されます。
func decodeRequest(r *http.Request) (*Request, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, badRequest("request body exceeds %d bytes", maxErr.Limit)
		}
		return nil, badRequest("failed to read request body: %v", err)
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		body = []byte("{}")
	}

	var req Request
	if err := binding.JSON.BindBody(body, &req); err != nil {
		return nil, translateBindError(err)
	}

	if req.ImageData != nil {
		data, err := decodeBase64(req.ImageData.Data)
		if err != nil {
			return nil, badRequest(msgImageEncoding)
		}
		req.imageBytes = data
	}
	return &req, nil
}

// translateBindError は検証エラーをクライアント向けのメッセージに変換します。
func translateBindError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return badRequest("%v", err)
	}
	for _, fe := range verrs {
		if strings.Contains(fe.StructNamespace(), ".ImageData.") {
			return badRequest(msgImageFields)
		}
	}
	return badRequest(msgPromptOrImage)
}

// decodeBase64 はパディングの有無にかかわらず標準の base64 をデコードします。
func decodeBase64(s string) ([]byte, error) {
	if b, err := base64.StdEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	b, err := base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))
	if err != nil {
		return nil, fmt.Errorf("decoding base64: %w", err)
	}
	return b, nil
}

// Parts は生成 API に渡すパーツを組み立てます。テキスト、画像の順に並びます。
func (r *Request) Parts() []*genai.Part {
	var parts []*genai.Part
	if r.Prompt != "" {
		parts = append(parts, &genai.Part{Text: r.Prompt})
	}
	if r.ImageData != nil {
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{MIMEType: r.ImageData.MIMEType, Data: r.imageBytes},
		})
	}
	return parts
}
