package proxy

import (
	"errors"
	"fmt"
	"net/http"
)

// レスポンス開始前に報告されるエラーの分類です。
// ストリーム開始後のエラーは relay により本文中に書き込まれます。
var (
	ErrMethodNotAllowed = errors.New("method not allowed")
	ErrMisconfigured    = errors.New("server misconfigured")
	ErrBadRequest       = errors.New("bad request")
	ErrUpstreamSetup    = errors.New("upstream setup failed")
)

// requestError はクライアントへ返すメッセージと分類を保持します。
type requestError struct {
	kind error
	msg  string
}

func (e *requestError) Error() string { return e.msg }

func (e *requestError) Unwrap() error { return e.kind }

func methodNotAllowed() error {
	return &requestError{kind: ErrMethodNotAllowed, msg: "Method Not Allowed"}
}

func misconfigured() error {
	return &requestError{kind: ErrMisconfigured, msg: "Internal Server Error: API key not configured."}
}

func badRequest(format string, args ...any) error {
	return &requestError{kind: ErrBadRequest, msg: "Bad Request: " + fmt.Sprintf(format, args...)}
}

func upstreamSetup(what string, err error) error {
	return &requestError{kind: ErrUpstreamSetup, msg: fmt.Sprintf("Internal Server Error: Failed to %s. %v", what, err)}
}

// statusCode はエラーの分類に対応する HTTP ステータスコードを返します。
func statusCode(err error) int {
	switch {
	case errors.Is(err, ErrMethodNotAllowed):
		return http.StatusMethodNotAllowed
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// ErrorResponse はエラー時の JSON 本文です。
type ErrorResponse struct {
	Error string `json:"error"`
}
