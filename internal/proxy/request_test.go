package proxy

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeBase64(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    []byte
		wantErr bool
	}{
		{"padded", "aGk=", []byte("hi"), false},
		{"unpadded", "aGk", []byte("hi"), false},
		{"empty", "", []byte{}, false},
		{"illegal characters", "a$b%", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeBase64(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeRequest(t *testing.T) {
	body := `{"prompt":"p","modelName":"m","imageData":{"mimeType":"image/gif","data":"R0lG"},"systemInstructionId":"none","customSystemInstruction":"c"}`
	req, err := decodeRequest(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
	require.NoError(t, err)

	assert.Equal(t, "p", req.Prompt)
	assert.Equal(t, "m", req.ModelName)
	assert.Equal(t, "none", req.SystemInstructionID)
	assert.Equal(t, "c", req.CustomSystemInstruction)

	parts := req.Parts()
	require.Len(t, parts, 2)
	assert.Equal(t, "p", parts[0].Text)
	assert.Equal(t, "image/gif", parts[1].InlineData.MIMEType)
	assert.Equal(t, []byte("GIF"), parts[1].InlineData.Data)
}

func TestDecodeRequest_ErrorsAreBadRequest(t *testing.T) {
	for _, body := range []string{``, `null`, `[]`, `{"imageData":{}}`} {
		_, err := decodeRequest(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
		require.Error(t, err, body)
		assert.True(t, errors.Is(err, ErrBadRequest), body)
		assert.Equal(t, http.StatusBadRequest, statusCode(err))
	}
}

func TestStatusCode(t *testing.T) {
	assert.Equal(t, http.StatusMethodNotAllowed, statusCode(methodNotAllowed()))
	assert.Equal(t, http.StatusInternalServerError, statusCode(misconfigured()))
	assert.Equal(t, http.StatusBadRequest, statusCode(badRequest("x")))
	assert.Equal(t, http.StatusInternalServerError, statusCode(upstreamSetup("set up stream", errors.New("boom"))))
	assert.Equal(t, "Internal Server Error: Failed to set up stream. boom", upstreamSetup("set up stream", errors.New("boom")).Error())
}

func TestResolveModel(t *testing.T) {
	assert.Equal(t, DefaultModel, ResolveModel(""))
	assert.Equal(t, DefaultModel, ResolveModel("GEMINI-2.0-FLASH"))
	assert.Equal(t, "gemini-2.0-flash-lite", ResolveModel("gemini-2.0-flash-lite"))
	assert.True(t, IsStreaming(ResolveModel(StreamingModel)))
	assert.False(t, IsStreaming(ResolveModel("gemini-2.0-flash")))

	models := Models()
	models[0] = "mutated"
	assert.Equal(t, DefaultModel, Models()[0])
}
