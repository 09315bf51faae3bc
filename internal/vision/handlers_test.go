package vision

import (
	"bytes"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartImage(t *testing.T, fieldName string, payload []byte) (*bytes.Buffer, string) {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile(fieldName, "upload.png")
	require.NoError(t, err)
	_, err = part.Write(payload)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	return &body, writer.FormDataContentType()
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))))
	return buf.Bytes()
}

func newExtractRouter(client *Client) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/extract", ExtractHandler(client))
	r.GET("/extract/status", StatusHandler(client))
	return r
}

func TestExtractHandlerNotConfigured(t *testing.T) {
	r := newExtractRouter(unconfiguredClient())

	body, contentType := multipartImage(t, "image", pngBytes(t))
	req := httptest.NewRequest(http.MethodPost, "/extract", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "not_configured")
}

func TestExtractHandlerMissingFile(t *testing.T) {
	r := newExtractRouter(unconfiguredClient())

	req := httptest.NewRequest(http.MethodPost, "/extract", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExtractHandlerRejectsNonImage(t *testing.T) {
	r := newExtractRouter(unconfiguredClient())

	body, contentType := multipartImage(t, "image", []byte("not an image at all"))
	req := httptest.NewRequest(http.MethodPost, "/extract", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "not a supported image")
}

func TestStatusHandler(t *testing.T) {
	r := newExtractRouter(testClient("https://example.openai.azure.com"))

	req := httptest.NewRequest(http.MethodGet, "/extract/status", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"configured":true`)
	assert.Contains(t, w.Body.String(), `"auth_method":"api_key"`)
}
