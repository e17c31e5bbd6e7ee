package httpapi

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantnexusai/ai-groceries/internal/upload"
)

func multipartFile(t *testing.T, field, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	hdr.Set("Content-Type", contentType)
	part, err := w.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	return &buf, w.FormDataContentType()
}

func postUpload(env *testEnv, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func TestUploadImage(t *testing.T) {
	env := newTestEnv(t, envConfig{})

	body, ct := multipartFile(t, "file", "shelf.png", "image/png", []byte("png-bytes"))
	rec := postUpload(env, body, ct)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp map[string]string
	decodeBody(t, rec, &resp)
	assert.Contains(t, resp["url"], "/images/uploads/mock-")
	assert.Contains(t, resp["url"], ".png")
}

func TestUploadRejectsNonImage(t *testing.T) {
	env := newTestEnv(t, envConfig{})

	body, ct := multipartFile(t, "file", "notes.pdf", "application/pdf", []byte("%PDF"))
	rec := postUpload(env, body, ct)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]string
	decodeBody(t, rec, &resp)
	assert.Contains(t, resp["error"], "image")
}

func TestUploadRejectsOversizedBody(t *testing.T) {
	env := newTestEnv(t, envConfig{})

	// Past the request reader cap entirely, not just past MaxFileSize.
	big := bytes.Repeat([]byte("a"), upload.MaxFileSize+8192)
	body, ct := multipartFile(t, "file", "big.png", "image/png", big)
	rec := postUpload(env, body, ct)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]string
	decodeBody(t, rec, &resp)
	assert.Contains(t, resp["error"], "5MB")
}

func TestUploadRejectsFileOverLimit(t *testing.T) {
	env := newTestEnv(t, envConfig{})

	// Between MaxFileSize and the reader cap: the service's own size
	// check rejects it.
	big := bytes.Repeat([]byte("a"), upload.MaxFileSize+1)
	body, ct := multipartFile(t, "file", "big.png", "image/png", big)
	rec := postUpload(env, body, ct)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]string
	decodeBody(t, rec, &resp)
	assert.Contains(t, resp["error"], "5MB")
}

func TestUploadMissingFileField(t *testing.T) {
	env := newTestEnv(t, envConfig{})

	body, ct := multipartFile(t, "attachment", "shelf.png", "image/png", []byte("png-bytes"))
	rec := postUpload(env, body, ct)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
