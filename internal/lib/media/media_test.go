package media

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/deppfellow/muslimah-travel/internal/config"
	"github.com/deppfellow/muslimah-travel/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func fileHeader(t *testing.T, name string, data []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("avatar", name)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPut, "/user/avatar", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(10<<20))

	return req.MultipartForm.File["avatar"][0]
}

func TestReadAcceptsImage(t *testing.T) {
	f, err := Read(fileHeader(t, "me.png", pngHeader), 3<<20, ImageTypes...)
	require.NoError(t, err)
	assert.Equal(t, "image/png", f.MIME)
	assert.Equal(t, "image", f.Category)
	assert.EqualValues(t, len(pngHeader), f.Size)
}

func TestReadRejectsWrongType(t *testing.T) {
	_, err := Read(fileHeader(t, "me.png", []byte("just some text")), 3<<20, ImageTypes...)

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, "UNSUPPORTED_FILE_TYPE", httpErr.Code)
}

func TestReadRejectsLargeFile(t *testing.T) {
	big := append(append([]byte{}, pngHeader...), make([]byte, 2048)...)
	_, err := Read(fileHeader(t, "big.png", big), 1024, ImageTypes...)

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, "FILE_TOO_LARGE", httpErr.Code)
}

func TestDisabledUploader(t *testing.T) {
	u, err := NewUploader(&config.MediaConfig{})
	require.NoError(t, err)

	_, err = u.Upload(context.Background(), FolderAvatars, &File{})
	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusServiceUnavailable, httpErr.Status)
}
