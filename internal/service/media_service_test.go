package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/wanderpets/admin-api/pkg/errors"
	"github.com/wanderpets/admin-api/pkg/storage"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

type failingBlobStore struct{}

func (failingBlobStore) Upload(ctx context.Context, folder, filename string, data []byte, contentType string) (string, error) {
	return "", errors.New("bucket unavailable")
}

func TestMediaServiceUploadStoresSanitizedFile(t *testing.T) {
	dir := t.TempDir()
	blobs, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)
	blobs.WithPublicURL("https://media.example.com")
	svc := NewMediaService(blobs, MediaConfig{}, nil)
	svc.now = func() time.Time { return fixedNow }

	res, err := svc.Upload(context.Background(), MediaUpload{Folder: "articles", Filename: "../My Cover (1).png", Data: pngBytes(t)})
	require.NoError(t, err)
	expectedName := "1709965800000_My_Cover_1_.png"
	assert.Equal(t, expectedName, res.Filename)
	assert.Equal(t, "image/png", res.ContentType)
	assert.Equal(t, "https://media.example.com/articles/"+expectedName, res.URL)

	_, err = os.Stat(filepath.Join(dir, "articles", expectedName))
	assert.NoError(t, err)
}

func TestMediaServiceRejectsDisallowedContent(t *testing.T) {
	blobs, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	svc := NewMediaService(blobs, MediaConfig{}, nil)

	_, err = svc.Upload(context.Background(), MediaUpload{Filename: "notes.txt", Data: []byte("plain text body")})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, errCode(err))
	assert.True(t, strings.Contains(err.Error(), "text/plain"))

	_, err = svc.Upload(context.Background(), MediaUpload{Filename: "empty.png"})
	assert.Equal(t, appErrors.ErrValidation.Code, errCode(err))
}

func TestMediaServiceRejectsOversizedFile(t *testing.T) {
	blobs, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	svc := NewMediaService(blobs, MediaConfig{MaxFileSizeBytes: 16}, nil)

	_, err = svc.Upload(context.Background(), MediaUpload{Filename: "big.png", Data: pngBytes(t)})
	assert.Equal(t, appErrors.ErrValidation.Code, errCode(err))
}

func TestMediaServiceBlobFailure(t *testing.T) {
	svc := NewMediaService(failingBlobStore{}, MediaConfig{}, nil)

	_, err := svc.Upload(context.Background(), MediaUpload{Filename: "a.png", Data: pngBytes(t)})
	assert.Equal(t, appErrors.ErrWriteFailed.Code, errCode(err))
}

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"photo.jpg":          "photo.jpg",
		`C:\Users\me\a b.png`: "a_b.png",
		"../../etc/passwd":   "passwd",
		"...":                "file",
		"":                   "file",
		"ümlaut pic.webp":    "mlaut_pic.webp",
	}
	for in, want := range cases {
		assert.Equal(t, want, SanitizeFilename(in), in)
	}
}
