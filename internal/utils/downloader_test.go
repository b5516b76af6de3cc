package utils

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/3Dimaging-ucl/openvocab/internal/config"
)

func initTestLogger(t *testing.T) {
	t.Helper()
	cleanup := InitLogger(&config.Config{LogLevel: "error"})
	t.Cleanup(cleanup)
}

func TestDownloadFile(t *testing.T) {
	initTestLogger(t)

	body := []byte("fake image bytes")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write(body)
	}))
	defer srv.Close()

	file, err := NewFileDownloader().DownloadFile(context.Background(), srv.URL+"/photos/dog.jpg", "image/")
	require.NoError(t, err)
	assert.Equal(t, body, file.Content)
	assert.Equal(t, "image/jpeg", file.ContentType)
	assert.Equal(t, "dog.jpg", file.Filename)
	assert.Equal(t, int64(len(body)), file.Size)
}

func TestDownloadFileNon200(t *testing.T) {
	initTestLogger(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := NewFileDownloader().DownloadFile(context.Background(), srv.URL, "image/")
	assert.ErrorIs(t, err, ErrFetch)
}

func TestDownloadFileUnreachableHost(t *testing.T) {
	initTestLogger(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewFileDownloader().DownloadFile(context.Background(), url+"/image.jpg", "image/")
	assert.ErrorIs(t, err, ErrFetch)
}

func TestExtractFilenameFromURL(t *testing.T) {
	assert.Equal(t, "cat.png", extractFilenameFromURL("https://example.com/images/cat.png"))
	assert.Equal(t, "downloaded_file", extractFilenameFromURL("https://example.com/"))
}
