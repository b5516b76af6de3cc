package utils

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultDownloadTimeout = 2 * time.Minute
	MaxDownloadSize        = 25 * 1024 * 1024 // 25MB, generous for a single image
)

// ErrFetch marks failures to retrieve image bytes from a remote source.
var ErrFetch = errors.New("image fetch failed")

// DownloadedFile represents a downloaded file with its metadata
type DownloadedFile struct {
	Content     []byte
	ContentType string
	Filename    string
	Size        int64
}

// FileDownloader handles downloading files from URLs
type FileDownloader struct {
	client  *http.Client
	timeout time.Duration
	maxSize int64
}

// NewFileDownloader creates a new file downloader with default settings
func NewFileDownloader() *FileDownloader {
	return &FileDownloader{
		client: &http.Client{
			Timeout: DefaultDownloadTimeout,
		},
		timeout: DefaultDownloadTimeout,
		maxSize: MaxDownloadSize,
	}
}

// DownloadFile downloads a file from the given URL
func (d *FileDownloader) DownloadFile(ctx context.Context, rawURL string, expectedContentType string) (*DownloadedFile, error) {
	Zlog.Info("Starting file download",
		zap.String("url", rawURL),
		zap.String("expectedContentType", expectedContentType))

	req, err := http.NewRequestWithContext(ctx, "GET", rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid request: %v", ErrFetch, err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status code %d", ErrFetch, resp.StatusCode)
	}

	// Validate content type if provided
	actualContentType := resp.Header.Get("Content-Type")
	if expectedContentType != "" && !strings.HasPrefix(actualContentType, expectedContentType) {
		Zlog.Warn("Content type mismatch",
			zap.String("expected", expectedContentType),
			zap.String("actual", actualContentType))
	}

	// Check content length
	if resp.ContentLength > d.maxSize {
		return nil, fmt.Errorf("%w: file size exceeds maximum allowed size: %d bytes", ErrFetch, d.maxSize)
	}

	// Read the file content with size limit
	limitedReader := io.LimitReader(resp.Body, d.maxSize)
	content, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read body: %v", ErrFetch, err)
	}

	Zlog.Info("File downloaded successfully",
		zap.String("url", rawURL),
		zap.Int("size", len(content)))

	return &DownloadedFile{
		Content:     content,
		ContentType: actualContentType,
		Filename:    extractFilenameFromURL(rawURL),
		Size:        int64(len(content)),
	}, nil
}

// extractFilenameFromURL extracts filename from URL (simple implementation)
func extractFilenameFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Path == "" || parsed.Path == "/" {
		return "downloaded_file"
	}
	return path.Base(parsed.Path)
}
