package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// FileFetcher downloads images and media enclosures into local files
type FileFetcher struct {
	client    *http.Client
	userAgent string
}

// NewFileFetcher creates a new file fetcher. Timeout limits a whole download.
func NewFileFetcher(timeout time.Duration, userAgent string) *FileFetcher {
	return &FileFetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// FetchImage downloads an image to dst
func (f *FileFetcher) FetchImage(ctx context.Context, url, dst string) (int64, error) {
	return f.fetch(ctx, url, dst, imageAccept)
}

// FetchMedia downloads a media enclosure to dst
func (f *FileFetcher) FetchMedia(ctx context.Context, url, dst string) (int64, error) {
	return f.fetch(ctx, url, dst, mediaAccept)
}

// fetch writes the body to a temp file next to dst and renames it on success,
// so a failed download never leaves a truncated file behind
func (f *FileFetcher) fetch(ctx context.Context, url, dst, accept string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	addBrowserHeaders(req, accept)

	resp, err := f.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fetch URL: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, &HTTPStatusError{URL: url, Code: resp.StatusCode}
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return 0, fmt.Errorf("make dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(dst), filepath.Base(dst)+".*.part")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	n, err := io.Copy(tmp, resp.Body)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(tmp.Name())
		return 0, fmt.Errorf("write %s: %w", dst, err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		_ = os.Remove(tmp.Name())
		return 0, fmt.Errorf("rename to %s: %w", dst, err)
	}
	return n, nil
}
