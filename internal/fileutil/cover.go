package fileutil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	shelferrors "github.com/lepinkainen/shelfcovers/internal/errors"
)

const (
	// DefaultUserAgent is sent with every cover request; some library CDNs refuse bare clients
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	// DefaultCoverTimeout bounds a single cover request
	DefaultCoverTimeout = 15 * time.Second
	// DefaultMinCoverBytes is the smallest body accepted as a real image
	DefaultMinCoverBytes = 100

	acceptImages   = "image/webp,image/apng,image/*,*/*;q=0.8"
	acceptLanguage = "en-US,en;q=0.9"
)

// NewCoverClient returns an HTTP client for cover downloads
func NewCoverClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultCoverTimeout
	}
	return &http.Client{Timeout: timeout}
}

// CoverFetchOptions holds options for fetching a single cover image.
type CoverFetchOptions struct {
	// URL is the source URL of the cover image
	URL string
	// Path is where the image body is written
	Path string
	// Client defaults to NewCoverClient(DefaultCoverTimeout)
	Client *http.Client
	// UserAgent defaults to DefaultUserAgent
	UserAgent string
	// MinBytes defaults to DefaultMinCoverBytes
	MinBytes int
}

// FetchCover downloads one cover image to opts.Path and returns the number of bytes written.
// Every failure is a *errors.DownloadError classified by kind.
func FetchCover(ctx context.Context, opts CoverFetchOptions) (int, error) {
	client := opts.Client
	if client == nil {
		client = NewCoverClient(DefaultCoverTimeout)
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	minBytes := opts.MinBytes
	if minBytes <= 0 {
		minBytes = DefaultMinCoverBytes
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, opts.URL, nil)
	if err != nil {
		return 0, shelferrors.NewDownloadError(shelferrors.KindTransport, opts.URL, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", acceptImages)
	req.Header.Set("Accept-Language", acceptLanguage)
	req.Header.Set("Connection", "keep-alive")

	resp, err := client.Do(req)
	if err != nil {
		return 0, shelferrors.NewDownloadError(classifyTransport(err), opts.URL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, shelferrors.NewDownloadError(shelferrors.KindStatus, opts.URL,
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, shelferrors.NewDownloadError(classifyTransport(err), opts.URL, err)
	}

	if len(body) < minBytes {
		return 0, shelferrors.NewDownloadError(shelferrors.KindUndersized, opts.URL,
			fmt.Errorf("body is %d bytes, want at least %d", len(body), minBytes))
	}

	if err := os.WriteFile(opts.Path, body, 0644); err != nil {
		return 0, shelferrors.NewDownloadError(shelferrors.KindWrite, opts.URL, err)
	}

	slog.Debug("Wrote cover", "path", opts.Path, "bytes", len(body))
	return len(body), nil
}

func classifyTransport(err error) shelferrors.DownloadErrorKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return shelferrors.KindTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return shelferrors.KindTimeout
	}
	return shelferrors.KindTransport
}
