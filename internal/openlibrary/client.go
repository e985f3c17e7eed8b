// Package openlibrary looks up cover images on Open Library by ISBN.
package openlibrary

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/lepinkainen/shelfcovers/internal/cache"
	"github.com/lepinkainen/shelfcovers/internal/errors"
	"github.com/lepinkainen/shelfcovers/internal/ratelimit"
)

const (
	defaultBaseURL   = "https://openlibrary.org"
	defaultCoversURL = "https://covers.openlibrary.org"
	defaultInterval  = time.Second
)

// HTTPDoer is an interface for making HTTP requests.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client talks to the Open Library edition API.
type Client struct {
	baseURL     string
	coversURL   string
	httpClient  HTTPDoer
	rateLimiter *ratelimit.Limiter
	rateLimited atomic.Bool
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// NewClient creates a client limited to one request per second.
func NewClient(opts ...Option) *Client {
	client := &Client{
		baseURL:     defaultBaseURL,
		coversURL:   defaultCoversURL,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		rateLimiter: ratelimit.Every("openlibrary", defaultInterval),
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c HTTPDoer) Option {
	return func(client *Client) {
		if c != nil {
			client.httpClient = c
		}
	}
}

// WithBaseURL points edition lookups at another host.
func WithBaseURL(base string) Option {
	return func(client *Client) {
		if base != "" {
			client.baseURL = strings.TrimSuffix(base, "/")
		}
	}
}

// WithCoversURL sets the host used to build cover image URLs.
func WithCoversURL(base string) Option {
	return func(client *Client) {
		if base != "" {
			client.coversURL = strings.TrimSuffix(base, "/")
		}
	}
}

// WithRateLimiter replaces the default one request per second limiter.
func WithRateLimiter(limiter *ratelimit.Limiter) Option {
	return func(client *Client) {
		if limiter != nil {
			client.rateLimiter = limiter
		}
	}
}

// Lookup is the cached result of an edition lookup.
type Lookup struct {
	ISBN     string `json:"isbn"`
	CoverID  int    `json:"cover_id,omitempty"`
	NotFound bool   `json:"not_found,omitempty"`
}

type edition struct {
	Covers []int `json:"covers"`
}

// CoverURL builds the large cover image URL for a cover id.
func (c *Client) CoverURL(coverID int) string {
	return fmt.Sprintf("%s/b/id/%d-L.jpg", c.coversURL, coverID)
}

// FetchEdition queries /isbn/{isbn}.json. A 404 is reported as NotFound, not as an error.
func (c *Client) FetchEdition(ctx context.Context, isbn string) (Lookup, error) {
	if c.rateLimited.Load() {
		return Lookup{}, errors.NewRateLimitError("Open Library rate limit reached")
	}
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return Lookup{}, err
	}

	endpoint := fmt.Sprintf("%s/isbn/%s.json", c.baseURL, isbn)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Lookup{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Lookup{}, fmt.Errorf("openlibrary: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return Lookup{ISBN: isbn, NotFound: true}, nil
	case resp.StatusCode == http.StatusTooManyRequests:
		c.rateLimited.Store(true)
		slog.Warn("Open Library rate limit reached; skipping further lookups for this run")
		return Lookup{}, errors.NewRateLimitErrorWithRetry("Open Library rate limit reached", retryAfter(resp.Header.Get("Retry-After")))
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Lookup{}, fmt.Errorf("openlibrary: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var ed edition
	if err := json.NewDecoder(resp.Body).Decode(&ed); err != nil {
		return Lookup{}, fmt.Errorf("openlibrary: decode edition: %w", err)
	}

	result := Lookup{ISBN: isbn}
	// Open Library uses -1 as a placeholder id
	for _, id := range ed.Covers {
		if id > 0 {
			result.CoverID = id
			break
		}
	}
	return result, nil
}

// LookupCover returns the cover URL for isbn, or "" when the edition has no cover.
// Results are cached in the openlibrary cache table; misses use the negative TTL.
func (c *Client) LookupCover(ctx context.Context, isbn string) (string, error) {
	lookup, fromCache, err := cache.GetOrFetchWithTTL(cache.OpenLibraryTable, isbn, func() (Lookup, error) {
		return c.FetchEdition(ctx, isbn)
	}, cache.SelectNegativeCacheTTL(func(l Lookup) bool {
		return l.NotFound || l.CoverID == 0
	}))
	if err != nil {
		return "", err
	}

	slog.Debug("Open Library lookup", "isbn", isbn, "cover_id", lookup.CoverID, "cached", fromCache)
	if lookup.CoverID == 0 {
		return "", nil
	}
	return c.CoverURL(lookup.CoverID), nil
}

func retryAfter(header string) time.Duration {
	seconds, err := strconv.Atoi(strings.TrimSpace(header))
	if err != nil || seconds <= 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
