package pypistats

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/veghdev/pypistat/internal/stats"
)

// DefaultBaseURL is the root of the pypistats.org JSON API.
const DefaultBaseURL = "https://pypistats.org/api"

// Cache stores raw API responses keyed by URL for ETag revalidation.
// Implementations must be safe for concurrent use; the fetcher issues
// bucket requests in parallel.
//
// Design decision: the interface is defined here, at the consumer, and
// satisfied implicitly by the database package. This keeps the client
// free of a storage dependency and trivially testable with a map.
type Cache interface {
	// GetResponse returns the cached ETag and body for a URL.
	// ok is false when the URL has never been cached.
	GetResponse(ctx context.Context, url string) (etag string, body []byte, ok bool)

	// PutResponse stores the ETag and body for a URL, replacing any
	// previous entry.
	PutResponse(ctx context.Context, url, etag string, body []byte) error
}

// Client is an HTTP client for the pypistats.org API.
//
// Design decision: we wrap http.Client in a struct configured once via
// functional options rather than passing settings per call because:
//  1. Base URL, User-Agent, and limits should be consistent across calls
//  2. Connection pooling works better with a shared client
//  3. Tests can inject an httptest server via WithBaseURL
type Client struct {
	// httpClient is the underlying HTTP client.
	httpClient *http.Client

	// baseURL is the API root, without a trailing slash.
	baseURL string

	// userAgent identifies this tool in API requests. pypistats.org asks
	// automated clients to send something identifiable.
	userAgent string

	// maxBodySize limits the response body size to prevent memory
	// exhaustion from a misbehaving endpoint.
	maxBodySize int64

	// cache, when non-nil, enables ETag response caching.
	cache Cache
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API root. Used in tests and for API mirrors.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithHTTPClient injects a custom http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithMaxBodySize sets the maximum response body size in bytes.
func WithMaxBodySize(size int64) Option {
	return func(c *Client) {
		c.maxBodySize = size
	}
}

// WithCache enables ETag response caching.
func WithCache(cache Cache) Option {
	return func(c *Client) {
		c.cache = cache
	}
}

// NewClient creates a pypistats.org API client with sensible defaults.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		baseURL:     DefaultBaseURL,
		userAgent:   "pypistat/1.0 (+https://github.com/veghdev/pypistat)",
		maxBodySize: 5 * 1024 * 1024, // 5MB
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// apiResponse is the wire format of the breakdown endpoints.
type apiResponse struct {
	Data    []stats.Row `json:"data"`
	Package string      `json:"package"`
	Type    string      `json:"type"`
}

// recentResponse is the wire format of the /recent endpoint.
type recentResponse struct {
	Data struct {
		LastDay   int64 `json:"last_day"`
		LastWeek  int64 `json:"last_week"`
		LastMonth int64 `json:"last_month"`
	} `json:"data"`
	Package string `json:"package"`
}

// RecentStats holds the download summary from the /recent endpoint.
type RecentStats struct {
	// Package is the PyPI package the summary belongs to.
	Package string `json:"package"`

	// LastDay is the download count for the most recent day.
	LastDay int64 `json:"last_day"`

	// LastWeek is the download count for the most recent seven days.
	LastWeek int64 `json:"last_week"`

	// LastMonth is the download count for the most recent thirty days.
	LastMonth int64 `json:"last_month"`
}

// Fetch retrieves the full statistics table for a package and statistic
// type. The API always returns its whole retention window; callers filter
// the table to their date range afterwards.
func (c *Client) Fetch(ctx context.Context, pkg string, typ stats.Type) (*stats.Table, error) {
	endpoint := fmt.Sprintf("%s/packages/%s/%s", c.baseURL, url.PathEscape(pkg), typ)

	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("fetch %s statistics for %q: %w", typ, pkg, err)
	}

	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode %s statistics for %q: %w", typ, pkg, err)
	}

	return &stats.Table{
		Package: pkg,
		Type:    typ,
		Rows:    resp.Data,
	}, nil
}

// Recent retrieves the last-day/-week/-month download summary for a package.
func (c *Client) Recent(ctx context.Context, pkg string) (*RecentStats, error) {
	endpoint := fmt.Sprintf("%s/packages/%s/recent", c.baseURL, url.PathEscape(pkg))

	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("fetch recent statistics for %q: %w", pkg, err)
	}

	var resp recentResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode recent statistics for %q: %w", pkg, err)
	}

	return &RecentStats{
		Package:   pkg,
		LastDay:   resp.Data.LastDay,
		LastWeek:  resp.Data.LastWeek,
		LastMonth: resp.Data.LastMonth,
	}, nil
}

// get performs a GET request with ETag revalidation against the cache.
func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	var cachedETag string
	var cachedBody []byte
	if c.cache != nil {
		var ok bool
		cachedETag, cachedBody, ok = c.cache.GetResponse(ctx, endpoint)
		if ok && cachedETag != "" {
			req.Header.Set("If-None-Match", cachedETag)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() //nolint:errcheck // Read side only

	switch resp.StatusCode {
	case http.StatusOK:
		// Fall through to body handling below.
	case http.StatusNotModified:
		return cachedBody, nil
	case http.StatusNotFound:
		return nil, ErrPackageNotFound
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if c.cache != nil {
		if etag := resp.Header.Get("ETag"); etag != "" {
			// Cache failures must not fail the fetch; the data is in hand.
			_ = c.cache.PutResponse(ctx, endpoint, etag, body) //nolint:errcheck // Best effort
		}
	}

	return body, nil
}
