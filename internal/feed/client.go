// Package feed fetches and parses the published spreadsheet that backs the tracker.
package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/theirongolddev/p200/internal/model"
)

const (
	maxBodySize = 4 << 20 // 4 MB
	userAgent   = "github.com/theirongolddev/p200/1.0"
)

// ErrUnavailable is the single error kind the feed distinguishes: the
// document could not be retrieved, whatever the cause.
var ErrUnavailable = errors.New("feed: unavailable")

// Fetcher retrieves the raw feed text.
type Fetcher interface {
	Fetch(ctx context.Context) (string, error)
}

// Client fetches the feed over HTTP. It performs exactly one request per
// Fetch call; there is no retry or backoff.
type Client struct {
	url     string
	timeout time.Duration
	http    *http.Client
}

// NewClient creates a client for the given feed URL.
// A zero timeout means the request is bounded only by ctx.
func NewClient(url string, timeout time.Duration) *Client {
	return &Client{
		url:     strings.TrimSpace(url),
		timeout: timeout,
		http:    &http.Client{},
	}
}

// URL returns the feed location.
func (c *Client) URL() string { return c.url }

// Fetch performs an unauthenticated GET and returns the body text.
func (c *Client) Fetch(ctx context.Context) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: creating request: %w", ErrUnavailable, err)
	}
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.1")
	req.Header.Set("User-Agent", userAgent)

	//nolint:gosec // URL comes from local configuration
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: request failed: %w", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: unexpected status %d", ErrUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("%w: reading response: %w", ErrUnavailable, err)
	}
	return string(body), nil
}

// Result is the outcome of one best-effort load.
type Result struct {
	Records   []model.WeekRecord
	Raw       string
	FetchedAt time.Time
	Err       error // diagnostic only; Records is already the fallback
}

// Load fetches and parses the feed. Failures are logged and produce an empty
// record set; they are never surfaced to the caller as an error.
func Load(ctx context.Context, f Fetcher, mode Mode, log *zap.Logger) Result {
	if log == nil {
		log = zap.NewNop()
	}
	res := Result{FetchedAt: time.Now()}

	text, err := f.Fetch(ctx)
	if err != nil {
		log.Error("feed unavailable", zap.Error(err))
		res.Records = []model.WeekRecord{}
		res.Err = err
		return res
	}

	res.Raw = text
	res.Records = Parse(text, mode)
	log.Debug("feed loaded",
		zap.Int("bytes", len(text)),
		zap.Int("records", len(res.Records)),
		zap.Stringer("mode", mode),
	)
	return res
}
