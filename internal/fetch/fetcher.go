// Package fetch is the direct HTTP path used where the extraction tool has
// no structured command: remote thumbnails and the instagram photo fallback.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/iconidentify/grabba/internal/config"
)

// maxBodySize caps direct fetches; thumbnails and single photos only.
const maxBodySize = 32 << 20 // 32MB

// statusError marks a non-200 response so the retry loop can tell server
// hiccups apart from definitive rejections.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.code)
}

func (e *statusError) transient() bool {
	return e.code >= 500 || e.code == http.StatusTooManyRequests
}

// Client fetches small remote resources.
type Client interface {
	// Get fetches url and returns the body bytes and content type.
	Get(ctx context.Context, url string) ([]byte, string, error)
}

// HTTPFetcher implements Client with browser-mimicking request headers.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
	retries   retryPolicy
	logger    *slog.Logger
}

// NewHTTPFetcher creates a direct fetcher.
func NewHTTPFetcher(cfg config.FetchConfig, logger *slog.Logger) *HTTPFetcher {
	return &HTTPFetcher{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		userAgent: cfg.UserAgent,
		retries:   defaultRetryPolicy(),
		logger:    logger,
	}
}

type fetchResult struct {
	body        []byte
	contentType string
}

// Get fetches url with browser-like headers, retrying transient upstream
// failures. Platforms serve different content (or errors) to obvious
// non-browser clients.
func (f *HTTPFetcher) Get(ctx context.Context, url string) ([]byte, string, error) {
	res, err := retry(ctx, f.retries, isTransient, func() (fetchResult, error) {
		body, ct, err := f.get(ctx, url)
		return fetchResult{body: body, contentType: ct}, err
	})
	if err != nil {
		return nil, "", err
	}
	return res.body, res.contentType, nil
}

// isTransient reports whether a fetch failure is worth retrying. Upstream
// 5xx and rate limits are; definitive rejections like 404 are not.
func isTransient(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.transient()
	}
	return false
}

func (f *HTTPFetcher) get(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "image/jpeg,image/*;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", &statusError{code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, "", fmt.Errorf("read body: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return body, contentType, nil
}
