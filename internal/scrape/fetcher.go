package scrape

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/Autocity-R/autocity-sales-hub-sub004/pkg/config"
	pkgerrors "github.com/Autocity-R/autocity-sales-hub-sub004/pkg/errors"
)

const retryBaseDelay = 500 * time.Millisecond

// maxBodyBytes caps how much markup a single fetch will buffer.
const maxBodyBytes = 8 << 20

// PageFetcher retrieves competitor listing pages over plain HTTP. Transport
// errors and 5xx responses are retried with fibonacci backoff; 4xx responses
// fail immediately.
type PageFetcher struct {
	client    *http.Client
	userAgent string
	retries   int
}

// NewPageFetcher builds a fetcher from the scraper configuration.
func NewPageFetcher(cfg config.ScraperConfig) *PageFetcher {
	retries := cfg.FetchRetries
	if retries < 0 {
		retries = 0
	}
	return &PageFetcher{
		client:    &http.Client{Timeout: cfg.FetchTimeout},
		userAgent: cfg.UserAgent,
		retries:   retries,
	}
}

// Fetch downloads the page at url and returns the raw markup and HTTP status.
func (f *PageFetcher) Fetch(ctx context.Context, url string) (string, int, error) {
	var body string
	var status int

	backoff := retry.WithMaxRetries(uint64(f.retries), retry.NewFibonacci(retryBaseDelay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeFetch, err, "build request")
		}
		req.Header.Set("User-Agent", f.userAgent)
		req.Header.Set("Accept", "text/html,application/xhtml+xml")

		resp, err := f.client.Do(req)
		if err != nil {
			status = 0
			return retry.RetryableError(pkgerrors.Wrap(pkgerrors.CodeFetch, err, "fetch competitor page"))
		}
		defer resp.Body.Close()

		status = resp.StatusCode
		raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return retry.RetryableError(pkgerrors.Wrap(pkgerrors.CodeFetch, err, "read response body"))
		}

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			body = string(raw)
			return nil
		case resp.StatusCode >= 500:
			return retry.RetryableError(pkgerrors.New(pkgerrors.CodeFetch, fmt.Sprintf("competitor page returned status %d", resp.StatusCode)))
		default:
			return pkgerrors.New(pkgerrors.CodeFetch, fmt.Sprintf("competitor page returned status %d", resp.StatusCode))
		}
	})
	if err != nil {
		return "", status, err
	}
	return body, status, nil
}
