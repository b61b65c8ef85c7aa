package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/doclog"
)

// DefaultRetryDelays returns the backoff delays for retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// Retry calls fn until it succeeds, once initially and once more after each
// of the delays. The logger, if not nil, is told about each retry.
func Retry[T any](ctx context.Context, url string, delays []time.Duration, logger *slog.Logger, fn func(ctx context.Context, url string) (T, error)) (T, error) {
	var zero T
	maxAttempts := len(delays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		v, err := fn(ctx, url)
		if err == nil {
			return v, nil
		}
		lastErr = err

		// Don't retry after the last attempt
		if attempt >= maxAttempts-1 {
			break
		}

		if ctx.Err() != nil {
			return zero, ctx.Err()
		}

		if logger != nil {
			logger.Warn("retry", "url", url, "attempt", attempt+2, "err", err)
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return zero, lastErr
}

// Ensure RetryFetcher implements doclog.Fetcher at compile time.
var _ doclog.Fetcher = (*RetryFetcher)(nil)

// RetryFetcher wraps a Fetcher with retry and backoff.
type RetryFetcher struct {
	next   doclog.Fetcher
	delays []time.Duration
	logger *slog.Logger
}

// NewRetryFetcher creates a new RetryFetcher. A nil delays slice uses
// DefaultRetryDelays.
func NewRetryFetcher(next doclog.Fetcher, delays []time.Duration, logger *slog.Logger) *RetryFetcher {
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	return &RetryFetcher{next: next, delays: delays, logger: logger}
}

// Fetch delegates to the wrapped fetcher, retrying on error.
func (f *RetryFetcher) Fetch(ctx context.Context, url string) (string, error) {
	return Retry(ctx, url, f.delays, f.logger, f.next.Fetch)
}

// Close delegates to the wrapped fetcher.
func (f *RetryFetcher) Close() error {
	return f.next.Close()
}
