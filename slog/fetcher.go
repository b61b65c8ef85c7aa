// Package slog provides logging decorators for doclog services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/doclog"
)

// Ensure LoggingFetcher implements doclog.Fetcher.
var _ doclog.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with logging.
type LoggingFetcher struct {
	next   doclog.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next doclog.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher and logs the operation.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (html string, err error) {
	defer func(begin time.Time) {
		f.logger.Info("fetch",
			"url", url,
			"bytes", len(html),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}

// Ensure LoggingProber implements doclog.Prober.
var _ doclog.Prober = (*LoggingProber)(nil)

// LoggingProber wraps a Prober with debug logging.
type LoggingProber struct {
	next   doclog.Prober
	logger *slog.Logger
}

// NewLoggingProber creates a new LoggingProber.
func NewLoggingProber(next doclog.Prober, logger *slog.Logger) *LoggingProber {
	return &LoggingProber{next: next, logger: logger}
}

// Probe delegates to the wrapped prober and logs the operation.
func (p *LoggingProber) Probe(ctx context.Context, url string) (status int, err error) {
	defer func(begin time.Time) {
		p.logger.Debug("probe",
			"url", url,
			"status", status,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return p.next.Probe(ctx, url)
}
