// Package linkcheck probes the document links listed in the link audit file.
//
// Link checking runs outside the curation pipeline. Probes run concurrently,
// limited per host so the committee server is not flooded.
package linkcheck

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/fwojciec/doclog"
	dochttp "github.com/fwojciec/doclog/http"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of concurrent probes.
const DefaultConcurrency = 4

// DefaultRPS is the default number of requests per second per host.
const DefaultRPS = 2.0

// Checker probes links concurrently.
type Checker struct {
	Prober      doclog.Prober
	RateLimiter *HostLimiter
	Concurrency int
	RetryDelays []time.Duration
	Logger      *slog.Logger
}

// NewChecker returns a Checker with default concurrency and rate limits.
func NewChecker(prober doclog.Prober, logger *slog.Logger) *Checker {
	return &Checker{
		Prober:      prober,
		RateLimiter: NewHostLimiter(DefaultRPS),
		Concurrency: DefaultConcurrency,
		RetryDelays: dochttp.DefaultRetryDelays(),
		Logger:      logger,
	}
}

// ParseList returns the paths of a link audit file relative to base as
// absolute URLs, skipping blank lines.
func ParseList(list, base string) []string {
	var urls []string
	for _, line := range strings.Split(list, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		urls = append(urls, base+line)
	}
	return urls
}

// Check probes every URL and returns one status per URL in input order.
// A failing probe is recorded in its status; Check itself only fails when
// ctx is canceled.
func (c *Checker) Check(ctx context.Context, urls []string) ([]*doclog.LinkStatus, error) {
	statuses := make([]*doclog.LinkStatus, len(urls))

	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, u := range urls {
		g.Go(func() error {
			statuses[i] = c.check(gctx, u)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return statuses, nil
}

func (c *Checker) check(ctx context.Context, rawURL string) *doclog.LinkStatus {
	st := &doclog.LinkStatus{URL: rawURL}

	if c.RateLimiter != nil {
		if err := c.RateLimiter.Wait(ctx, rawURL); err != nil {
			st.Err = err
			return st
		}
	}

	status, err := dochttp.Retry(ctx, rawURL, c.RetryDelays, c.logger(), c.Prober.Probe)
	st.Status, st.Err = status, err
	if !st.OK() {
		c.logger().Warn("broken link", "url", rawURL, "status", status, "err", err)
	}
	return st
}

func (c *Checker) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c.Logger
}
