package mock

import (
	"context"

	"github.com/fwojciec/doclog"
)

var _ doclog.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of doclog.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

var _ doclog.Prober = (*Prober)(nil)

// Prober is a mock implementation of doclog.Prober.
type Prober struct {
	ProbeFn func(ctx context.Context, url string) (int, error)
}

func (p *Prober) Probe(ctx context.Context, url string) (int, error) {
	return p.ProbeFn(ctx, url)
}
