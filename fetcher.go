package doclog

import "context"

// Fetcher retrieves the raw document log.
type Fetcher interface {
	// Fetch returns the body at url.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases resources held by the fetcher.
	Close() error
}

// Prober checks whether a document link is reachable.
type Prober interface {
	// Probe returns the HTTP status code of url without reading its body.
	Probe(ctx context.Context, url string) (status int, err error)
}

// LinkStatus is the outcome of probing one document link.
type LinkStatus struct {
	URL    string
	Status int

	// Err is set when the link could not be probed at all.
	Err error
}

// OK reports whether the link resolved to a successful response.
func (s *LinkStatus) OK() bool {
	return s.Err == nil && s.Status >= 200 && s.Status < 300
}
