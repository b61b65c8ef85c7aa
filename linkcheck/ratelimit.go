package linkcheck

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"github.com/fwojciec/doclog"
	"golang.org/x/time/rate"
)

// HostLimiter spaces out probes to each host named by the document links.
// Host names compare case-insensitively and ports are ignored.
type HostLimiter struct {
	limit rate.Limit

	mu    sync.Mutex
	hosts map[string]*rate.Limiter
}

// NewHostLimiter returns a HostLimiter allowing rps probes per second to each
// host, without bursts. A non-positive rps disables limiting.
func NewHostLimiter(rps float64) *HostLimiter {
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	return &HostLimiter{limit: limit, hosts: make(map[string]*rate.Limiter)}
}

// Wait blocks until a probe of link is allowed. Returns EINVALID if link is
// not an absolute URL, or the context error if ctx ends first.
func (l *HostLimiter) Wait(ctx context.Context, link string) error {
	u, err := url.Parse(link)
	if err != nil || u.Host == "" {
		return doclog.Errorf(doclog.EINVALID, "link %q has no host", link)
	}
	return l.host(strings.ToLower(u.Hostname())).Wait(ctx)
}

func (l *HostLimiter) host(name string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	lim, ok := l.hosts[name]
	if !ok {
		lim = rate.NewLimiter(l.limit, 1)
		l.hosts[name] = lim
	}
	return lim
}
