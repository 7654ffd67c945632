package download

import (
	"context"
	"net/url"
	"sync"
)

// hostLimiter caps parallel requests per host, podcast CDNs throttle aggressive clients
type hostLimiter struct {
	mu      sync.Mutex
	perHost int
	sems    map[string]chan struct{}
}

func newHostLimiter(perHost int) *hostLimiter {
	if perHost <= 0 {
		perHost = 2
	}
	return &hostLimiter{perHost: perHost, sems: map[string]chan struct{}{}}
}

// acquire blocks until a slot for the host of rawURL is free, returns a release func
func (l *hostLimiter) acquire(ctx context.Context, rawURL string) (func(), error) {
	host := hostOf(rawURL)
	l.mu.Lock()
	sem, ok := l.sems[host]
	if !ok {
		sem = make(chan struct{}, l.perHost)
		l.sems[host] = sem
	}
	l.mu.Unlock()

	select {
	case sem <- struct{}{}:
		return func() { <-sem }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return u.Host
}
