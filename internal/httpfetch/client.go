// Package httpfetch implements the generic typed HTTP fetcher: cache
// integration, retry with backoff and Retry-After honoring, and
// transport/HTTP error classification.
package httpfetch

import (
	"net/http"
	"time"
)

const defaultTimeout = 30 * time.Second

// newClient builds the HTTP client one Fetcher owns. Every request this
// core makes targets the single Liiga API host, and the widest fan-out
// is a handful of tournament probes plus the per-game detail fetches of
// one day, so the idle pool is sized to keep that burst on warm
// connections without holding dozens open. A non-positive timeout falls
// back to the default.
func newClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        16,
			MaxIdleConnsPerHost: 8,
			IdleConnTimeout:     60 * time.Second,
			ForceAttemptHTTP2:   true,
		},
	}
}

const userAgent = "Mozilla/5.0 (compatible; liiga-teletext-core/1.0)"
