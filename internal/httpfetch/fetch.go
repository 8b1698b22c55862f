package httpfetch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/nikosalonen/liiga-teletext-core/internal/apperrors"
	"github.com/nikosalonen/liiga-teletext-core/internal/cache"
	"github.com/nikosalonen/liiga-teletext-core/internal/logging"
	"github.com/nikosalonen/liiga-teletext-core/internal/models"
)

const maxRetries = 3

var initialBackoff = 250 * time.Millisecond

// Fetcher performs cached, retried, classified HTTP GETs against the
// Liiga API.
type Fetcher struct {
	client    *http.Client
	cache     *cache.HTTPResponseCache
	coalescer *Coalescer
	limiter   *rate.Limiter
	log       *logging.Logger
}

// New builds a Fetcher whose requests time out after timeout (the
// configured value; non-positive falls back to the default). limiter
// may be nil to disable outer rate limiting (tests typically pass nil).
func New(c *cache.HTTPResponseCache, timeout time.Duration, limiter *rate.Limiter) *Fetcher {
	return &Fetcher{
		client:    newClient(timeout),
		cache:     c,
		coalescer: NewCoalescer(),
		limiter:   limiter,
		log:       logging.Get().WithField("component", "httpfetch"),
	}
}

// Fetch performs a typed GET: cache check, retried request, error
// classification, and a cache write gated on successful decode.
func Fetch[T any](ctx context.Context, f *Fetcher, url string) (T, error) {
	var zero T

	if cached, ok := f.cache.Get(url); ok {
		var decoded T
		if err := json.Unmarshal(cached, &decoded); err == nil {
			return decoded, nil
		}
		f.log.Warnf("cached response for %s failed to decode, treating as miss", url)
	}

	body, err := f.getWithCoalescing(ctx, url)
	if err != nil {
		return zero, err
	}

	var decoded T
	if err := json.Unmarshal(body, &decoded); err != nil {
		return zero, classifyDecodeError(url, body, err)
	}

	f.cache.Set(url, body, ttlForResponse(url, body))
	return decoded, nil
}

func (f *Fetcher) getWithCoalescing(ctx context.Context, url string) ([]byte, error) {
	raw, err := f.coalescer.Do(url, func() ([]byte, error) {
		return f.getWithRetry(ctx, url)
	})
	return raw, err
}

// getWithRetry issues the GET, retrying up to maxRetries additional
// attempts on timeout/connect errors or 429/5xx, honoring an integer
// Retry-After header on 429 and otherwise doubling a local backoff.
func (f *Fetcher) getWithRetry(ctx context.Context, url string) ([]byte, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, apperrors.NewNetworkTimeout(url)
		}
	}

	backoff := initialBackoff
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, apperrors.NewAPIFetch(url, err)
		}
		req.Header.Set("User-Agent", userAgent)

		resp, err := f.client.Do(req)
		if err != nil {
			if isRetryableTransportError(err) && attempt < maxRetries && ctx.Err() == nil {
				f.log.Warnf("transient error fetching %s: %v (attempt %d/%d)", url, err, attempt+1, maxRetries)
				time.Sleep(backoff)
				backoff *= 2
				lastErr = err
				continue
			}
			return nil, classifyTransportError(url, err)
		}

		body, readErr := readAndClose(resp)
		if readErr != nil {
			return nil, apperrors.NewAPIFetch(url, readErr)
		}

		if isRetryableStatus(resp.StatusCode) && attempt < maxRetries {
			wait := retryAfterOrBackoff(resp, backoff)
			f.log.Warnf("transient status %d from %s, retrying in %s (attempt %d/%d)", resp.StatusCode, url, wait, attempt+1, maxRetries)
			time.Sleep(wait)
			backoff *= 2
			continue
		}

		if resp.StatusCode != http.StatusOK {
			return nil, apperrors.FromStatus(url, resp.StatusCode)
		}

		return body, nil
	}

	if lastErr != nil {
		return nil, classifyTransportError(url, lastErr)
	}
	return nil, apperrors.NewAPIFetch(url, fmt.Errorf("exhausted retries"))
}

func readAndClose(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

func isRetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

func isRetryableTransportError(err error) bool {
	type timeout interface{ Timeout() bool }
	if t, ok := err.(timeout); ok && t.Timeout() {
		return true
	}
	return strings.Contains(err.Error(), "connection refused") ||
		strings.Contains(err.Error(), "connection reset") ||
		strings.Contains(err.Error(), "no such host")
}

func classifyTransportError(url string, err error) *apperrors.AppError {
	type timeout interface{ Timeout() bool }
	if t, ok := err.(timeout); ok && t.Timeout() {
		return apperrors.NewNetworkTimeout(url)
	}
	if isRetryableTransportError(err) {
		return apperrors.NewNetworkConnection(url, err.Error())
	}
	return apperrors.NewAPIFetch(url, err)
}

func retryAfterOrBackoff(resp *http.Response, backoff time.Duration) time.Duration {
	if v := resp.Header.Get("Retry-After"); v != "" {
		if seconds, err := strconv.Atoi(v); err == nil && seconds >= 0 {
			return time.Duration(seconds) * time.Second
		}
	}
	return backoff
}

func classifyDecodeError(url string, body []byte, decodeErr error) *apperrors.AppError {
	trimmed := bytes.TrimSpace(body)
	switch {
	case len(trimmed) == 0:
		return apperrors.NewAPINoData(url)
	case trimmed[0] != '{' && trimmed[0] != '[':
		return apperrors.NewAPIMalformedJSON(url)
	default:
		return apperrors.NewAPIUnexpectedStructure(url, decodeErr)
	}
}

// ttlForResponse computes the HTTP-response cache TTL: URL shape picks
// the base tier, and a live-game override applies on tournament/schedule
// shaped URLs whose body parses as a ScheduleResponse with a live game.
func ttlForResponse(url string, body []byte) time.Duration {
	looksLikeScheduleShape := (strings.Contains(url, "tournament=") && strings.Contains(url, "date=")) || strings.Contains(url, "/schedule")
	if !looksLikeScheduleShape {
		return cache.TTLForURL(url, false)
	}

	var parsed models.ScheduleResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return cache.TTLForURL(url, false)
	}
	return cache.TTLForURL(url, parsed.HasLiveCandidate())
}
