package httpfetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikosalonen/liiga-teletext-core/internal/apperrors"
	"github.com/nikosalonen/liiga-teletext-core/internal/cache"
)

type payload struct {
	Value string `json:"value"`
}

func TestFetchCachesSuccessfulDecodeAndServesFromCache(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write([]byte(`{"value":"ok"}`))
	}))
	defer srv.Close()

	f := New(cache.NewHTTPResponseCache(), 5*time.Second, nil)

	got, err := Fetch[payload](context.Background(), f, srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "ok", got.Value)

	got2, err := Fetch[payload](context.Background(), f, srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "ok", got2.Value)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits), "second fetch should be served from cache")
}

func TestFetchMapsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := New(cache.NewHTTPResponseCache(), 5*time.Second, nil)
	_, err := Fetch[payload](context.Background(), f, srv.URL)
	require.Error(t, err)
	assert.True(t, apperrors.AsKind(err, apperrors.KindAPINotFound))
}

func TestFetchRetriesOnRateLimitThenSucceeds(t *testing.T) {
	var attempt int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&attempt, 1)
		if n == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"value":"second try"}`))
	}))
	defer srv.Close()

	f := New(cache.NewHTTPResponseCache(), 5*time.Second, nil)
	got, err := Fetch[payload](context.Background(), f, srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "second try", got.Value)
	assert.Equal(t, int32(2), atomic.LoadInt32(&attempt))
}

func TestFetchEmptyBodyIsNoData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(""))
	}))
	defer srv.Close()

	f := New(cache.NewHTTPResponseCache(), 5*time.Second, nil)
	_, err := Fetch[payload](context.Background(), f, srv.URL)
	require.Error(t, err)
	assert.True(t, apperrors.AsKind(err, apperrors.KindAPINoData))
}

func TestFetchNonJSONBodyIsMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json at all"))
	}))
	defer srv.Close()

	f := New(cache.NewHTTPResponseCache(), 5*time.Second, nil)
	_, err := Fetch[payload](context.Background(), f, srv.URL)
	require.Error(t, err)
	assert.True(t, apperrors.AsKind(err, apperrors.KindAPIMalformedJSON))
}

func TestFetchHonorsRetryAfterSeconds(t *testing.T) {
	var attempt int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&attempt, 1)
		if n == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"value":"ok"}`))
	}))
	defer srv.Close()

	c := cache.NewHTTPResponseCache()
	f := New(c, 5*time.Second, nil)

	start := time.Now()
	got, err := Fetch[payload](context.Background(), f, srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "ok", got.Value)
	assert.GreaterOrEqual(t, time.Since(start), time.Second, "fetcher must wait at least Retry-After seconds")
	assert.Equal(t, int32(2), atomic.LoadInt32(&attempt))
	assert.Equal(t, 1, c.Stats().Size, "the URL appears exactly once in the response cache")
}

func TestFetchServerErrorExhaustsRetries(t *testing.T) {
	var attempt int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempt, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := New(cache.NewHTTPResponseCache(), 5*time.Second, nil)
	_, err := Fetch[payload](context.Background(), f, srv.URL)
	require.Error(t, err)
	assert.True(t, apperrors.AsKind(err, apperrors.KindAPIServerError))
	assert.Equal(t, int32(4), atomic.LoadInt32(&attempt), "initial attempt plus three retries")
}

func TestFetchDoesNotCacheFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := cache.NewHTTPResponseCache()
	f := New(c, 5*time.Second, nil)
	_, err := Fetch[payload](context.Background(), f, srv.URL)
	require.Error(t, err)
	assert.Equal(t, 0, c.Stats().Size)
}

func TestCoalescerSharesOneRoundTrip(t *testing.T) {
	c := NewCoalescer()
	release := make(chan struct{})
	var calls int32

	fn := func() ([]byte, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return []byte("shared"), nil
	}

	const workers = 5
	results := make([][]byte, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := c.Do("key", fn)
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	for _, v := range results {
		assert.Equal(t, []byte("shared"), v)
	}
}

func TestBuildURLs(t *testing.T) {
	assert.Contains(t, BuildTournamentURL("https://api.test", "runkosarja", "2024-01-15"), "tournament=runkosarja")
	assert.Equal(t, "https://api.test/games/2024/555", BuildGameURL("https://api.test", 2024, 555))
	u := BuildScheduleURL("https://api.test", 1, 2024)
	assert.Contains(t, u, "season="+strconv.Itoa(2024))
}
