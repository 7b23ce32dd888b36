package engine

import (
	"compress/gzip"
	"context"
	"errors"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// hostLimiter keeps one token bucket per host so a scraper burst against a
// single board never looks like a flood.
type hostLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	r        rate.Limit
	burst    int
}

func newHostLimiter(every time.Duration, burst int) *hostLimiter {
	return &hostLimiter{
		limiters: make(map[string]*rate.Limiter),
		r:        rate.Every(every),
		burst:    burst,
	}
}

func (h *hostLimiter) get(host string) *rate.Limiter {
	h.mu.Lock()
	defer h.mu.Unlock()
	l, ok := h.limiters[host]
	if !ok {
		l = rate.NewLimiter(h.r, h.burst)
		h.limiters[host] = l
	}
	return l
}

// WaitURL blocks until the host of raw may be hit again, or ctx ends.
func (h *hostLimiter) WaitURL(ctx context.Context, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return nil
	}
	return h.get(u.Host).Wait(ctx)
}

var fetchLimiter = newHostLimiter(500*time.Millisecond, 3)

// sleepJitter pauses for a random duration inside the configured jitter
// window before a request goes out. No-op when the window is unset.
func sleepJitter(ctx context.Context) {
	if cfg.MaxJitter <= 0 {
		return
	}
	min := cfg.MinJitter
	span := cfg.MaxJitter - min
	d := min
	if span > 0 {
		d += time.Duration(rand.Int63n(int64(span)))
	}
	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
}

// newFetchClient creates an HTTP client with proper settings for web scraping.
func newFetchClient() *http.Client {
	return &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 5,
			IdleConnTimeout:     30 * time.Second,
			TLSHandshakeTimeout: 15 * time.Second,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return errors.New("stopped after 10 redirects")
			}
			return nil
		},
	}
}

// FetchWithRetry performs a rate-limited HTTP GET with jitter and retries.
// 429/5xx responses are retried with exponential backoff; a 403 stops
// immediately with ErrForbidden.
func FetchWithRetry(ctx context.Context, fetchURL string, rc RetryConfig, isHTML bool) (*http.Response, error) {
	IncrFetchRequests()

	client := cfg.HTTPClient
	if client == nil {
		client = newFetchClient()
	}

	if err := fetchLimiter.WaitURL(ctx, fetchURL); err != nil {
		IncrFetchErrors()
		return nil, err
	}

	resp, err := RetryHTTP(ctx, rc, func() (*http.Response, error) {
		sleepJitter(ctx)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fetchURL, nil)
		if err != nil {
			return nil, err
		}

		req.Header.Set("User-Agent", RandomUserAgent())
		if isHTML {
			req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
			req.Header.Set("Accept-Language", "en-US,en;q=0.9")
		} else {
			req.Header.Set("Accept", "application/json,text/plain,*/*;q=0.9")
		}
		req.Header.Set("Accept-Encoding", "gzip")

		return client.Do(req)
	})
	if err != nil {
		IncrFetchErrors()
		return nil, err
	}
	return resp, nil
}

// Fetch performs a GET with the default retry policy and returns the body.
func Fetch(ctx context.Context, fetchURL string, isHTML bool) ([]byte, error) {
	resp, err := FetchWithRetry(ctx, fetchURL, DefaultRetryConfig, isHTML)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return ReadResponseBody(resp)
}

// ReadResponseBody reads the response body, handling gzip decompression if needed.
func ReadResponseBody(resp *http.Response) ([]byte, error) {
	reader := io.Reader(resp.Body)
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		reader = gz
	}
	return io.ReadAll(io.LimitReader(reader, 4*1024*1024))
}
