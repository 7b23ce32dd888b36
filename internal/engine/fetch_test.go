package engine

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

// fastRetry keeps backoff waits out of test runtime.
var fastRetry = RetryConfig{
	MaxRetries:  3,
	InitialWait: time.Millisecond,
	MaxWait:     5 * time.Millisecond,
	Multiplier:  2.0,
}

func TestFetchWithRetryOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") == "" {
			t.Error("expected a User-Agent header")
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	resp, err := FetchWithRetry(context.Background(), srv.URL, fastRetry, false)
	if err != nil {
		t.Fatalf("FetchWithRetry() error = %v", err)
	}
	defer resp.Body.Close()

	body, err := ReadResponseBody(resp)
	if err != nil {
		t.Fatalf("ReadResponseBody() error = %v", err)
	}
	if string(body) != `{"ok":true}` {
		t.Errorf("body = %q", body)
	}
}

func TestFetchWithRetryRecoversFrom429(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte("recovered"))
	}))
	defer srv.Close()

	resp, err := FetchWithRetry(context.Background(), srv.URL, fastRetry, false)
	if err != nil {
		t.Fatalf("FetchWithRetry() error = %v", err)
	}
	resp.Body.Close()

	if got := calls.Load(); got != 3 {
		t.Errorf("server calls = %d, want 3 (two 429s then success)", got)
	}
}

func TestFetchWithRetryForbiddenStopsImmediately(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := FetchWithRetry(context.Background(), srv.URL, fastRetry, false)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("server calls = %d, want 1 (403 must not be retried)", got)
	}
}

func TestFetchWithRetryGivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := FetchWithRetry(context.Background(), srv.URL, fastRetry, false)
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if got := calls.Load(); got != int32(fastRetry.MaxRetries)+1 {
		t.Errorf("server calls = %d, want %d", got, fastRetry.MaxRetries+1)
	}
}

func TestFetchWithRetryNonRetryableStatus(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := FetchWithRetry(context.Background(), srv.URL, fastRetry, false)
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.Code != 404 {
		t.Fatalf("err = %v, want StatusError 404", err)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("server calls = %d, want 1", got)
	}
}

func TestFetchWithRetryContextCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := FetchWithRetry(ctx, srv.URL, fastRetry, false)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
