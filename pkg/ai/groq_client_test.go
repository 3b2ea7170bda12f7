package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func fastGroq(endpoint, key string) *groq {
	return &groq{
		endpoint: endpoint,
		key:      key,
		model:    "test-model",
		policy:   Policy{MaxAttempts: 3, BaseDelay: time.Millisecond},
		httpc:    &http.Client{Timeout: 5 * time.Second},
	}
}

func TestGenerateRetriesRateLimitThenSucceeds(t *testing.T) {
	var attempts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&attempts, 1)
		if n <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"  all good  "}}]}`))
	}))
	defer srv.Close()

	got := fastGroq(srv.URL, "key").Generate(context.Background(), "hi")
	if got != "all good" {
		t.Errorf("Generate = %q, want %q", got, "all good")
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestGenerateExhaustsRetries(t *testing.T) {
	var attempts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	got := fastGroq(srv.URL, "key").Generate(context.Background(), "hi")
	if got != "API Error: failed after multiple retries." {
		t.Errorf("Generate = %q", got)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestGenerateDoesNotRetryOtherStatuses(t *testing.T) {
	var attempts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	got := fastGroq(srv.URL, "key").Generate(context.Background(), "hi")
	if got != "API Error: status 500 from generator." {
		t.Errorf("Generate = %q", got)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestGenerateRetriesTransportErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // every request now fails at the transport level

	got := fastGroq(srv.URL, "key").Generate(context.Background(), "hi")
	if !strings.HasPrefix(got, "API Error:") {
		t.Errorf("Generate = %q, want transport error text", got)
	}
}

func TestGenerateMissingKeyShortCircuits(t *testing.T) {
	var attempts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
	}))
	defer srv.Close()

	got := fastGroq(srv.URL, "").Generate(context.Background(), "hi")
	if got != "Error: generator API key not set." {
		t.Errorf("Generate = %q", got)
	}
	if attempts != 0 {
		t.Errorf("network was hit %d times despite missing key", attempts)
	}
}

func TestGenerateMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	got := fastGroq(srv.URL, "key").Generate(context.Background(), "hi")
	if got != "API Error: malformed completion response." {
		t.Errorf("Generate = %q", got)
	}
}

func TestPolicyBackoffDoubles(t *testing.T) {
	p := Policy{MaxAttempts: 3, BaseDelay: time.Second}
	if p.Backoff(0) != time.Second || p.Backoff(1) != 2*time.Second || p.Backoff(2) != 4*time.Second {
		t.Errorf("backoff sequence = %v %v %v", p.Backoff(0), p.Backoff(1), p.Backoff(2))
	}
}
