package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// fastBackOff avoids real sleeps in retry tests.
func fastBackOff() backoff.BackOff {
	return backoff.NewConstantBackOff(time.Millisecond)
}

func TestPostReturnsBodyOnSuccess(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	tr := NewTransport(5, 3)
	raw, err := tr.Post(context.Background(), srv.URL, nil, map[string]string{"a": "b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(raw) != `{"ok":true}` {
		t.Errorf("expected body passthrough, got %s", raw)
	}
	if attempts != 1 {
		t.Errorf("expected 1 attempt, got %d", attempts)
	}
}

func TestPostSetsJSONContentType(t *testing.T) {
	var contentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	tr := NewTransport(5, 1)
	if _, err := tr.Post(context.Background(), srv.URL, nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if contentType != "application/json" {
		t.Errorf("expected application/json content type, got %q", contentType)
	}
}

func TestPostRetriesServerErrors(t *testing.T) {
	for _, maxRetries := range []int{1, 2, 4} {
		attempts := 0
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attempts++
			http.Error(w, "boom", http.StatusInternalServerError)
		}))

		tr := NewTransport(5, maxRetries)
		tr.newBackOff = fastBackOff
		_, err := tr.Post(context.Background(), srv.URL, nil, nil)
		srv.Close()

		if err == nil {
			t.Fatalf("maxRetries=%d: expected error", maxRetries)
		}
		if !IsGenericError(err) {
			t.Errorf("maxRetries=%d: expected generic error, got %v", maxRetries, err)
		}
		if attempts != maxRetries {
			t.Errorf("maxRetries=%d: expected %d attempts, got %d", maxRetries, maxRetries, attempts)
		}
		if !strings.Contains(err.Error(), "attempts") {
			t.Errorf("maxRetries=%d: expected error to mention attempts, got %v", maxRetries, err)
		}
	}
}

func TestPostRecoverAfterTransientError(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	tr := NewTransport(5, 3)
	tr.newBackOff = fastBackOff
	raw, err := tr.Post(context.Background(), srv.URL, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(raw) != `{"ok":true}` {
		t.Errorf("expected recovered body, got %s", raw)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}

func TestPostTerminalStatuses(t *testing.T) {
	tests := []struct {
		status  int
		isAuth  bool
		isLimit bool
	}{
		{http.StatusUnauthorized, true, false},
		{http.StatusForbidden, true, false},
		{http.StatusTooManyRequests, false, true},
		{http.StatusRequestTimeout, false, true},
	}

	for _, tt := range tests {
		attempts := 0
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attempts++
			http.Error(w, "denied", tt.status)
		}))

		tr := NewTransport(5, 3)
		tr.newBackOff = fastBackOff
		_, err := tr.Post(context.Background(), srv.URL, nil, nil)
		srv.Close()

		if err == nil {
			t.Fatalf("status %d: expected error", tt.status)
		}
		if IsAuthError(err) != tt.isAuth {
			t.Errorf("status %d: IsAuthError = %v, want %v", tt.status, IsAuthError(err), tt.isAuth)
		}
		if IsRateLimitError(err) != tt.isLimit {
			t.Errorf("status %d: IsRateLimitError = %v, want %v", tt.status, IsRateLimitError(err), tt.isLimit)
		}
		if attempts != 1 {
			t.Errorf("status %d: expected 1 attempt, got %d", tt.status, attempts)
		}
	}
}

func TestPostRetriesUnclassifiedStatus(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		http.Error(w, "missing", http.StatusNotFound)
	}))
	defer srv.Close()

	tr := NewTransport(5, 2)
	tr.newBackOff = fastBackOff
	_, err := tr.Post(context.Background(), srv.URL, nil, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsGenericError(err) {
		t.Errorf("expected generic error for 404, got %v", err)
	}
	if attempts != 2 {
		t.Errorf("expected 2 attempts, got %d", attempts)
	}
}

func TestPostRetriesMalformedBody(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	tr := NewTransport(5, 2)
	tr.newBackOff = fastBackOff
	_, err := tr.Post(context.Background(), srv.URL, nil, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsGenericError(err) {
		t.Errorf("expected generic error for malformed body, got %v", err)
	}
	if attempts != 2 {
		t.Errorf("expected 2 attempts, got %d", attempts)
	}
}

func TestBackOffSchedule(t *testing.T) {
	bo := NewTransport(60, 6).backOffPolicy()
	want := []time.Duration{
		1 * time.Second,
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		8 * time.Second,
	}
	for i, expected := range want {
		got := bo.NextBackOff()
		if got != expected {
			t.Errorf("sleep %d: expected %v, got %v", i+1, expected, got)
		}
	}
}

func TestTruncateBody(t *testing.T) {
	long := strings.Repeat("x", 500)
	got := truncateBody([]byte(long))
	if len(got) != maxErrorBodyChars {
		t.Errorf("expected %d chars, got %d", maxErrorBodyChars, len(got))
	}

	short := "short"
	if truncateBody([]byte(short)) != short {
		t.Errorf("expected short body unchanged")
	}
}
