package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
)

const (
	// BackoffInitialInterval is the delay before the first retry.
	BackoffInitialInterval = 1 * time.Second
	// BackoffMaxInterval caps the exponential backoff delay.
	BackoffMaxInterval = 8 * time.Second
	// BackoffMultiplier is the factor applied between retries.
	BackoffMultiplier = 2.0

	// maxErrorBodyChars bounds how much response body text is embedded
	// into error messages.
	maxErrorBodyChars = 200
)

// Transport executes HTTP POST requests with a bounded retry policy.
//
// Transient failures (5xx, network errors, malformed response bodies) are
// retried with exponential backoff: 1s, 2s, 4s, then capped at 8s. Auth
// failures (401/403) and rate limits (429/408) surface immediately without
// consuming a retry. One Transport is shared by all calls of a client and
// is safe for concurrent use.
type Transport struct {
	client     *http.Client
	maxRetries int
	log        zerolog.Logger

	// newBackOff is swapped in tests to avoid real sleeps.
	newBackOff func() backoff.BackOff
}

// NewTransport creates a Transport with the given per-request timeout in
// seconds and total attempt count. maxRetries values below 1 are treated
// as 1.
func NewTransport(timeoutS, maxRetries int) *Transport {
	if maxRetries < 1 {
		maxRetries = 1
	}
	t := &Transport{
		client:     &http.Client{Timeout: time.Duration(timeoutS) * time.Second},
		maxRetries: maxRetries,
		log:        zerolog.Nop(),
	}
	t.newBackOff = t.backOffPolicy
	return t
}

// SetLogger attaches a logger used for debug events on retries. Intended
// to be called once during setup, before the Transport is shared.
func (t *Transport) SetLogger(log zerolog.Logger) {
	t.log = log
}

// backOffPolicy builds the deterministic 1,2,4,8,8,... schedule.
func (t *Transport) backOffPolicy() backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = BackoffInitialInterval
	bo.MaxInterval = BackoffMaxInterval
	bo.Multiplier = BackoffMultiplier
	bo.RandomizationFactor = 0
	bo.MaxElapsedTime = 0
	bo.Reset()
	return bo
}

// Post sends body as JSON to url and returns the parsed response body.
//
// The returned bytes are guaranteed to be valid JSON. Headers are applied
// as given; Content-Type defaults to application/json when not supplied.
// Non-recoverable outcomes fail with an *Error of the appropriate kind.
func (t *Transport) Post(ctx context.Context, url string, headers map[string]string, body any) (json.RawMessage, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, WrapError(err, "failed to encode request body for %s", url)
	}

	operation := func() (json.RawMessage, error) {
		return t.attempt(ctx, url, headers, payload)
	}
	notify := func(err error, delay time.Duration) {
		t.log.Debug().Str("url", url).Dur("backoff", delay).Err(err).Msg("retrying request")
	}

	bo := backoff.WithContext(backoff.WithMaxRetries(t.newBackOff(), uint64(t.maxRetries-1)), ctx)
	raw, err := backoff.RetryNotifyWithData(operation, bo, notify)
	if err != nil {
		if IsAuthError(err) || IsRateLimitError(err) {
			return nil, err
		}
		return nil, WrapError(err, "POST %s failed after %d attempts", url, t.maxRetries)
	}
	return raw, nil
}

// attempt performs a single POST. Terminal failures are wrapped in
// backoff.Permanent so the retry loop surfaces them immediately.
func (t *Transport) attempt(ctx context.Context, url string, headers map[string]string, payload []byte) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, WrapError(err, "failed to build request for %s", url)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, WrapError(err, "request to %s failed", url)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, WrapError(err, "failed to read response from %s", url)
	}

	status := resp.StatusCode
	switch {
	case status == http.StatusTooManyRequests || status == http.StatusRequestTimeout:
		return nil, backoff.Permanent(NewRateLimitError("rate limited or timeout: %d %s", status, truncateBody(data)))
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return nil, backoff.Permanent(NewAuthError("auth failed: %d %s", status, truncateBody(data)))
	case status >= 500 && status < 600:
		return nil, NewError("server error %d: %s", status, truncateBody(data))
	case status < 200 || status >= 300:
		return nil, NewError("unexpected status %d: %s", status, truncateBody(data))
	}

	if !json.Valid(data) {
		return nil, NewError("invalid JSON response from %s: %s", url, truncateBody(data))
	}
	return json.RawMessage(data), nil
}

// truncateBody bounds body text included in error messages.
func truncateBody(data []byte) string {
	r := []rune(string(data))
	if len(r) <= maxErrorBodyChars {
		return string(r)
	}
	return string(r[:maxErrorBodyChars])
}
