package llm

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorKindPredicates(t *testing.T) {
	authErr := NewAuthError("Missing %s", "OPENAI_API_KEY")
	if !IsAuthError(authErr) {
		t.Error("expected IsAuthError to return true for auth error")
	}
	if IsRateLimitError(authErr) || IsGenericError(authErr) {
		t.Error("expected auth error to match only the auth kind")
	}
	if authErr.Error() != "Missing OPENAI_API_KEY" {
		t.Errorf("unexpected message: %q", authErr.Error())
	}

	limitErr := NewRateLimitError("rate limited or timeout: %d", 429)
	if !IsRateLimitError(limitErr) {
		t.Error("expected IsRateLimitError to return true for rate-limit error")
	}

	genErr := NewError("unsupported provider: %s", "gemini")
	if !IsGenericError(genErr) {
		t.Error("expected IsGenericError to return true for generic error")
	}
}

func TestErrorWrapping(t *testing.T) {
	cause := errors.New("connection refused")
	err := WrapError(cause, "request to %s failed", "http://localhost:1")

	if !errors.Is(err, cause) {
		t.Error("expected wrapped error to match cause via errors.Is")
	}
	if err.Error() != "request to http://localhost:1 failed: connection refused" {
		t.Errorf("unexpected message: %q", err.Error())
	}

	// Predicates see through further wrapping.
	wrapped := fmt.Errorf("outer: %w", err)
	if !IsGenericError(wrapped) {
		t.Error("expected IsGenericError to see through wrapping")
	}
}

func TestPredicatesOnForeignError(t *testing.T) {
	err := errors.New("plain error")
	if IsAuthError(err) || IsRateLimitError(err) || IsGenericError(err) {
		t.Error("expected plain errors to match no kind")
	}
}
