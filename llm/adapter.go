package llm

import (
	"bytes"
	"context"
	"encoding/json"
)

// Adapter translates the normalized message list and config into one
// provider's wire format and parses the response back into a Result.
// Implementations are stateless; the only side effect is the network call
// delegated to the Transport.
type Adapter interface {
	Chat(ctx context.Context, cfg Config, messages []ChatMessage, transport *Transport) (*Result, error)
}

// RequireKey returns value or an auth error naming the missing field.
func RequireKey(value, name string) (string, error) {
	if value == "" {
		return "", NewAuthError("Missing %s", name)
	}
	return value, nil
}

// EnsureObject fails with a generic error if raw is not a JSON object.
func EnsureObject(raw json.RawMessage, providerName string) error {
	if !isJSONObject(raw) {
		return NewError("%s: expected JSON object, got %s", providerName, jsonKind(raw))
	}
	return nil
}

// SplitSystemMessage returns the content of the first system message (or
// "" and false if there is none) and the remaining messages in original
// order. Only the first system message is treated specially; any later
// ones stay in the remainder untouched.
func SplitSystemMessage(messages []ChatMessage) (string, bool, []ChatMessage) {
	var system string
	found := false
	rest := make([]ChatMessage, 0, len(messages))
	for _, msg := range messages {
		if msg.Role == RoleSystem && !found {
			system = msg.Content
			found = true
			continue
		}
		rest = append(rest, msg)
	}
	return system, found, rest
}

func isJSONObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '{'
}

// jsonKind names the top-level JSON type of raw, for error messages.
func jsonKind(raw json.RawMessage) string {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) == 0 {
		return "empty body"
	}
	switch trimmed[0] {
	case '[':
		return "array"
	case '"':
		return "string"
	case 't', 'f':
		return "boolean"
	case 'n':
		return "null"
	default:
		return "number"
	}
}
