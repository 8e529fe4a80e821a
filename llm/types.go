package llm

import (
	"encoding/json"
)

// MessageRole represents the role of a message in a conversation.
type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// ChatMessage is the provider-neutral message format. The JSON encoding of
// this struct is also the wire shape sent to the OpenAI and Ollama chat
// endpoints, so the field tags are part of the protocol.
type ChatMessage struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content"`
}

// NewMessage creates a ChatMessage with the given role and content.
func NewMessage(role MessageRole, content string) ChatMessage {
	return ChatMessage{Role: role, Content: content}
}

// SystemMessage creates a system-role message.
func SystemMessage(content string) ChatMessage {
	return NewMessage(RoleSystem, content)
}

// UserMessage creates a user-role message.
func UserMessage(content string) ChatMessage {
	return NewMessage(RoleUser, content)
}

// AssistantMessage creates an assistant-role message.
func AssistantMessage(content string) ChatMessage {
	return NewMessage(RoleAssistant, content)
}

// Result is the normalized outcome of a chat call, identical in shape
// across providers.
type Result struct {
	// Text is the primary output. Always set, possibly empty.
	Text string

	// Raw is the full provider response body, kept for diagnostics.
	Raw json.RawMessage

	// Provider and Model identify which backend produced the result.
	Provider string
	Model    string

	// Usage is the provider's token/eval accounting, if any. The shape is
	// provider-specific and passed through unmodified.
	Usage map[string]any
}
