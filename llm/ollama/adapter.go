// Package ollama implements the wire adapter for the Ollama chat API.
// Ollama is the local-first default and requires no credentials.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/cookbook-io/cookbook/llm"
)

// Adapter translates normalized messages to the Ollama chat format.
// It is stateless and safe for concurrent use.
type Adapter struct{}

// chatRequest is the request body for POST /api/chat. Streaming is
// always disabled; this client consumes complete responses only.
type chatRequest struct {
	Model    string            `json:"model"`
	Messages []llm.ChatMessage `json:"messages"`
	Stream   bool              `json:"stream"`
	Options  chatOptions       `json:"options"`
}

type chatOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  *int    `json:"num_predict,omitempty"`
}

// chatResponse is the subset of the response this adapter consumes. The
// message stays raw so an absent message can be told apart from a present
// but malformed one.
type chatResponse struct {
	Message   json.RawMessage `json:"message"`
	EvalCount *int            `json:"eval_count"`
}

type chatMessage struct {
	Content *string `json:"content"`
}

// Chat implements llm.Adapter.
func (Adapter) Chat(ctx context.Context, cfg llm.Config, messages []llm.ChatMessage, transport *llm.Transport) (*llm.Result, error) {
	payload := chatRequest{
		Model:    cfg.Model,
		Messages: messages,
		Stream:   false,
		Options: chatOptions{
			Temperature: cfg.Temperature,
			NumPredict:  cfg.MaxTokens,
		},
	}

	raw, err := transport.Post(ctx, cfg.OllamaURL(), nil, payload)
	if err != nil {
		return nil, err
	}
	if err := llm.EnsureObject(raw, "ollama"); err != nil {
		return nil, err
	}

	var resp chatResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, llm.WrapError(err, "ollama: unexpected response format")
	}

	// An absent message or absent content resolves to empty text. A
	// message that is present but not an object is a parse error.
	text := ""
	if len(resp.Message) > 0 {
		if bytes.Equal(bytes.TrimSpace(resp.Message), []byte("null")) {
			return nil, llm.NewError("ollama: unexpected response format: message is not an object")
		}
		var msg chatMessage
		if err := json.Unmarshal(resp.Message, &msg); err != nil {
			return nil, llm.WrapError(err, "ollama: unexpected response format: message is not an object")
		}
		if msg.Content != nil {
			text = *msg.Content
		}
	}

	usage := map[string]any{"eval_count": nil}
	if resp.EvalCount != nil {
		usage["eval_count"] = *resp.EvalCount
	}

	return &llm.Result{
		Text:     text,
		Raw:      raw,
		Provider: string(llm.ProviderOllama),
		Model:    cfg.Model,
		Usage:    usage,
	}, nil
}
