// Package openai implements the wire adapter for OpenAI-style chat
// completion APIs.
package openai

import (
	"context"
	"encoding/json"

	"github.com/cookbook-io/cookbook/llm"
)

// Adapter translates normalized messages to the OpenAI chat completions
// format. It is stateless and safe for concurrent use.
type Adapter struct{}

// chatRequest is the request body for POST /v1/chat/completions.
type chatRequest struct {
	Model       string            `json:"model"`
	Messages    []llm.ChatMessage `json:"messages"`
	Temperature float64           `json:"temperature"`
	MaxTokens   *int              `json:"max_tokens,omitempty"`
}

// chatResponse is the subset of the response this adapter consumes.
// Pointer fields distinguish absent keys from zero values so a malformed
// response is detected instead of silently read as empty.
type chatResponse struct {
	Choices []choice       `json:"choices"`
	Usage   map[string]any `json:"usage"`
}

type choice struct {
	Message *choiceMessage `json:"message"`
}

type choiceMessage struct {
	Content *string `json:"content"`
}

// Chat implements llm.Adapter.
func (Adapter) Chat(ctx context.Context, cfg llm.Config, messages []llm.ChatMessage, transport *llm.Transport) (*llm.Result, error) {
	apiKey, err := llm.RequireKey(cfg.OpenAIAPIKey, "OPENAI_API_KEY")
	if err != nil {
		return nil, err
	}

	headers := map[string]string{
		"Authorization": "Bearer " + apiKey,
		"Content-Type":  "application/json",
	}

	payload := chatRequest{
		Model:       cfg.Model,
		Messages:    messages,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	}

	raw, err := transport.Post(ctx, cfg.OpenAIURL(), headers, payload)
	if err != nil {
		return nil, err
	}
	if err := llm.EnsureObject(raw, "openai"); err != nil {
		return nil, err
	}

	var resp chatResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, llm.WrapError(err, "openai: unexpected response format")
	}
	if len(resp.Choices) == 0 {
		return nil, llm.NewError("openai: unexpected response format: missing choices")
	}
	msg := resp.Choices[0].Message
	if msg == nil || msg.Content == nil {
		return nil, llm.NewError("openai: unexpected response format: missing message content")
	}

	return &llm.Result{
		Text:     *msg.Content,
		Raw:      raw,
		Provider: string(llm.ProviderOpenAI),
		Model:    cfg.Model,
		Usage:    resp.Usage,
	}, nil
}
