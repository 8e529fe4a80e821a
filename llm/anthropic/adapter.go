// Package anthropic implements the wire adapter for Anthropic-style
// messages APIs.
package anthropic

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/samber/lo"

	"github.com/cookbook-io/cookbook/llm"
)

// DefaultMaxTokens is sent when the config does not specify max tokens;
// the messages API requires the field.
const DefaultMaxTokens = 1024

// Adapter translates normalized messages to the Anthropic messages
// format. It is stateless and safe for concurrent use.
type Adapter struct{}

// messagesRequest is the request body for POST /v1/messages.
type messagesRequest struct {
	Model       string         `json:"model"`
	MaxTokens   int            `json:"max_tokens"`
	Temperature float64        `json:"temperature"`
	Messages    []messageParam `json:"messages"`
	System      string         `json:"system,omitempty"`
}

type messageParam struct {
	Role    string         `json:"role"`
	Content []contentParam `json:"content"`
}

type contentParam struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// messagesResponse is the subset of the response this adapter consumes.
// Content blocks stay raw so malformed elements can be skipped the way
// the API tolerates unknown block types.
type messagesResponse struct {
	Content *[]json.RawMessage `json:"content"`
	Usage   map[string]any     `json:"usage"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Chat implements llm.Adapter.
func (Adapter) Chat(ctx context.Context, cfg llm.Config, messages []llm.ChatMessage, transport *llm.Transport) (*llm.Result, error) {
	apiKey, err := llm.RequireKey(cfg.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	if err != nil {
		return nil, err
	}

	system, _, rest := llm.SplitSystemMessage(messages)

	headers := map[string]string{
		"x-api-key":         apiKey,
		"anthropic-version": cfg.AnthropicVersion,
		"content-type":      "application/json",
	}

	maxTokens := DefaultMaxTokens
	if cfg.MaxTokens != nil {
		maxTokens = *cfg.MaxTokens
	}

	payload := messagesRequest{
		Model:       cfg.Model,
		MaxTokens:   maxTokens,
		Temperature: cfg.Temperature,
		Messages:    lo.Map(rest, toMessageParam),
		System:      system,
	}

	raw, err := transport.Post(ctx, cfg.AnthropicURL(), headers, payload)
	if err != nil {
		return nil, err
	}
	if err := llm.EnsureObject(raw, "anthropic"); err != nil {
		return nil, err
	}

	var resp messagesResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, llm.WrapError(err, "anthropic: unexpected response format")
	}
	if resp.Content == nil {
		return nil, llm.NewError("anthropic: unexpected response format: content is not a list")
	}

	var sb strings.Builder
	for _, rawBlock := range *resp.Content {
		var block contentBlock
		if err := json.Unmarshal(rawBlock, &block); err != nil {
			// Non-object blocks are skipped, not fatal.
			continue
		}
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	return &llm.Result{
		Text:     strings.TrimSpace(sb.String()),
		Raw:      raw,
		Provider: string(llm.ProviderAnthropic),
		Model:    cfg.Model,
		Usage:    resp.Usage,
	}, nil
}

// toMessageParam converts one normalized message into the Anthropic block
// form. Roles other than user/assistant are coerced to user; the messages
// API accepts nothing else in the messages list.
func toMessageParam(msg llm.ChatMessage, _ int) messageParam {
	role := string(msg.Role)
	if role != "user" && role != "assistant" {
		role = "user"
	}
	return messageParam{
		Role:    role,
		Content: []contentParam{{Type: "text", Text: msg.Content}},
	}
}
