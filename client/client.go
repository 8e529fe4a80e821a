// Package client provides the unified chat-completion client. It owns one
// immutable configuration and one retrying Transport, and dispatches every
// call to the adapter matching the configured provider.
package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/cookbook-io/cookbook/llm"
	"github.com/cookbook-io/cookbook/llm/anthropic"
	"github.com/cookbook-io/cookbook/llm/ollama"
	"github.com/cookbook-io/cookbook/llm/openai"
)

// Input sizing limits. Text handed to the convenience operations is
// truncated to these character counts before being sent.
const (
	// MaxContentLengthForAI bounds input for summaries and sentiment.
	MaxContentLengthForAI = 2000
	// MaxContentLengthForTags bounds input for tag extraction.
	MaxContentLengthForTags = 1000
)

// Client is the provider-agnostic LLM client. It is safe for concurrent
// callers; all per-call state lives on the stack.
type Client struct {
	cfg       llm.Config
	transport *llm.Transport
	adapters  map[llm.Provider]llm.Adapter
}

// New creates a Client for the given configuration. The Transport and its
// connection pool live for the lifetime of the Client.
func New(cfg llm.Config) *Client {
	return &Client{
		cfg:       cfg,
		transport: llm.NewTransport(cfg.TimeoutS, cfg.MaxRetries),
		adapters: map[llm.Provider]llm.Adapter{
			llm.ProviderOpenAI:    openai.Adapter{},
			llm.ProviderAnthropic: anthropic.Adapter{},
			llm.ProviderOllama:    ollama.Adapter{},
		},
	}
}

// FromEnv creates a Client configured from environment variables.
func FromEnv() (*Client, error) {
	cfg, err := llm.ConfigFromEnv()
	if err != nil {
		return nil, err
	}
	return New(cfg), nil
}

// Config returns the client's configuration.
func (c *Client) Config() llm.Config {
	return c.cfg
}

// Transport returns the client's transport, mainly so callers can attach
// a logger during setup.
func (c *Client) Transport() *llm.Transport {
	return c.transport
}

// Chat sends the messages to the configured provider and returns the
// normalized result.
func (c *Client) Chat(ctx context.Context, messages []llm.ChatMessage) (*llm.Result, error) {
	adapter, ok := c.adapters[c.cfg.Provider]
	if !ok {
		return nil, llm.NewError("unsupported provider: %s", c.cfg.Provider)
	}
	return adapter.Chat(ctx, c.cfg, messages, c.transport)
}

// Summarize produces a summary of text in the given style, e.g. "concise",
// "bullet-point", or "detailed". Input longer than the AI content limit
// is truncated before being sent.
func (c *Client) Summarize(ctx context.Context, text, style string) (string, error) {
	content := truncate(text, MaxContentLengthForAI)

	messages := []llm.ChatMessage{
		llm.SystemMessage(fmt.Sprintf("Summarize the following text in a %s manner.", style)),
		llm.UserMessage(content),
	}

	result, err := c.Chat(ctx, messages)
	if err != nil {
		return "", err
	}
	return result.Text, nil
}

// ExtractTags asks the model for up to maxTags tags, one per line, and
// parses them from the response. Blank lines are dropped and the list is
// capped at maxTags regardless of how many the model returned.
func (c *Client) ExtractTags(ctx context.Context, text string, maxTags int) ([]string, error) {
	content := truncate(text, MaxContentLengthForTags)

	messages := []llm.ChatMessage{
		llm.SystemMessage(fmt.Sprintf("Extract up to %d relevant tags from the text. Return only the tags, one per line.", maxTags)),
		llm.UserMessage(content),
	}

	result, err := c.Chat(ctx, messages)
	if err != nil {
		return nil, err
	}

	tags := lo.FilterMap(strings.Split(result.Text, "\n"), func(line string, _ int) (string, bool) {
		tag := strings.TrimSpace(line)
		return tag, tag != ""
	})
	if len(tags) > maxTags {
		tags = tags[:maxTags]
	}
	return tags, nil
}

// AnalyzeSentiment classifies the sentiment of text. The model is asked
// to answer with exactly positive, negative, or neutral; the reply is
// trimmed and lowercased but deliberately not validated against that set.
func (c *Client) AnalyzeSentiment(ctx context.Context, text string) (string, error) {
	content := truncate(text, MaxContentLengthForAI)

	messages := []llm.ChatMessage{
		llm.SystemMessage("Analyze the sentiment of the following text. Respond with just: positive, negative, or neutral."),
		llm.UserMessage(content),
	}

	result, err := c.Chat(ctx, messages)
	if err != nil {
		return "", err
	}
	return strings.ToLower(strings.TrimSpace(result.Text)), nil
}

// truncate bounds s to max characters.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
