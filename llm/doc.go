// Package llm provides a provider-neutral abstraction for chat-completion
// APIs.
//
// It defines the common types (ChatMessage, Result, Config), the shared
// error taxonomy, and the retrying HTTP Transport used by every provider
// adapter. Provider-specific wire formats live in the subpackages
// llm/openai, llm/anthropic, and llm/ollama; the client package ties a
// Config, a Transport, and the adapters together behind one façade.
//
// # Errors
//
// Every failure at this layer is an *Error with one of three kinds:
// auth (missing or rejected credentials, never retried), rate_limit
// (HTTP 429/408, never retried by the Transport), or generic (everything
// else, including exhausted retries and malformed responses). Use
// IsAuthError and IsRateLimitError to classify failures across layers.
//
// # Extension points
//
// To add a provider: implement the Adapter interface in a new subpackage,
// add a Provider constant, and register the adapter in the client façade's
// dispatch map. Nothing else changes.
package llm
