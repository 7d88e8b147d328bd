// Package llm wraps the opaque text-generation backend behind a uniform
// call-and-parse interface. Each pipeline stage binds its own Invoker to a
// fixed GenerationConfig, so temperature and model never leak across stages.
package llm

import (
	"context"
	"io"
	"time"
)

// MaxErrorBodySize limits how much of an error response body is read (1MB).
// Prevents memory exhaustion from malformed error responses.
const MaxErrorBodySize = 1 * 1024 * 1024

// readLimitedBody reads up to maxBytes from r.
func readLimitedBody(r io.Reader, maxBytes int64) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r, maxBytes))
}

// Provider is the opaque generation backend: prompt in, text out.
type Provider interface {
	// Chat sends a request and returns the response.
	Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error)

	// Name returns the provider identifier.
	Name() string
}

// GenerationConfig is the fixed sampling configuration bound to one pipeline
// stage at construction. Never mutated mid-session.
type GenerationConfig struct {
	// Model is the model identifier sent to the backend.
	Model string

	// Temperature controls randomness. Always serialized, so 0.0 really pins
	// deterministic sampling instead of falling back to a backend default.
	Temperature float64

	// MaxTokens limits response length.
	MaxTokens int

	// Timeout bounds one backend call.
	Timeout time.Duration
}

// DeterministicConfig returns the cheap low-temperature configuration used for
// classification and query extraction.
func DeterministicConfig(model string) GenerationConfig {
	return GenerationConfig{
		Model:       model,
		Temperature: 0.0,
		MaxTokens:   256,
		Timeout:     30 * time.Second,
	}
}

// CreativeConfig returns the higher-temperature configuration used for final
// response generation.
func CreativeConfig(model string) GenerationConfig {
	return GenerationConfig{
		Model:       model,
		Temperature: 0.7,
		MaxTokens:   2048,
		Timeout:     2 * time.Minute,
	}
}

// ChatRequest represents one generation call.
type ChatRequest struct {
	Model        string    `json:"model"`
	SystemPrompt string    `json:"system_prompt,omitempty"`
	Messages     []Message `json:"messages"`
	MaxTokens    int       `json:"max_tokens,omitempty"`
	Temperature  float64   `json:"temperature"`
}

// Message represents a conversation message.
type Message struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

// ChatResponse contains the backend's reply.
type ChatResponse struct {
	Content      string        `json:"content"`
	Model        string        `json:"model"`
	TokensUsed   int           `json:"tokens_used,omitempty"`
	Duration     time.Duration `json:"duration"`
	FinishReason string        `json:"finish_reason,omitempty"`
}
