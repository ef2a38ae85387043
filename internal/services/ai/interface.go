// File: internal/services/ai/interface.go
package ai

import (
	"context"
	"time"
)

// PromptMessage is one turn of conversation context, oldest first.
type PromptMessage struct {
	Sender  string // "user" or "guru"
	Content string
}

// GenerationRequest carries the recent-message window plus the guru's
// persona configuration for a single completion.
type GenerationRequest struct {
	SystemPrompt string
	Messages     []PromptMessage
	Model        string
	Temperature  float32
	MaxTokens    int
	TopP         float32
}

// GenerationResult is the reply plus the metadata stored on the guru
// message.
type GenerationResult struct {
	Content        string
	Model          string
	Tokens         int
	ProcessingTime time.Duration
}

// CompletionProvider handles chat completions.
type CompletionProvider interface {
	Generate(ctx context.Context, req GenerationRequest) (*GenerationResult, error)
	HealthCheck(ctx context.Context) error
}

// ProviderStatus represents AI provider health.
type ProviderStatus struct {
	IsHealthy bool
	Message   string
}
