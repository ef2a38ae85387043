// File: internal/services/ai/openai_provider.go
package ai

import (
	"context"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/uniguru/uniguru-server/internal/domain"
)

// OpenAIProvider talks to any OpenAI-compatible completion endpoint
// (Groq in production) through the go-openai client.
type OpenAIProvider struct {
	config    *Config
	llmClient *openai.Client
}

func NewOpenAIProvider(config *Config) *OpenAIProvider {
	llmConfig := openai.DefaultConfig(config.LLMKey)
	if config.LLMBaseURL != "" {
		llmConfig.BaseURL = config.LLMBaseURL
	}

	return &OpenAIProvider{
		config:    config,
		llmClient: openai.NewClientWithConfig(llmConfig),
	}
}

// Generate runs one completion over the recent-message window. The guru
// system prompt leads, then the window in original order.
func (p *OpenAIProvider) Generate(ctx context.Context, req GenerationRequest) (*GenerationResult, error) {
	if len(req.Messages) == 0 {
		return nil, &AIError{Type: ErrTypeValidation, Operation: "generate", Message: "no messages to send"}
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)
	if req.SystemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.SystemPrompt,
		})
	}
	for _, m := range req.Messages {
		role := openai.ChatMessageRoleUser
		if m.Sender == domain.SenderGuru {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}

	ctx, cancel := context.WithTimeout(ctx, p.config.Timeout)
	defer cancel()

	start := time.Now()
	resp, err := p.llmClient.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		TopP:        req.TopP,
	})
	if err != nil {
		return nil, NewProviderError("completion", "failed to create completion", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, &AIError{
			Type:      ErrTypeProvider,
			Operation: "completion",
			Message:   "empty completion response",
			Model:     req.Model,
		}
	}

	return &GenerationResult{
		Content:        resp.Choices[0].Message.Content,
		Model:          resp.Model,
		Tokens:         resp.Usage.TotalTokens,
		ProcessingTime: time.Since(start),
	}, nil
}

func (p *OpenAIProvider) HealthCheck(ctx context.Context) error {
	return nil
}

func (p *OpenAIProvider) GetStatus(ctx context.Context) ProviderStatus {
	return ProviderStatus{IsHealthy: true, Message: "LLM provider healthy"}
}
