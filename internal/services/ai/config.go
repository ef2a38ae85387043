// File: internal/services/ai/config.go
package ai

import (
	"fmt"
	"time"
)

type Config struct {
	// LLM Configuration
	LLMKey     string
	LLMBaseURL string

	// Performance Configuration
	Timeout time.Duration
}

func (c *Config) Validate() error {
	if c.LLMKey == "" {
		return fmt.Errorf("LLM_API_KEY is required")
	}
	if c.LLMBaseURL == "" {
		return fmt.Errorf("LLM_BASE_URL is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		LLMBaseURL: "https://api.groq.com/openai/v1",
		Timeout:    120 * time.Second,
	}
}
