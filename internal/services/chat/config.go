// File: internal/services/chat/config.go
package chat

import (
	"fmt"
	"time"
)

type Config struct {
	// HistoryWindow is how many recent messages are handed to the LLM as
	// conversation context.
	HistoryWindow int

	// Message and title bounds.
	MaxMessageLength int
	MaxTitleLength   int

	// AutoTitleLength is how many leading characters of the first user
	// message become the chat title when auto-titling fires.
	AutoTitleLength int

	// Timeout bounds the LLM call for a single message.
	Timeout time.Duration
}

func (c *Config) Validate() error {
	if c.HistoryWindow <= 0 {
		return fmt.Errorf("history_window must be positive")
	}
	if c.HistoryWindow > 100 {
		return fmt.Errorf("history_window cannot exceed 100")
	}
	if c.MaxMessageLength <= 0 {
		return fmt.Errorf("max_message_length must be positive")
	}
	if c.AutoTitleLength <= 0 {
		return fmt.Errorf("auto_title_length must be positive")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		HistoryWindow:    10,
		MaxMessageLength: 10000,
		MaxTitleLength:   200,
		AutoTitleLength:  50,
		Timeout:          120 * time.Second,
	}
}
