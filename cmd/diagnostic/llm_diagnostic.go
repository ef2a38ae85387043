// File: cmd/diagnostic/llm_diagnostic.go
//
// Standalone probe for the two external dependencies: the LLM endpoint
// and the Python composer script. Run it before deploying to a new
// environment.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/uniguru/uniguru-server/internal/config"
	"github.com/uniguru/uniguru-server/internal/services/ai"
	"github.com/uniguru/uniguru-server/internal/services/composer"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}
	cfg := config.Load()

	if cfg.LLMAPIKey == "" {
		log.Fatal("LLM_API_KEY not set in environment")
	}

	fmt.Println("--- LLM probe ---")
	provider := ai.NewOpenAIProvider(&ai.Config{
		LLMKey:     cfg.LLMAPIKey,
		LLMBaseURL: cfg.LLMBaseURL,
		Timeout:    30 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result, err := provider.Generate(ctx, ai.GenerationRequest{
		SystemPrompt: "You are a concise assistant.",
		Messages:     []ai.PromptMessage{{Sender: "user", Content: "Reply with the single word: pong"}},
		Model:        "llama3-8b-8192",
		Temperature:  0,
		MaxTokens:    16,
		TopP:         1,
	})
	if err != nil {
		log.Fatalf("LLM probe failed: %v", err)
	}
	fmt.Printf("LLM ok: %q (%d tokens, %s)\n", result.Content, result.Tokens, result.ProcessingTime)

	fmt.Println("--- Composer probe ---")
	composerService, err := composer.NewService(&composer.Config{
		PythonBin:  cfg.ComposerPythonBin,
		ScriptPath: cfg.ComposerScriptPath,
		Timeout:    cfg.ComposerTimeout,
	})
	if err != nil {
		log.Fatalf("Composer init failed: %v", err)
	}

	composed, err := composerService.Compose(context.Background(), "diagnostic",
		"The capital of France is Paris.",
		[]composer.Chunk{{Text: "Paris is the capital and largest city of France.", Source: "probe", Score: 0.99}},
		"EN")
	if err != nil {
		log.Fatalf("Composer probe failed: %v", err)
	}
	fmt.Printf("Composer ok: grounded=%v score=%.2f text=%q\n", composed.Grounded, composed.Score, composed.FinalText)
}
