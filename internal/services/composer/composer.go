// File: internal/services/composer/composer.go
package composer

import (
	"context"
	"encoding/json"
	"errors"
	"os/exec"
	"strings"
)

// Chunk is one retrieved knowledge-base passage handed to the composer
// for grounding.
type Chunk struct {
	Text   string  `json:"text"`
	Source string  `json:"source"`
	Score  float64 `json:"score"`
}

// Result is the composer's JSON output. A non-empty Error field means
// composition failed inside the script even though the process exited 0.
type Result struct {
	TraceID   string  `json:"trace_id"`
	FinalText string  `json:"final_text"`
	Grounded  bool    `json:"grounded"`
	Score     float64 `json:"score"`
	Error     string  `json:"error,omitempty"`
}

// Runner executes the composer subprocess and returns its stdout. It is
// injectable so tests never spawn a real interpreter.
type Runner func(ctx context.Context, bin string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, bin string, args ...string) ([]byte, error) {
	// CommandContext kills the process when the context expires; that is
	// the only cancellation semantic this side-channel has.
	return exec.CommandContext(ctx, bin, args...).Output()
}

// Service wraps the Python text-composition script as an opaque
// collaborator: JSON in via argv, JSON out via stdout, hard timeout.
type Service struct {
	config *Config
	run    Runner
}

func NewService(config *Config) (*Service, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, NewValidationError("constructor", err.Error())
	}
	return &Service{config: config, run: execRunner}, nil
}

// NewServiceWithRunner is used by tests to stub the subprocess.
func NewServiceWithRunner(config *Config, run Runner) (*Service, error) {
	svc, err := NewService(config)
	if err != nil {
		return nil, err
	}
	svc.run = run
	return svc, nil
}

// Compose runs one composition. Arguments mirror the script's CLI:
// trace_id, extractive_answer, top_chunks_json, lang.
func (s *Service) Compose(ctx context.Context, traceID, extractiveAnswer string, topChunks []Chunk, lang string) (*Result, error) {
	if strings.TrimSpace(extractiveAnswer) == "" {
		return nil, NewValidationError("compose", "extractive answer is required")
	}
	if len(topChunks) == 0 {
		return nil, NewValidationError("compose", "at least one chunk is required")
	}
	if lang == "" {
		lang = "EN"
	}

	chunksJSON, err := json.Marshal(topChunks)
	if err != nil {
		return nil, NewValidationError("compose", "could not encode chunks")
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	out, err := s.run(ctx, s.config.PythonBin, s.config.ScriptPath, traceID, extractiveAnswer, string(chunksJSON), lang)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, &ComposerError{
				Type:      ErrTypeTimeout,
				Operation: "compose",
				Message:   "composer subprocess timed out",
				TraceID:   traceID,
				Cause:     err,
			}
		}
		return nil, NewDependencyError("compose", "composer subprocess failed", err)
	}

	var result Result
	if err := json.Unmarshal(out, &result); err != nil {
		return nil, NewDependencyError("compose", "invalid composer output", err)
	}
	if result.Error != "" {
		return nil, NewDependencyError("compose", result.Error, nil)
	}

	return &result, nil
}
