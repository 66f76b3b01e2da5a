package generator

import (
	"context"
	"fmt"
	"time"
)

// LLMClient abstracts the text-generation backend so it can be swapped or mocked.
type LLMClient interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

// LLMSettings is the base configuration handed to concrete clients.
type LLMSettings struct {
	Provider    string
	Model       string
	APIKey      string
	BaseURL     string
	Temperature float64
	MaxTokens   int
	MaxRetries  int
	Timeout     time.Duration
}

// GenerationError reports a failed call to the generation backend.
type GenerationError struct {
	Prompt string
	Err    error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed for %s prompt: %v", e.Prompt, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// ModelName reports the model behind c when it exposes one.
func ModelName(c LLMClient) string {
	if n, ok := c.(interface{ Name() string }); ok {
		return n.Name()
	}
	return "unknown"
}
