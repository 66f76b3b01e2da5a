package generator

import (
	"context"
	"errors"

	"auto_blog_article_writer/logger"
)

// Policy decides what a failed generation call means for the caller.
type Policy int

const (
	// Fatal failures are returned to the caller as *GenerationError.
	Fatal Policy = iota
	// Recoverable failures are logged and replaced by the caller's fallback.
	Recoverable
)

func (p Policy) String() string {
	if p == Recoverable {
		return "recoverable"
	}
	return "fatal"
}

// Agent sends prompts to the LLM and applies the per-call failure policy.
type Agent struct {
	llm LLMClient
	log *logger.Logger
}

func NewAgent(llm LLMClient, log *logger.Logger) (*Agent, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Agent{llm: llm, log: log}, nil
}

// Model names the model used for generation.
func (a *Agent) Model() string {
	return ModelName(a.llm)
}

// Generate completes prompt. Under Recoverable a failure yields fallback and
// a nil error; under Fatal it yields a *GenerationError and fallback is unused.
func (a *Agent) Generate(ctx context.Context, prompt Prompt, policy Policy, fallback string) (string, error) {
	raw, err := a.llm.Complete(ctx, prompt)
	if err == nil {
		a.log.Debug("generation complete", "prompt", prompt.Name, "chars", len(raw))
		return raw, nil
	}

	genErr := &GenerationError{Prompt: prompt.Name, Err: err}
	if policy == Recoverable {
		a.log.Warn("generation failed, using fallback", "prompt", prompt.Name, "error", err)
		return fallback, nil
	}
	a.log.Error("generation failed", "prompt", prompt.Name, "policy", policy.String(), "error", err)
	return "", genErr
}
