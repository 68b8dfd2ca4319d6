package repo

import (
	"context"
	"errors"
	"time"

	"github.com/webexlabs/webex-ai-bot/internal/biz/domain"
)

// GenerateTimeout bounds a single LLM call. There is no mid-flight
// cancellation beyond this; the invoker performs no retries.
const GenerateTimeout = 30 * time.Second

// Provider failure taxonomy. Implementations wrap one of these so callers
// can classify with errors.Is.
var (
	// ErrProviderUnavailable means the backend could not be reached
	ErrProviderUnavailable = errors.New("llm provider unavailable")

	// ErrProviderTimeout means no response arrived within GenerateTimeout
	ErrProviderTimeout = errors.New("llm provider timeout")

	// ErrProviderError means the backend reported a failure
	ErrProviderError = errors.New("llm provider error")
)

// GenerateRequest carries everything needed for one LLM invocation
type GenerateRequest struct {
	SystemPrompt string
	Temperature  float32
	MaxTokens    int
	History      []domain.Turn // prior turns, oldest first
	Text         string        // the new user message
}

// LLMRepo is the language-model backend interface
type LLMRepo interface {
	// Generate sends the prompt and history to the backend and returns the
	// reply text. Fails with ErrProviderUnavailable, ErrProviderTimeout or
	// ErrProviderError.
	Generate(ctx context.Context, req *GenerateRequest) (string, error)

	// HealthCheck reports whether the backend is currently reachable
	HealthCheck(ctx context.Context) bool

	// ListModels lists available models. Returns (nil, nil) for backends
	// that don't support listing (cloud providers).
	ListModels(ctx context.Context) ([]string, error)
}
