// ABOUTME: CorrectionService is the seam between chunk processing and LLM providers
// ABOUTME: Implementations clean exactly one transcript segment per call
package llm

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Provider names accepted by NewService
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

// correctionTemperature is zero for deterministic correction output
const correctionTemperature = 0.0

// defaultMaxTokens bounds the response when the caller does not set one
const defaultMaxTokens = 16000

var (
	// ErrMissingAPIKey means no API key was found in flags, config file, or environment
	ErrMissingAPIKey = errors.New("missing API key")
	// ErrEmptyResponse means the provider returned no usable text
	ErrEmptyResponse = errors.New("empty response from correction service")
)

// CorrectionService cleans one transcript chunk at a time. priorContext is
// the tail of the previous cleaned chunk and is empty for the first chunk.
// Implementations make exactly one request per call and never retry.
type CorrectionService interface {
	Clean(ctx context.Context, text, priorContext string) (string, error)
	Name() string
}

// ServiceConfig holds provider settings for building a correction service
type ServiceConfig struct {
	Provider  string
	APIKey    string
	Model     string
	MaxTokens int
	Timeout   time.Duration
	Prompts   *PromptBuilder
}

// NewService builds the correction service for the configured provider
func NewService(cfg ServiceConfig) (CorrectionService, error) {
	switch cfg.Provider {
	case ProviderAnthropic:
		return NewAnthropicService(cfg)
	case ProviderOpenAI:
		return NewOpenAIService(cfg)
	default:
		return nil, fmt.Errorf("unknown provider %q (supported: %s, %s)",
			cfg.Provider, ProviderAnthropic, ProviderOpenAI)
	}
}

// DefaultModel returns the model a provider uses when none is configured.
// Checkpoints record this resolved name so a resumed run can detect a
// model change.
func DefaultModel(provider string) string {
	if provider == ProviderOpenAI {
		return DefaultOpenAIModel
	}
	return DefaultAnthropicModel
}
