// ABOUTME: AnthropicService cleans transcript chunks through the Anthropic Messages API
// ABOUTME: Wraps the langchaingo client with the correction prompts
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
)

// DefaultAnthropicModel is the default model for transcript correction
const DefaultAnthropicModel = "claude-sonnet-4-20250514"

// AnthropicService talks to the Anthropic Messages API
type AnthropicService struct {
	model     llms.Model
	modelName string
	maxTokens int
	timeout   time.Duration
	prompts   *PromptBuilder
}

// NewAnthropicService creates an Anthropic-backed correction service
func NewAnthropicService(cfg ServiceConfig) (*AnthropicService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: set --api-key or ANTHROPIC_API_KEY", ErrMissingAPIKey)
	}

	modelName := cfg.Model
	if modelName == "" {
		modelName = DefaultAnthropicModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	prompts := cfg.Prompts
	if prompts == nil {
		prompts = NewPromptBuilder("")
	}

	client, err := anthropic.New(
		anthropic.WithToken(cfg.APIKey),
		anthropic.WithModel(modelName),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create anthropic client: %w", err)
	}

	return &AnthropicService{
		model:     client,
		modelName: modelName,
		maxTokens: maxTokens,
		timeout:   cfg.Timeout,
		prompts:   prompts,
	}, nil
}

// Name identifies the provider and model in logs
func (s *AnthropicService) Name() string {
	return fmt.Sprintf("%s/%s", ProviderAnthropic, s.modelName)
}

// Clean sends one chunk for correction and returns the cleaned text. A
// failed request returns immediately; there are no retries.
func (s *AnthropicService) Clean(ctx context.Context, text, priorContext string) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, s.prompts.System()),
		llms.TextParts(llms.ChatMessageTypeHuman, s.prompts.User(text, priorContext)),
	}

	resp, err := s.model.GenerateContent(ctx, messages,
		llms.WithTemperature(correctionTemperature),
		llms.WithMaxTokens(s.maxTokens),
	)
	if err != nil {
		return "", fmt.Errorf("anthropic request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	cleaned := strings.TrimSpace(resp.Choices[0].Content)
	if cleaned == "" {
		return "", ErrEmptyResponse
	}
	return cleaned, nil
}
