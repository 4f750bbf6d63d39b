// ABOUTME: OpenAIService cleans transcript chunks through the chat completions API
// ABOUTME: Provider parity with the Anthropic service, same prompts and pacing
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// DefaultOpenAIModel is the default chat model for transcript correction
const DefaultOpenAIModel = "gpt-4o"

// OpenAIService talks to the OpenAI chat completions API
type OpenAIService struct {
	client    *openai.Client
	model     string
	maxTokens int
	timeout   time.Duration
	prompts   *PromptBuilder
}

// NewOpenAIService creates an OpenAI-backed correction service
func NewOpenAIService(cfg ServiceConfig) (*OpenAIService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: set --api-key or OPENAI_API_KEY", ErrMissingAPIKey)
	}

	model := cfg.Model
	if model == "" {
		model = DefaultOpenAIModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	prompts := cfg.Prompts
	if prompts == nil {
		prompts = NewPromptBuilder("")
	}

	return &OpenAIService{
		client:    openai.NewClient(cfg.APIKey),
		model:     model,
		maxTokens: maxTokens,
		timeout:   cfg.Timeout,
		prompts:   prompts,
	}, nil
}

// Name identifies the provider and model in logs
func (s *OpenAIService) Name() string {
	return fmt.Sprintf("%s/%s", ProviderOpenAI, s.model)
}

// Clean sends one chunk for correction and returns the cleaned text. A
// failed request returns immediately; there are no retries.
func (s *OpenAIService) Clean(ctx context.Context, text, priorContext string) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: s.prompts.System(),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: s.prompts.User(text, priorContext),
			},
		},
		Temperature: correctionTemperature,
		MaxTokens:   s.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("openai request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	cleaned := strings.TrimSpace(resp.Choices[0].Message.Content)
	if cleaned == "" {
		return "", ErrEmptyResponse
	}
	return cleaned, nil
}
