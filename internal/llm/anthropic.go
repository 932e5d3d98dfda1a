package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	anthropicopt "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/hearttalk-bot/internal/models"
	"github.com/rs/zerolog"
)

// AnthropicClient calls the Anthropic Messages API
type AnthropicClient struct {
	client anthropic.Client
	model  string
	logger zerolog.Logger
}

// NewAnthropicClient creates a Messages API client. The SDK's built-in retries
// are switched off; a failed request goes straight to the caller.
func NewAnthropicClient(apiKey, model string, timeout time.Duration, logger zerolog.Logger, opts ...anthropicopt.RequestOption) *AnthropicClient {
	base := []anthropicopt.RequestOption{
		anthropicopt.WithAPIKey(apiKey),
		anthropicopt.WithMaxRetries(0),
		anthropicopt.WithRequestTimeout(timeout),
	}
	return &AnthropicClient{
		client: anthropic.NewClient(append(base, opts...)...),
		model:  model,
		logger: logger.With().Str("component", "llm").Str("provider", "anthropic").Logger(),
	}
}

// Name returns the provider name
func (a *AnthropicClient) Name() string {
	return models.ProviderAnthropic.String()
}

// Close is a no-op for the HTTP based SDK
func (a *AnthropicClient) Close() error {
	return nil
}

// Complete sends one user turn with the system instruction
func (a *AnthropicClient) Complete(ctx context.Context, req *models.CompletionRequest) (string, error) {
	a.logger.Debug().
		Str("model", a.model).
		Int("input_length", len([]rune(req.UserText))).
		Msg("Sending request to LLM")

	resp, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: int64(req.MaxTokens),
		System: []anthropic.TextBlockParam{
			{Text: req.SystemInstruction},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.UserText)),
		},
		Temperature: anthropic.Float(float64(req.Temperature)),
	})
	if err != nil {
		return "", fmt.Errorf("anthropic: %w", err)
	}

	for _, block := range resp.Content {
		if strings.TrimSpace(block.Text) != "" {
			return block.Text, nil
		}
	}
	return "", ErrEmptyCompletion
}
