package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/hearttalk-bot/internal/models"
	"github.com/openai/openai-go"
	openaiopt "github.com/openai/openai-go/option"
	"github.com/rs/zerolog"
)

// DefaultOpenAIBaseURL is used when no compatible endpoint is configured
const DefaultOpenAIBaseURL = "https://api.openai.com/v1"

// OpenAIClient calls the Chat Completions API of OpenAI or a compatible server
type OpenAIClient struct {
	client  openai.Client
	model   string
	baseURL string
	logger  zerolog.Logger
}

// NewOpenAIClient creates a Chat Completions client. baseURL must include the
// version prefix (for example http://localhost:11434/v1); empty selects the
// OpenAI endpoint. The SDK's built-in retries are switched off.
func NewOpenAIClient(apiKey, model, baseURL string, timeout time.Duration, logger zerolog.Logger, opts ...openaiopt.RequestOption) *OpenAIClient {
	if baseURL == "" {
		baseURL = DefaultOpenAIBaseURL
	}

	base := []openaiopt.RequestOption{
		openaiopt.WithAPIKey(apiKey),
		openaiopt.WithBaseURL(baseURL),
		openaiopt.WithMaxRetries(0),
		openaiopt.WithRequestTimeout(timeout),
	}
	return &OpenAIClient{
		client:  openai.NewClient(append(base, opts...)...),
		model:   model,
		baseURL: baseURL,
		logger:  logger.With().Str("component", "llm").Str("provider", "openai").Logger(),
	}
}

// Name returns the provider name
func (c *OpenAIClient) Name() string {
	return models.ProviderOpenAI.String()
}

// Close is a no-op for the HTTP based SDK
func (c *OpenAIClient) Close() error {
	return nil
}

// Complete sends the system instruction and one user turn
func (c *OpenAIClient) Complete(ctx context.Context, req *models.CompletionRequest) (string, error) {
	c.logger.Debug().
		Str("model", c.model).
		Str("base_url", c.baseURL).
		Int("input_length", len([]rune(req.UserText))).
		Msg("Sending request to LLM")

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.SystemInstruction),
			openai.UserMessage(req.UserText),
		},
		MaxTokens:   openai.Int(int64(req.MaxTokens)),
		Temperature: openai.Float(float64(req.Temperature)),
	})
	if err != nil {
		return "", fmt.Errorf("openai: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrEmptyCompletion
	}
	return resp.Choices[0].Message.Content, nil
}
