package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/hearttalk-bot/internal/models"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"
)

// Client represents a Gemini LLM client
type Client struct {
	apiKey      string
	model       string
	timeout     time.Duration
	logger      zerolog.Logger
	clientOpts  []option.ClientOption
	genaiClient *genai.Client
	mu          sync.Mutex
}

// NewClient creates a new Gemini LLM client. opts are passed to the genai
// client after the API key, e.g. option.WithEndpoint for a proxy.
func NewClient(apiKey, model string, timeout time.Duration, logger zerolog.Logger, opts ...option.ClientOption) *Client {
	return &Client{
		apiKey:      apiKey,
		model:       model,
		timeout:     timeout,
		logger:      logger.With().Str("component", "llm").Str("provider", "gemini").Logger(),
		clientOpts:  opts,
		genaiClient: nil, // Will be created on first use
	}
}

// Name returns the provider name
func (c *Client) Name() string {
	return models.ProviderGemini.String()
}

// getClient returns or creates a genai client (thread-safe)
func (c *Client) getClient(ctx context.Context) (*genai.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.genaiClient != nil {
		return c.genaiClient, nil
	}

	opts := append([]option.ClientOption{option.WithAPIKey(c.apiKey)}, c.clientOpts...)
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	c.genaiClient = client
	c.logger.Info().Msg("Gemini client created and cached")
	return c.genaiClient, nil
}

// Close closes the LLM client and releases resources
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.genaiClient != nil {
		err := c.genaiClient.Close()
		c.genaiClient = nil
		if err != nil {
			c.logger.Error().Err(err).Msg("Failed to close Gemini client")
			return err
		}
		c.logger.Info().Msg("Gemini client closed")
	}
	return nil
}

// Complete makes a single GenerateContent call to Gemini
func (c *Client) Complete(ctx context.Context, req *models.CompletionRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	// Get or create Gemini client (reused across requests)
	client, err := c.getClient(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get genai client: %w", err)
	}

	model := client.GenerativeModel(c.model)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(req.SystemInstruction)},
	}
	model.SetTemperature(req.Temperature)
	model.SetMaxOutputTokens(req.MaxTokens)

	c.logger.Debug().
		Str("model", c.model).
		Int("input_length", len([]rune(req.UserText))).
		Msg("Sending request to LLM")

	resp, err := model.GenerateContent(ctx, genai.Text(req.UserText))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	text := candidateText(resp)
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyCompletion
	}

	return text, nil
}

// candidateText joins the text parts of the first candidate
func candidateText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}

	candidate := resp.Candidates[0]
	if candidate == nil || candidate.Content == nil {
		return ""
	}

	var responseText strings.Builder
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			responseText.WriteString(string(text))
		}
	}

	return responseText.String()
}
