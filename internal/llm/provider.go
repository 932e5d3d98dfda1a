package llm

import (
	"errors"
	"fmt"
	"time"

	"github.com/hearttalk-bot/internal/models"
	"github.com/rs/zerolog"
)

// ErrEmptyCompletion is returned when the provider answered without any text
var ErrEmptyCompletion = errors.New("empty completion")

// NewProvider builds the completion backend selected in the configuration
func NewProvider(cfg *models.BotConfig, logger zerolog.Logger) (Provider, error) {
	timeout := time.Duration(cfg.LLMTimeout) * time.Second

	switch cfg.LLMProvider {
	case models.ProviderOpenAI:
		return NewOpenAIClient(cfg.LLMAPIKey, cfg.LLMModel, cfg.OpenAIBaseURL, timeout, logger), nil
	case models.ProviderGemini:
		return NewClient(cfg.LLMAPIKey, cfg.LLMModel, timeout, logger), nil
	case models.ProviderAnthropic:
		return NewAnthropicClient(cfg.LLMAPIKey, cfg.LLMModel, timeout, logger), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLMProvider)
	}
}
