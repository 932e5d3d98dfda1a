package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/hearttalk-bot/internal/llm"
	"github.com/hearttalk-bot/internal/models"
	"github.com/joho/godotenv"
)

// apiKeyEnv maps each provider to the environment variable holding its credential
var apiKeyEnv = map[models.ProviderType]string{
	models.ProviderOpenAI:    "OPENAI_API_KEY",
	models.ProviderGemini:    "GEMINI_API_KEY",
	models.ProviderAnthropic: "ANTHROPIC_API_KEY",
}

// defaultModels holds the model used when LLM_MODEL is not set
var defaultModels = map[models.ProviderType]string{
	models.ProviderOpenAI:    "gpt-4o-mini",
	models.ProviderGemini:    "gemini-2.0-flash",
	models.ProviderAnthropic: "claude-3-5-haiku-latest",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report failures by environment variable name instead of Go field name
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := fld.Tag.Get("env"); name != "" {
			return name
		}
		return fld.Name
	})
	return v
}

// Load loads configuration from environment variables
// It first attempts to load from .env file, then reads environment variables
func Load() (*models.BotConfig, error) {
	// Try to load .env file (optional, ignore error if not found)
	_ = godotenv.Load()

	provider := models.ProviderType(strings.ToLower(getEnv("LLM_PROVIDER", string(models.ProviderOpenAI))))

	allowedChats, err := getEnvInt64List("ALLOWED_CHAT_IDS")
	if err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	maxTokens, err := getEnvInt32("LLM_MAX_TOKENS", 700)
	if err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	config := &models.BotConfig{
		// Telegram settings
		TelegramToken:  getEnv("TELEGRAM_BOT_TOKEN", getEnv("TELEGRAM_TOKEN", "")),
		AllowedChatIDs: allowedChats,
		APIEndpoint:    getEnv("TELEGRAM_API_ENDPOINT", ""),

		// Completion provider settings
		LLMProvider:    provider,
		LLMAPIKey:      getEnv(apiKeyEnv[provider], ""),
		LLMModel:       getEnv("LLM_MODEL", defaultModels[provider]),
		OpenAIBaseURL:  getEnv("OPENAI_BASE_URL", ""),
		LLMMaxTokens:   maxTokens,
		LLMTemperature: getEnvFloat32("LLM_TEMPERATURE", 0.7),
		LLMTimeout:     getEnvInt("LLM_TIMEOUT", 60),

		// Message handling
		SystemPrompt:   getEnv("SYSTEM_PROMPT", llm.DefaultSystemPrompt),
		MaxInputLength: getEnvInt("MAX_INPUT_LENGTH", 2000),

		// App settings
		LogLevel:    strings.ToLower(getEnv("LOG_LEVEL", "info")),
		Environment: getEnv("ENVIRONMENT", "production"),
	}

	// Validate configuration
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// validateConfig checks if all required configuration values are set
func validateConfig(cfg *models.BotConfig) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	// First failure wins, in field declaration order
	fe := validationErrs[0]
	name := fe.Field()
	if name == "LLM_API_KEY" {
		name = apiKeyEnv[cfg.LLMProvider]
	}

	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", name)
	case "oneof":
		return fmt.Errorf("%s must be one of: %s; got %v", name, strings.ReplaceAll(fe.Param(), " ", ", "), fe.Value())
	case "gt":
		return fmt.Errorf("%s must be positive, got %v", name, fe.Value())
	case "gte", "lte":
		return fmt.Errorf("%s must be between 0 and 2, got %v", name, fe.Value())
	case "url":
		return fmt.Errorf("%s must be a valid URL, got %v", name, fe.Value())
	default:
		return fmt.Errorf("%s failed %q validation", name, fe.Tag())
	}
}

// getEnv retrieves environment variable or returns default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves environment variable as integer or returns default value
func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

// getEnvInt32 retrieves environment variable as a 32-bit integer. Unlike
// getEnvInt it rejects values that do not fit instead of wrapping them.
func getEnvInt32(key string, defaultValue int32) (int32, error) {
	valueStr := strings.TrimSpace(os.Getenv(key))
	if valueStr == "" {
		return defaultValue, nil
	}

	value, err := strconv.ParseInt(valueStr, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer between %d and %d, got %q", key, math.MinInt32, math.MaxInt32, valueStr)
	}

	return int32(value), nil
}

// getEnvFloat32 retrieves environment variable as float32 or returns default value
func getEnvFloat32(key string, defaultValue float32) float32 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 32)
	if err != nil {
		return defaultValue
	}

	return float32(value)
}

// getEnvInt64List parses a comma-separated list of int64 values
func getEnvInt64List(key string) ([]int64, error) {
	valueStr := strings.TrimSpace(os.Getenv(key))
	if valueStr == "" {
		return nil, nil
	}

	var values []int64
	for _, part := range strings.Split(valueStr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		value, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s contains invalid chat ID %q: %w", key, part, err)
		}
		values = append(values, value)
	}

	return values, nil
}
