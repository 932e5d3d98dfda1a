package models

// ProviderType identifies the completion backend
type ProviderType string

const (
	// ProviderOpenAI uses the OpenAI Chat Completions API (or a compatible endpoint)
	ProviderOpenAI ProviderType = "openai"

	// ProviderGemini uses Google Gemini through the genai SDK
	ProviderGemini ProviderType = "gemini"

	// ProviderAnthropic uses the Anthropic Messages API
	ProviderAnthropic ProviderType = "anthropic"
)

// String returns string representation of ProviderType
func (p ProviderType) String() string {
	return string(p)
}

// IncomingMessage is a single inbound chat message. It lives only for the
// duration of one dispatch.
type IncomingMessage struct {
	ChatID    int64
	MessageID int
	UserID    int64
	Username  string
	Text      string
}

// SendOptions controls how an outbound message is rendered
type SendOptions struct {
	ParseMode string
}

// CompletionRequest is what the handler submits to a completion provider
type CompletionRequest struct {
	SystemInstruction string
	UserText          string
	MaxTokens         int32
	Temperature       float32
}

// BotConfig represents bot configuration
type BotConfig struct {
	// Telegram settings
	TelegramToken  string  `env:"TELEGRAM_BOT_TOKEN" validate:"required"`
	AllowedChatIDs []int64 `env:"ALLOWED_CHAT_IDS"`      // empty means every chat is served
	APIEndpoint    string  `env:"TELEGRAM_API_ENDPOINT"` // format string with token and method placeholders

	// Completion provider settings
	LLMProvider    ProviderType `env:"LLM_PROVIDER" validate:"oneof=openai gemini anthropic"`
	LLMAPIKey      string       `env:"LLM_API_KEY" validate:"required"`
	LLMModel       string       `env:"LLM_MODEL" validate:"required"`
	OpenAIBaseURL  string       `env:"OPENAI_BASE_URL" validate:"omitempty,url"`
	LLMMaxTokens   int32        `env:"LLM_MAX_TOKENS" validate:"gt=0"`
	LLMTemperature float32      `env:"LLM_TEMPERATURE" validate:"gte=0,lte=2"`
	LLMTimeout     int          `env:"LLM_TIMEOUT" validate:"gt=0"`

	// Message handling
	SystemPrompt   string `env:"SYSTEM_PROMPT" validate:"required"`
	MaxInputLength int    `env:"MAX_INPUT_LENGTH" validate:"gt=0"`

	// App settings
	LogLevel    string `env:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	Environment string `env:"ENVIRONMENT"`
}

// IsAllowedChat checks if the given chat ID may use the bot.
// An empty allow-list admits every chat.
func (c *BotConfig) IsAllowedChat(chatID int64) bool {
	if len(c.AllowedChatIDs) == 0 {
		return true
	}
	for _, allowedID := range c.AllowedChatIDs {
		if allowedID == chatID {
			return true
		}
	}
	return false
}

// ParseModeMarkdown enables Telegram's legacy Markdown rendering
const ParseModeMarkdown = "Markdown"
