package bot

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hearttalk-bot/internal/llm"
	"github.com/hearttalk-bot/internal/models"
	"github.com/rs/zerolog"
)

// Completer is the completion backend the handler talks to
type Completer interface {
	Complete(ctx context.Context, req *models.CompletionRequest) (string, error)
}

// typingSender is implemented by transports that can show a typing indicator
type typingSender interface {
	SendTyping(ctx context.Context, chatID int64)
}

// Handler turns one piece of user text into exactly one reply message
type Handler struct {
	transport      Transport
	completer      Completer
	systemPrompt   string
	maxTokens      int32
	temperature    float32
	maxInputLength int
	logger         zerolog.Logger
}

// NewHandler creates a message handler with the fixed request parameters from config
func NewHandler(config *models.BotConfig, transport Transport, completer Completer, logger zerolog.Logger) *Handler {
	return &Handler{
		transport:      transport,
		completer:      completer,
		systemPrompt:   config.SystemPrompt,
		maxTokens:      config.LLMMaxTokens,
		temperature:    config.LLMTemperature,
		maxInputLength: config.MaxInputLength,
		logger:         logger.With().Str("component", "handler").Logger(),
	}
}

// Handle requests a completion for userText and sends the reply, or the
// fallback message, to chatID. Errors never leave this method.
func (h *Handler) Handle(ctx context.Context, chatID int64, userText string) {
	logger := h.logger.With().
		Str("request_id", uuid.NewString()).
		Int64("chat_id", chatID).
		Logger()

	clipped := clip(userText, h.maxInputLength)
	if len(clipped) != len(userText) {
		logger.Info().
			Int("original_length", len([]rune(userText))).
			Int("limit", h.maxInputLength).
			Msg("User text truncated")
	}

	if t, ok := h.transport.(typingSender); ok {
		t.SendTyping(ctx, chatID)
	}

	req := &models.CompletionRequest{
		SystemInstruction: h.systemPrompt,
		UserText:          clipped,
		MaxTokens:         h.maxTokens,
		Temperature:       h.temperature,
	}

	startTime := time.Now()
	reply, err := h.complete(ctx, req, logger)
	reply = strings.TrimSpace(reply)
	if err == nil && reply == "" {
		err = llm.ErrEmptyCompletion
	}
	if err != nil {
		logger.Error().
			Err(err).
			Dur("duration", time.Since(startTime)).
			Msg("Completion request failed")
		h.sendFallback(ctx, chatID, logger)
		return
	}

	err = h.transport.SendMessage(ctx, chatID, reply, models.SendOptions{ParseMode: models.ParseModeMarkdown})
	if err != nil {
		logger.Error().
			Err(err).
			Int("reply_length", len([]rune(reply))).
			Msg("Failed to send reply")
		h.sendFallback(ctx, chatID, logger)
		return
	}

	logger.Info().
		Int("reply_length", len([]rune(reply))).
		Dur("duration", time.Since(startTime)).
		Msg("Reply sent")
}

// complete calls the provider and turns a panic into an error so the user
// still gets the fallback reply
func (h *Handler) complete(ctx context.Context, req *models.CompletionRequest, logger zerolog.Logger) (reply string, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error().
				Interface("panic", r).
				Str("stack", string(debug.Stack())).
				Msg("Recovered from panic in completion provider")
			reply, err = "", fmt.Errorf("completion provider panic: %v", r)
		}
	}()
	return h.completer.Complete(ctx, req)
}

// sendFallback sends the apology as plain text
func (h *Handler) sendFallback(ctx context.Context, chatID int64, logger zerolog.Logger) {
	if err := h.transport.SendMessage(ctx, chatID, FallbackMessage, models.SendOptions{}); err != nil {
		logger.Error().Err(err).Msg("Failed to send fallback message")
	}
}

// clip cuts text to limit characters and appends TruncationMarker when it had to cut
func clip(text string, limit int) string {
	// byte length bounds the rune count
	if len(text) <= limit {
		return text
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + TruncationMarker
}
