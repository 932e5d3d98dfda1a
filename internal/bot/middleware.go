package bot

import (
	"context"
	"runtime/debug"

	"github.com/hearttalk-bot/internal/models"
)

// recoverMiddleware handles panics in message handlers
func (b *Bot) recoverMiddleware(handler func()) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error().
				Interface("panic", r).
				Str("stack", string(debug.Stack())).
				Msg("Panic recovered in handler")
		}
	}()

	handler()
}

// sendMessage sends a static Markdown message to the chat
func (b *Bot) sendMessage(ctx context.Context, chatID int64, text string) {
	err := b.transport.SendMessage(ctx, chatID, text, models.SendOptions{ParseMode: models.ParseModeMarkdown})
	if err != nil {
		b.logger.Error().
			Err(err).
			Int64("chat_id", chatID).
			Msg("Failed to send message")
	}
}
