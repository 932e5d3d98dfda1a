package bot

import (
	"context"
	"strings"
	"unicode"

	"github.com/hearttalk-bot/internal/models"
	"github.com/rs/zerolog"
)

// Transport delivers inbound messages and accepts outbound ones
type Transport interface {
	OnMessage(fn func(ctx context.Context, msg models.IncomingMessage))
	SendMessage(ctx context.Context, chatID int64, text string, opts models.SendOptions) error
}

// Bot routes inbound messages to static replies or the message handler
type Bot struct {
	transport Transport
	handler   *Handler
	config    *models.BotConfig
	logger    zerolog.Logger
}

// New creates a new bot instance and subscribes it to the transport
func New(config *models.BotConfig, transport Transport, completer Completer, logger zerolog.Logger) *Bot {
	b := &Bot{
		transport: transport,
		handler:   NewHandler(config, transport, completer, logger),
		config:    config,
		logger:    logger.With().Str("component", "bot").Logger(),
	}
	transport.OnMessage(b.Dispatch)
	return b
}

// Dispatch processes one inbound message
func (b *Bot) Dispatch(ctx context.Context, msg models.IncomingMessage) {
	// Wrap in recover middleware
	b.recoverMiddleware(func() {
		b.dispatch(ctx, msg)
	})
}

func (b *Bot) dispatch(ctx context.Context, msg models.IncomingMessage) {
	if !b.config.IsAllowedChat(msg.ChatID) {
		b.logger.Debug().
			Int64("chat_id", msg.ChatID).
			Msg("Ignoring message from chat outside the allow-list")
		return
	}

	// Stickers, photos and the like carry no text
	if msg.Text == "" {
		return
	}

	command, args, isCommand := parseCommand(msg.Text)
	if !isCommand {
		b.handler.Handle(ctx, msg.ChatID, msg.Text)
		return
	}

	b.logger.Info().
		Str("command", command).
		Int64("chat_id", msg.ChatID).
		Int64("user_id", msg.UserID).
		Str("username", msg.Username).
		Msg("Received command")

	switch command {
	case "start":
		b.sendMessage(ctx, msg.ChatID, StartMessage)
	case "help":
		b.sendMessage(ctx, msg.ChatID, HelpMessage)
	case "analyse", "analyze":
		if args == "" {
			b.sendMessage(ctx, msg.ChatID, EmptyAnalyseMessage)
			return
		}
		b.handler.Handle(ctx, msg.ChatID, args)
	default:
		b.logger.Debug().
			Str("command", command).
			Msg("Ignoring unknown command")
	}
}

// parseCommand splits "/name@bot args" into its lowercase name and trimmed arguments.
// ok is false for text that is not a command.
func parseCommand(text string) (name, args string, ok bool) {
	if !strings.HasPrefix(text, "/") {
		return "", "", false
	}

	head, rest := text, ""
	if i := strings.IndexFunc(text, unicode.IsSpace); i >= 0 {
		head, rest = text[:i], text[i:]
	}

	name = strings.TrimPrefix(head, "/")
	if at := strings.IndexByte(name, '@'); at >= 0 {
		name = name[:at]
	}

	return strings.ToLower(name), strings.TrimSpace(rest), true
}
