package telegram

import (
	"context"
	"fmt"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/hearttalk-bot/internal/models"
	"github.com/rs/zerolog"
)

// MessageFunc is called once per inbound message
type MessageFunc func(ctx context.Context, msg models.IncomingMessage)

// Client is a long-polling Telegram transport
type Client struct {
	api     *tgbotapi.BotAPI
	logger  zerolog.Logger
	handler MessageFunc
	wg      sync.WaitGroup // Tracks active handlers for graceful shutdown
}

// New authorizes the bot token against the Bot API.
// An empty endpoint selects the public api.telegram.org endpoint.
func New(token, endpoint string, debug bool, logger zerolog.Logger) (*Client, error) {
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}

	api, err := tgbotapi.NewBotAPIWithAPIEndpoint(token, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	api.Debug = debug

	logger.Info().
		Str("username", api.Self.UserName).
		Int64("id", api.Self.ID).
		Msg("Telegram bot authorized")

	return &Client{
		api:    api,
		logger: logger.With().Str("component", "telegram").Logger(),
	}, nil
}

// OnMessage registers the callback for inbound messages. It must be called before Start.
func (c *Client) OnMessage(fn func(ctx context.Context, msg models.IncomingMessage)) {
	c.handler = fn
}

// SendMessage sends text to the chat, rendered with opts.ParseMode when set
func (c *Client) SendMessage(_ context.Context, chatID int64, text string, opts models.SendOptions) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = opts.ParseMode

	if _, err := c.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// SendTyping sends typing action to the chat
func (c *Client) SendTyping(_ context.Context, chatID int64) {
	action := tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)
	// sendChatAction returns true rather than a Message, which Send reports as an error
	if _, err := c.api.Request(action); err != nil {
		c.logger.Debug().Err(err).Int64("chat_id", chatID).Msg("Failed to send typing action")
	}
}

// Start polls for updates until ctx is cancelled, then waits for running
// handlers before it returns. Handlers get a context that outlives ctx so a
// shutdown lets in-flight replies finish; the caller bounds that wait.
func (c *Client) Start(ctx context.Context) error {
	if c.handler == nil {
		return fmt.Errorf("no message handler registered")
	}

	c.logger.Info().Msg("Starting bot...")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := c.api.GetUpdatesChan(u)
	handlerCtx := context.WithoutCancel(ctx)

	c.logger.Info().Msg("Bot started, waiting for messages...")

	for {
		select {
		case <-ctx.Done():
			c.logger.Info().Msg("Shutting down bot...")
			c.api.StopReceivingUpdates()
			c.waitHandlers()
			return nil

		case update, ok := <-updates:
			if !ok {
				c.waitHandlers()
				return nil
			}
			// select picks randomly when both cases are ready
			if ctx.Err() != nil {
				continue
			}

			msg, ok := toIncoming(update)
			if !ok {
				continue
			}

			// Add and Wait both run on this goroutine
			c.wg.Add(1)
			go func() {
				defer c.wg.Done()
				c.handler(handlerCtx, msg)
			}()
		}
	}
}

// Username returns bot username
func (c *Client) Username() string {
	return c.api.Self.UserName
}

func (c *Client) waitHandlers() {
	c.logger.Info().Msg("Waiting for active handlers to complete...")
	c.wg.Wait()
	c.logger.Info().Msg("All handlers completed")
}

// toIncoming extracts the message part of an update; other update kinds are skipped
func toIncoming(update tgbotapi.Update) (models.IncomingMessage, bool) {
	message := update.Message
	if message == nil || message.Chat == nil {
		return models.IncomingMessage{}, false
	}

	msg := models.IncomingMessage{
		ChatID:    message.Chat.ID,
		MessageID: message.MessageID,
		Text:      message.Text,
	}
	if message.From != nil {
		msg.UserID = message.From.ID
		msg.Username = message.From.UserName
	}
	return msg, true
}
