package bot

import (
	"context"
	"sync"

	"github.com/hearttalk-bot/internal/models"
)

type sentMessage struct {
	chatID int64
	text   string
	opts   models.SendOptions
}

// fakeTransport records every outbound message
type fakeTransport struct {
	mu       sync.Mutex
	sent     []sentMessage
	typing   []int64
	callback func(ctx context.Context, msg models.IncomingMessage)
	// failParseMode makes sends with this parse mode fail
	failParseMode string
	sendErr       error
}

func (f *fakeTransport) OnMessage(fn func(ctx context.Context, msg models.IncomingMessage)) {
	f.callback = fn
}

func (f *fakeTransport) SendMessage(_ context.Context, chatID int64, text string, opts models.SendOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failParseMode != "" && opts.ParseMode == f.failParseMode {
		return f.sendErr
	}
	f.sent = append(f.sent, sentMessage{chatID: chatID, text: text, opts: opts})
	return nil
}

func (f *fakeTransport) SendTyping(_ context.Context, chatID int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.typing = append(f.typing, chatID)
}

func (f *fakeTransport) messages() []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentMessage(nil), f.sent...)
}

// capturingCompleter returns a canned answer and remembers each request
type capturingCompleter struct {
	mu        sync.Mutex
	answer    string
	err       error
	panicWith any
	requests  []models.CompletionRequest
}

func (c *capturingCompleter) Complete(_ context.Context, req *models.CompletionRequest) (string, error) {
	c.mu.Lock()
	c.requests = append(c.requests, *req)
	c.mu.Unlock()
	if c.panicWith != nil {
		panic(c.panicWith)
	}
	return c.answer, c.err
}

func (c *capturingCompleter) calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.requests)
}

func testConfig() *models.BotConfig {
	return &models.BotConfig{
		SystemPrompt:   "Du bist HeartTalk.",
		LLMMaxTokens:   700,
		LLMTemperature: 0.7,
		MaxInputLength: 2000,
	}
}
