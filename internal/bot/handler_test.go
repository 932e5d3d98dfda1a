package bot

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/hearttalk-bot/internal/llm"
	"github.com/hearttalk-bot/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClip(t *testing.T) {
	cases := []struct {
		name  string
		text  string
		limit int
		want  string
	}{
		{name: "empty", text: "", limit: 2000, want: ""},
		{name: "short", text: "hallo", limit: 2000, want: "hallo"},
		{name: "exactly-limit", text: strings.Repeat("a", 2000), limit: 2000, want: strings.Repeat("a", 2000)},
		{name: "one-over", text: strings.Repeat("a", 2001), limit: 2000, want: strings.Repeat("a", 2000) + TruncationMarker},
		{name: "multibyte-under-limit", text: strings.Repeat("ü", 1500), limit: 2000, want: strings.Repeat("ü", 1500)},
		{name: "multibyte-over-limit", text: strings.Repeat("😀", 2500), limit: 2000, want: strings.Repeat("😀", 2000) + TruncationMarker},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := clip(tc.text, tc.limit)
			assert.Equal(t, tc.want, got)
			assert.LessOrEqual(t, utf8.RuneCountInString(got), tc.limit+utf8.RuneCountInString(TruncationMarker))
		})
	}
}

func TestHandle_ForwardsShortTextUnchanged(t *testing.T) {
	transport := &fakeTransport{}
	completer := &capturingCompleter{answer: "Antwort"}
	h := NewHandler(testConfig(), transport, completer, zerolog.Nop())

	for _, text := range []string{"", "Sie: Weiß nicht, ob ich heute kann.", strings.Repeat("x", 2000)} {
		h.Handle(context.Background(), 42, text)
	}

	require.Len(t, completer.requests, 3)
	assert.Equal(t, "", completer.requests[0].UserText)
	assert.Equal(t, "Sie: Weiß nicht, ob ich heute kann.", completer.requests[1].UserText)
	assert.Equal(t, strings.Repeat("x", 2000), completer.requests[2].UserText)
}

func TestHandle_TruncatesLongText(t *testing.T) {
	transport := &fakeTransport{}
	completer := &capturingCompleter{answer: "Antwort"}
	h := NewHandler(testConfig(), transport, completer, zerolog.Nop())

	h.Handle(context.Background(), 42, strings.Repeat("y", 5000))

	require.Len(t, completer.requests, 1)
	assert.Equal(t, strings.Repeat("y", 2000)+TruncationMarker, completer.requests[0].UserText)
}

func TestHandle_FixedRequestParameters(t *testing.T) {
	transport := &fakeTransport{}
	completer := &capturingCompleter{answer: "Antwort"}
	h := NewHandler(testConfig(), transport, completer, zerolog.Nop())

	h.Handle(context.Background(), 1, "eins")
	h.Handle(context.Background(), 2, "zwei")

	require.Len(t, completer.requests, 2)
	for _, req := range completer.requests {
		assert.Equal(t, "Du bist HeartTalk.", req.SystemInstruction)
		assert.Equal(t, int32(700), req.MaxTokens)
		assert.InDelta(t, 0.7, req.Temperature, 0.0001)
	}
}

func TestHandle_SendsTrimmedReplyAsMarkdown(t *testing.T) {
	transport := &fakeTransport{}
	completer := &capturingCompleter{answer: "\n  *Locker:* Klar, kein Stress!  \n"}
	h := NewHandler(testConfig(), transport, completer, zerolog.Nop())

	h.Handle(context.Background(), 42, "Sie: Weiß nicht, ob ich heute kann.")

	sent := transport.messages()
	require.Len(t, sent, 1)
	assert.Equal(t, int64(42), sent[0].chatID)
	assert.Equal(t, "*Locker:* Klar, kein Stress!", sent[0].text)
	assert.Equal(t, models.ParseModeMarkdown, sent[0].opts.ParseMode)
	assert.Equal(t, []int64{42}, transport.typing)
}

func TestHandle_FallbackOnFailure(t *testing.T) {
	cases := []struct {
		name   string
		answer    string
		err       error
		panicWith any
	}{
		{name: "empty-content", answer: ""},
		{name: "whitespace-content", answer: "  \n\t "},
		{name: "provider-error", err: errors.New("connection reset")},
		{name: "empty-completion-error", err: llm.ErrEmptyCompletion},
		{name: "timeout", err: context.DeadlineExceeded},
		{name: "error-with-partial-text", answer: "halb", err: errors.New("stream broken")},
		{name: "provider-panic", panicWith: "nil map write"},
		{name: "provider-panic-error", panicWith: errors.New("index out of range")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			transport := &fakeTransport{}
			completer := &capturingCompleter{answer: tc.answer, err: tc.err, panicWith: tc.panicWith}
			h := NewHandler(testConfig(), transport, completer, zerolog.Nop())

			require.NotPanics(t, func() {
				h.Handle(context.Background(), 7, "Text")
			})

			sent := transport.messages()
			require.Len(t, sent, 1)
			assert.Equal(t, int64(7), sent[0].chatID)
			assert.Equal(t, FallbackMessage, sent[0].text)
			assert.Empty(t, sent[0].opts.ParseMode)
		})
	}
}

func TestHandle_FallbackWhenMarkdownSendFails(t *testing.T) {
	transport := &fakeTransport{
		failParseMode: models.ParseModeMarkdown,
		sendErr:       errors.New("Bad Request: can't parse entities"),
	}
	completer := &capturingCompleter{answer: "*unbalanced"}
	h := NewHandler(testConfig(), transport, completer, zerolog.Nop())

	h.Handle(context.Background(), 9, "Text")

	sent := transport.messages()
	require.Len(t, sent, 1)
	assert.Equal(t, FallbackMessage, sent[0].text)
}

func TestHandle_NeverSendsFallbackOnSuccess(t *testing.T) {
	transport := &fakeTransport{}
	completer := &capturingCompleter{answer: "Gute Antwort"}
	h := NewHandler(testConfig(), transport, completer, zerolog.Nop())

	h.Handle(context.Background(), 3, "Text")

	for _, m := range transport.messages() {
		assert.NotEqual(t, FallbackMessage, m.text)
	}
}
