// Package widget holds the chat session: the selected target language, the
// two backend calls, and appending results to the visible message log.
package widget

import (
	"context"
	"log/slog"
	"runtime"
	"strings"
	"sync"

	"lingochat/pkg/tutor"
)

// DefaultLanguage is the target language before the learner picks one.
const DefaultLanguage = "spanish"

// Sender tags who a message belongs to.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Message is one entry in the visible log.
type Message struct {
	Text   string
	Sender Sender
}

// Input is the text entry the learner types into.
type Input interface {
	Value() string
	Clear()
}

// Log is the visible message list. Append renders the entry as plain text
// and brings it into view.
type Log interface {
	Append(Message)
}

// Backend is the tutoring service.
type Backend interface {
	Chat(ctx context.Context, req tutor.ChatRequest) (tutor.ChatResponse, error)
	Summary(ctx context.Context) (tutor.SummaryResponse, error)
}

// Exchange is a send that has been echoed locally and is waiting on the backend.
type Exchange struct {
	Text     string
	Language string
}

// Widget owns one chat session.
type Widget struct {
	backend Backend
	input   Input
	log     Log

	mu          sync.Mutex
	language    string
	difficulty  string
	errorPrefix string
}

// Option configures a Widget.
type Option func(*Widget)

// WithLanguage sets the initial target language.
func WithLanguage(lang string) Option {
	return func(w *Widget) {
		w.language = lang
	}
}

// WithErrorPrefix overrides the text placed before failure messages.
func WithErrorPrefix(prefix string) Option {
	return func(w *Widget) {
		w.errorPrefix = prefix
	}
}

// New creates a widget bound to its input, log and backend.
func New(backend Backend, input Input, log Log, opts ...Option) *Widget {
	w := &Widget{
		backend:     backend,
		input:       input,
		log:         log,
		language:    DefaultLanguage,
		errorPrefix: DefaultErrorPrefix(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// DefaultErrorPrefix is the text placed before failure messages.
func DefaultErrorPrefix() string {
	if runtime.GOOS == "darwin" {
		return "Error: "
	}
	return "❌ Error: "
}

// Language returns the current target language.
func (w *Widget) Language() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.language
}

// SetLanguage stores value verbatim and confirms the change in the log.
func (w *Widget) SetLanguage(value string) {
	w.mu.Lock()
	w.language = value
	w.mu.Unlock()

	if value == "" {
		slog.Warn("language_empty")
	}
	slog.Info("language_changed", "language", value)
	w.RenderMessage("Language changed to "+strings.ToUpper(value)+".", SenderBot)
}

// Difficulty returns the level from the latest reply that reported one.
func (w *Widget) Difficulty() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.difficulty
}

// BeginSend echoes the trimmed input into the log, clears the input and
// captures the language for the request. It reports false for blank input,
// in which case nothing is touched.
func (w *Widget) BeginSend() (Exchange, bool) {
	text := strings.TrimSpace(w.input.Value())
	if text == "" {
		return Exchange{}, false
	}

	w.RenderMessage(text, SenderUser)
	w.input.Clear()

	return Exchange{Text: text, Language: w.Language()}, true
}

// Reply sends ex to the backend and returns the bot message to show.
// On failure the message carries the error text and the error is returned too.
// The log is not touched.
func (w *Widget) Reply(ctx context.Context, ex Exchange) (Message, error) {
	slog.Info("chat_send_start", "language", ex.Language, "message_len", len(ex.Text))

	resp, err := w.backend.Chat(ctx, tutor.ChatRequest{Message: ex.Text, Language: ex.Language})
	if err != nil {
		slog.Error("chat_send_error", "language", ex.Language, "error", err)
		return w.errorMessage(err), err
	}

	if resp.Difficulty != "" {
		w.mu.Lock()
		w.difficulty = resp.Difficulty
		w.mu.Unlock()
	}
	slog.Info("chat_send_done",
		"language", ex.Language,
		"reply_len", len(resp.Reply),
		"difficulty", resp.Difficulty,
		"mistake_logged", resp.MistakeLogged,
		"severity", resp.Severity)
	return Message{Text: resp.Reply, Sender: SenderBot}, nil
}

// SendMessage runs a full send: echo, request, and reply (or error) in the log.
// Blank input is a no-op.
func (w *Widget) SendMessage(ctx context.Context) error {
	ex, ok := w.BeginSend()
	if !ok {
		return nil
	}
	msg, err := w.Reply(ctx, ex)
	w.RenderMessage(msg.Text, msg.Sender)
	return err
}

// Summarize fetches the mistake history and returns the report message.
// The log is not touched.
func (w *Widget) Summarize(ctx context.Context) (Message, error) {
	slog.Info("summary_start")

	resp, err := w.backend.Summary(ctx)
	if err != nil {
		slog.Error("summary_error", "error", err)
		return w.errorMessage(err), err
	}

	slog.Info("summary_done", "mistakes", len(resp.Mistakes))
	return Message{Text: FormatSummary(resp.Mistakes), Sender: SenderBot}, nil
}

// GetSummary appends the mistake report (or the failure) to the log.
func (w *Widget) GetSummary(ctx context.Context) error {
	msg, err := w.Summarize(ctx)
	w.RenderMessage(msg.Text, msg.Sender)
	return err
}

// RenderMessage appends exactly one entry to the log.
func (w *Widget) RenderMessage(text string, sender Sender) {
	w.log.Append(Message{Text: text, Sender: sender})
}

// ErrorPrefix returns the text placed before failure messages.
func (w *Widget) ErrorPrefix() string {
	return w.errorPrefix
}

// ErrorText formats err the way failures are shown in the log.
func (w *Widget) ErrorText(err error) string {
	return w.errorPrefix + err.Error()
}

func (w *Widget) errorMessage(err error) Message {
	return Message{Text: w.ErrorText(err), Sender: SenderBot}
}
