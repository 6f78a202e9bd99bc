// Package console writes the conversation as colored plain text for
// one-shot commands and piped input.
package console

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"lingochat/pkg/widget"

	"github.com/fatih/color"
)

var (
	userLabel  = color.New(color.FgGreen, color.Bold)
	botLabel   = color.New(color.FgCyan, color.Bold)
	errorColor = color.New(color.FgRed)
	infoColor  = color.New(color.FgYellow)
)

// Log prints each appended message as "You: ..." or "Tutor: ...".
type Log struct {
	mu          sync.Mutex
	out         io.Writer
	errorPrefix string
	labels      bool
	count       int
}

// LogOption configures a Log.
type LogOption func(*Log)

// WithErrorPrefix marks bot messages starting with prefix as failures.
func WithErrorPrefix(prefix string) LogOption {
	return func(l *Log) {
		l.errorPrefix = prefix
	}
}

// WithoutLabels prints message text only.
func WithoutLabels() LogOption {
	return func(l *Log) {
		l.labels = false
	}
}

func NewLog(out io.Writer, opts ...LogOption) *Log {
	l := &Log{out: out, labels: true}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Append implements widget.Log.
func (l *Log) Append(m widget.Message) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.count++

	text := strings.TrimRight(m.Text, "\n")
	isError := m.Sender == widget.SenderBot && l.errorPrefix != "" && strings.HasPrefix(m.Text, l.errorPrefix)

	if l.labels {
		label := botLabel
		name := "Tutor:"
		if m.Sender == widget.SenderUser {
			label, name = userLabel, "You:"
		}
		label.Fprint(l.out, name)
		fmt.Fprint(l.out, " ")
	}
	if isError {
		errorColor.Fprintln(l.out, text)
		return
	}
	fmt.Fprintln(l.out, text)
}

// Count returns how many messages were appended.
func (l *Log) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count
}

// Input holds one pending line of text.
type Input struct {
	value string
}

// Set replaces the pending text.
func (i *Input) Set(value string) {
	i.value = value
}

// Value implements widget.Input.
func (i *Input) Value() string {
	return i.value
}

// Clear implements widget.Input.
func (i *Input) Clear() {
	i.value = ""
}

// PrintError writes a red error line.
func PrintError(w io.Writer, format string, args ...any) {
	errorColor.Fprintf(w, "❌ "+format+"\n", args...)
}

// PrintInfo writes a yellow informational line.
func PrintInfo(w io.Writer, format string, args ...any) {
	infoColor.Fprintf(w, format+"\n", args...)
}
