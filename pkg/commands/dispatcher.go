package commands

import (
	"sort"
	"strings"
)

// Action tells the UI what to do with a command result.
type Action int

const (
	// ActionShowText appends Content to the log as a bot message.
	ActionShowText Action = iota
	ActionSummary
	ActionSetLanguage
	ActionOpenPicker
	ActionTranslate
	ActionClear
	ActionQuit
)

// Result represents the result of a command execution
type Result struct {
	Title   string
	Content string
	Action  Action
	Arg     string // language for ActionSetLanguage, text for ActionTranslate
	Target  string // target language for ActionTranslate
}

// Handler is the interface for command handlers
type Handler interface {
	Execute(ctx *Context) *Result
	Name() string
	Description() string
}

// Dispatcher routes commands to their handlers
type Dispatcher struct {
	handlers map[string]Handler
}

// NewDispatcher creates a dispatcher with the built-in chat commands.
func NewDispatcher() *Dispatcher {
	d := &Dispatcher{
		handlers: make(map[string]Handler),
	}

	d.Register(&SummaryHandler{})
	d.Register(&LanguageHandler{})
	d.Register(&LanguagesHandler{})
	d.Register(&TranslateHandler{})
	d.Register(&ClearHandler{})
	d.Register(&QuitHandler{})
	d.Register(&HelpHandler{dispatcher: d})

	return d
}

// Register adds a handler to the dispatcher
func (d *Dispatcher) Register(h Handler) {
	d.handlers[h.Name()] = h
}

// Dispatch executes a command by name
func (d *Dispatcher) Dispatch(cmdName string, ctx *Context) *Result {
	handler, ok := d.handlers[strings.ToLower(cmdName)]
	if !ok {
		return &Result{
			Title:   "Error",
			Content: "Unknown command: " + cmdName,
			Action:  ActionShowText,
		}
	}

	return handler.Execute(ctx)
}

// GetHandler returns a handler by name
func (d *Dispatcher) GetHandler(cmdName string) (Handler, bool) {
	h, ok := d.handlers[cmdName]
	return h, ok
}

// Handlers returns the registered handlers sorted by name.
func (d *Dispatcher) Handlers() []Handler {
	out := make([]Handler, 0, len(d.handlers))
	for _, h := range d.handlers {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name() < out[j].Name()
	})
	return out
}

// Parse splits "/name args" input. It reports false for ordinary chat text.
func Parse(input string) (name, args string, ok bool) {
	trimmed := strings.TrimSpace(input)
	if !strings.HasPrefix(trimmed, "/") || len(trimmed) < 2 {
		return "", "", false
	}
	name, args, _ = strings.Cut(trimmed, " ")
	return name, strings.TrimSpace(args), true
}
