package commands

import (
	"fmt"
	"strings"
)

// SummaryHandler handles the /summary command
type SummaryHandler struct{}

func (h *SummaryHandler) Name() string        { return "/summary" }
func (h *SummaryHandler) Description() string { return "Show your mistakes summary" }

func (h *SummaryHandler) Execute(ctx *Context) *Result {
	return &Result{Title: "Summary", Action: ActionSummary}
}

// LanguageHandler handles the /language command
type LanguageHandler struct{}

func (h *LanguageHandler) Name() string        { return "/language" }
func (h *LanguageHandler) Description() string { return "Change language (no argument opens the picker)" }

func (h *LanguageHandler) Execute(ctx *Context) *Result {
	lang := strings.ToLower(strings.TrimSpace(ctx.Args))
	if lang == "" {
		return &Result{Title: "Language", Action: ActionOpenPicker}
	}
	return &Result{Title: "Language", Action: ActionSetLanguage, Arg: lang}
}

// LanguagesHandler handles the /languages command
type LanguagesHandler struct{}

func (h *LanguagesHandler) Name() string        { return "/languages" }
func (h *LanguagesHandler) Description() string { return "List available languages" }

func (h *LanguagesHandler) Execute(ctx *Context) *Result {
	if len(ctx.Languages) == 0 {
		return &Result{Title: "Languages", Content: "No languages configured.", Action: ActionShowText}
	}

	var sb strings.Builder
	sb.WriteString("Available languages:\n")
	for _, lang := range ctx.Languages {
		marker := "  "
		if lang == ctx.Language {
			marker = "• "
		}
		sb.WriteString(marker + lang + "\n")
	}
	return &Result{Title: "Languages", Content: strings.TrimRight(sb.String(), "\n"), Action: ActionShowText}
}

// TranslateHandler handles the /translate command
type TranslateHandler struct{}

func (h *TranslateHandler) Name() string { return "/translate" }
func (h *TranslateHandler) Description() string {
	return "Translate text (or the last reply) into your own language"
}

func (h *TranslateHandler) Execute(ctx *Context) *Result {
	text := strings.TrimSpace(ctx.Args)
	if text == "" {
		text = strings.TrimSpace(ctx.LastReply)
	}
	if text == "" {
		return &Result{Title: "Translate", Content: "Nothing to translate yet.", Action: ActionShowText}
	}
	target := ctx.KnownLanguage
	if target == "" {
		target = "english"
	}
	return &Result{Title: "Translate", Action: ActionTranslate, Arg: text, Target: target}
}

// ClearHandler handles the /clear command
type ClearHandler struct{}

func (h *ClearHandler) Name() string        { return "/clear" }
func (h *ClearHandler) Description() string { return "Clear the conversation view" }

func (h *ClearHandler) Execute(ctx *Context) *Result {
	return &Result{Title: "Clear", Action: ActionClear}
}

// QuitHandler handles the /quit command
type QuitHandler struct{}

func (h *QuitHandler) Name() string        { return "/quit" }
func (h *QuitHandler) Description() string { return "Exit lingochat" }

func (h *QuitHandler) Execute(ctx *Context) *Result {
	return &Result{Title: "Quit", Action: ActionQuit}
}

// HelpHandler handles the /help command
type HelpHandler struct {
	dispatcher *Dispatcher
}

func (h *HelpHandler) Name() string        { return "/help" }
func (h *HelpHandler) Description() string { return "Show help" }

func (h *HelpHandler) Execute(ctx *Context) *Result {
	var sb strings.Builder
	sb.WriteString("📚 lingochat help\n\nCommands:\n")
	if h.dispatcher != nil {
		for _, handler := range h.dispatcher.Handlers() {
			sb.WriteString(fmt.Sprintf("  %-11s - %s\n", handler.Name(), handler.Description()))
		}
	}
	sb.WriteString(`
Shortcuts:
  Enter       - Send message
  Ctrl+L      - Change language
  Ctrl+S      - Mistakes summary
  Tab         - Switch focus between input and log
  y           - Copy last message (log focused)
  Esc/Ctrl+C  - Quit`)

	return &Result{Title: "Help", Content: sb.String(), Action: ActionShowText}
}
