// Package ui is the interactive terminal chat surface.
package ui

import (
	"context"
	"log/slog"

	"lingochat/pkg/commands"
	"lingochat/pkg/ui/components/chatlog"
	"lingochat/pkg/ui/components/composer"
	"lingochat/pkg/ui/components/picker"
	"lingochat/pkg/ui/components/statusbar"
	"lingochat/pkg/ui/components/welcome"
	"lingochat/pkg/widget"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
)

// Translator turns text into another language.
type Translator interface {
	Translate(ctx context.Context, text, target string) (string, error)
}

// Options wires the model to its collaborators.
type Options struct {
	Backend       widget.Backend
	Translator    Translator
	BackendURL    string
	Language      string
	Languages     []string
	KnownLanguage string
}

// Model is the Bubble Tea model for the chat screen.
type Model struct {
	widget     *widget.Widget
	log        *chatlog.Log
	composer   *composer.Composer
	picker     *picker.LanguagePicker
	statusBar  *statusbar.StatusBarView
	layout     *LayoutManager
	dispatcher *commands.Dispatcher
	translator Translator

	languages     []string
	knownLanguage string
	lastReply     string

	pending int
	width   int
	height  int
	ready   bool
}

// Completion messages for work started from Update.
type sendResultMsg struct {
	message widget.Message
	err     error
}

type summaryResultMsg struct {
	message widget.Message
}

type translateResultMsg struct {
	text string
	err  error
}

// NewModel creates the chat screen.
func NewModel(opts Options) Model {
	log := chatlog.New("lingochat")
	input := composer.New()

	lang := opts.Language
	if lang == "" {
		lang = widget.DefaultLanguage
	}
	w := widget.New(opts.Backend, input, log, widget.WithLanguage(lang))
	log.SetErrorPrefix(w.ErrorPrefix())

	log.SetBanner(welcome.Banner(lang))

	sb := statusbar.NewStatusBarView()
	sb.SetLanguage(lang)
	sb.SetBackend(opts.BackendURL)

	return Model{
		widget:        w,
		log:           log,
		composer:      input,
		picker:        picker.NewLanguagePicker(),
		statusBar:     sb,
		layout:        NewLayoutManager(),
		dispatcher:    commands.NewDispatcher(),
		translator:    opts.Translator,
		languages:     opts.Languages,
		knownLanguage: opts.KnownLanguage,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.composer.Focus()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layout.SetSize(msg.Width, msg.Height)
		m.log.SetSize(msg.Width, m.layout.LogHeight())
		m.composer.SetWidth(msg.Width)
		m.statusBar.SetWidth(msg.Width)
		m.picker.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKey(msg)

	case tea.PasteMsg:
		if m.composer.Focused() {
			m.composer.InsertString(msg.Content)
		}
		return m, nil

	case sendResultMsg:
		m.finish()
		m.widget.RenderMessage(msg.message.Text, msg.message.Sender)
		if msg.err == nil {
			m.lastReply = msg.message.Text
		}
		m.statusBar.SetLevel(m.widget.Difficulty())
		return m, nil

	case summaryResultMsg:
		m.finish()
		m.widget.RenderMessage(msg.message.Text, msg.message.Sender)
		return m, nil

	case translateResultMsg:
		m.finish()
		if msg.err != nil {
			m.widget.RenderMessage(m.widget.ErrorText(msg.err), widget.SenderBot)
			return m, nil
		}
		m.widget.RenderMessage("🌐 "+msg.text, widget.SenderBot)
		return m, nil

	case picker.LanguageSelectedMsg:
		m.setLanguage(msg.Language)
		return m, m.composer.Focus()

	case chatlog.CopiedMsg:
		m.statusBar.SetMessage("Copied to clipboard")
		return m, nil
	}

	return m, m.composer.Update(msg)
}

func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if m.picker.IsVisible() {
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m, m.picker.Update(msg)
	}

	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "ctrl+l":
		m.picker.Show(m.languages, m.widget.Language())
		return m, nil
	case "ctrl+s":
		return m, m.startSummary()
	case "tab":
		return m, m.toggleFocus()
	case "pgup", "pgdown":
		return m, m.log.Update(msg)
	}

	if m.log.Focused() {
		return m, m.log.Update(msg)
	}

	if msg.String() == "enter" {
		return m, m.submit()
	}

	m.statusBar.SetMessage("")
	return m, m.composer.Update(msg)
}

func (m *Model) toggleFocus() tea.Cmd {
	if m.log.Focused() {
		m.log.SetFocused(false)
		return m.composer.Focus()
	}
	m.composer.Blur()
	m.log.SetFocused(true)
	return nil
}

// submit sends the composer text, or runs it when it is a slash command.
func (m *Model) submit() tea.Cmd {
	if name, args, ok := commands.Parse(m.composer.Value()); ok {
		m.composer.Clear()
		return m.runCommand(name, args)
	}

	ex, ok := m.widget.BeginSend()
	if !ok {
		return nil
	}
	m.start()

	w := m.widget
	return func() tea.Msg {
		message, err := w.Reply(context.Background(), ex)
		return sendResultMsg{message: message, err: err}
	}
}

func (m *Model) runCommand(name, args string) tea.Cmd {
	ctx := commands.NewContext(args, m.widget.Language(), m.languages)
	ctx.KnownLanguage = m.knownLanguage
	ctx.LastReply = m.lastReply

	result := m.dispatcher.Dispatch(name, ctx)
	slog.Debug("command_dispatched", "command", name, "action", result.Action)

	switch result.Action {
	case commands.ActionSummary:
		return m.startSummary()
	case commands.ActionSetLanguage:
		m.setLanguage(result.Arg)
	case commands.ActionOpenPicker:
		m.picker.Show(m.languages, m.widget.Language())
	case commands.ActionTranslate:
		return m.startTranslate(result.Arg, result.Target)
	case commands.ActionClear:
		m.log.Clear()
		m.lastReply = ""
	case commands.ActionQuit:
		return tea.Quit
	default:
		if result.Content != "" {
			m.widget.RenderMessage(result.Content, widget.SenderBot)
		}
	}
	return nil
}

func (m *Model) startSummary() tea.Cmd {
	m.start()
	w := m.widget
	return func() tea.Msg {
		message, _ := w.Summarize(context.Background())
		return summaryResultMsg{message: message}
	}
}

func (m *Model) startTranslate(text, target string) tea.Cmd {
	if m.translator == nil {
		m.widget.RenderMessage("Translation is not available.", widget.SenderBot)
		return nil
	}
	m.start()
	tr := m.translator
	return func() tea.Msg {
		out, err := tr.Translate(context.Background(), text, target)
		return translateResultMsg{text: out, err: err}
	}
}

func (m *Model) setLanguage(lang string) {
	m.widget.SetLanguage(lang)
	m.statusBar.SetLanguage(lang)
	m.log.SetBanner(welcome.Banner(lang))
}

func (m *Model) start() {
	m.pending++
	m.statusBar.SetPending(m.pending)
}

func (m *Model) finish() {
	if m.pending > 0 {
		m.pending--
	}
	m.statusBar.SetPending(m.pending)
}

// Render returns the full screen as a string.
func (m Model) Render() string {
	if !m.ready {
		return "Loading..."
	}

	base := m.layout.RenderLayout(m.log.View(), m.composer.View(), m.statusBar.Render())
	if !m.picker.IsVisible() {
		return base
	}

	layers := []*lipgloss.Layer{lipgloss.NewLayer(base).Z(0)}
	layers = addOverlayLayer(layers, m.picker.View(), m.width, m.height, 1)
	return lipgloss.NewCompositor(layers...).Render()
}

// View implements tea.Model.
func (m Model) View() tea.View {
	v := tea.NewView(m.Render())
	v.AltScreen = true
	v.WindowTitle = "lingochat"
	return v
}

// Messages returns the log entries, oldest first.
func (m Model) Messages() []widget.Message {
	return m.log.Messages()
}

func clipANSI(line string, width int) string {
	return ansi.Truncate(line, width, "")
}
