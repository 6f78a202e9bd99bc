package ui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"lingochat/pkg/tutor"
	"lingochat/pkg/ui/components/chatlog"
	"lingochat/pkg/ui/components/picker"
	"lingochat/pkg/ui/components/testutils"
	"lingochat/pkg/widget"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
)

type fakeBackend struct {
	mu           sync.Mutex
	requests     []tutor.ChatRequest
	summaryCalls int

	reply      string
	difficulty string
	chatErr    error
	mistakes   []tutor.Mistake
	summaryErr error
}

func (f *fakeBackend) Chat(_ context.Context, req tutor.ChatRequest) (tutor.ChatResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.chatErr != nil {
		return tutor.ChatResponse{}, f.chatErr
	}
	return tutor.ChatResponse{Reply: f.reply, Difficulty: f.difficulty}, nil
}

func (f *fakeBackend) Summary(context.Context) (tutor.SummaryResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.summaryCalls++
	if f.summaryErr != nil {
		return tutor.SummaryResponse{}, f.summaryErr
	}
	return tutor.SummaryResponse{Mistakes: f.mistakes}, nil
}

type fakeTranslator struct {
	text, target string
	out          string
	err          error
}

func (f *fakeTranslator) Translate(_ context.Context, text, target string) (string, error) {
	f.text, f.target = text, target
	return f.out, f.err
}

func newTestModel(backend *fakeBackend) Model {
	m := NewModel(Options{
		Backend:       backend,
		Translator:    &fakeTranslator{out: "Very good!"},
		BackendURL:    "http://127.0.0.1:5000",
		Languages:     []string{"spanish", "french", "german"},
		KnownLanguage: "english",
	})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return updated.(Model)
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

// run executes cmd and feeds its message back into the model.
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		t.Fatal("Expected a command")
	}
	m, _ = update(t, m, cmd())
	return m
}

func TestNewModel_Defaults(t *testing.T) {
	m := NewModel(Options{})

	if m.widget.Language() != widget.DefaultLanguage {
		t.Errorf("Expected default language %q, got %q", widget.DefaultLanguage, m.widget.Language())
	}
	if m.Render() != "Loading..." {
		t.Errorf("Expected loading screen before first resize, got %q", m.Render())
	}
	if m.Init() == nil {
		t.Error("Expected Init() to return a focus command")
	}
}

func TestModel_Update_WindowSize(t *testing.T) {
	m := newTestModel(&fakeBackend{})

	if !m.ready || m.width != 80 || m.height != 24 {
		t.Errorf("Unexpected size state: ready=%v %dx%d", m.ready, m.width, m.height)
	}

	lines := strings.Split(m.Render(), "\n")
	if len(lines) != 24 {
		t.Errorf("Expected 24 rendered rows, got %d", len(lines))
	}
}

func TestModel_View_AltScreen(t *testing.T) {
	m := newTestModel(&fakeBackend{})

	v := m.View()
	if !v.AltScreen {
		t.Error("Expected alt screen view")
	}
	if !strings.Contains(ansi.Strip(m.Render()), "Welcome to lingochat") {
		t.Error("Expected welcome banner before the first message")
	}
}

func TestModel_SendMessage(t *testing.T) {
	backend := &fakeBackend{reply: "¡Muy bien!"}
	m := newTestModel(backend)
	m.composer.SetValue("  Hola  ")

	m, cmd := update(t, m, testutils.TestKeyEnter)

	msgs := m.Messages()
	if len(msgs) != 1 || msgs[0].Text != "Hola" || msgs[0].Sender != widget.SenderUser {
		t.Fatalf("Expected optimistic user message, got %#v", msgs)
	}
	if m.composer.Value() != "" {
		t.Errorf("Expected composer cleared, got %q", m.composer.Value())
	}
	if m.pending != 1 {
		t.Errorf("Expected 1 request in flight, got %d", m.pending)
	}

	m = run(t, m, cmd)

	if len(backend.requests) != 1 {
		t.Fatalf("Expected exactly one request, got %d", len(backend.requests))
	}
	if backend.requests[0] != (tutor.ChatRequest{Message: "Hola", Language: "spanish"}) {
		t.Errorf("Unexpected request: %#v", backend.requests[0])
	}
	msgs = m.Messages()
	if len(msgs) != 2 || msgs[1].Text != "¡Muy bien!" || msgs[1].Sender != widget.SenderBot {
		t.Errorf("Expected bot reply appended, got %#v", msgs)
	}
	if m.pending != 0 {
		t.Errorf("Expected no request in flight, got %d", m.pending)
	}
}

func TestModel_SendTypedMessage(t *testing.T) {
	backend := &fakeBackend{reply: "ok"}
	m := newTestModel(backend)

	for _, key := range testutils.TypeString("Hola") {
		m, _ = update(t, m, key)
	}
	m, cmd := update(t, m, testutils.TestKeyEnter)
	m = run(t, m, cmd)

	if len(backend.requests) != 1 || backend.requests[0].Message != "Hola" {
		t.Errorf("Expected typed text to be sent, got %#v", backend.requests)
	}
}

func TestModel_BlankSendIsNoOp(t *testing.T) {
	backend := &fakeBackend{}
	m := newTestModel(backend)
	m.composer.SetValue("   ")

	m, cmd := update(t, m, testutils.TestKeyEnter)

	if cmd != nil {
		t.Error("Expected no command for blank input")
	}
	if len(m.Messages()) != 0 || len(backend.requests) != 0 {
		t.Errorf("Expected nothing sent or shown, got %d messages", len(m.Messages()))
	}
}

func TestModel_SendFailureShowsError(t *testing.T) {
	backend := &fakeBackend{chatErr: errors.New("connection refused")}
	m := newTestModel(backend)
	m.composer.SetValue("Hola")

	m, cmd := update(t, m, testutils.TestKeyEnter)
	m = run(t, m, cmd)

	msgs := m.Messages()
	if len(msgs) != 2 {
		t.Fatalf("Expected user and error messages, got %d", len(msgs))
	}
	if msgs[1].Sender != widget.SenderBot || !strings.Contains(msgs[1].Text, "Error: connection refused") {
		t.Errorf("Expected bot error message, got %#v", msgs[1])
	}
}

func TestModel_InterleavedCompletions(t *testing.T) {
	backend := &fakeBackend{reply: "reply"}
	m := newTestModel(backend)

	m.composer.SetValue("first")
	m, first := update(t, m, testutils.TestKeyEnter)
	m.composer.SetValue("second")
	m, second := update(t, m, testutils.TestKeyEnter)

	if m.pending != 2 {
		t.Fatalf("Expected 2 requests in flight, got %d", m.pending)
	}

	m = run(t, m, second)
	m = run(t, m, first)

	var texts []string
	for _, msg := range m.Messages() {
		texts = append(texts, msg.Text)
	}
	want := "first|second|reply|reply"
	if got := strings.Join(texts, "|"); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
	if m.pending != 0 {
		t.Errorf("Expected pending back to 0, got %d", m.pending)
	}
}

func TestModel_SummaryShortcut(t *testing.T) {
	backend := &fakeBackend{mistakes: []tutor.Mistake{{UserInput: "Yo soy feliz", Correction: "Estoy feliz"}}}
	m := newTestModel(backend)

	m, cmd := update(t, m, testutils.TestKeyCtrlS)
	m = run(t, m, cmd)

	want := "📝 Mistakes Summary:\n\n1. You said: \"Yo soy feliz\"\n   Correction: \"Estoy feliz\"\n\n"
	msgs := m.Messages()
	if len(msgs) != 1 || msgs[0].Text != want {
		t.Errorf("Expected summary message, got %#v", msgs)
	}
}

func TestModel_SummaryCommandEmpty(t *testing.T) {
	backend := &fakeBackend{}
	m := newTestModel(backend)
	m.composer.SetValue("/summary")

	m, cmd := update(t, m, testutils.TestKeyEnter)
	m = run(t, m, cmd)

	msgs := m.Messages()
	if len(msgs) != 1 || msgs[0].Text != "📝 Mistakes Summary:\n\nNo mistakes recorded yet!" {
		t.Errorf("Expected empty summary, got %#v", msgs)
	}
	if len(backend.requests) != 0 {
		t.Error("Expected slash command not to be sent as chat")
	}
}

func TestModel_LanguagePicker(t *testing.T) {
	backend := &fakeBackend{reply: "Bonjour"}
	m := newTestModel(backend)

	m, _ = update(t, m, testutils.TestKeyCtrlL)
	if !m.picker.IsVisible() {
		t.Fatal("Expected picker visible after Ctrl+L")
	}
	if !strings.Contains(ansi.Strip(m.Render()), "Choose a language") {
		t.Error("Expected picker drawn over the screen")
	}

	m, _ = update(t, m, testutils.TestKeyDown)
	m, cmd := update(t, m, testutils.TestKeyEnter)
	if cmd == nil {
		t.Fatal("Expected selection command")
	}
	selected, ok := cmd().(picker.LanguageSelectedMsg)
	if !ok || selected.Language != "french" {
		t.Fatalf("Expected french selected, got %#v", selected)
	}
	m, _ = update(t, m, selected)

	if m.widget.Language() != "french" {
		t.Errorf("Expected language french, got %q", m.widget.Language())
	}
	msgs := m.Messages()
	if len(msgs) != 1 || msgs[0].Text != "Language changed to FRENCH." {
		t.Errorf("Expected confirmation message, got %#v", msgs)
	}
	if !strings.Contains(ansi.Strip(m.statusBar.Render()), "FRENCH") {
		t.Error("Expected status bar to show the new language")
	}

	m.composer.SetValue("Salut")
	m, send := update(t, m, testutils.TestKeyEnter)
	run(t, m, send)
	if backend.requests[0].Language != "french" {
		t.Errorf("Expected request in french, got %q", backend.requests[0].Language)
	}
}

func TestModel_LanguageCommand(t *testing.T) {
	m := newTestModel(&fakeBackend{})
	m.composer.SetValue("/language German")

	m, _ = update(t, m, testutils.TestKeyEnter)

	if m.widget.Language() != "german" {
		t.Errorf("Expected german, got %q", m.widget.Language())
	}

	m.composer.SetValue("/language")
	m, _ = update(t, m, testutils.TestKeyEnter)
	if !m.picker.IsVisible() {
		t.Error("Expected bare /language to open the picker")
	}

	m, _ = update(t, m, testutils.TestKeyEsc)
	if m.picker.IsVisible() {
		t.Error("Expected Esc to close the picker")
	}
}

func TestModel_UnknownCommand(t *testing.T) {
	m := newTestModel(&fakeBackend{})
	m.composer.SetValue("/bogus")

	m, _ = update(t, m, testutils.TestKeyEnter)

	msgs := m.Messages()
	if len(msgs) != 1 || msgs[0].Text != "Unknown command: /bogus" || msgs[0].Sender != widget.SenderBot {
		t.Errorf("Expected unknown command message, got %#v", msgs)
	}
}

func lastBot(m Model) widget.Message {
	msgs := m.Messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Sender == widget.SenderBot {
			return msgs[i]
		}
	}
	return widget.Message{}
}

func sendText(t *testing.T, m Model, text string) Model {
	t.Helper()
	m.composer.SetValue(text)
	m, cmd := update(t, m, testutils.TestKeyEnter)
	return run(t, m, cmd)
}

func TestModel_TranslateLastReply(t *testing.T) {
	tr := &fakeTranslator{out: "Very good!"}
	m := newTestModel(&fakeBackend{reply: "¡Muy bien!"})
	m.translator = tr
	m = sendText(t, m, "Hola")
	m.composer.SetValue("/translate")

	m, cmd := update(t, m, testutils.TestKeyEnter)
	m = run(t, m, cmd)

	if tr.text != "¡Muy bien!" || tr.target != "english" {
		t.Errorf("Unexpected translate call: %q -> %q", tr.text, tr.target)
	}
	last := lastBot(m)
	if last.Text != "🌐 Very good!" {
		t.Errorf("Expected translation message, got %q", last.Text)
	}
}

func TestModel_TranslateSkipsNoticesAndErrors(t *testing.T) {
	tr := &fakeTranslator{out: "Very good!"}
	backend := &fakeBackend{reply: "¡Muy bien!"}
	m := newTestModel(backend)
	m.translator = tr
	m = sendText(t, m, "Hola")

	m.composer.SetValue("/language french")
	m, _ = update(t, m, testutils.TestKeyEnter)
	backend.chatErr = errors.New("model unavailable")
	m = sendText(t, m, "Salut")
	m.composer.SetValue("/help")
	m, _ = update(t, m, testutils.TestKeyEnter)

	m.composer.SetValue("/translate")
	m, cmd := update(t, m, testutils.TestKeyEnter)
	run(t, m, cmd)
	if tr.text != "¡Muy bien!" {
		t.Errorf("Expected the last tutor reply translated, got %q", tr.text)
	}
}

func TestModel_TranslateNothingYet(t *testing.T) {
	m := newTestModel(&fakeBackend{})
	m.widget.SetLanguage("german")
	m.composer.SetValue("/translate")

	m, cmd := update(t, m, testutils.TestKeyEnter)
	if cmd != nil {
		t.Fatal("Expected no translation started without a tutor reply")
	}
	last := lastBot(m)
	if last.Text != "Nothing to translate yet." {
		t.Errorf("Expected nothing-to-translate notice, got %q", last.Text)
	}
}

func TestModel_StatusBarShowsLevel(t *testing.T) {
	m := newTestModel(&fakeBackend{reply: "Bien", difficulty: "A2"})
	if strings.Contains(ansi.Strip(m.statusBar.Render()), "level") {
		t.Error("Expected no level before the first reply")
	}

	m = sendText(t, m, "Hola")
	if !strings.Contains(ansi.Strip(m.statusBar.Render()), "level A2") {
		t.Errorf("Expected level A2 in the status bar, got %q", ansi.Strip(m.statusBar.Render()))
	}
}

func TestModel_ErrorRepliesStyled(t *testing.T) {
	m := newTestModel(&fakeBackend{chatErr: errors.New("boom")})
	m = sendText(t, m, "Hola")

	last := lastBot(m)
	if !strings.HasPrefix(last.Text, m.widget.ErrorPrefix()) {
		t.Fatalf("Expected error message, got %q", last.Text)
	}

	plain := chatlog.New("lingochat")
	plain.SetSize(m.width, m.layout.LogHeight())
	for _, msg := range m.Messages() {
		plain.Append(msg)
	}
	if ansi.Strip(plain.View()) != ansi.Strip(m.log.View()) {
		t.Fatal("Expected the same text with and without error styling")
	}
	if plain.View() == m.log.View() {
		t.Error("Expected the failure drawn in the error style")
	}
}

func TestModel_TranslateFailure(t *testing.T) {
	m := newTestModel(&fakeBackend{})
	m.translator = &fakeTranslator{err: errors.New("quota exceeded")}
	m.composer.SetValue("/translate Hola")

	m, cmd := update(t, m, testutils.TestKeyEnter)
	m = run(t, m, cmd)

	last := lastBot(m)
	if !strings.Contains(last.Text, "Error: quota exceeded") {
		t.Errorf("Expected error message, got %q", last.Text)
	}
}

func TestModel_ClearCommand(t *testing.T) {
	m := newTestModel(&fakeBackend{})
	m.widget.RenderMessage("Hola", widget.SenderUser)
	m.composer.SetValue("/clear")

	m, _ = update(t, m, testutils.TestKeyEnter)

	if len(m.Messages()) != 0 {
		t.Errorf("Expected log cleared, got %d messages", len(m.Messages()))
	}
}

func TestModel_ClearForgetsLastReply(t *testing.T) {
	m := newTestModel(&fakeBackend{reply: "¡Muy bien!"})
	m = sendText(t, m, "Hola")

	m.composer.SetValue("/clear")
	m, _ = update(t, m, testutils.TestKeyEnter)
	m.composer.SetValue("/translate")
	if _, cmd := update(t, m, testutils.TestKeyEnter); cmd != nil {
		t.Error("Expected no reply left to translate after /clear")
	}
}

func TestModel_QuitKeys(t *testing.T) {
	for _, key := range []tea.KeyPressMsg{testutils.TestKeyCtrlC, testutils.TestKeyEsc} {
		m := newTestModel(&fakeBackend{})
		_, cmd := update(t, m, key)
		if cmd == nil {
			t.Fatalf("Expected quit command for %s", key.String())
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("Expected QuitMsg for %s", key.String())
		}
	}

	m := newTestModel(&fakeBackend{})
	m.composer.SetValue("/quit")
	_, cmd := update(t, m, testutils.TestKeyEnter)
	if cmd == nil {
		t.Fatal("Expected quit command for /quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Expected QuitMsg for /quit")
	}
}

func TestModel_TabMovesFocusToLog(t *testing.T) {
	m := newTestModel(&fakeBackend{})
	m.widget.RenderMessage("Estoy feliz", widget.SenderBot)
	m.log.SetClipboardWriter(&strings.Builder{})

	m, _ = update(t, m, testutils.TestKeyTab)
	if !m.log.Focused() || m.composer.Focused() {
		t.Fatal("Expected log focused after Tab")
	}

	m, cmd := update(t, m, testutils.NewTextKeyPressMsg("y"))
	if cmd == nil {
		t.Fatal("Expected copy command from focused log")
	}
	if copied, ok := cmd().(chatlog.CopiedMsg); !ok || copied.Text != "Estoy feliz" {
		t.Errorf("Unexpected copy result %#v", copied)
	}

	m, _ = update(t, m, testutils.TestKeyTab)
	if m.log.Focused() || !m.composer.Focused() {
		t.Error("Expected composer focused after second Tab")
	}
}

func TestModel_PasteIntoComposer(t *testing.T) {
	m := newTestModel(&fakeBackend{})

	m, _ = update(t, m, tea.PasteMsg{Content: "Buenos días"})

	if m.composer.Value() != "Buenos días" {
		t.Errorf("Expected pasted text, got %q", m.composer.Value())
	}
}
