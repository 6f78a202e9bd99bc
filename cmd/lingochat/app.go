package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"lingochat/pkg/config"
	"lingochat/pkg/console"
	"lingochat/pkg/logging"
	"lingochat/pkg/translate"
	"lingochat/pkg/tutor"
	"lingochat/pkg/ui"
	"lingochat/pkg/widget"

	tea "charm.land/bubbletea/v2"
	"github.com/joho/godotenv"
	"golang.org/x/term"
)

// errReported marks failures already shown to the user as a bot message.
var errReported = errors.New("request failed")

const sessionCloseTimeout = 5 * time.Second

type app struct {
	configPath string
	backendURL string
	logLevel   string

	cfg        config.Config
	client     *tutor.Client
	session    *tutor.Session
	translator *translate.Translator

	isTerminal func() bool
	runTUI     func(ui.Options) error
}

func newApp() *app {
	return &app{
		isTerminal: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
		},
		runTUI: func(opts ui.Options) error {
			_, err := tea.NewProgram(ui.NewModel(opts)).Run()
			return err
		},
	}
}

// setup loads .env, the config file and flag overrides, then starts logging
// and builds the backend client.
func (a *app) setup() error {
	if err := godotenv.Load(); err != nil {
		slog.Debug("dotenv_not_loaded", "error", err)
	}

	path := a.configPath
	if path == "" {
		path = config.GetConfigPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if a.backendURL != "" {
		cfg.Backend.BaseURL = a.backendURL
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if _, err := logging.Init(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: file logging disabled: %v\n", err)
	}

	client, err := tutor.NewClientFromConfig(cfg.Backend)
	if err != nil {
		return fmt.Errorf("backend client: %w", err)
	}

	a.cfg = cfg
	a.client = client
	a.session = tutor.NewSession(client, tutor.StartSessionRequest{
		UserID:        cfg.Backend.UserID,
		StartingLevel: cfg.Backend.StartingLevel,
	})
	if a.translator == nil {
		a.translator = translate.NewTranslator()
	}
	slog.Info("app_started", "language", cfg.DefaultLanguage, "user_id", cfg.Backend.UserID)
	return nil
}

func (a *app) uiOptions() ui.Options {
	return ui.Options{
		Backend:       a.session,
		Translator:    a.translator,
		BackendURL:    a.client.BaseURL(),
		Language:      a.cfg.DefaultLanguage,
		Languages:     a.cfg.Languages,
		KnownLanguage: a.cfg.KnownLanguage,
	}
}

// newConsoleWidget builds a widget that prints to out.
func (a *app) newConsoleWidget(out io.Writer, language string, opts ...console.LogOption) (*widget.Widget, *console.Input) {
	prefix := widget.DefaultErrorPrefix()
	input := &console.Input{}
	log := console.NewLog(out, append([]console.LogOption{console.WithErrorPrefix(prefix)}, opts...)...)
	if language == "" {
		language = a.cfg.DefaultLanguage
	}
	return widget.New(a.session, input, log, widget.WithLanguage(language), widget.WithErrorPrefix(prefix)), input
}

// endSession closes the backend session opened by a send, if any. ctx may
// already be canceled by an interrupt, so the request gets its own deadline.
func (a *app) endSession() {
	if a.session == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), sessionCloseTimeout)
	defer cancel()
	if _, err := a.session.Close(ctx); err != nil {
		slog.Warn("session_close_failed", "error", err)
	}
}

// runPiped sends each non-blank line of in as one message.
func (a *app) runPiped(ctx context.Context, in io.Reader, out io.Writer) error {
	w, input := a.newConsoleWidget(out, "")

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	sent, failed := 0, 0
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		input.Set(line)
		sent++
		if err := w.SendMessage(ctx); err != nil {
			failed++
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	slog.Info("piped_session_done", "sent", sent, "failed", failed)
	if failed > 0 {
		return errReported
	}
	return nil
}
