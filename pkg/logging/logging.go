// Package logging routes slog output to a rotating file. The terminal is
// owned by the chat, so records never reach stdout or stderr.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"lingochat/pkg/config"
	"lingochat/pkg/version"

	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	logFileName   = "lingochat.log"
	maxLogSizeMB  = 5
	maxLogBackups = 5
	maxLogAgeDays = 14
)

// Learner and tutor text stays out of the log; only its length is kept.
var privateKeys = map[string]bool{
	"message":    true,
	"reply":      true,
	"text":       true,
	"user_input": true,
	"correction": true,
}

// Init installs the default logger for a chat run. Every record carries the
// app version and the backend host. If the log directory cannot be created
// records are dropped and the error is returned.
func Init(cfg config.Config) (*slog.Logger, error) {
	opts := &slog.HandlerOptions{
		Level:       parseLogLevel(cfg.LogLevel),
		ReplaceAttr: maskPrivate,
	}

	out, err := openSink(cfg.LogFile)
	logger := slog.New(newHandler(cfg.LogFormat, out, opts)).With(
		slog.String("app", "lingochat"),
		slog.String("version", version.Summary()),
		slog.String("backend", backendHost(cfg.Backend.BaseURL)),
	)
	slog.SetDefault(logger)
	return logger, err
}

func openSink(path string) (io.Writer, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = defaultLogPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return io.Discard, err
	}
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxLogSizeMB,
		MaxBackups: maxLogBackups,
		MaxAge:     maxLogAgeDays,
		Compress:   true,
	}, nil
}

func defaultLogPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil || strings.TrimSpace(homeDir) == "" {
		return filepath.Join(".lingochat", "logs", logFileName)
	}
	return filepath.Join(homeDir, ".lingochat", "logs", logFileName)
}

func backendHost(baseURL string) string {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil || u.Host == "" {
		return baseURL
	}
	return u.Host
}

func maskPrivate(_ []string, a slog.Attr) slog.Attr {
	if privateKeys[a.Key] && a.Value.Kind() == slog.KindString {
		return slog.String(a.Key, fmt.Sprintf("<%d chars>", len([]rune(a.Value.String()))))
	}
	return a
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func newHandler(format string, out io.Writer, opts *slog.HandlerOptions) slog.Handler {
	if strings.EqualFold(strings.TrimSpace(format), "text") {
		return slog.NewTextHandler(out, opts)
	}
	return slog.NewJSONHandler(out, opts)
}
