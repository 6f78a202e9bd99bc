// Package translate turns tutor replies into the learner's own language.
package translate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	googletranslatefree "github.com/bas24/googletranslatefree"
)

// Func performs one translation between language codes.
type Func func(text, source, target string) (string, error)

var languageCodes = map[string]string{
	"arabic":     "ar",
	"chinese":    "zh-CN",
	"dutch":      "nl",
	"english":    "en",
	"french":     "fr",
	"german":     "de",
	"hindi":      "hi",
	"italian":    "it",
	"japanese":   "ja",
	"korean":     "ko",
	"polish":     "pl",
	"portuguese": "pt",
	"russian":    "ru",
	"spanish":    "es",
	"turkish":    "tr",
	"vietnamese": "vi",
}

// Code maps a language name such as "french" to its code. Values that
// already look like codes are passed through.
func Code(language string) (string, error) {
	lang := strings.ToLower(strings.TrimSpace(language))
	if lang == "" {
		return "", fmt.Errorf("empty target language")
	}
	if code, ok := languageCodes[lang]; ok {
		return code, nil
	}
	if len(lang) == 2 || (len(lang) == 5 && lang[2] == '-') {
		return strings.TrimSpace(language), nil
	}
	return "", fmt.Errorf("unsupported language %q", language)
}

type Translator struct {
	translate Func
}

// Option configures a Translator.
type Option func(*Translator)

// WithFunc replaces the translation backend.
func WithFunc(fn Func) Option {
	return func(t *Translator) {
		t.translate = fn
	}
}

func NewTranslator(opts ...Option) *Translator {
	t := &Translator{translate: googletranslatefree.Translate}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Translate detects the source language and translates text into target,
// given by name or code. Blank text returns "" without a lookup.
func (t *Translator) Translate(ctx context.Context, text, target string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	code, err := Code(target)
	if err != nil {
		return "", err
	}

	type result struct {
		text string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		out, err := t.translate(text, "auto", code)
		done <- result{text: out, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		if r.err != nil {
			slog.Error("translate_error", "target", code, "error", r.err)
			return "", fmt.Errorf("translation failed: %w", r.err)
		}
		slog.Debug("translate_done", "target", code, "chars", len(r.text))
		return r.text, nil
	}
}
