package statusbar

import (
	"fmt"
	"net/url"
	"strings"

	"lingochat/pkg/ui/styles"

	"github.com/charmbracelet/x/ansi"
)

const defaultHint = "Ctrl+L language | Ctrl+S summary | /help"

// StatusBarView renders the one-line session summary under the chat.
type StatusBarView struct {
	language string
	level    string
	backend  string
	pending  int
	message  string
	width    int
}

// NewStatusBarView creates a new status bar view
func NewStatusBarView() *StatusBarView {
	return &StatusBarView{width: 80}
}

// SetLanguage updates the target language shown.
func (s *StatusBarView) SetLanguage(lang string) {
	s.language = lang
}

// SetLevel updates the proficiency level the tutor last reported.
func (s *StatusBarView) SetLevel(level string) {
	s.level = level
}

// SetBackend updates the backend address shown. Only the host is displayed.
func (s *StatusBarView) SetBackend(baseURL string) {
	if u, err := url.Parse(baseURL); err == nil && u.Host != "" {
		s.backend = u.Host
		return
	}
	s.backend = baseURL
}

// SetPending sets the number of requests in flight.
func (s *StatusBarView) SetPending(n int) {
	if n < 0 {
		n = 0
	}
	s.pending = n
}

// SetMessage sets a temporary message that replaces the key hint.
func (s *StatusBarView) SetMessage(msg string) {
	s.message = msg
}

// SetWidth updates the width for rendering
func (s *StatusBarView) SetWidth(width int) {
	s.width = width
}

// Render returns the styled status bar string
func (s *StatusBarView) Render() string {
	lang := strings.ToUpper(s.language)
	if lang == "" {
		lang = "(none)"
	}
	backend := s.backend
	if backend == "" {
		backend = "unknown"
	}

	parts := []string{fmt.Sprintf("[lingochat] %s", lang)}
	if s.level != "" {
		parts = append(parts, "level "+s.level)
	}
	parts = append(parts, fmt.Sprintf("[tutor]: %s", backend))
	if s.pending > 0 {
		parts = append(parts, fmt.Sprintf("waiting on %d", s.pending))
	}
	if s.message != "" {
		parts = append(parts, s.message)
	} else {
		parts = append(parts, defaultHint)
	}
	content := strings.Join(parts, " | ")

	// Truncate if too long (ANSI-aware width).
	maxWidth := s.width - 2
	if maxWidth < 10 {
		maxWidth = 10
	}
	if ansi.StringWidth(content) > maxWidth {
		content = ansi.Truncate(content, maxWidth, "...")
	}

	style := styles.StatusBarStyle
	if s.pending > 0 {
		style = styles.StatusBarBusyStyle
	}
	styled := style.Render(content)

	// Pad to fill width
	if w := ansi.StringWidth(styled); w < s.width {
		styled += strings.Repeat(" ", s.width-w)
	}
	return styled
}
