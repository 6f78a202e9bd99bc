// Package composer is the message entry box. It satisfies widget.Input.
package composer

import (
	"strings"

	"lingochat/pkg/ui/components/utils"
	"lingochat/pkg/ui/styles"

	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
)

const (
	// Height is the number of rows the entry box occupies, separator included.
	Height      = 4
	inputRows   = Height - 1
	placeholder = "Type a message… (Enter send, /help for commands)"
)

// Composer wraps a textarea with chat-specific defaults.
type Composer struct {
	textarea textarea.Model
	width    int
}

// New creates a focused, empty composer.
func New() *Composer {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.ShowLineNumbers = false
	st := ta.Styles()
	st.Focused.Placeholder = styles.PlaceholderStyle
	st.Blurred.Placeholder = styles.PlaceholderStyle
	ta.SetStyles(st)
	ta.SetHeight(inputRows)
	ta.Focus()
	return &Composer{textarea: ta}
}

// Value returns the raw text typed so far.
func (c *Composer) Value() string {
	return c.textarea.Value()
}

// Clear empties the entry box.
func (c *Composer) Clear() {
	c.textarea.Reset()
}

// SetValue replaces the text.
func (c *Composer) SetValue(s string) {
	c.textarea.SetValue(s)
}

// InsertString inserts pasted text at the cursor.
func (c *Composer) InsertString(s string) {
	c.textarea.InsertString(s)
}

// Focus gives keyboard focus to the composer.
func (c *Composer) Focus() tea.Cmd {
	return c.textarea.Focus()
}

// Blur removes keyboard focus.
func (c *Composer) Blur() {
	c.textarea.Blur()
}

// Focused reports whether the composer has focus.
func (c *Composer) Focused() bool {
	return c.textarea.Focused()
}

// SetWidth sets the outer width.
func (c *Composer) SetWidth(width int) {
	c.width = width
	if width > 0 {
		c.textarea.SetWidth(width)
	}
}

// Update forwards editing input to the textarea.
func (c *Composer) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	c.textarea, cmd = c.textarea.Update(msg)
	return cmd
}

// View renders a separator line above the textarea.
func (c *Composer) View() string {
	width := c.width
	if width < 1 {
		width = 1
	}

	lines := make([]string, 0, Height)
	lines = append(lines, styles.FooterStyle.Render(strings.Repeat("─", width)))
	for i, line := range strings.Split(c.textarea.View(), "\n") {
		if i >= inputRows {
			break
		}
		lines = append(lines, utils.PadStyled(line, width))
	}
	for len(lines) < Height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}
