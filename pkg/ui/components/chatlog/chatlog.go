// Package chatlog renders the conversation as a scrollable list of
// plain-text entries. Entries are only appended; Clear is the one reset.
package chatlog

import (
	"fmt"
	"io"
	"os"
	"strings"

	"lingochat/pkg/ui/components/utils"
	"lingochat/pkg/ui/styles"
	"lingochat/pkg/widget"

	tea "charm.land/bubbletea/v2"
	osc52 "github.com/aymanbagabas/go-osc52/v2"
)

const (
	borderSize  = 1
	paddingH    = 1
	footerLabel = "Up/Down Scroll | y Copy | Tab Input"
	pageSize    = 10
)

// CopiedMsg reports that a message was sent to the clipboard.
type CopiedMsg struct {
	Text string
}

// Log displays chat messages and keeps the newest one in view.
type Log struct {
	title   string
	banner  string
	entries []widget.Message

	width   int
	height  int
	scrollY int
	lines   []string
	follow  bool
	focused bool

	errorPrefix string
	clipboard   io.Writer
}

// New creates an empty log.
func New(title string) *Log {
	return &Log{
		title:     title,
		follow:    true,
		clipboard: os.Stdout,
	}
}

// Append adds one entry and scrolls to it.
func (l *Log) Append(m widget.Message) {
	l.entries = append(l.entries, m)
	l.follow = true
	l.reflow()
}

// Messages returns the entries in display order.
func (l *Log) Messages() []widget.Message {
	return l.entries
}

// Clear removes every entry.
func (l *Log) Clear() {
	l.entries = nil
	l.scrollY = 0
	l.follow = true
	l.reflow()
}

// SetBanner sets pre-rendered content shown while the log is empty.
func (l *Log) SetBanner(banner string) {
	l.banner = banner
	l.reflow()
}

// SetErrorPrefix marks tutor entries starting with prefix as failures.
func (l *Log) SetErrorPrefix(prefix string) {
	l.errorPrefix = prefix
	l.reflow()
}

// SetTitle updates the title line.
func (l *Log) SetTitle(title string) {
	l.title = title
}

// SetSize sets the outer dimensions, border included.
func (l *Log) SetSize(width, height int) {
	l.width = width
	l.height = height
	l.reflow()
}

// SetFocused toggles keyboard focus.
func (l *Log) SetFocused(focused bool) {
	l.focused = focused
}

// Focused reports whether the log has keyboard focus.
func (l *Log) Focused() bool {
	return l.focused
}

// SetClipboardWriter redirects OSC52 clipboard output.
func (l *Log) SetClipboardWriter(w io.Writer) {
	l.clipboard = w
}

// Update handles navigation keys.
func (l *Log) Update(msg tea.KeyPressMsg) tea.Cmd {
	maxScroll := l.maxScroll()

	switch msg.String() {
	case "up":
		if l.scrollY > 0 {
			l.scrollY--
			l.follow = false
		}
	case "down":
		if l.scrollY < maxScroll {
			l.scrollY++
		}
		l.follow = l.scrollY >= maxScroll
	case "pgup":
		l.scrollY -= pageSize
		if l.scrollY < 0 {
			l.scrollY = 0
		}
		l.follow = false
	case "pgdown":
		l.scrollY += pageSize
		if l.scrollY > maxScroll {
			l.scrollY = maxScroll
		}
		l.follow = l.scrollY >= maxScroll
	case "home":
		l.scrollY = 0
		l.follow = maxScroll == 0
	case "end":
		l.scrollY = maxScroll
		l.follow = true
	case "y":
		if l.focused {
			return l.copyLast()
		}
	}
	return nil
}

func (l *Log) copyLast() tea.Cmd {
	if len(l.entries) == 0 {
		return nil
	}
	text := l.entries[len(l.entries)-1].Text
	out := l.clipboard
	return func() tea.Msg {
		_, _ = fmt.Fprint(out, osc52.New(text))
		return CopiedMsg{Text: text}
	}
}

// View renders the log inside a rounded border.
func (l *Log) View() string {
	contentWidth := l.contentWidth()
	contentHeight := l.contentHeight()

	lines := make([]string, 0, contentHeight)
	lines = append(lines, utils.PadStyled(styles.TitleStyle.Render(utils.TruncateToWidth(l.title, contentWidth)), contentWidth))

	bodyHeight := l.bodyHeight()
	end := l.scrollY + bodyHeight
	if end > len(l.lines) {
		end = len(l.lines)
	}
	for i := l.scrollY; i < end; i++ {
		lines = append(lines, utils.PadStyled(l.lines[i], contentWidth))
	}
	for len(lines) < 1+bodyHeight {
		lines = append(lines, strings.Repeat(" ", contentWidth))
	}

	if contentHeight >= 2 {
		footer := footerLabel
		if !l.follow {
			footer = "▼ more below | " + footer
		}
		lines = append(lines, utils.PadStyled(styles.FooterStyle.Render(utils.TruncateToWidth(footer, contentWidth)), contentWidth))
	}

	boxWidth := l.width
	if boxWidth < 1 {
		boxWidth = 1
	}

	box := styles.PanelMutedStyle
	if l.focused {
		box = styles.PanelStyle
	}
	return box.
		Width(boxWidth).
		Padding(0, paddingH).
		Render(strings.Join(lines, "\n"))
}

func (l *Log) reflow() {
	width := l.contentWidth()
	l.lines = l.lines[:0]

	if len(l.entries) == 0 && l.banner != "" {
		l.lines = append(l.lines, strings.Split(l.banner, "\n")...)
	}

	for i, entry := range l.entries {
		if i > 0 {
			l.lines = append(l.lines, "")
		}
		l.lines = append(l.lines, renderEntry(entry, width, l.errorPrefix)...)
	}

	if l.follow || l.scrollY > l.maxScroll() {
		l.scrollY = l.maxScroll()
	}
	if l.scrollY < 0 {
		l.scrollY = 0
	}
}

func renderEntry(m widget.Message, width int, errorPrefix string) []string {
	labelStyle, textStyle := styles.BotLabelStyle, styles.BotTextStyle
	label := "Tutor"
	switch {
	case m.Sender == widget.SenderUser:
		labelStyle, textStyle = styles.UserLabelStyle, styles.UserTextStyle
		label = "You"
	case errorPrefix != "" && strings.HasPrefix(m.Text, errorPrefix):
		textStyle = styles.ErrorStyle
	}

	out := []string{labelStyle.Render(label)}
	text := strings.ReplaceAll(utils.SanitizeText(m.Text), "\t", "    ")
	for _, raw := range strings.Split(text, "\n") {
		for _, line := range utils.WrapToWidth(raw, width) {
			out = append(out, textStyle.Render(line))
		}
	}
	return out
}

func (l *Log) contentWidth() int {
	width := l.width - 2*(borderSize+paddingH)
	if width < 1 {
		return 1
	}
	return width
}

func (l *Log) contentHeight() int {
	height := l.height - 2*borderSize
	if height < 1 {
		return 1
	}
	return height
}

func (l *Log) bodyHeight() int {
	h := l.contentHeight() - 2
	if h < 1 {
		return 1
	}
	return h
}

func (l *Log) maxScroll() int {
	max := len(l.lines) - l.bodyHeight()
	if max < 0 {
		return 0
	}
	return max
}
