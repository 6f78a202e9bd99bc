package utils

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"
)

// TruncateToWidth truncates string to width with ellipsis
func TruncateToWidth(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(text) <= width {
		return text
	}
	if width <= 3 {
		return TrimToWidth(text, width)
	}
	return TrimToWidth(text, width-3) + "..."
}

// TrimToWidth trims string to width without ellipsis
func TrimToWidth(text string, width int) string {
	if width <= 0 {
		return ""
	}
	var sb strings.Builder
	currentWidth := 0
	for _, r := range text {
		runeWidth := runewidth.RuneWidth(r)
		if currentWidth+runeWidth > width {
			break
		}
		sb.WriteRune(r)
		currentWidth += runeWidth
	}
	return sb.String()
}

// PadPlain pads text with spaces to width
func PadPlain(text string, width int) string {
	if width <= 0 {
		return text
	}
	textWidth := runewidth.StringWidth(text)
	if textWidth >= width {
		return text
	}
	return text + strings.Repeat(" ", width-textWidth)
}

// PadStyled pads text with spaces to width, accounting for style
func PadStyled(text string, width int) string {
	if width <= 0 {
		return text
	}
	textWidth := lipgloss.Width(text)
	if textWidth >= width {
		return text
	}
	return text + strings.Repeat(" ", width-textWidth)
}

// SplitByWidth hard-wraps text into chunks no wider than width.
func SplitByWidth(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}
	if text == "" {
		return []string{""}
	}

	var parts []string
	var sb strings.Builder
	currentWidth := 0

	for _, r := range text {
		runeWidth := runewidth.RuneWidth(r)
		if currentWidth+runeWidth > width && currentWidth > 0 {
			parts = append(parts, sb.String())
			sb.Reset()
			currentWidth = 0
		}
		sb.WriteRune(r)
		currentWidth += runeWidth
	}

	if sb.Len() > 0 {
		parts = append(parts, sb.String())
	}
	return parts
}

// WrapToWidth word-wraps a single line to width. Words wider than width are
// split. Runs of spaces inside a line are kept.
func WrapToWidth(line string, width int) []string {
	if width <= 0 || runewidth.StringWidth(line) <= width {
		return []string{line}
	}

	var lines []string
	var current strings.Builder
	currentWidth := 0

	flush := func() {
		lines = append(lines, strings.TrimRight(current.String(), " "))
		current.Reset()
		currentWidth = 0
	}

	for _, word := range strings.SplitAfter(line, " ") {
		wordWidth := runewidth.StringWidth(strings.TrimRight(word, " "))
		if currentWidth > 0 && currentWidth+wordWidth > width {
			flush()
		}
		if wordWidth > width {
			chunks := SplitByWidth(word, width)
			for _, chunk := range chunks[:len(chunks)-1] {
				lines = append(lines, chunk)
			}
			word = chunks[len(chunks)-1]
		}
		current.WriteString(word)
		currentWidth += runewidth.StringWidth(word)
	}
	if current.Len() > 0 || len(lines) == 0 {
		flush()
	}
	return lines
}

// SanitizeText drops control characters other than newline and tab, and
// normalizes line endings.
func SanitizeText(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	var sb strings.Builder
	sb.Grow(len(content))
	for _, r := range content {
		switch r {
		case '\n', '\t':
			sb.WriteRune(r)
			continue
		}
		if r < 0x20 || r == 0x7f {
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
