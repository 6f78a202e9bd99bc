package ui

import (
	"strings"

	"lingochat/pkg/ui/components/composer"

	"charm.land/lipgloss/v2"
)

const statusBarHeight = 1

// LayoutManager splits the screen into log, composer and status bar.
type LayoutManager struct {
	width  int
	height int
}

// NewLayoutManager creates a new layout manager
func NewLayoutManager() *LayoutManager {
	return &LayoutManager{
		width:  80,
		height: 24,
	}
}

// SetSize updates the layout dimensions
func (lm *LayoutManager) SetSize(width, height int) {
	lm.width = width
	lm.height = height
}

// LogHeight returns the rows left for the message log.
func (lm *LayoutManager) LogHeight() int {
	h := lm.height - composer.Height - statusBarHeight
	if h < 3 {
		return 3
	}
	return h
}

// RenderLayout stacks the log, composer and status bar.
func (lm *LayoutManager) RenderLayout(logContent, composerContent, statusBarContent string) string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		logContent,
		composerContent,
		statusBarContent,
	)
}

// GetDimensions returns current width and height
func (lm *LayoutManager) GetDimensions() (width, height int) {
	return lm.width, lm.height
}

// addOverlayLayer centers view on a width x height screen at depth z.
func addOverlayLayer(layers []*lipgloss.Layer, view string, width, height, z int) []*lipgloss.Layer {
	if view == "" {
		return layers
	}

	lines := strings.Split(view, "\n")
	if len(lines) > height && height > 0 {
		lines = lines[:height]
	}
	viewWidth := lipgloss.Width(strings.Join(lines, "\n"))
	if viewWidth > width && width > 0 {
		for i, line := range lines {
			lines[i] = clipANSI(line, width)
		}
		viewWidth = width
	}

	x := (width - viewWidth) / 2
	y := (height - len(lines)) / 2
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}

	return append(layers, lipgloss.NewLayer(strings.Join(lines, "\n")).X(x).Y(y).Z(z))
}
