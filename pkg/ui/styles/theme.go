// Package styles provides the shared palette and styles for the lingochat UI.
package styles

import (
	"charm.land/lipgloss/v2"
)

// Color palette - ANSI 256 colors used throughout the application
var (
	// Primary accent color (purple)
	ColorAccent = lipgloss.Color("141")

	// Text colors
	ColorText       = lipgloss.Color("252") // Primary text
	ColorTextMuted  = lipgloss.Color("245") // Secondary/muted text
	ColorTextBright = lipgloss.Color("15")  // Bright/highlighted text

	ColorError = lipgloss.Color("196")

	// Conversation colors
	ColorUser = lipgloss.Color("117") // Learner messages
	ColorBot  = lipgloss.Color("219") // Tutor messages

	ColorPlaceholder = lipgloss.Color("240")

	// Border colors
	ColorBorder      = lipgloss.Color("141") // Default border (matches accent)
	ColorBorderMuted = lipgloss.Color("62")  // Unfocused border
)

// Panel/Box styles
var (
	// BoxStyle is the default rounded box for overlays and panels
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(1, 2)

	// PanelStyle frames the message log
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder)

	// PanelMutedStyle frames the message log when it does not have focus
	PanelMutedStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorderMuted)
)

// Text styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	TextStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	TextMutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Italic(true)
)

// Message styles
var (
	UserLabelStyle = lipgloss.NewStyle().
			Foreground(ColorUser).
			Bold(true)

	UserTextStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	BotLabelStyle = lipgloss.NewStyle().
			Foreground(ColorBot).
			Bold(true)

	BotTextStyle = lipgloss.NewStyle().
			Foreground(ColorTextBright)
)

// Selection and highlighting
var (
	SelectedStyle = lipgloss.NewStyle().
			Foreground(ColorTextBright).
			Background(ColorAccent).
			Bold(true)

	PlaceholderStyle = lipgloss.NewStyle().
				Foreground(ColorPlaceholder).
				Italic(true)
)

// Feedback styles
var (
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Italic(true)
)

// Status bar styles
var (
	// StatusBarStyle is the default status bar style (purple theme)
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1).
			Bold(true)

	// StatusBarBusyStyle is used while requests are in flight
	StatusBarBusyStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FAFAFA")).
				Background(lipgloss.Color("#00B8D4")).
				Padding(0, 1).
				Bold(true)
)

// Welcome banner styles
var (
	WelcomeBorderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("99"))

	WelcomeTitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("219")).
				Bold(true)

	WelcomeKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("222")).
			Bold(true)

	WelcomeHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("248"))

	WelcomeVersionStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("244"))
)
