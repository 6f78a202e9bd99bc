package picker

import (
	"strings"

	"lingochat/pkg/ui/components/utils"
	"lingochat/pkg/ui/styles"

	tea "charm.land/bubbletea/v2"
)

const pickerFooter = "Up/Down Navigate | Enter Select | Esc Cancel"

// LanguageSelectedMsg is emitted when the learner confirms a language.
type LanguageSelectedMsg struct {
	Language string
}

// LanguagePicker is the overlay list used to choose the target language.
type LanguagePicker struct {
	title     string
	languages []string
	current   string
	selected  int
	scroll    int
	visible   bool
	width     int
	height    int
}

// NewLanguagePicker creates a hidden picker.
func NewLanguagePicker() *LanguagePicker {
	return &LanguagePicker{title: "Choose a language"}
}

// Show opens the picker with the cursor on current.
func (p *LanguagePicker) Show(languages []string, current string) {
	p.visible = true
	p.languages = append([]string(nil), languages...)
	p.current = current
	p.selected = 0
	p.scroll = 0

	for i, lang := range p.languages {
		if lang == current {
			p.selected = i
			break
		}
	}

	p.ensureVisible(p.listHeight())
}

// Hide hides the picker.
func (p *LanguagePicker) Hide() {
	p.visible = false
}

// IsVisible reports whether the picker is visible.
func (p *LanguagePicker) IsVisible() bool {
	return p.visible
}

// SetSize updates the picker dimensions.
func (p *LanguagePicker) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// Update handles keyboard input for the picker.
func (p *LanguagePicker) Update(msg tea.KeyPressMsg) tea.Cmd {
	if !p.visible {
		return nil
	}

	listHeight := p.listHeight()
	last := len(p.languages) - 1

	switch msg.String() {
	case "up":
		if p.selected > 0 {
			p.selected--
		}
	case "down":
		if p.selected < last {
			p.selected++
		}
	case "pgup":
		p.selected -= listHeight
	case "pgdown":
		p.selected += listHeight
	case "home":
		p.selected = 0
	case "end":
		p.selected = last
	case "enter":
		if p.selected >= 0 && p.selected <= last {
			lang := p.languages[p.selected]
			p.Hide()
			return func() tea.Msg {
				return LanguageSelectedMsg{Language: lang}
			}
		}
		return nil
	case "esc":
		p.Hide()
		return nil
	default:
		// Typing a letter jumps to the next language starting with it.
		if text := strings.ToLower(msg.Key().Text); text != "" {
			p.jumpTo(text)
		}
	}

	p.ensureVisible(listHeight)
	return nil
}

func (p *LanguagePicker) jumpTo(prefix string) {
	n := len(p.languages)
	for i := 1; i <= n; i++ {
		idx := (p.selected + i) % n
		if strings.HasPrefix(strings.ToLower(p.languages[idx]), prefix) {
			p.selected = idx
			return
		}
	}
}

// View renders the picker.
func (p *LanguagePicker) View() string {
	if !p.visible {
		return ""
	}

	boxWidth, contentWidth, listHeight := p.dimensions()

	var content strings.Builder
	content.WriteString(styles.TitleStyle.Render(p.title))
	content.WriteString("\n\n")

	if len(p.languages) == 0 {
		content.WriteString(styles.TextMutedStyle.Render("No languages configured"))
		for i := 1; i < listHeight; i++ {
			content.WriteString("\n")
		}
	} else {
		for i := 0; i < listHeight; i++ {
			index := p.scroll + i
			if index >= len(p.languages) {
				content.WriteString("\n")
				continue
			}
			lang := p.languages[index]
			marker := "  "
			if lang == p.current {
				marker = "• "
			}
			line := utils.TruncateToWidth(marker+lang, contentWidth)
			if index == p.selected {
				content.WriteString(styles.SelectedStyle.Render(utils.PadPlain(line, contentWidth)))
			} else {
				content.WriteString(styles.TextStyle.Render(line))
			}
			content.WriteString("\n")
		}
	}

	content.WriteString("\n")
	content.WriteString(styles.FooterStyle.Render(utils.TruncateToWidth(pickerFooter, contentWidth)))

	return styles.BoxStyle.Width(boxWidth).Render(content.String())
}

func (p *LanguagePicker) ensureVisible(listHeight int) {
	if len(p.languages) == 0 {
		p.selected = 0
		p.scroll = 0
		return
	}

	if p.selected < 0 {
		p.selected = 0
	}
	if p.selected >= len(p.languages) {
		p.selected = len(p.languages) - 1
	}

	maxScroll := len(p.languages) - listHeight
	if maxScroll < 0 {
		maxScroll = 0
	}
	if p.scroll > maxScroll {
		p.scroll = maxScroll
	}
	if p.selected < p.scroll {
		p.scroll = p.selected
	}
	if p.selected >= p.scroll+listHeight {
		p.scroll = p.selected - listHeight + 1
	}
	if p.scroll < 0 {
		p.scroll = 0
	}
}

func (p *LanguagePicker) dimensions() (int, int, int) {
	width := p.width
	height := p.height
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 24
	}

	boxWidth := width - 2
	if boxWidth > 44 {
		boxWidth = 44
	}
	if boxWidth < 20 {
		boxWidth = 20
	}

	// border + horizontal padding
	contentWidth := boxWidth - 6
	if contentWidth < 8 {
		contentWidth = 8
	}

	maxContentHeight := height - 4
	if maxContentHeight < 6 {
		maxContentHeight = 6
	}

	const fixedLines = 4
	listHeight := maxContentHeight - fixedLines
	if listHeight < 1 {
		listHeight = 1
	}

	return boxWidth, contentWidth, listHeight
}

func (p *LanguagePicker) listHeight() int {
	_, _, listHeight := p.dimensions()
	return listHeight
}
