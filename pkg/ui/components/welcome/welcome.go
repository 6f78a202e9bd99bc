package welcome

import (
	"fmt"
	"strings"

	"lingochat/pkg/ui/components/utils"
	"lingochat/pkg/ui/styles"
	"lingochat/pkg/version"

	"github.com/mattn/go-runewidth"
)

const boxWidth = 48 // inner width

// Banner returns the box shown in the empty chat log.
func Banner(language string) string {
	makeLine := func(content string, visualWidth int) string {
		pad := boxWidth - visualWidth
		if pad < 0 {
			pad = 0
		}
		return styles.WelcomeBorderStyle.Render("│") + content + strings.Repeat(" ", pad) + styles.WelcomeBorderStyle.Render("│")
	}
	centered := func(text string, style func(...string) string) string {
		w := runewidth.StringWidth(text)
		left := (boxWidth - w) / 2
		return makeLine(strings.Repeat(" ", left)+style(text), left+w)
	}

	top := styles.WelcomeBorderStyle.Render("╭" + strings.Repeat("─", boxWidth) + "╮")
	bottom := styles.WelcomeBorderStyle.Render("╰" + strings.Repeat("─", boxWidth) + "╯")
	empty := makeLine("", 0)

	lines := []string{top}
	lines = append(lines, centered("✨ Welcome to lingochat ✨", styles.WelcomeTitleStyle.Render))
	lines = append(lines, centered("Practising: "+strings.ToUpper(language), styles.WelcomeHeaderStyle.Render))
	lines = append(lines, empty)

	header := "  Shortcuts:"
	lines = append(lines, makeLine(styles.WelcomeHeaderStyle.Render(header), runewidth.StringWidth(header)))

	shortcuts := []struct{ key, desc string }{
		{"Enter", "Send message"},
		{"Ctrl+L", "Change language"},
		{"Ctrl+S", "Show mistakes summary"},
		{"Tab", "Switch focus to the log"},
		{"/help", "List commands"},
		{"Esc", "Quit"},
	}
	for _, s := range shortcuts {
		keyFormatted := fmt.Sprintf("    %-8s", s.key)
		line := styles.WelcomeKeyStyle.Render(keyFormatted) + styles.TextStyle.Render(s.desc)
		lines = append(lines, makeLine(line, runewidth.StringWidth(keyFormatted)+runewidth.StringWidth(s.desc)))
	}

	lines = append(lines, empty)

	versionText := utils.TruncateToWidth(version.Summary(), boxWidth-4)
	lines = append(lines, centered(versionText, styles.WelcomeVersionStyle.Render))
	lines = append(lines, bottom)

	return strings.Join(lines, "\n")
}
