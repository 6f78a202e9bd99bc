package widget

import (
	"fmt"
	"strings"

	"lingochat/pkg/tutor"
)

const (
	summaryHeader   = "📝 Mistakes Summary:\n\n"
	summaryNoneText = "No mistakes recorded yet!"
)

// FormatSummary renders mistake records as the report shown to the learner.
func FormatSummary(mistakes []tutor.Mistake) string {
	var b strings.Builder
	b.WriteString(summaryHeader)

	if len(mistakes) == 0 {
		b.WriteString(summaryNoneText)
		return b.String()
	}

	for i, m := range mistakes {
		fmt.Fprintf(&b, "%d. You said: \"%s\"\n", i+1, m.UserInput)
		fmt.Fprintf(&b, "   Correction: \"%s\"\n\n", m.Correction)
	}
	return b.String()
}
