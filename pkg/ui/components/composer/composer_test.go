package composer

import (
	"strings"
	"testing"

	"lingochat/pkg/ui/components/testutils"
	"lingochat/pkg/ui/styles"
	"lingochat/pkg/widget"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
)

var _ widget.Input = (*Composer)(nil)

func TestComposer_TypingAndClear(t *testing.T) {
	c := New()
	c.SetWidth(40)

	for _, r := range "Hola" {
		c.Update(testutils.NewTextKeyPressMsg(string(r)))
	}
	if c.Value() != "Hola" {
		t.Fatalf("Expected value 'Hola', got %q", c.Value())
	}

	c.Clear()
	if c.Value() != "" {
		t.Errorf("Expected empty value after Clear, got %q", c.Value())
	}
}

func TestComposer_FocusAndBlur(t *testing.T) {
	c := New()
	if !c.Focused() {
		t.Fatal("Expected composer focused by default")
	}
	c.Blur()
	if c.Focused() {
		t.Error("Expected composer blurred")
	}
	c.Focus()
	if !c.Focused() {
		t.Error("Expected composer focused again")
	}
}

func TestComposer_ViewHeight(t *testing.T) {
	c := New()
	c.SetWidth(40)
	c.SetValue("Bonjour")

	view := c.View()
	lines := strings.Split(view, "\n")
	if len(lines) != Height {
		t.Fatalf("Expected %d lines, got %d", Height, len(lines))
	}
	if !strings.Contains(ansi.Strip(view), "Bonjour") {
		t.Errorf("Expected typed text in view, got:\n%s", ansi.Strip(view))
	}
}

func TestComposer_InsertString(t *testing.T) {
	c := New()
	c.SetWidth(40)
	c.InsertString("pegado")
	if c.Value() != "pegado" {
		t.Errorf("Expected pasted value, got %q", c.Value())
	}
}

func TestComposer_PlaceholderStyle(t *testing.T) {
	c := New()
	st := c.textarea.Styles()
	for name, state := range map[string]lipgloss.Style{"focused": st.Focused.Placeholder, "blurred": st.Blurred.Placeholder} {
		if state.GetForeground() != styles.ColorPlaceholder {
			t.Errorf("Expected %s placeholder in the theme color, got %v", name, state.GetForeground())
		}
	}
}
