package testutils

import (
	tea "charm.land/bubbletea/v2"
)

// NewKeyPressMsg creates a KeyPressMsg from a key code (for special keys)
func NewKeyPressMsg(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg(tea.Key{Code: code})
}

// NewTextKeyPressMsg creates a KeyPressMsg for text input
func NewTextKeyPressMsg(text string) tea.KeyPressMsg {
	if len(text) == 0 {
		return tea.KeyPressMsg(tea.Key{})
	}
	r := []rune(text)[0]
	return tea.KeyPressMsg(tea.Key{
		Code: r,
		Text: text,
	})
}

// NewCtrlKeyPressMsg creates a Ctrl+<char> KeyPressMsg
func NewCtrlKeyPressMsg(char rune) tea.KeyPressMsg {
	return tea.KeyPressMsg(tea.Key{
		Code: char,
		Mod:  tea.ModCtrl,
	})
}

// TypeString returns one KeyPressMsg per rune of s.
func TypeString(s string) []tea.KeyPressMsg {
	msgs := make([]tea.KeyPressMsg, 0, len(s))
	for _, r := range s {
		msgs = append(msgs, NewTextKeyPressMsg(string(r)))
	}
	return msgs
}

var (
	TestKeyUp     = NewKeyPressMsg(tea.KeyUp)
	TestKeyDown   = NewKeyPressMsg(tea.KeyDown)
	TestKeyEnter  = NewKeyPressMsg(tea.KeyEnter)
	TestKeyTab    = NewKeyPressMsg(tea.KeyTab)
	TestKeyEsc    = NewKeyPressMsg(tea.KeyEscape)
	TestKeyHome   = NewKeyPressMsg(tea.KeyHome)
	TestKeyEnd    = NewKeyPressMsg(tea.KeyEnd)
	TestKeyPgUp   = NewKeyPressMsg(tea.KeyPgUp)
	TestKeyPgDown = NewKeyPressMsg(tea.KeyPgDown)

	TestKeyCtrlC = NewCtrlKeyPressMsg('c')
	TestKeyCtrlL = NewCtrlKeyPressMsg('l')
	TestKeyCtrlS = NewCtrlKeyPressMsg('s')
)
