package ui

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func TestDefaultKeyMap(t *testing.T) {
	km := DefaultKeyMap()

	tests := []struct {
		name    string
		msg     tea.KeyMsg
		binding key.Binding
	}{
		{"TabNext", tea.KeyMsg{Type: tea.KeyTab}, km.Next},
		{"ShiftTabPrev", tea.KeyMsg{Type: tea.KeyShiftTab}, km.Prev},
		{"CtrlSSave", tea.KeyMsg{Type: tea.KeyCtrlS}, km.Save},
		{"EscCancel", tea.KeyMsg{Type: tea.KeyEsc}, km.Cancel},
		{"CtrlYCopy", tea.KeyMsg{Type: tea.KeyCtrlY}, km.Copy},
		{"CtrlTTheme", tea.KeyMsg{Type: tea.KeyCtrlT}, km.Theme},
		{"F1Help", tea.KeyMsg{Type: tea.KeyF1}, km.Help},
		{"CtrlCQuit", tea.KeyMsg{Type: tea.KeyCtrlC}, km.Quit},
		{"NOpen", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}}, km.Open},
		{"QExit", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}, km.Exit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !key.Matches(tt.msg, tt.binding) {
				t.Errorf("expected %q to match", tt.msg.String())
			}
		})
	}

	t.Run("TypingDoesNotTriggerActions", func(t *testing.T) {
		msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}}
		for _, b := range []key.Binding{km.Save, km.Copy, km.Theme, km.Help, km.Quit, km.Next} {
			if key.Matches(msg, b) {
				t.Errorf("plain 's' should not match %q", b.Help().Desc)
			}
		}
	})
}

func TestKeyMapHelp(t *testing.T) {
	km := DefaultKeyMap()
	if len(km.ShortHelp()) == 0 {
		t.Error("expected short help bindings")
	}
	full := km.FullHelp()
	if len(full) != 2 {
		t.Fatalf("expected 2 help columns, got %d", len(full))
	}
	for _, col := range full {
		for _, b := range col {
			if b.Help().Key == "" || b.Help().Desc == "" {
				t.Errorf("binding %v is missing help text", b.Keys())
			}
		}
	}
}
