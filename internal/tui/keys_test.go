package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestKeyRegistryScopeMatch(t *testing.T) {
	reg := NewKeyRegistry([]KeyBinding{
		{Keys: []string{"ctrl+k"}, Action: "palette", Scopes: []string{"tab:a"}},
		{Keys: []string{"q"}, Action: "quit", Scopes: []string{"*"}},
	})
	if !reg.IsAction(tea.KeyMsg{Type: tea.KeyCtrlK}, "palette", "tab:a") {
		t.Fatalf("expected ctrl+k in tab:a")
	}
	if reg.IsAction(tea.KeyMsg{Type: tea.KeyCtrlK}, "palette", "tab:b") {
		t.Fatalf("did not expect ctrl+k in tab:b")
	}
	if !reg.IsAction(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}, "quit", "tab:b") {
		t.Fatalf("expected q to match wildcard scope")
	}
}

func TestDefaultBindingsPerScope(t *testing.T) {
	reg := NewKeyRegistry(DefaultKeyBindings())
	q := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}
	if got := reg.Action(q, scopeBrowse); got != actQuit {
		t.Fatalf("browse q = %q", got)
	}
	if got := reg.Action(q, scopeSearch); got != "" {
		t.Fatalf("search q should be text, got %q", got)
	}
	esc := tea.KeyMsg{Type: tea.KeyEsc}
	if got := reg.Action(esc, scopeHelp); got != actBack {
		t.Fatalf("help esc = %q", got)
	}
	if got := reg.Action(esc, scopeFilter); got != actCancel {
		t.Fatalf("filter esc = %q", got)
	}
	if got := reg.Action(tea.KeyMsg{Type: tea.KeyCtrlC}, scopeSearch); got != actQuit {
		t.Fatalf("ctrl+c should quit everywhere, got %q", got)
	}
}

func TestRegisterAddsBinding(t *testing.T) {
	reg := NewKeyRegistry(nil)
	reg.Register(KeyBinding{Keys: []string{"X"}, Action: "x", Scopes: []string{scopeBrowse}})
	if !reg.IsAction(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}}, "x", scopeBrowse) {
		t.Fatalf("keys are case-insensitive")
	}
	if n := len(reg.BindingsForScope(scopeHelp)); n != 0 {
		t.Fatalf("expected no help bindings, got %d", n)
	}
}
