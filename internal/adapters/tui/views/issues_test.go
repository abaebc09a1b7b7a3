package views

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"routecheck/internal/application"
)

func keyPress(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// The engine is single-threaded, so the view must never have two commands
// in flight at once.
func TestIssuesModel_IgnoresEngineKeysWhileBusy(t *testing.T) {
	m := NewIssuesModel(nil)
	m.busy = true

	for _, r := range []rune{'r', 'f', 'a', 'c', 'e'} {
		if _, cmd := m.Update(keyPress(r)); cmd != nil {
			t.Errorf("key %q started a command while one was in flight", r)
		}
	}

	if _, cmd := m.Update(keyPress('q')); cmd == nil {
		t.Error("quit must still work while a command is in flight")
	}
}

func TestIssuesModel_BusyClearsWhenCommandReportsBack(t *testing.T) {
	m := NewIssuesModel(nil)

	if cmd := m.Reload(); cmd == nil {
		t.Fatal("Reload returned no command")
	}
	if !m.busy {
		t.Fatal("a reload in flight must mark the model busy")
	}

	m.Update(reportMsg{report: &application.Report{}})
	if m.busy {
		t.Error("a delivered report must clear the busy state")
	}
	if _, cmd := m.Update(keyPress('r')); cmd == nil {
		t.Error("revalidate should start once the previous command finished")
	}
}

func TestIssuesModel_BusyClearsOnError(t *testing.T) {
	m := NewIssuesModel(nil)
	m.Reload()

	m.Update(errMsg{err: errors.New("host gone")})
	if m.busy {
		t.Error("a failed command must clear the busy state")
	}
}

func TestChoiceModel_IgnoresKeysWhileResolving(t *testing.T) {
	m := NewChoiceModel(nil)
	m.busy = true

	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc}); cmd != nil {
		t.Error("cancel started a command while a resolve was in flight")
	}

	m.Update(errMsg{err: errors.New("refused")})
	if m.busy {
		t.Error("a failed resolve must clear the busy state")
	}
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc}); cmd == nil {
		t.Error("cancel should work again after the resolve reported back")
	}
}
