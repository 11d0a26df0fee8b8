package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"teamlookup/internal/lookup"
)

func chipsOf(titles ...string) []lookup.Result {
	out := make([]lookup.Result, len(titles))
	for i, title := range titles {
		out[i] = lookup.Result{ID: strings.ToLower(title), Title: title}
	}
	return out
}

func TestNewChipList(t *testing.T) {
	cl := NewChipList()
	if cl.Width != 40 {
		t.Errorf("expected default width 40, got %d", cl.Width)
	}
	if cl.Len() != 0 {
		t.Errorf("expected empty chips, got %d", cl.Len())
	}
	if cl.InNavigationMode() {
		t.Error("expected input mode")
	}
	if cl.HighlightedIndex() != -1 {
		t.Errorf("expected no highlight, got %d", cl.HighlightedIndex())
	}
}

func TestChipList_SetFromResults(t *testing.T) {
	t.Run("CopiesSelection", func(t *testing.T) {
		cl := NewChipList()
		results := chipsOf("Ada", "Alan")
		cl.SetFromResults(results)
		results[0].Title = "changed"
		if got := cl.Chips(); got[0].Label != "Ada" || got[1].ID != "alan" {
			t.Errorf("unexpected chips %+v", got)
		}
	})

	t.Run("ClampsHighlight", func(t *testing.T) {
		cl := NewChipList()
		cl.SetFromResults(chipsOf("Ada", "Alan", "Grace"))
		cl.EnterNavigation()
		cl.SetFromResults(chipsOf("Ada"))
		if cl.HighlightedIndex() != 0 {
			t.Errorf("expected highlight clamped to 0, got %d", cl.HighlightedIndex())
		}
	})

	t.Run("EmptyExitsNavigation", func(t *testing.T) {
		cl := NewChipList()
		cl.SetFromResults(chipsOf("Ada"))
		cl.EnterNavigation()
		cl.SetFromResults(nil)
		if cl.InNavigationMode() {
			t.Error("expected navigation to end when chips run out")
		}
	})
}

func TestChipList_Navigation(t *testing.T) {
	cl := NewChipList()
	if cl.EnterNavigation() {
		t.Fatal("expected EnterNavigation to fail on an empty list")
	}
	cl.SetFromResults(chipsOf("Ada", "Alan", "Grace"))

	if !cl.EnterNavigation() || cl.HighlightedIndex() != 2 {
		t.Fatalf("expected last chip highlighted, got %d", cl.HighlightedIndex())
	}

	tests := []struct {
		name string
		key  tea.KeyType
		want int
	}{
		{"LeftMovesBack", tea.KeyLeft, 1},
		{"LeftAgain", tea.KeyLeft, 0},
		{"LeftStopsAtFirst", tea.KeyLeft, 0},
		{"RightMovesForward", tea.KeyRight, 1},
		{"RightToLast", tea.KeyRight, 2},
		{"RightPastLastExits", tea.KeyRight, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cl, _ = cl.Update(tea.KeyMsg{Type: tt.key})
			if got := cl.HighlightedIndex(); got != tt.want {
				t.Errorf("expected highlight %d, got %d", tt.want, got)
			}
		})
	}

	for _, k := range []tea.KeyType{tea.KeyEsc, tea.KeyDown, tea.KeyTab} {
		cl.EnterNavigation()
		cl, _ = cl.Update(tea.KeyMsg{Type: k})
		if cl.InNavigationMode() {
			t.Errorf("expected %v to exit navigation", k)
		}
	}
}

func TestChipList_Highlighted(t *testing.T) {
	cl := NewChipList()
	cl.SetFromResults(chipsOf("Ada", "Alan"))
	if _, ok := cl.Highlighted(); ok {
		t.Error("expected no highlighted chip in input mode")
	}
	cl.EnterNavigation()
	chip, ok := cl.Highlighted()
	if !ok || chip.ID != "alan" {
		t.Errorf("expected alan highlighted, got %+v", chip)
	}
}

func TestChipList_View(t *testing.T) {
	plainOutput(t)

	t.Run("RendersLabels", func(t *testing.T) {
		cl := NewChipList()
		cl.SetFromResults(chipsOf("Ada", "Alan"))
		view := cl.View()
		if !strings.Contains(view, "Ada ×") || !strings.Contains(view, "Alan ×") {
			t.Errorf("expected both chips in view, got %q", view)
		}
	})

	t.Run("WrapsToWidth", func(t *testing.T) {
		cl := NewChipList()
		cl.Width = 20
		cl.SetFromResults(chipsOf("Katherine", "Margaret", "Barbara"))
		if lines := strings.Count(cl.View(), "\n") + 1; lines < 2 {
			t.Errorf("expected chips to wrap, got %d line(s)", lines)
		}
	})

	t.Run("EmptyRendersNothing", func(t *testing.T) {
		if got := NewChipList().View(); got != "" {
			t.Errorf("expected empty view, got %q", got)
		}
	})
}
