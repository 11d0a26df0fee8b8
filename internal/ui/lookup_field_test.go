package ui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"teamlookup/internal/lookup"
)

func newTestField(t *testing.T, mode lookup.Mode, p lookup.Provider) LookupField {
	t.Helper()
	plainOutput(t)
	f := NewLookupField("test", mode, p).WithLabel("People").WithPlaceholder("Search…")
	quiet(&f)
	return f
}

func typeInto(f LookupField, s string) LookupField {
	for _, r := range s {
		f, _ = pumpField(f, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return f
}

func TestLookupFieldDebouncedSearch(t *testing.T) {
	p := filterProvider(contactAda, contactAlan, contactGrace)
	f := newTestField(t, lookup.ModeMulti, p)
	_ = f.Focus()

	t.Run("NoSearchBeforeDebounce", func(t *testing.T) {
		f = typeInto(f, "al")
		if p.SearchCallCount != 0 {
			t.Fatalf("expected no search before the debounce fires, got %d", p.SearchCallCount)
		}
		if f.InputValue() != "al" {
			t.Errorf("expected input 'al', got %q", f.InputValue())
		}
	})

	t.Run("DebounceDispatchesLatestQuery", func(t *testing.T) {
		f, _ = pumpField(f, debounceMsg(&f))
		calls := p.Calls()
		if len(calls) != 1 {
			t.Fatalf("expected 1 search, got %d", len(calls))
		}
		if calls[0].Query != "al" {
			t.Errorf("expected query 'al', got %q", calls[0].Query)
		}
		if !f.DropdownOpen() {
			t.Error("expected dropdown to be open")
		}
		if got := f.Snapshot().Results; len(got) != 1 || got[0].ID != contactAlan.ID {
			t.Errorf("expected only Alan, got %+v", got)
		}
	})

	t.Run("StaleTimerIgnored", func(t *testing.T) {
		stale := debounceMsg(&f)
		f = typeInto(f, "a")
		f, _ = pumpField(f, stale)
		if p.SearchCallCount != 1 {
			t.Errorf("expected stale timer to be dropped, got %d searches", p.SearchCallCount)
		}
	})

	t.Run("WildcardsAreStripped", func(t *testing.T) {
		f = typeInto(f, "*")
		f, _ = pumpField(f, debounceMsg(&f))
		calls := p.Calls()
		if last := calls[len(calls)-1]; last.Query != "ala" {
			t.Errorf("expected normalized 'ala', got %q", last.Query)
		}
	})
}

func TestLookupFieldShortQueryDoesNotSearch(t *testing.T) {
	p := filterProvider(contactAda)
	f := newTestField(t, lookup.ModeMulti, p)
	_ = f.Focus()
	// Focus arms a debounce for the empty query; let it run first.
	f, _ = pumpField(f, debounceMsg(&f))
	before := p.SearchCallCount

	f = typeInto(f, "a")
	f, _ = pumpField(f, debounceMsg(&f))
	if p.SearchCallCount != before {
		t.Errorf("expected one-character query to be skipped, got %d new searches", p.SearchCallCount-before)
	}
}

func TestLookupFieldSelectAndExclude(t *testing.T) {
	p := filterProvider(contactAda, contactAlan, contactGrace)
	f := newTestField(t, lookup.ModeMulti, p)
	_ = f.Focus()
	// "ce" matches Ada Lovelace and Grace Hopper.
	f = typeInto(f, "ce")
	f, _ = pumpField(f, debounceMsg(&f))

	f, _ = pumpField(f, keyMsg(tea.KeyDown))
	if f.HighlightIndex() != 1 {
		t.Fatalf("expected highlight 1, got %d", f.HighlightIndex())
	}

	f, emitted := pumpField(f, keyMsg(tea.KeyEnter))
	sel := f.Selection()
	if len(sel) != 1 || sel[0].ID != contactGrace.ID {
		t.Fatalf("expected Grace selected, got %+v", sel)
	}
	if f.InputValue() != "" {
		t.Errorf("expected input cleared after selection, got %q", f.InputValue())
	}
	if f.DropdownOpen() {
		t.Error("expected dropdown closed after selection")
	}

	var changed *SelectionChangedMsg
	for _, m := range emitted {
		if c, ok := m.(SelectionChangedMsg); ok {
			changed = &c
		}
	}
	if changed == nil {
		t.Fatal("expected SelectionChangedMsg")
	}
	if changed.Field != "test" || len(changed.Selection) != 1 {
		t.Errorf("unexpected change message %+v", changed)
	}

	f = typeInto(f, "ce")
	f, _ = pumpField(f, debounceMsg(&f))
	calls := p.Calls()
	last := calls[len(calls)-1]
	if len(last.ExcludedIDs) != 1 || last.ExcludedIDs[0] != contactGrace.ID {
		t.Errorf("expected Grace excluded, got %v", last.ExcludedIDs)
	}
	if got := f.Snapshot().Results; len(got) != 1 || got[0].ID != contactAda.ID {
		t.Errorf("expected only Ada offered, got %+v", got)
	}
	if !f.DropdownOpen() {
		t.Error("expected typing after a selection to reopen the dropdown")
	}
}

func TestLookupFieldChipRemoval(t *testing.T) {
	f := newTestField(t, lookup.ModeMulti, filterProvider(contactAda, contactAlan))
	_ = f.Focus()
	_ = f.Select(contactAda)
	_ = f.Select(contactAlan)

	f, _ = pumpField(f, keyMsg(tea.KeyBackspace))
	if !f.chips.InNavigationMode() {
		t.Fatal("expected backspace on empty input to enter chip navigation")
	}
	if chip, _ := f.chips.Highlighted(); chip.ID != contactAlan.ID {
		t.Fatalf("expected last chip highlighted, got %q", chip.ID)
	}

	f, emitted := pumpField(f, keyMsg(tea.KeyBackspace))
	if got := f.Selection(); len(got) != 1 || got[0].ID != contactAda.ID {
		t.Fatalf("expected only Ada left, got %+v", got)
	}
	if len(emitted) != 1 {
		t.Errorf("expected one change message, got %d", len(emitted))
	}

	f, emitted = pumpField(f, keyMsg(tea.KeyBackspace))
	if len(f.Selection()) != 0 {
		t.Fatal("expected selection empty")
	}
	var emptied bool
	for _, m := range emitted {
		if _, ok := m.(SelectionEmptiedMsg); ok {
			emptied = true
		}
	}
	if !emptied {
		t.Error("expected SelectionEmptiedMsg after removing the last chip")
	}
	if f.chips.InNavigationMode() {
		t.Error("expected chip navigation to end once no chips remain")
	}
}

func TestLookupFieldSingleModeLocks(t *testing.T) {
	f := newTestField(t, lookup.ModeSingle, filterProvider(teamPlatform))
	_ = f.Focus()
	_ = f.Select(teamPlatform)

	f = typeInto(f, "xyz")
	if f.InputValue() != "" {
		t.Errorf("expected locked field to ignore typing, got %q", f.InputValue())
	}
	if !strings.Contains(f.View(), "Platform") {
		t.Error("expected view to show the selected team")
	}

	f, emitted := pumpField(f, keyMsg(tea.KeyCtrlX))
	if len(f.Selection()) != 0 {
		t.Fatal("expected ctrl+x to clear the selection")
	}
	if len(emitted) != 2 {
		t.Fatalf("expected change and emptied messages, got %d", len(emitted))
	}
	changed, ok := emitted[0].(SelectionChangedMsg)
	if !ok {
		t.Fatalf("expected SelectionChangedMsg first, got %T", emitted[0])
	}
	if !changed.Detail.DisableDependentInput || !changed.Detail.ClearDependentSelection {
		t.Errorf("expected dependent flags set, got %+v", changed.Detail)
	}
	if _, ok := emitted[1].(SelectionEmptiedMsg); !ok {
		t.Errorf("expected SelectionEmptiedMsg second, got %T", emitted[1])
	}
}

func TestLookupFieldSearchFailure(t *testing.T) {
	p := lookup.NewMockProvider()
	p.SearchFn = func(context.Context, lookup.SearchRequest) ([]lookup.Result, error) {
		return nil, errors.New("backend down")
	}
	f := newTestField(t, lookup.ModeMulti, p)
	_ = f.Focus()
	f = typeInto(f, "ada")
	f, emitted := pumpField(f, debounceMsg(&f))

	var failed *LookupFailedMsg
	for _, m := range emitted {
		if e, ok := m.(LookupFailedMsg); ok {
			failed = &e
		}
	}
	if failed == nil {
		t.Fatal("expected LookupFailedMsg")
	}
	if failed.Query != "ada" {
		t.Errorf("expected failed query 'ada', got %q", failed.Query)
	}
	if f.Snapshot().Err == nil {
		t.Error("expected error state on the machine")
	}
	if !strings.Contains(f.View(), "backend down") {
		t.Error("expected error text in view")
	}
}

func TestLookupFieldIgnoresOtherFields(t *testing.T) {
	f := newTestField(t, lookup.ModeMulti, filterProvider(contactAda))
	f, _ = pumpField(f, SearchResultMsg{Field: "other", Results: []lookup.Result{contactAda}})
	if len(f.Snapshot().Results) != 0 {
		t.Error("expected results for another field to be ignored")
	}
}

func TestLookupFieldBlurClosesAfterDelay(t *testing.T) {
	f := newTestField(t, lookup.ModeMulti, filterProvider(contactAda))
	_ = f.Focus()
	f = typeInto(f, "ada")
	f, _ = pumpField(f, debounceMsg(&f))
	if !f.DropdownOpen() {
		t.Fatal("expected dropdown open")
	}

	_ = f.Blur()
	if !f.DropdownOpen() {
		t.Error("expected dropdown to stay open until the blur delay elapses")
	}
	f, _ = pumpField(f, blurCloseMsg(&f))
	if f.DropdownOpen() {
		t.Error("expected dropdown closed after the blur delay")
	}
}

func TestLookupFieldDisabled(t *testing.T) {
	p := filterProvider(contactAda)
	f := newTestField(t, lookup.ModeMulti, p).WithDisabledHint("Pick a team")
	_ = f.SetInputDisabled(true)
	_ = f.Focus()
	f = typeInto(f, "ada")
	if f.InputValue() != "" {
		t.Errorf("expected disabled field to ignore typing, got %q", f.InputValue())
	}
	if !strings.Contains(f.View(), "Pick a team") {
		t.Error("expected disabled hint in view")
	}
}

func TestLookupFieldDropdownScroll(t *testing.T) {
	var results []lookup.Result
	for i := 0; i < 8; i++ {
		results = append(results, lookup.Result{ID: string(rune('a' + i)), Title: "Person " + string(rune('A'+i))})
	}
	f := newTestField(t, lookup.ModeMulti, filterProvider()).WithMaxVisible(3)
	_ = f.Focus()
	f, _ = pumpField(f, SearchResultMsg{Field: "test", Results: results})

	view := f.View()
	if !strings.Contains(view, "more below") || strings.Contains(view, "more above") {
		t.Fatalf("expected only the 'more below' marker:\n%s", view)
	}

	for i := 0; i < 5; i++ {
		f, _ = pumpField(f, keyMsg(tea.KeyDown))
	}
	if f.HighlightIndex() != 5 || f.scroll != 3 {
		t.Errorf("expected highlight 5 at offset 3, got %d at %d", f.HighlightIndex(), f.scroll)
	}
	view = f.View()
	if !strings.Contains(view, "more above") {
		t.Error("expected 'more above' marker after scrolling")
	}
	if !strings.Contains(view, "Person F") || strings.Contains(view, "Person A") {
		t.Errorf("unexpected visible window:\n%s", view)
	}
}

func TestLookupFieldSearchTimeout(t *testing.T) {
	p := lookup.NewMockProvider()
	p.SearchFn = func(ctx context.Context, _ lookup.SearchRequest) ([]lookup.Result, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	f := newTestField(t, lookup.ModeMulti, p).WithTimeout(5 * time.Millisecond)
	msg := f.searchCmd(lookup.SearchRequest{Query: "ada"})()
	res, ok := msg.(SearchResultMsg)
	if !ok {
		t.Fatalf("expected SearchResultMsg, got %T", msg)
	}
	if !errors.Is(res.Err, context.DeadlineExceeded) {
		t.Errorf("expected deadline error, got %v", res.Err)
	}
}
