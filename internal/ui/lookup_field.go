package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"teamlookup/internal/debug"
	"teamlookup/internal/lookup"
)

const defaultSearchTimeout = 3 * time.Second

// LookupField is a text input bound to a lookup.Machine. It renders the
// query box, the result dropdown and, in multi mode, the selected chips.
// Machine events come back out of Update as tea messages so the parent
// model can react to them.
type LookupField struct {
	// Configuration (set at creation)
	ID           string // Routes timer and search messages back to this field
	Label        string
	Placeholder  string
	DisabledHint string // Shown in place of the input while disabled
	Width        int
	MaxVisible   int
	Timeout      time.Duration

	machine  *lookup.Machine
	sched    *teaScheduler
	provider lookup.Provider
	queue    *eventQueue
	log      debug.Scope

	textInput textinput.Model
	chips     ChipList
	highlight int
	scroll    int
	focused   bool
}

type eventQueue struct {
	events []lookup.Event
}

// NewLookupField creates a field searching provider. opts configure the
// underlying machine; its scheduler is always the tea-driven one.
func NewLookupField(id string, mode lookup.Mode, provider lookup.Provider, opts ...lookup.Option) LookupField {
	sched := newTeaScheduler(id)
	queue := &eventQueue{}
	opts = append(opts, lookup.WithScheduler(sched))
	machine := lookup.New(mode, opts...)
	machine.Subscribe(func(e lookup.Event) {
		queue.events = append(queue.events, e)
	})

	ti := textinput.New()
	ti.CharLimit = 120

	f := LookupField{
		ID:         id,
		Width:      48,
		MaxVisible: 5,
		Timeout:    defaultSearchTimeout,
		machine:    machine,
		sched:      sched,
		provider:   provider,
		queue:      queue,
		log:        debug.Scope("lookup[" + id + "]"),
		textInput:  ti,
		chips:      NewChipList(),
	}
	f.textInput.Width = f.Width - 6
	f.chips.Width = f.Width
	return f
}

// WithLabel sets the caption above the input.
func (f LookupField) WithLabel(s string) LookupField {
	f.Label = s
	return f
}

// WithPlaceholder sets the placeholder text.
func (f LookupField) WithPlaceholder(s string) LookupField {
	f.Placeholder = s
	f.textInput.Placeholder = s
	return f
}

// WithDisabledHint sets the text shown while the field is disabled.
func (f LookupField) WithDisabledHint(s string) LookupField {
	f.DisabledHint = s
	return f
}

// WithWidth sets the display width.
func (f LookupField) WithWidth(w int) LookupField {
	f.Width = w
	f.textInput.Width = w - 6
	f.chips.Width = w
	return f
}

// WithMaxVisible sets how many results show before the dropdown scrolls.
func (f LookupField) WithMaxVisible(n int) LookupField {
	if n > 0 {
		f.MaxVisible = n
	}
	return f
}

// WithTimeout bounds each provider call.
func (f LookupField) WithTimeout(d time.Duration) LookupField {
	if d > 0 {
		f.Timeout = d
	}
	return f
}

// Init implements tea.Model.
func (f LookupField) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (f LookupField) Update(msg tea.Msg) (LookupField, tea.Cmd) {
	switch msg := msg.(type) {
	case TimerMsg:
		if msg.Field != f.ID {
			return f, nil
		}
		f.machine.Fire(msg.Timer)
		return f, f.flush()

	case SearchResultMsg:
		if msg.Field != f.ID {
			return f, nil
		}
		if msg.Err != nil {
			f.log.Logf("search %q failed: %v", msg.Request.Query, msg.Err)
			f.machine.SearchFailed(msg.Request.Query, msg.Err)
		} else {
			f.log.Logf("search %q returned %d results", msg.Request.Query, len(msg.Results))
			f.machine.SetSearchResults(msg.Results)
			f.highlight = 0
			f.scroll = 0
		}
		return f, f.flush()

	case tea.KeyMsg:
		if !f.focused {
			return f, nil
		}
		return f.handleKey(msg)
	}

	var cmd tea.Cmd
	f.textInput, cmd = f.textInput.Update(msg)
	return f, cmd
}

func (f LookupField) handleKey(msg tea.KeyMsg) (LookupField, tea.Cmd) {
	if f.machine.Disabled() {
		return f, nil
	}

	if f.chips.InNavigationMode() {
		if msg.Type == tea.KeyBackspace || msg.Type == tea.KeyDelete {
			if chip, ok := f.chips.Highlighted(); ok {
				f.machine.OnRemoveSelected(chip.ID)
				return f, f.flush()
			}
			return f, nil
		}
		f.chips, _ = f.chips.Update(msg)
		return f, nil
	}

	switch msg.Type {
	case tea.KeyUp:
		f.moveHighlight(-1)
		return f, nil

	case tea.KeyDown:
		f.moveHighlight(1)
		return f, nil

	case tea.KeyEnter:
		results := f.machine.Results()
		if !f.machine.DropdownOpen() || f.highlight < 0 || f.highlight >= len(results) {
			return f, nil
		}
		f.machine.OnResultClick(results[f.highlight].ID)
		return f, f.flush()

	case tea.KeyEsc:
		if f.machine.DropdownOpen() {
			f.machine.OnContainerClick()
			return f, f.flush()
		}
		return f, nil

	case tea.KeyCtrlX:
		f.machine.Clear()
		return f, f.flush()

	case tea.KeyLeft, tea.KeyBackspace:
		if f.textInput.Value() == "" && f.chips.EnterNavigation() {
			return f, nil
		}
	}

	if f.machine.Locked() {
		return f, nil
	}

	before := f.textInput.Value()
	var cmd tea.Cmd
	f.textInput, cmd = f.textInput.Update(msg)
	if after := f.textInput.Value(); after != before {
		// Typing after a pick or Esc reopens the dropdown.
		if f.machine.Snapshot().Focus == lookup.FocusIdle {
			f.machine.OnFocus()
		}
		f.machine.OnTextChanged(after)
	}
	return f, tea.Batch(cmd, f.flush())
}

func (f *LookupField) moveHighlight(delta int) {
	if !f.machine.DropdownOpen() {
		return
	}
	n := len(f.machine.Results())
	f.highlight += delta
	if f.highlight < 0 {
		f.highlight = 0
	}
	if f.highlight > n-1 {
		f.highlight = n - 1
	}
	f.adjustScrollOffset(n)
}

// adjustScrollOffset keeps the highlighted result inside the visible window.
func (f *LookupField) adjustScrollOffset(n int) {
	if f.highlight < f.scroll {
		f.scroll = f.highlight
	}
	if f.highlight >= f.scroll+f.MaxVisible {
		f.scroll = f.highlight - f.MaxVisible + 1
	}
	maxOffset := n - f.MaxVisible
	if maxOffset < 0 {
		maxOffset = 0
	}
	if f.scroll > maxOffset {
		f.scroll = maxOffset
	}
	if f.scroll < 0 {
		f.scroll = 0
	}
}

// flush turns queued machine events into commands and re-syncs the view
// state with the machine. Notifications keep their emission order.
func (f *LookupField) flush() tea.Cmd {
	events := f.queue.events
	f.queue.events = nil

	var (
		work    []tea.Cmd
		notices []tea.Cmd
	)
	for _, e := range events {
		switch e := e.(type) {
		case lookup.SearchRequested:
			work = append(work, f.searchCmd(e.Request))
		case lookup.SearchFailed:
			notices = append(notices, msgCmd(LookupFailedMsg{Field: f.ID, Query: e.Query, Err: e.Err}))
		case lookup.SelectionChanged:
			f.log.Logf("selection changed: %d selected", len(e.Selection))
			notices = append(notices, msgCmd(SelectionChangedMsg{Field: f.ID, Selection: e.Selection, Detail: e.Detail}))
		case lookup.SelectionEmptied:
			notices = append(notices, msgCmd(SelectionEmptiedMsg{Field: f.ID}))
		}
	}
	f.sync()

	work = append(work, f.sched.drain())
	if len(notices) > 0 {
		work = append(work, tea.Sequence(notices...))
	}
	return tea.Batch(work...)
}

func (f *LookupField) sync() {
	if q := f.machine.Query(); f.textInput.Value() != q {
		f.textInput.SetValue(q)
		f.textInput.CursorEnd()
	}
	if f.machine.Mode() == lookup.ModeMulti {
		f.chips.SetFromResults(f.machine.Selection())
	}
	if n := len(f.machine.Results()); f.highlight >= n {
		f.highlight = 0
		f.scroll = 0
	}
}

func (f LookupField) searchCmd(req lookup.SearchRequest) tea.Cmd {
	if f.provider == nil {
		return nil
	}
	f.log.Logf("dispatch %q parent=%q excluded=%d", req.Query, req.ParentID, len(req.ExcludedIDs))
	provider, timeout, id := f.provider, f.Timeout, f.ID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		results, err := provider.Search(ctx, req)
		return SearchResultMsg{Field: id, Request: req, Results: results, Err: err}
	}
}

func msgCmd(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// Focus focuses the field and opens its dropdown flow.
func (f *LookupField) Focus() tea.Cmd {
	f.focused = true
	f.machine.OnFocus()
	return tea.Batch(f.textInput.Focus(), f.flush())
}

// Blur removes focus; the dropdown closes after the blur delay.
func (f *LookupField) Blur() tea.Cmd {
	f.focused = false
	f.chips.ExitNavigation()
	f.textInput.Blur()
	f.machine.OnBlur()
	return f.flush()
}

// Select adds r to the selection, e.g. a preselected default record.
func (f *LookupField) Select(r lookup.Result) tea.Cmd {
	f.machine.Select(r)
	return f.flush()
}

// Clear empties the selection.
func (f *LookupField) Clear() tea.Cmd {
	f.machine.Clear()
	return f.flush()
}

// SetInputDisabled enables or disables the field. Disabling wipes the
// selection without emitting change messages.
func (f *LookupField) SetInputDisabled(disabled bool) tea.Cmd {
	f.machine.SetInputDisabled(disabled)
	if disabled {
		f.chips.ExitNavigation()
	}
	return f.flush()
}

// SetParent scopes future searches.
func (f *LookupField) SetParent(id string) {
	f.machine.SetParent(id)
}

// Dispose stops the field for good.
func (f *LookupField) Dispose() {
	f.machine.Dispose()
}

// Selection returns the selected records.
func (f LookupField) Selection() []lookup.Result {
	return f.machine.Selection()
}

// Snapshot exposes the machine state.
func (f LookupField) Snapshot() lookup.Snapshot {
	return f.machine.Snapshot()
}

// DropdownOpen reports whether the result list is showing.
func (f LookupField) DropdownOpen() bool {
	return f.machine.DropdownOpen()
}

// Focused reports whether the field has keyboard focus.
func (f LookupField) Focused() bool {
	return f.focused
}

// Disabled reports whether the field accepts input.
func (f LookupField) Disabled() bool {
	return f.machine.Disabled()
}

// HighlightIndex returns the highlighted result for testing.
func (f LookupField) HighlightIndex() int {
	return f.highlight
}

// InputValue returns the raw input text for testing.
func (f LookupField) InputValue() string {
	return f.textInput.Value()
}
