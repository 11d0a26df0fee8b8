// Package lookup implements the state machine behind a typeahead
// search-and-select field. It owns the typed query, the current result
// list, the selection and two timers (search debounce and deferred
// dropdown close). Rendering, data access and event plumbing belong to the
// host, which forwards user intents and reads Snapshot values.
//
// A Machine is not safe for concurrent use. Every call, including Fire and
// the provider callbacks, must come from the goroutine that drives it.
package lookup

import (
	"time"
	"unicode/utf8"
)

// FocusState tracks dropdown visibility timing.
type FocusState int

const (
	// FocusIdle - no focus, dropdown closed.
	FocusIdle FocusState = iota
	// FocusFocused - input focused, dropdown open when results exist.
	FocusFocused
	// FocusClosingPending - blur received, close deferred.
	FocusClosingPending
)

func (s FocusState) String() string {
	switch s {
	case FocusIdle:
		return "idle"
	case FocusFocused:
		return "focused"
	case FocusClosingPending:
		return "closing"
	default:
		return "unknown"
	}
}

const (
	DefaultMinQueryLength = 2
	DefaultDebounceDelay  = 300 * time.Millisecond
	DefaultBlurCloseDelay = 300 * time.Millisecond
)

// Policy holds the tunable constants. Zero fields fall back to defaults.
type Policy struct {
	MinQueryLength int
	DebounceDelay  time.Duration
	BlurCloseDelay time.Duration
	DefaultIcon    string
}

// DefaultPolicy returns the stock policy.
func DefaultPolicy() Policy {
	return Policy{
		MinQueryLength: DefaultMinQueryLength,
		DebounceDelay:  DefaultDebounceDelay,
		BlurCloseDelay: DefaultBlurCloseDelay,
		DefaultIcon:    DefaultIcon,
	}
}

func (p Policy) withDefaults() Policy {
	d := DefaultPolicy()
	if p.MinQueryLength <= 0 {
		p.MinQueryLength = d.MinQueryLength
	}
	if p.DebounceDelay <= 0 {
		p.DebounceDelay = d.DebounceDelay
	}
	if p.BlurCloseDelay <= 0 {
		p.BlurCloseDelay = d.BlurCloseDelay
	}
	if p.DefaultIcon == "" {
		p.DefaultIcon = d.DefaultIcon
	}
	return p
}

// timerSlot is the single armed handle for one timer kind.
type timerSlot struct {
	seq   uint64
	armed bool
}

// Option configures a Machine.
type Option func(*Machine)

// WithPolicy overrides the default policy.
func WithPolicy(p Policy) Option {
	return func(m *Machine) {
		m.policy = p.withDefaults()
	}
}

// WithScheduler sets the timer backend. Without one the machine never
// dispatches, which is only useful for snapshot-only tests.
func WithScheduler(s Scheduler) Option {
	return func(m *Machine) {
		if s != nil {
			m.sched = s
		}
	}
}

// WithParent scopes dispatched searches to a parent record.
func WithParent(id string) Option {
	return func(m *Machine) {
		m.parentID = id
	}
}

// WithDisabled starts the machine with input disabled.
func WithDisabled(disabled bool) Option {
	return func(m *Machine) {
		m.disabled = disabled
	}
}

// Machine is one lookup instance.
type Machine struct {
	mode   Mode
	policy Policy
	sched  Scheduler

	query        string // As displayed
	committed    string // Last committed normalized query
	committedSet bool
	results      []Result
	selection    Selection
	parentID     string

	focus     FocusState
	disabled  bool
	searching bool
	lastErr   error

	seq       uint64
	debounce  timerSlot
	blurClose timerSlot

	subs     []subscription
	nextSub  int
	disposed bool
}

// New creates a machine for the given selection mode.
func New(mode Mode, opts ...Option) *Machine {
	m := &Machine{
		mode:      mode,
		policy:    DefaultPolicy(),
		sched:     NopScheduler{},
		selection: NewSelection(mode),
		focus:     FocusIdle,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Subscribe registers l for every subsequent event and returns a function
// that removes it.
func (m *Machine) Subscribe(l Listener) func() {
	if l == nil {
		return func() {}
	}
	m.nextSub++
	id := m.nextSub
	m.subs = append(m.subs, subscription{id: id, fn: l})
	return func() {
		for i, s := range m.subs {
			if s.id == id {
				m.subs = append(m.subs[:i:i], m.subs[i+1:]...)
				return
			}
		}
	}
}

func (m *Machine) emit(e Event) {
	subs := make([]subscription, len(m.subs))
	copy(subs, m.subs)
	for _, s := range subs {
		s.fn(e)
	}
}

// locked reports whether input is frozen by an existing single selection.
func (m *Machine) locked() bool {
	return m.mode == ModeSingle && m.selection.Len() > 0
}

// OnTextChanged records the displayed text and, when warranted, re-arms
// the debounced search dispatch.
func (m *Machine) OnTextChanged(raw string) {
	if m.disposed || m.disabled || m.locked() {
		return
	}
	m.updateQuery(raw)
}

func (m *Machine) updateQuery(raw string) {
	m.query = raw

	if raw != "" {
		normalized := Normalize(raw)
		if m.committedSet && normalized == m.committed {
			return
		}
		if utf8.RuneCountInString(normalized) < m.policy.MinQueryLength {
			m.results = nil
			return
		}
		m.committed = normalized
		m.committedSet = true
	} else {
		// The empty dispatch replaces whatever was committed before.
		m.committed = ""
		m.committedSet = false
	}

	m.arm(TimerDebounce, &m.debounce, m.policy.DebounceDelay)
}

func (m *Machine) fireDebounce() {
	if m.locked() {
		return
	}
	switch {
	case m.query == "":
		m.dispatch("")
	case m.committedSet && utf8.RuneCountInString(m.committed) >= m.policy.MinQueryLength:
		m.dispatch(m.committed)
	}
}

func (m *Machine) dispatch(query string) {
	req := SearchRequest{Query: query, ParentID: m.parentID}
	if m.mode == ModeMulti {
		req.ExcludedIDs = m.selection.IDs()
	}
	m.searching = true
	m.emit(SearchRequested{Request: req})
}

// OnFocus opens the dropdown and re-runs the debounce flow for the
// displayed query. It never bypasses the debounce window.
func (m *Machine) OnFocus() {
	if m.disposed || m.disabled || m.locked() {
		return
	}
	m.cancel(TimerBlurClose, &m.blurClose)
	m.focus = FocusFocused
	m.updateQuery(m.query)
}

// OnBlur clears the query and defers closing the dropdown so that a result
// click arriving right after the blur still registers.
func (m *Machine) OnBlur() {
	if m.disposed || m.disabled || m.locked() {
		return
	}
	m.query = ""
	m.committed = ""
	m.committedSet = false
	m.focus = FocusClosingPending
	m.arm(TimerBlurClose, &m.blurClose, m.policy.BlurCloseDelay)
}

// OnContainerClick closes the dropdown immediately.
func (m *Machine) OnContainerClick() {
	if m.disposed {
		return
	}
	m.cancel(TimerBlurClose, &m.blurClose)
	m.focus = FocusIdle
}

// OnResultClick selects the result with the given ID from the current
// list. Unknown IDs are ignored, and so is every click while a single
// selection holds the input.
func (m *Machine) OnResultClick(id string) {
	if m.disposed || m.disabled || m.locked() {
		return
	}
	r, ok := findResult(m.results, id)
	if !ok {
		return
	}
	m.cancel(TimerBlurClose, &m.blurClose)
	m.cancel(TimerDebounce, &m.debounce)
	m.query = ""
	m.committed = ""
	m.committedSet = false
	m.results = nil
	m.focus = FocusIdle
	m.selectResult(r)
}

// Select adds r to the selection directly, e.g. to preselect a default
// record. In single mode it replaces any existing selection.
func (m *Machine) Select(r Result) {
	if m.disposed || m.disabled {
		return
	}
	m.selectResult(withDefaultIcons([]Result{r}, m.policy.DefaultIcon)[0])
}

func (m *Machine) selectResult(r Result) {
	if !m.selection.Add(r) {
		return
	}
	detail := ChangeDetail{}
	if m.mode == ModeSingle {
		// The input is locked from here on; nothing armed earlier may
		// reopen the dropdown.
		m.cancel(TimerDebounce, &m.debounce)
		m.results = nil
		m.searching = false
		detail.ParentID = r.ID
	}
	m.emit(SelectionChanged{Selection: m.selection.Items(), Detail: detail})
}

// OnRemoveSelected removes one selected result. Absent IDs are ignored.
func (m *Machine) OnRemoveSelected(id string) {
	if m.disposed || m.disabled {
		return
	}
	if !m.selection.Remove(id) {
		return
	}
	m.emitRemoval()
}

// Clear empties the selection, unlocking input in single mode.
func (m *Machine) Clear() {
	if m.disposed || m.disabled {
		return
	}
	if !m.selection.Clear() {
		return
	}
	m.emitRemoval()
}

func (m *Machine) emitRemoval() {
	detail := ChangeDetail{}
	if m.mode == ModeSingle {
		detail.DisableDependentInput = true
		detail.ClearDependentSelection = true
	}
	m.emit(SelectionChanged{Selection: m.selection.Items(), Detail: detail})
	if m.selection.Len() == 0 {
		m.emit(SelectionEmptied{})
	}
}

// SetInputDisabled toggles the disabled flag. Disabling always wipes the
// selection and any in-progress query; enabling only flips the flag.
func (m *Machine) SetInputDisabled(disabled bool) {
	if m.disposed {
		return
	}
	if !disabled {
		m.disabled = false
		return
	}
	m.disabled = true
	m.selection.Clear()
	m.cancel(TimerDebounce, &m.debounce)
	m.cancel(TimerBlurClose, &m.blurClose)
	m.query = ""
	m.committed = ""
	m.committedSet = false
	m.results = nil
	m.focus = FocusIdle
}

// SetParent changes the scope sent with future dispatches.
func (m *Machine) SetParent(id string) {
	m.parentID = id
}

// SetSearchResults replaces the result list. Results for superseded
// queries are applied too: the last response to arrive wins.
func (m *Machine) SetSearchResults(results []Result) {
	if m.disposed {
		return
	}
	if m.locked() {
		m.searching = false
		return
	}
	m.results = withDefaultIcons(results, m.policy.DefaultIcon)
	m.searching = false
	m.lastErr = nil
}

// SearchFailed reports a provider rejection for query. Results and
// selection are kept; subscribers receive SearchFailed.
func (m *Machine) SearchFailed(query string, err error) {
	if m.disposed {
		return
	}
	m.searching = false
	m.lastErr = err
	m.emit(SearchFailed{Query: query, Err: err})
}

// Fire delivers an elapsed timer. Stale timers are ignored.
func (m *Machine) Fire(t Timer) {
	if m.disposed {
		return
	}
	switch t.Kind {
	case TimerDebounce:
		if !m.debounce.armed || m.debounce.seq != t.Seq {
			return
		}
		m.debounce.armed = false
		m.fireDebounce()
	case TimerBlurClose:
		if !m.blurClose.armed || m.blurClose.seq != t.Seq {
			return
		}
		m.blurClose.armed = false
		m.focus = FocusIdle
		m.query = ""
	}
}

func (m *Machine) arm(kind TimerKind, slot *timerSlot, d time.Duration) {
	m.cancel(kind, slot)
	m.seq++
	slot.seq = m.seq
	slot.armed = true
	m.sched.Schedule(Timer{Kind: kind, Seq: slot.seq}, d)
}

func (m *Machine) cancel(kind TimerKind, slot *timerSlot) {
	if !slot.armed {
		return
	}
	slot.armed = false
	if c, ok := m.sched.(Canceler); ok {
		c.Cancel(Timer{Kind: kind, Seq: slot.seq})
	}
}

// Dispose cancels pending timers and drops subscribers. Every later call
// is a no-op.
func (m *Machine) Dispose() {
	if m.disposed {
		return
	}
	m.cancel(TimerDebounce, &m.debounce)
	m.cancel(TimerBlurClose, &m.blurClose)
	m.subs = nil
	m.disposed = true
}

// Mode returns the selection mode.
func (m *Machine) Mode() Mode {
	return m.mode
}

// Policy returns the effective policy.
func (m *Machine) Policy() Policy {
	return m.policy
}

// Query returns the displayed query text.
func (m *Machine) Query() string {
	return m.query
}

// Selection returns a copy of the current selection.
func (m *Machine) Selection() []Result {
	return m.selection.Items()
}

// Results returns a copy of the current result list.
func (m *Machine) Results() []Result {
	if len(m.results) == 0 {
		return nil
	}
	out := make([]Result, len(m.results))
	for i, r := range m.results {
		out[i] = r.clone()
	}
	return out
}

// DropdownOpen reports whether the result list should be visible.
func (m *Machine) DropdownOpen() bool {
	return m.focus != FocusIdle && !m.locked() && len(m.results) > 0
}

// Disabled reports whether input is disabled.
func (m *Machine) Disabled() bool {
	return m.disabled
}

// Locked reports whether a single selection is blocking input.
func (m *Machine) Locked() bool {
	return m.locked()
}

// Snapshot is a read-only view of the machine for rendering.
type Snapshot struct {
	Mode            Mode
	Query           string
	NormalizedQuery string
	Results         []Result
	Selection       []Result
	Focus           FocusState
	HasFocus        bool
	DropdownOpen    bool
	Disabled        bool
	Locked          bool
	Searching       bool
	DebouncePending bool
	ClosePending    bool
	ParentID        string
	Err             error
}

// Snapshot captures the current state.
func (m *Machine) Snapshot() Snapshot {
	return Snapshot{
		Mode:            m.mode,
		Query:           m.query,
		NormalizedQuery: m.committed,
		Results:         m.Results(),
		Selection:       m.selection.Items(),
		Focus:           m.focus,
		HasFocus:        m.focus != FocusIdle,
		DropdownOpen:    m.DropdownOpen(),
		Disabled:        m.disabled,
		Locked:          m.locked(),
		Searching:       m.searching,
		DebouncePending: m.debounce.armed,
		ClosePending:    m.blurClose.armed,
		ParentID:        m.parentID,
		Err:             m.lastErr,
	}
}
