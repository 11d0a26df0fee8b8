package ui

import (
	"context"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"teamlookup/internal/directory"
	"teamlookup/internal/lookup"
)

var (
	teamPlatform = lookup.Result{ID: "team-platform", Title: "Platform", Subtitle: "Core services"}
	teamPayments = lookup.Result{ID: "team-payments", Title: "Payments", Subtitle: "Billing"}
	contactAda   = lookup.Result{ID: "c-ada", Title: "Ada Lovelace", Subtitle: "Engineer • ada@example.com", Icon: directory.ContactIcon}
	contactAlan  = lookup.Result{ID: "c-alan", Title: "Alan Turing", Subtitle: "Researcher • alan@example.com", Icon: directory.ContactIcon}
	contactGrace = lookup.Result{ID: "c-grace", Title: "Grace Hopper", Subtitle: "Admiral • grace@example.com", Icon: directory.ContactIcon}
)

// plainOutput renders without colour codes for the rest of the test.
func plainOutput(t *testing.T) {
	t.Helper()
	prev := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.Ascii)
	t.Cleanup(func() { lipgloss.SetColorProfile(prev) })
}

// filterProvider returns the records whose title contains the query,
// minus excluded IDs.
func filterProvider(records ...lookup.Result) *lookup.MockProvider {
	p := lookup.NewMockProvider()
	p.SearchFn = func(_ context.Context, req lookup.SearchRequest) ([]lookup.Result, error) {
		excluded := make(map[string]bool, len(req.ExcludedIDs))
		for _, id := range req.ExcludedIDs {
			excluded[id] = true
		}
		var out []lookup.Result
		for _, r := range records {
			if excluded[r.ID] {
				continue
			}
			if strings.Contains(strings.ToLower(r.Title), req.Query) {
				out = append(out, r)
			}
		}
		return out, nil
	}
	return p
}

type fakeStore struct {
	mu      sync.Mutex
	members map[string][]directory.Member
	saveErr error
	saved   map[string][]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{members: map[string][]directory.Member{}, saved: map[string][]string{}}
}

func (s *fakeStore) Members(_ context.Context, teamID string) ([]directory.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.members[teamID], nil
}

func (s *fakeStore) CreateMemberships(_ context.Context, teamID string, contactIDs []string) ([]directory.Membership, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return nil, s.saveErr
	}
	s.saved[teamID] = append(s.saved[teamID], contactIDs...)
	out := make([]directory.Membership, len(contactIDs))
	for i, id := range contactIDs {
		out[i] = directory.Membership{ID: "m-" + id, TeamID: teamID, ContactID: id}
	}
	return out, nil
}

// quiet stops fields from arming real tea ticks and blinking cursors.
// Timers are delivered by hand with debounceMsg.
func quiet(fields ...*LookupField) {
	for _, f := range fields {
		f.sched.tick = func(time.Duration, func(time.Time) tea.Msg) tea.Cmd { return nil }
		f.textInput.Cursor.SetMode(cursor.CursorStatic)
	}
}

func debounceMsg(f *LookupField) TimerMsg {
	return TimerMsg{Field: f.ID, Timer: f.sched.last[lookup.TimerDebounce]}
}

func blurCloseMsg(f *LookupField) TimerMsg {
	return TimerMsg{Field: f.ID, Timer: f.sched.last[lookup.TimerBlurClose]}
}

// collectMsgs runs cmd and flattens batches and sequences into their
// messages, in order. Commands that block (ticks) are dropped.
func collectMsgs(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	var msg tea.Msg
	select {
	case msg = <-done:
	case <-time.After(50 * time.Millisecond):
		return nil
	}

	switch m := msg.(type) {
	case nil:
		return nil
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range m {
			out = append(out, collectMsgs(c)...)
		}
		return out
	}

	// tea.Sequence yields an unexported []tea.Cmd.
	if v := reflect.ValueOf(msg); v.Kind() == reflect.Slice {
		var out []tea.Msg
		for i := 0; i < v.Len(); i++ {
			if c, ok := v.Index(i).Interface().(tea.Cmd); ok {
				out = append(out, collectMsgs(c)...)
			}
		}
		return out
	}
	return []tea.Msg{msg}
}

// pumpField feeds msg to a standalone field and follows the resulting
// search responses. Other messages are returned for inspection.
func pumpField(f LookupField, msg tea.Msg) (LookupField, []tea.Msg) {
	var emitted []tea.Msg
	queue := []tea.Msg{msg}
	for i := 0; len(queue) > 0 && i < 100; i++ {
		next := queue[0]
		queue = queue[1:]
		var cmd tea.Cmd
		f, cmd = f.Update(next)
		for _, out := range collectMsgs(cmd) {
			if _, ok := out.(SearchResultMsg); ok {
				queue = append(queue, out)
				continue
			}
			emitted = append(emitted, out)
		}
	}
	return f, emitted
}

// newTestForm builds a form with quiet fields and a fixed clock.
func newTestForm(t *testing.T, cfg FormConfig) *Form {
	t.Helper()
	plainOutput(t)
	if cfg.Teams == nil {
		cfg.Teams = filterProvider(teamPlatform, teamPayments)
	}
	if cfg.Contacts == nil {
		cfg.Contacts = filterProvider(contactAda, contactAlan, contactGrace)
	}
	if cfg.Now == nil {
		now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		cfg.Now = func() time.Time { return now }
	}
	if cfg.MarkdownStyle == "" {
		cfg.MarkdownStyle = "plain"
	}
	f := NewForm(cfg)
	quiet(&f.team, &f.contacts)
	t.Cleanup(f.Dispose)
	return f
}

// pump feeds msgs through the form until no follow-up messages remain.
// Spinner and toast ticks are not followed.
func pump(f *Form, msgs ...tea.Msg) {
	queue := append([]tea.Msg(nil), msgs...)
	for i := 0; len(queue) > 0 && i < 200; i++ {
		next := queue[0]
		queue = queue[1:]
		switch next.(type) {
		case spinner.TickMsg, toastTickMsg:
			continue
		}
		_, cmd := f.Update(next)
		queue = append(queue, collectMsgs(cmd)...)
	}
}

func pumpCmd(f *Form, cmd tea.Cmd) {
	pump(f, collectMsgs(cmd)...)
}

func keyMsg(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func typeText(f *Form, s string) {
	for _, r := range s {
		pump(f, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}
