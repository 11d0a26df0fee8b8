package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"teamlookup/internal/lookup"
)

// TimerMsg delivers an elapsed lookup timer back to the field that armed it.
type TimerMsg struct {
	Field string
	Timer lookup.Timer
}

// teaScheduler turns lookup timers into tea.Tick commands. Ticks cannot be
// cancelled, so superseded ones still arrive; the machine drops them by
// sequence number.
type teaScheduler struct {
	field   string
	pending []tea.Cmd
	last    map[lookup.TimerKind]lookup.Timer
	tick    func(time.Duration, func(time.Time) tea.Msg) tea.Cmd
}

func newTeaScheduler(field string) *teaScheduler {
	return &teaScheduler{
		field: field,
		last:  make(map[lookup.TimerKind]lookup.Timer),
		tick:  tea.Tick,
	}
}

// Schedule implements lookup.Scheduler.
func (s *teaScheduler) Schedule(t lookup.Timer, d time.Duration) {
	field := s.field
	s.last[t.Kind] = t
	s.pending = append(s.pending, s.tick(d, func(time.Time) tea.Msg {
		return TimerMsg{Field: field, Timer: t}
	}))
}

// drain returns the ticks armed since the last call.
func (s *teaScheduler) drain() tea.Cmd {
	if len(s.pending) == 0 {
		return nil
	}
	cmds := s.pending
	s.pending = nil
	return tea.Batch(cmds...)
}
