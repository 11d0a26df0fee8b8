package lookup

import (
	"sort"
	"sync"
	"time"
)

// TimerKind names one of the machine's two timer slots.
type TimerKind int

const (
	// TimerDebounce delays search dispatch until typing pauses.
	TimerDebounce TimerKind = iota
	// TimerBlurClose delays closing the dropdown after blur so a result
	// click can land first.
	TimerBlurClose
)

func (k TimerKind) String() string {
	switch k {
	case TimerDebounce:
		return "debounce"
	case TimerBlurClose:
		return "blur-close"
	default:
		return "unknown"
	}
}

// Timer identifies one arming of a slot. Seq changes on every re-arm, so a
// Timer delivered after it was replaced or cancelled is recognised as stale.
type Timer struct {
	Kind TimerKind
	Seq  uint64
}

// Scheduler arms single-shot timers on behalf of a Machine. When d elapses
// the host must call Machine.Fire(t) on the same goroutine that drives the
// machine.
type Scheduler interface {
	Schedule(t Timer, d time.Duration)
}

// Canceler is implemented by schedulers that can drop a pending timer.
// Schedulers without it rely on the machine ignoring stale fires.
type Canceler interface {
	Cancel(t Timer)
}

// NopScheduler never fires. Useful for hosts that only read snapshots.
type NopScheduler struct{}

// Schedule implements Scheduler.
func (NopScheduler) Schedule(Timer, time.Duration) {}

type manualTimer struct {
	timer    Timer
	deadline time.Duration
	order    int
}

// ManualScheduler is a virtual clock. Timers only fire from Advance.
type ManualScheduler struct {
	now     time.Duration
	pending []manualTimer
	order   int
}

// NewManualScheduler returns a virtual clock starting at zero.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// Schedule implements Scheduler.
func (s *ManualScheduler) Schedule(t Timer, d time.Duration) {
	s.Cancel(t)
	s.order++
	s.pending = append(s.pending, manualTimer{timer: t, deadline: s.now + d, order: s.order})
}

// Cancel implements Canceler. Any pending timer of the same kind is dropped.
func (s *ManualScheduler) Cancel(t Timer) {
	kept := s.pending[:0]
	for _, p := range s.pending {
		if p.timer.Kind != t.Kind {
			kept = append(kept, p)
		}
	}
	s.pending = kept
}

// Now returns the virtual time elapsed since creation.
func (s *ManualScheduler) Now() time.Duration {
	return s.now
}

// Pending returns how many timers are armed.
func (s *ManualScheduler) Pending() int {
	return len(s.pending)
}

// Advance moves the clock forward by d, firing every timer whose deadline
// falls inside the window in deadline order. Timers armed by fire itself are
// honoured if they also fall inside the window.
func (s *ManualScheduler) Advance(d time.Duration, fire func(Timer)) {
	target := s.now + d
	for {
		idx := s.nextDue(target)
		if idx < 0 {
			break
		}
		due := s.pending[idx]
		s.pending = append(s.pending[:idx], s.pending[idx+1:]...)
		s.now = due.deadline
		if fire != nil {
			fire(due.timer)
		}
	}
	s.now = target
}

func (s *ManualScheduler) nextDue(target time.Duration) int {
	if len(s.pending) == 0 {
		return -1
	}
	sort.SliceStable(s.pending, func(i, j int) bool {
		if s.pending[i].deadline != s.pending[j].deadline {
			return s.pending[i].deadline < s.pending[j].deadline
		}
		return s.pending[i].order < s.pending[j].order
	})
	if s.pending[0].deadline > target {
		return -1
	}
	return 0
}

// RealScheduler arms wall-clock timers and delivers them on a channel so a
// single goroutine can drain them alongside its other inputs.
type RealScheduler struct {
	mu     sync.Mutex
	timers map[TimerKind]*time.Timer
	fired  chan Timer
	closed bool
}

// NewRealScheduler returns a scheduler whose fired timers arrive on Fired.
func NewRealScheduler() *RealScheduler {
	return &RealScheduler{
		timers: make(map[TimerKind]*time.Timer),
		fired:  make(chan Timer, 4),
	}
}

// Schedule implements Scheduler.
func (s *RealScheduler) Schedule(t Timer, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if existing := s.timers[t.Kind]; existing != nil {
		existing.Stop()
	}
	var timer *time.Timer
	timer = time.AfterFunc(d, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.closed || s.timers[t.Kind] != timer {
			return
		}
		delete(s.timers, t.Kind)
		// At most one timer per kind is outstanding, so the buffer never fills
		// unless the consumer has stopped draining.
		select {
		case s.fired <- t:
		default:
		}
	})
	s.timers[t.Kind] = timer
}

// Cancel implements Canceler.
func (s *RealScheduler) Cancel(t Timer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing := s.timers[t.Kind]; existing != nil {
		existing.Stop()
		delete(s.timers, t.Kind)
	}
}

// Fired delivers timers as they elapse.
func (s *RealScheduler) Fired() <-chan Timer {
	return s.fired
}

// Stop cancels every pending timer. The scheduler is unusable afterwards.
func (s *RealScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for kind, t := range s.timers {
		t.Stop()
		delete(s.timers, kind)
	}
}
