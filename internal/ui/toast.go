package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

type toastKind int

const (
	toastError toastKind = iota
	toastSuccess
)

const (
	errorToastDuration   = 10 * time.Second
	successToastDuration = 5 * time.Second
	toastMaxWidth        = 72
)

// toast is a transient notification shown under the form with a
// right-aligned countdown.
type toast struct {
	kind     toastKind
	title    string
	body     string
	start    time.Time
	duration time.Duration
}

func newToast(kind toastKind, title, body string, now time.Time) toast {
	d := successToastDuration
	if kind == toastError {
		d = errorToastDuration
	}
	return toast{kind: kind, title: title, body: body, start: now, duration: d}
}

func (t toast) visible(now time.Time) bool {
	return t.title != "" && now.Sub(t.start) < t.duration
}

// remaining returns whole seconds left, rounded up.
func (t toast) remaining(now time.Time) int {
	left := t.duration - now.Sub(t.start)
	if left <= 0 {
		return 0
	}
	return int((left + time.Second - 1) / time.Second)
}

func (t toast) render(now time.Time) string {
	if !t.visible(now) {
		return ""
	}

	icon := "✔"
	style := styleSuccessToast()
	if t.kind == toastError {
		icon = "⚠"
		style = styleErrorToast()
	}

	titleLine := styleToastTitle().Render(icon + " " + t.title)
	bodyLine := truncate.StringWithTail(firstLine(t.body), toastMaxWidth, "…")
	countdown := styleMuted().Render(fmt.Sprintf("[%ds]", t.remaining(now)))

	width := 30
	if w := lipgloss.Width(titleLine); w > width {
		width = w
	}
	if w := lipgloss.Width(bodyLine); w > width {
		width = w
	}
	padding := width - lipgloss.Width(countdown)
	if padding < 0 {
		padding = 0
	}

	lines := []string{titleLine}
	if bodyLine != "" {
		lines = append(lines, bodyLine)
	}
	lines = append(lines, strings.Repeat(" ", padding)+countdown)
	return style.Render(strings.Join(lines, "\n"))
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
