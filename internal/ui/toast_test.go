package ui

import (
	"strings"
	"testing"
	"time"
)

func TestToastCountdown(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name      string
		kind      toastKind
		elapsed   time.Duration
		remaining int
		visible   bool
	}{
		{"ErrorFresh", toastError, 0, 10, true},
		{"ErrorPartial", toastError, 2500 * time.Millisecond, 8, true},
		{"ErrorExpired", toastError, 10 * time.Second, 0, false},
		{"SuccessFresh", toastSuccess, 0, 5, true},
		{"SuccessExpired", toastSuccess, 6 * time.Second, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toast := newToast(tt.kind, "Title", "body", start)
			now := start.Add(tt.elapsed)
			if got := toast.remaining(now); got != tt.remaining {
				t.Errorf("expected %d seconds remaining, got %d", tt.remaining, got)
			}
			if got := toast.visible(now); got != tt.visible {
				t.Errorf("expected visible=%v, got %v", tt.visible, got)
			}
		})
	}
}

func TestToastRender(t *testing.T) {
	plainOutput(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("ErrorToast", func(t *testing.T) {
		out := newToast(toastError, "Lookup Error", "search failed\nstack trace", now).render(now)
		for _, want := range []string{"⚠ Lookup Error", "search failed", "[10s]"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %q in toast:\n%s", want, out)
			}
		}
		if strings.Contains(out, "stack trace") {
			t.Error("expected only the first line of the body")
		}
	})

	t.Run("SuccessToast", func(t *testing.T) {
		out := newToast(toastSuccess, "Copied", "", now).render(now)
		if !strings.Contains(out, "✔ Copied") || !strings.Contains(out, "[5s]") {
			t.Errorf("unexpected toast:\n%s", out)
		}
	})

	t.Run("LongBodyTruncated", func(t *testing.T) {
		out := newToast(toastError, "Oops", strings.Repeat("x", 200), now).render(now)
		if !strings.Contains(out, "…") {
			t.Error("expected long body to be truncated")
		}
	})

	t.Run("ExpiredRendersNothing", func(t *testing.T) {
		toast := newToast(toastSuccess, "Done", "", now)
		if out := toast.render(now.Add(time.Minute)); out != "" {
			t.Errorf("expected empty render, got %q", out)
		}
	})
}
