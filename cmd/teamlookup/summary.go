package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"teamlookup/internal/ui"
)

var (
	primaryColor = lipgloss.Color("#7D56F4")
	dimColor     = lipgloss.Color("#6272A4")
	textColor    = lipgloss.Color("#F8F8F2")
	successColor = lipgloss.Color("#50FA7B")
)

// ExitSummary holds data for the summary shown when the TUI exits.
type ExitSummary struct {
	Version  string
	Duration time.Duration
	Saves    []ui.SaveResult
}

// printExitSummary prints a short report of the session after the alt
// screen is gone.
func printExitSummary(w io.Writer, summary ExitSummary) {
	appStyle := lipgloss.NewStyle().Bold(true).Foreground(primaryColor)
	dimStyle := lipgloss.NewStyle().Foreground(dimColor)
	textStyle := lipgloss.NewStyle().Foreground(textColor)
	addedStyle := lipgloss.NewStyle().Foreground(successColor)

	versionStr := ""
	if summary.Version != "" {
		versionStr = dimStyle.Render(" v" + summary.Version)
	}
	sessionStr := dimStyle.Render(fmt.Sprintf(" • %s session", formatDuration(summary.Duration)))
	_, _ = fmt.Fprintln(w, appStyle.Render("teamlookup")+versionStr+sessionStr)

	if len(summary.Saves) == 0 {
		_, _ = fmt.Fprintln(w, textStyle.Render("No members added"))
		return
	}

	total := 0
	var teams []string
	for _, s := range summary.Saves {
		total += len(s.Memberships)
		teams = append(teams, fmt.Sprintf("%s %s", s.TeamName, addedStyle.Render(formatDelta(len(s.Memberships)))))
	}
	noun := "members"
	if total == 1 {
		noun = "member"
	}
	_, _ = fmt.Fprintln(w, textStyle.Render(fmt.Sprintf("%d %s added: ", total, noun))+strings.Join(teams, ", "))
}

// formatDuration formats a duration into a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		mins := int(d.Minutes())
		secs := int(d.Seconds()) % 60
		if secs == 0 {
			return fmt.Sprintf("%dm", mins)
		}
		return fmt.Sprintf("%dm %ds", mins, secs)
	}
	hours := int(d.Hours())
	mins := int(d.Minutes()) % 60
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh %dm", hours, mins)
}

// formatDelta formats a count with a + prefix.
func formatDelta(delta int) string {
	if delta > 0 {
		return fmt.Sprintf("(+%d)", delta)
	}
	return fmt.Sprintf("(%d)", delta)
}
