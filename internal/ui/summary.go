package ui

import (
	"fmt"
	"strings"
	"time"

	"teamlookup/internal/directory"
	"teamlookup/internal/lookup"
)

// SaveResult describes a completed save.
type SaveResult struct {
	TeamID      string
	TeamName    string
	Contacts    []lookup.Result
	Memberships []directory.Membership
	SavedAt     time.Time
}

// SummaryMarkdown renders a save as a markdown report.
func SummaryMarkdown(res SaveResult) string {
	var b strings.Builder
	noun := "members"
	if len(res.Memberships) == 1 {
		noun = "member"
	}
	fmt.Fprintf(&b, "## Added %d %s to **%s**\n\n", len(res.Memberships), noun, escapeMarkdown(res.TeamName))

	byContact := make(map[string]directory.Membership, len(res.Memberships))
	for _, m := range res.Memberships {
		byContact[m.ContactID] = m
	}

	b.WriteString("| Contact | Details | Membership |\n")
	b.WriteString("|---|---|---|\n")
	for _, c := range res.Contacts {
		id := "-"
		if m, ok := byContact[c.ID]; ok {
			id = "`" + shortID(m.ID) + "`"
		}
		fmt.Fprintf(&b, "| %s | %s | %s |\n", escapeMarkdown(c.Title), escapeMarkdown(c.Subtitle), id)
	}

	if !res.SavedAt.IsZero() {
		fmt.Fprintf(&b, "\n_Saved at %s_\n", res.SavedAt.Local().Format("15:04:05"))
	}
	return b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// escapeMarkdown neutralises the characters that would break a table cell.
func escapeMarkdown(s string) string {
	r := strings.NewReplacer("|", `\|`, "*", `\*`, "_", `\_`, "`", "'", "\n", " ")
	return r.Replace(s)
}
