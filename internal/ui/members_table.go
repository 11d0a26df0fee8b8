package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	bbtable "github.com/evertras/bubble-table/table"

	"teamlookup/internal/directory"
	"teamlookup/internal/ui/theme"
)

const (
	colMemberName  = "name"
	colMemberTitle = "title"
	colMemberEmail = "email"
	colMemberSince = "since"

	membersPageSize = 6
)

// membersPanel lists the current members of the selected team so the user
// can see who is already on it.
type membersPanel struct {
	teamID   string
	teamName string
	members  []directory.Member
	loading  bool
	err      error
	table    bbtable.Model
}

func membersColumns() []bbtable.Column {
	return []bbtable.Column{
		bbtable.NewColumn(colMemberName, "Name", 16),
		bbtable.NewColumn(colMemberTitle, "Title", 12),
		bbtable.NewColumn(colMemberEmail, "Email", 12),
		bbtable.NewColumn(colMemberSince, "Member since", 12),
	}
}

func newMembersTable(rows []bbtable.Row) bbtable.Model {
	t := theme.Current()
	return bbtable.New(membersColumns()).
		WithRows(rows).
		WithBaseStyle(lipgloss.NewStyle().Foreground(t.Text())).
		HeaderStyle(lipgloss.NewStyle().Foreground(t.Secondary()).Bold(true)).
		WithPageSize(membersPageSize).
		Focused(false).
		BorderRounded()
}

// load marks the panel as waiting on teamID.
func (p *membersPanel) load(teamID, teamName string) {
	p.teamID = teamID
	p.teamName = teamName
	p.members = nil
	p.err = nil
	p.loading = true
}

// set fills the panel. Relative times are computed against now.
func (p *membersPanel) set(members []directory.Member, err error, now time.Time) {
	p.loading = false
	p.err = err
	p.members = members
	rows := make([]bbtable.Row, 0, len(members))
	for _, m := range members {
		rows = append(rows, bbtable.NewRow(bbtable.RowData{
			colMemberName:  m.Contact.FullName(),
			colMemberTitle: m.Contact.Title,
			colMemberEmail: m.Contact.Email,
			colMemberSince: humanize.RelTime(m.CreatedAt, now, "ago", "from now"),
		}))
	}
	p.table = newMembersTable(rows)
}

func (p *membersPanel) clear() {
	*p = membersPanel{}
}

func (p membersPanel) active() bool {
	return p.teamID != ""
}

func (p membersPanel) View() string {
	if !p.active() {
		return ""
	}
	header := styleFieldLabel().Render("Current members of " + p.teamName)
	switch {
	case p.loading:
		return header + "\n" + styleLookupHint().Render("  Loading…")
	case p.err != nil:
		return header + "\n" + styleErrorText().Render("  "+p.err.Error())
	case len(p.members) == 0:
		return header + "\n" + styleLookupHint().Render("  No members yet")
	}
	count := styleMuted().Render(fmt.Sprintf(" (%d)", len(p.members)))
	return header + count + "\n" + p.table.View()
}
