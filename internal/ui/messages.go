package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"teamlookup/internal/directory"
	"teamlookup/internal/lookup"
)

// SearchResultMsg carries a provider response back to its field.
type SearchResultMsg struct {
	Field   string
	Request lookup.SearchRequest
	Results []lookup.Result
	Err     error
}

// SelectionChangedMsg is emitted after every selection mutation of a field.
type SelectionChangedMsg struct {
	Field     string
	Selection []lookup.Result
	Detail    lookup.ChangeDetail
}

// SelectionEmptiedMsg is emitted when a removal leaves a field empty.
type SelectionEmptiedMsg struct {
	Field string
}

// LookupFailedMsg is emitted when a field's search was rejected.
type LookupFailedMsg struct {
	Field string
	Query string
	Err   error
}

type membersLoadedMsg struct {
	teamID  string
	members []directory.Member
	err     error
}

type membershipsSavedMsg struct {
	teamID   string
	teamName string
	contacts []lookup.Result
	created  []directory.Membership
	err      error
}

type toastTickMsg struct{}

func scheduleToastTick() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return toastTickMsg{}
	})
}
