package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"teamlookup/internal/debug"
	"teamlookup/internal/directory"
	appErrors "teamlookup/internal/errors"
	"teamlookup/internal/lookup"
	"teamlookup/internal/ui/theme"
)

const (
	fieldTeams    = "teams"
	fieldContacts = "contacts"

	defaultFormWidth = 64
	saveTimeout      = 10 * time.Second
)

// MembershipStore is the persistence the form writes to.
type MembershipStore interface {
	Members(ctx context.Context, teamID string) ([]directory.Member, error)
	CreateMemberships(ctx context.Context, teamID string, contactIDs []string) ([]directory.Membership, error)
}

// FormConfig wires the form to its data sources.
type FormConfig struct {
	Teams         lookup.Provider
	Contacts      lookup.Provider
	Store         MembershipStore
	Policy        lookup.Policy
	MaxVisible    int
	SearchTimeout time.Duration
	Width         int

	// DefaultTeam is preselected each time the form opens.
	DefaultTeam *lookup.Result

	// MarkdownStyle is a glamour style name, or "plain".
	MarkdownStyle string

	Clipboard func(string) error
	SaveTheme func(string) error
	Now       func() time.Time
}

type formFocus int

const (
	focusTeam formFocus = iota
	focusContacts
	focusSave
	focusCancel
)

// Form is the "add team members" modal: a single team lookup cascading
// into a multi contact lookup, with Save and Cancel.
type Form struct {
	cfg     FormConfig
	keys    KeyMap
	help    help.Model
	spinner spinner.Model
	log     debug.Scope

	team     LookupField
	contacts LookupField
	members  membersPanel

	open        bool
	focus       formFocus
	saveEnabled bool
	saving      bool
	showHelp    bool
	quitting    bool

	termWidth  int
	termHeight int

	toast       toast
	toastTicker bool

	lastSaved      *SaveResult
	history        []SaveResult
	summary        string
	renderMarkdown func(string) string
}

// NewForm builds a closed form. Init opens it.
func NewForm(cfg FormConfig) *Form {
	if cfg.Width <= 0 {
		cfg.Width = defaultFormWidth
	}
	if cfg.SearchTimeout <= 0 {
		cfg.SearchTimeout = defaultSearchTimeout
	}
	if cfg.Clipboard == nil {
		cfg.Clipboard = clipboard.WriteAll
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	fieldWidth := cfg.Width - 6
	team := NewLookupField(fieldTeams, lookup.ModeSingle, cfg.Teams, lookup.WithPolicy(cfg.Policy)).
		WithLabel("Team").
		WithPlaceholder("Search teams…").
		WithWidth(fieldWidth).
		WithMaxVisible(cfg.MaxVisible).
		WithTimeout(cfg.SearchTimeout)
	contacts := NewLookupField(fieldContacts, lookup.ModeMulti, cfg.Contacts,
		lookup.WithPolicy(cfg.Policy), lookup.WithDisabled(true)).
		WithLabel("Contacts").
		WithPlaceholder("Search contacts…").
		WithDisabledHint("Select a team first").
		WithWidth(fieldWidth).
		WithMaxVisible(cfg.MaxVisible).
		WithTimeout(cfg.SearchTimeout)

	s := spinner.New()
	s.Spinner = spinner.Dot

	return &Form{
		cfg:            cfg,
		keys:           DefaultKeyMap(),
		help:           help.New(),
		spinner:        s,
		log:            debug.Scope("form"),
		team:           team,
		contacts:       contacts,
		renderMarkdown: buildMarkdownRenderer(cfg.MarkdownStyle, fieldWidth),
	}
}

// Init implements tea.Model.
func (f *Form) Init() tea.Cmd {
	return f.openModal()
}

// Update implements tea.Model.
func (f *Form) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return f, f.handleKey(msg)

	case tea.WindowSizeMsg:
		f.termWidth, f.termHeight = msg.Width, msg.Height
		return f, nil

	case TimerMsg, SearchResultMsg:
		var c1, c2 tea.Cmd
		f.team, c1 = f.team.Update(msg)
		f.contacts, c2 = f.contacts.Update(msg)
		return f, tea.Batch(c1, c2)

	case SelectionChangedMsg:
		return f, f.handleSelectionChanged(msg)

	case SelectionEmptiedMsg:
		if msg.Field == fieldContacts {
			return f, f.setSaveEnabled(false)
		}
		return f, nil

	case LookupFailedMsg:
		f.log.Logf("%s lookup failed for %q: %v", msg.Field, msg.Query, msg.Err)
		return f, f.showToast(toastError, "Lookup Error", msg.Err.Error())

	case membersLoadedMsg:
		if msg.teamID == f.members.teamID {
			f.members.set(msg.members, msg.err, f.cfg.Now())
		}
		return f, nil

	case membershipsSavedMsg:
		return f, f.handleSaved(msg)

	case spinner.TickMsg:
		if !f.saving {
			return f, nil
		}
		var cmd tea.Cmd
		f.spinner, cmd = f.spinner.Update(msg)
		return f, cmd

	case toastTickMsg:
		if f.toast.visible(f.cfg.Now()) {
			return f, scheduleToastTick()
		}
		f.toastTicker = false
		return f, nil
	}
	return f, nil
}

func (f *Form) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, f.keys.Quit) {
		f.quitting = true
		return tea.Quit
	}

	if !f.open {
		switch {
		case key.Matches(msg, f.keys.Open):
			return f.openModal()
		case key.Matches(msg, f.keys.Exit):
			f.quitting = true
			return tea.Quit
		case key.Matches(msg, f.keys.Theme):
			return f.cycleTheme()
		}
		return nil
	}

	if f.showHelp {
		if key.Matches(msg, f.keys.Help, f.keys.Cancel) {
			f.showHelp = false
		}
		return nil
	}
	if f.saving {
		return nil
	}

	switch {
	case key.Matches(msg, f.keys.Next):
		return f.moveFocus(1)
	case key.Matches(msg, f.keys.Prev):
		return f.moveFocus(-1)
	case key.Matches(msg, f.keys.Save):
		return f.save()
	case key.Matches(msg, f.keys.Copy):
		return f.copyIDs()
	case key.Matches(msg, f.keys.Theme):
		return f.cycleTheme()
	case key.Matches(msg, f.keys.Help):
		f.showHelp = true
		return nil
	case key.Matches(msg, f.keys.Cancel) && !f.fieldWantsEsc():
		return f.reset()
	}

	var cmd tea.Cmd
	switch f.focus {
	case focusTeam:
		f.team, cmd = f.team.Update(msg)
	case focusContacts:
		f.contacts, cmd = f.contacts.Update(msg)
	case focusSave:
		if msg.Type == tea.KeyEnter {
			cmd = f.save()
		}
	case focusCancel:
		if msg.Type == tea.KeyEnter {
			cmd = f.reset()
		}
	}
	return cmd
}

// fieldWantsEsc reports whether the focused field will consume Esc itself.
func (f *Form) fieldWantsEsc() bool {
	field := f.focusedField()
	return field != nil && (field.DropdownOpen() || field.chips.InNavigationMode())
}

func (f *Form) focusedField() *LookupField {
	switch f.focus {
	case focusTeam:
		return &f.team
	case focusContacts:
		return &f.contacts
	}
	return nil
}

// focusOrder lists the currently reachable focus targets.
func (f *Form) focusOrder() []formFocus {
	order := []formFocus{focusTeam}
	if !f.contacts.Disabled() {
		order = append(order, focusContacts)
	}
	if f.saveEnabled {
		order = append(order, focusSave)
	}
	return append(order, focusCancel)
}

func (f *Form) moveFocus(delta int) tea.Cmd {
	order := f.focusOrder()
	idx := 0
	for i, target := range order {
		if target == f.focus {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(order)) % len(order)
	return f.setFocus(order[idx])
}

func (f *Form) setFocus(target formFocus) tea.Cmd {
	if target == f.focus {
		return nil
	}
	var cmds []tea.Cmd
	if field := f.focusedField(); field != nil {
		cmds = append(cmds, field.Blur())
	}
	f.focus = target
	if field := f.focusedField(); field != nil {
		cmds = append(cmds, field.Focus())
	}
	return tea.Batch(cmds...)
}

func (f *Form) handleSelectionChanged(msg SelectionChangedMsg) tea.Cmd {
	switch msg.Field {
	case fieldTeams:
		if msg.Detail.DisableDependentInput || len(msg.Selection) == 0 {
			return f.disableContacts()
		}
		team := msg.Selection[0]
		parentID := msg.Detail.ParentID
		if parentID == "" {
			parentID = team.ID
		}

		var cmds []tea.Cmd
		// Picks scoped to another team are no longer valid.
		if prev := f.contacts.Snapshot().ParentID; prev != "" && prev != parentID {
			cmds = append(cmds, f.contacts.SetInputDisabled(true), f.setSaveEnabled(false))
		}
		f.contacts.SetParent(parentID)
		cmds = append(cmds, f.contacts.SetInputDisabled(false))

		f.members.load(parentID, team.Title)
		cmds = append(cmds, f.loadMembersCmd(parentID))
		f.log.Logf("team %s selected, contacts enabled", parentID)
		return tea.Batch(cmds...)

	case fieldContacts:
		return f.setSaveEnabled(len(msg.Selection) > 0 && len(f.team.Selection()) > 0)
	}
	return nil
}

func (f *Form) disableContacts() tea.Cmd {
	cmds := []tea.Cmd{f.contacts.SetInputDisabled(true), f.setSaveEnabled(false)}
	f.contacts.SetParent("")
	f.members.clear()
	if f.focus == focusContacts {
		cmds = append(cmds, f.setFocus(focusTeam))
	}
	return tea.Batch(cmds...)
}

func (f *Form) setSaveEnabled(enabled bool) tea.Cmd {
	f.saveEnabled = enabled
	if !enabled && f.focus == focusSave {
		return f.setFocus(focusCancel)
	}
	return nil
}

func (f *Form) loadMembersCmd(teamID string) tea.Cmd {
	if f.cfg.Store == nil {
		return nil
	}
	store, timeout := f.cfg.Store, f.cfg.SearchTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		members, err := store.Members(ctx, teamID)
		return membersLoadedMsg{teamID: teamID, members: members, err: err}
	}
}

func (f *Form) save() tea.Cmd {
	if !f.saveEnabled || f.saving || f.cfg.Store == nil {
		return nil
	}
	teams := f.team.Selection()
	contacts := f.contacts.Selection()
	if len(teams) == 0 || len(contacts) == 0 {
		return nil
	}
	team := teams[0]
	ids := make([]string, len(contacts))
	for i, c := range contacts {
		ids[i] = c.ID
	}

	f.saving = true
	f.log.Logf("saving %d memberships for team %s", len(ids), team.ID)
	store := f.cfg.Store
	return tea.Batch(f.spinner.Tick, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		created, err := store.CreateMemberships(ctx, team.ID, ids)
		return membershipsSavedMsg{
			teamID:   team.ID,
			teamName: team.Title,
			contacts: contacts,
			created:  created,
			err:      err,
		}
	})
}

func (f *Form) handleSaved(msg membershipsSavedMsg) tea.Cmd {
	f.saving = false
	if msg.err != nil {
		f.log.Logf("save for team %s failed: %v", msg.teamID, msg.err)
		title := "Save Failed"
		if appErrors.IsCode(msg.err, appErrors.CodeDuplicateMembership) {
			title = "Already a Member"
		}
		return f.showToast(toastError, title, msg.err.Error())
	}

	res := SaveResult{
		TeamID:      msg.teamID,
		TeamName:    msg.teamName,
		Contacts:    msg.contacts,
		Memberships: msg.created,
		SavedAt:     f.cfg.Now(),
	}
	f.lastSaved = &res
	f.history = append(f.history, res)
	f.summary = f.renderMarkdown(SummaryMarkdown(res))

	body := fmt.Sprintf("%d added to %s", len(msg.created), msg.teamName)
	return tea.Batch(f.reset(), f.showToast(toastSuccess, "Team Members Added", body))
}

// openModal shows the form, focusing the team lookup and applying the
// default team.
func (f *Form) openModal() tea.Cmd {
	f.open = true
	f.focus = focusTeam
	cmds := []tea.Cmd{f.team.Focus()}
	if d := f.cfg.DefaultTeam; d != nil && len(f.team.Selection()) == 0 {
		cmds = append(cmds, f.team.Select(*d))
	}
	return tea.Batch(cmds...)
}

// reset clears both lookups and closes the form.
func (f *Form) reset() tea.Cmd {
	var cmds []tea.Cmd
	if field := f.focusedField(); field != nil {
		cmds = append(cmds, field.Blur())
	}
	cmds = append(cmds, f.contacts.SetInputDisabled(true))
	f.contacts.SetParent("")
	cmds = append(cmds, f.team.Clear())

	f.members.clear()
	f.saveEnabled = false
	f.showHelp = false
	f.open = false
	f.focus = focusTeam
	return tea.Batch(cmds...)
}

func (f *Form) copyIDs() tea.Cmd {
	sel := f.contacts.Selection()
	if len(sel) == 0 {
		sel = f.team.Selection()
	}
	if len(sel) == 0 {
		return f.showToast(toastError, "Nothing to Copy", "Select a team or contacts first.")
	}
	ids := make([]string, len(sel))
	for i, r := range sel {
		ids[i] = r.ID
	}
	if err := f.cfg.Clipboard(strings.Join(ids, "\n")); err != nil {
		return f.showToast(toastError, "Copy Failed", err.Error())
	}
	return f.showToast(toastSuccess, "Copied", fmt.Sprintf("Copied %d ID(s) to clipboard.", len(ids)))
}

func (f *Form) cycleTheme() tea.Cmd {
	name := theme.CycleTheme()
	if f.cfg.SaveTheme != nil {
		if err := f.cfg.SaveTheme(name); err != nil {
			f.log.Logf("save theme %s: %v", name, err)
		}
	}
	if f.members.active() && !f.members.loading {
		f.members.set(f.members.members, f.members.err, f.cfg.Now())
	}
	return f.showToast(toastSuccess, "Theme", name)
}

func (f *Form) showToast(kind toastKind, title, body string) tea.Cmd {
	f.toast = newToast(kind, title, body, f.cfg.Now())
	if f.toastTicker {
		return nil
	}
	f.toastTicker = true
	return scheduleToastTick()
}

// Open reports whether the modal is showing.
func (f *Form) Open() bool {
	return f.open
}

// SaveEnabled reports whether Save is currently allowed.
func (f *Form) SaveEnabled() bool {
	return f.saveEnabled
}

// Saving reports whether a save is in flight.
func (f *Form) Saving() bool {
	return f.saving
}

// LastSaved returns the most recent successful save, if any.
func (f *Form) LastSaved() *SaveResult {
	return f.lastSaved
}

// History returns every successful save of the session, oldest first.
func (f *Form) History() []SaveResult {
	return append([]SaveResult(nil), f.history...)
}

// Team returns the team lookup.
func (f *Form) Team() *LookupField {
	return &f.team
}

// Contacts returns the contacts lookup.
func (f *Form) Contacts() *LookupField {
	return &f.contacts
}

// Dispose releases both lookups.
func (f *Form) Dispose() {
	f.team.Dispose()
	f.contacts.Dispose()
}
