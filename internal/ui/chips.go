package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"teamlookup/internal/lookup"
	"teamlookup/internal/ui/theme"
)

// ChipListState represents the current mode of the chip list.
type ChipListState int

const (
	// ChipListInput - normal mode, cursor in the text input.
	ChipListInput ChipListState = iota
	// ChipListNavigation - navigating chips with arrows.
	ChipListNavigation
)

// Chip is one selected record rendered as a pill.
type Chip struct {
	ID    string
	Label string
}

// ChipList shows the selected records of a multi lookup and lets the user
// walk and delete them from the keyboard.
type ChipList struct {
	Width int // Wrap width (default 40)

	chips    []Chip
	state    ChipListState
	navIndex int // -1 = none
}

// NewChipList creates an empty ChipList.
func NewChipList() ChipList {
	return ChipList{Width: 40, navIndex: -1}
}

// SetFromResults replaces the chips with the given selection, keeping the
// navigation cursor in range.
func (c *ChipList) SetFromResults(results []lookup.Result) {
	c.chips = make([]Chip, 0, len(results))
	for _, r := range results {
		c.chips = append(c.chips, Chip{ID: r.ID, Label: r.Title})
	}
	if len(c.chips) == 0 {
		c.ExitNavigation()
		return
	}
	if c.navIndex >= len(c.chips) {
		c.navIndex = len(c.chips) - 1
	}
}

// Update moves the highlight. Leaving the chips (right past the last one,
// down, Esc or Tab) returns to input mode.
func (c ChipList) Update(msg tea.Msg) (ChipList, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || c.state != ChipListNavigation {
		return c, nil
	}

	switch key.Type {
	case tea.KeyLeft:
		if c.navIndex > 0 {
			c.navIndex--
		}
	case tea.KeyRight:
		if c.navIndex < len(c.chips)-1 {
			c.navIndex++
		} else {
			c.ExitNavigation()
		}
	case tea.KeyDown, tea.KeyEsc, tea.KeyTab:
		c.ExitNavigation()
	}
	return c, nil
}

// View renders the chips wrapped to Width.
func (c ChipList) View() string {
	return wrapChips(c.RenderChips(), c.Width)
}

// RenderChips returns styled chip strings without wrapping.
func (c ChipList) RenderChips() []string {
	out := make([]string, 0, len(c.chips))
	for i, chip := range c.chips {
		state := chipStateNormal
		if c.state == ChipListNavigation && i == c.navIndex {
			state = chipStateHighlight
		}
		out = append(out, renderPillChip(chip.Label, state))
	}
	return out
}

func wrapChips(rendered []string, width int) string {
	if len(rendered) == 0 {
		return ""
	}
	if width <= 0 {
		return strings.Join(rendered, " ")
	}

	var (
		lines        []string
		current      []string
		currentWidth int
	)
	for _, chip := range rendered {
		w := lipgloss.Width(chip)
		need := w
		if len(current) > 0 {
			need++
		}
		if currentWidth+need > width && len(current) > 0 {
			lines = append(lines, strings.Join(current, " "))
			current = []string{chip}
			currentWidth = w
			continue
		}
		current = append(current, chip)
		currentWidth += need
	}
	if len(current) > 0 {
		lines = append(lines, strings.Join(current, " "))
	}
	return strings.Join(lines, "\n")
}

// Chips returns a copy of the chips.
func (c ChipList) Chips() []Chip {
	return append([]Chip(nil), c.chips...)
}

// Len returns the number of chips.
func (c ChipList) Len() int {
	return len(c.chips)
}

// EnterNavigation highlights the last chip. Returns false when empty.
func (c *ChipList) EnterNavigation() bool {
	if len(c.chips) == 0 {
		return false
	}
	c.state = ChipListNavigation
	c.navIndex = len(c.chips) - 1
	return true
}

// ExitNavigation returns to input mode.
func (c *ChipList) ExitNavigation() {
	c.state = ChipListInput
	c.navIndex = -1
}

// InNavigationMode reports whether chips are being navigated.
func (c ChipList) InNavigationMode() bool {
	return c.state == ChipListNavigation
}

// Highlighted returns the chip under the cursor.
func (c ChipList) Highlighted() (Chip, bool) {
	if c.state != ChipListNavigation || c.navIndex < 0 || c.navIndex >= len(c.chips) {
		return Chip{}, false
	}
	return c.chips[c.navIndex], true
}

// HighlightedIndex returns the highlighted chip, or -1.
func (c ChipList) HighlightedIndex() int {
	if c.state != ChipListNavigation {
		return -1
	}
	return c.navIndex
}

type chipState int

const (
	chipStateNormal chipState = iota
	chipStateHighlight
)

// Powerline half circles for pill-shaped chips.
const (
	pillLeft  = "\ue0b6"
	pillRight = "\ue0b4"
)

func renderPillChip(label string, state chipState) string {
	t := theme.Current()
	bg, fg := lipgloss.TerminalColor(t.Info()), lipgloss.TerminalColor(t.Background())
	if state == chipStateHighlight {
		bg, fg = t.BackgroundSecondary(), t.Text()
	}

	labelStyle := lipgloss.NewStyle().Foreground(fg).Background(bg)
	if state == chipStateHighlight {
		labelStyle = labelStyle.Bold(true)
	}
	capStyle := lipgloss.NewStyle().Foreground(bg)
	return capStyle.Render(pillLeft) + labelStyle.Render(label+" ×") + capStyle.Render(pillRight)
}
