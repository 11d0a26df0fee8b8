package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// helpSection represents a group of keybindings for display.
type helpSection struct {
	title string
	rows  [][]string // Each row: [keys, description]
}

// getHelpSections returns the help content organized into sections.
// Text is derived from binding.Help() so the KeyMap stays the single source.
func getHelpSections(keys KeyMap) []helpSection {
	full := keys.FullHelp()
	return []helpSection{
		{title: "LOOKUP", rows: bindingRows(full[0])},
		{title: "FORM", rows: bindingRows(full[1])},
	}
}

func bindingRows(bindings []key.Binding) [][]string {
	rows := make([][]string, 0, len(bindings))
	for _, b := range bindings {
		rows = append(rows, []string{b.Help().Key, b.Help().Desc})
	}
	return rows
}

// renderHelpOverlay renders the full keybinding reference.
func renderHelpOverlay(keys KeyMap) string {
	sections := getHelpSections(keys)

	columns := lipgloss.JoinHorizontal(lipgloss.Top,
		renderHelpSectionTable(sections[0]),
		"    ",
		renderHelpSectionTable(sections[1]),
	)

	title := styleHelpTitle().Render("✦ TEAM LOOKUP HELP ✦")
	dividerWidth := lipgloss.Width(columns)
	if dividerWidth < 40 {
		dividerWidth = 40
	}
	divider := styleDivider().Render(strings.Repeat("─", dividerWidth))
	footer := styleMuted().Render("Press F1 to close")

	content := lipgloss.JoinVertical(lipgloss.Center,
		title,
		divider,
		"",
		columns,
		"",
		footer,
	)
	return styleHelpOverlay().Render(content)
}

// renderHelpSectionTable renders a single help section using lipgloss/table.
func renderHelpSectionTable(section helpSection) string {
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 0 {
				return styleHelpKey().Width(14)
			}
			return styleHelpDesc()
		}).
		Rows(section.rows...)

	header := styleHelpSectionHeader().Render(section.title)
	underline := styleDivider().Render(strings.Repeat("─", len(section.title)))

	// Hidden borders leave an empty top row.
	tableStr := strings.TrimPrefix(t.String(), "\n")

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		underline,
		tableStr,
	)
}
