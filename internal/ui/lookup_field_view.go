package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"teamlookup/internal/lookup"
)

// View implements tea.Model.
func (f LookupField) View() string {
	snap := f.machine.Snapshot()
	var b strings.Builder

	if f.Label != "" {
		if snap.Disabled {
			b.WriteString(styleFieldLabelDisabled().Render(f.Label))
		} else {
			b.WriteString(styleFieldLabel().Render(f.Label))
		}
		b.WriteString("\n")
	}

	if snap.Mode == lookup.ModeMulti && f.chips.Len() > 0 {
		b.WriteString(f.chips.View())
		b.WriteString("\n")
	}

	// Width is the visual width including the border, which lipgloss adds
	// outside Width.
	style := styleLookupInput()
	switch {
	case snap.Disabled:
		style = styleLookupInputDisabled()
	case snap.Err != nil:
		style = styleLookupInputError()
	case f.focused:
		style = styleLookupInputFocused()
	}
	b.WriteString(style.Width(f.Width - 2).Render(f.inputView(snap)))

	if snap.Err != nil && !snap.Disabled {
		b.WriteString("\n")
		b.WriteString(styleErrorText().Render("  " + truncate.StringWithTail(snap.Err.Error(), uint(f.contentWidth()), "…")))
	}

	if snap.DropdownOpen {
		b.WriteString("\n")
		b.WriteString(f.renderDropdown(snap.Results))
	} else if f.focused && snap.Searching {
		b.WriteString("\n")
		b.WriteString(styleLookupHint().Render("  Searching…"))
	}

	return b.String()
}

func (f LookupField) inputView(snap lookup.Snapshot) string {
	if snap.Locked && len(snap.Selection) > 0 {
		sel := snap.Selection[0]
		title := styleSelectedPill().Render(iconGlyph(sel.Icon) + " " + sel.Title)
		return title + styleLookupHint().Render("  ctrl+x to clear")
	}
	if snap.Disabled {
		return styleLookupHint().Render(f.disabledHint())
	}
	return f.textInput.View()
}

func (f LookupField) disabledHint() string {
	if f.DisabledHint != "" {
		return f.DisabledHint
	}
	return "Disabled"
}

func (f LookupField) contentWidth() int {
	w := f.Width - 4
	if w < 10 {
		w = 10
	}
	return w
}

// renderDropdown renders the visible window of results with scroll markers.
func (f LookupField) renderDropdown(results []lookup.Result) string {
	var b strings.Builder
	if f.scroll > 0 {
		b.WriteString(styleLookupHint().Render("  ▲ more above"))
		b.WriteString("\n")
	}

	end := f.scroll + f.MaxVisible
	if end > len(results) {
		end = len(results)
	}
	width := f.contentWidth()
	for i := f.scroll; i < end; i++ {
		b.WriteString(f.renderResult(results[i], i == f.highlight, width))
		if i < end-1 {
			b.WriteString("\n")
		}
	}

	if end < len(results) {
		b.WriteString("\n")
		b.WriteString(styleLookupHint().Render("  ▼ more below"))
	}
	return b.String()
}

func (f LookupField) renderResult(r lookup.Result, highlighted bool, width int) string {
	prefix := "  "
	style := styleLookupOption()
	if highlighted {
		prefix = "▸ "
		style = styleLookupHighlight()
	}

	// Prefix and icon take four columns.
	title := truncate.StringWithTail(r.Title, uint(max(width-4, 1)), "…")
	line := style.Render(prefix + iconGlyph(r.Icon) + " " + title)
	if r.Subtitle == "" {
		return line
	}
	rest := width - lipgloss.Width(line) - 3
	if rest < 6 {
		return line
	}
	return line + styleLookupSubtitle().Render("  "+truncate.StringWithTail(r.Subtitle, uint(rest), "…"))
}

// iconGlyph maps an icon name such as "standard:contact" to a glyph.
func iconGlyph(icon string) string {
	switch {
	case strings.Contains(icon, "contact"), strings.Contains(icon, "user"):
		return "◉"
	case icon == lookup.DefaultIcon, strings.Contains(icon, "team"), strings.Contains(icon, "group"):
		return "◆"
	default:
		return "•"
	}
}
