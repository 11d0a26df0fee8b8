package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View implements tea.Model.
func (f *Form) View() string {
	if f.quitting {
		return ""
	}

	body := f.closedView()
	if f.open {
		body = f.modalView()
	}
	var help string
	if f.showHelp {
		help = renderHelpOverlay(f.keys)
	}
	toastView := f.toast.render(f.cfg.Now())

	// Without a terminal size there is nothing to overlay onto.
	if f.termWidth <= 0 || f.termHeight <= 0 {
		if help != "" {
			body = help
		}
		if toastView != "" {
			body = lipgloss.JoinVertical(lipgloss.Left, body, toastView)
		}
		return body
	}

	canvas := newCanvas(f.termWidth, f.termHeight)
	canvas.fill()
	canvas.drawStringAt(0, 0, body)
	if help != "" {
		canvas.centerOverlay(help)
	}
	if toastView != "" {
		canvas.bottomRightOverlay(toastView, 1)
	}
	return canvas.render()
}

func (f *Form) closedView() string {
	parts := []string{styleModalTitle().Render("Team Members")}
	if f.summary != "" {
		parts = append(parts, "", f.summary)
	}
	hint := f.keys.Open.Help().Key + " " + f.keys.Open.Help().Desc +
		" • " + f.keys.Exit.Help().Key + " quit"
	parts = append(parts, "", styleMuted().Render(hint))
	return strings.Join(parts, "\n")
}

func (f *Form) modalView() string {
	inner := f.cfg.Width - 6
	divider := styleDivider().Render(strings.Repeat("─", inner))

	parts := []string{
		styleModalTitle().Render("Add Team Members"),
		divider,
		f.team.View(),
		"",
		f.contacts.View(),
	}
	if f.members.active() {
		parts = append(parts, "", f.members.View())
	}
	parts = append(parts, "", f.buttonsView(), divider, f.help.View(f.keys))

	return styleModal().Width(f.cfg.Width - 2).Render(strings.Join(parts, "\n"))
}

func (f *Form) buttonsView() string {
	cancel := styleButton()
	if f.focus == focusCancel {
		cancel = styleButtonFocused()
	}

	saveLabel := "Save"
	save := styleButtonDisabled()
	switch {
	case f.saving:
		saveLabel = f.spinner.View() + " Saving"
	case f.saveEnabled && f.focus == focusSave:
		save = styleButtonFocused()
	case f.saveEnabled:
		save = styleButton()
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		cancel.Render("Cancel"),
		"  ",
		save.Render(saveLabel),
	)
}
