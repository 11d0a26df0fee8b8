package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"teamlookup/internal/ui/theme"
)

func styleFieldLabel() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(theme.Current().Secondary()).
		Bold(true)
}

func styleFieldLabelDisabled() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(theme.Current().TextMuted())
}

func styleLookupInput() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Current().BorderDim()).
		Padding(0, 1)
}

func styleLookupInputFocused() lipgloss.Style {
	return styleLookupInput().BorderForeground(theme.Current().BorderFocused())
}

func styleLookupInputError() lipgloss.Style {
	return styleLookupInput().BorderForeground(theme.Current().Error())
}

func styleLookupInputDisabled() lipgloss.Style {
	return styleLookupInput().
		BorderForeground(theme.Current().BorderDim()).
		Foreground(theme.Current().TextMuted())
}

func styleLookupOption() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(theme.Current().Text()).
		PaddingLeft(2)
}

func styleLookupHighlight() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(theme.Current().Secondary()).
		Bold(true).
		PaddingLeft(2)
}

func styleLookupSubtitle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(theme.Current().TextMuted())
}

func styleLookupHint() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(theme.Current().TextMuted()).
		Italic(true)
}

func styleSelectedPill() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(theme.Current().Accent()).
		Bold(true)
}

func styleErrorText() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(theme.Current().Error())
}

func styleModal() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Current().Primary()).
		Padding(1, 2)
}

func styleModalTitle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(theme.Current().TextEmphasized()).
		Bold(true)
}

func styleDivider() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(theme.Current().Primary())
}

func styleButton() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(theme.Current().Text()).
		Background(theme.Current().BackgroundSecondary()).
		Padding(0, 2)
}

func styleButtonFocused() lipgloss.Style {
	return styleButton().
		Foreground(theme.Current().Background()).
		Background(theme.Current().Primary()).
		Bold(true)
}

func styleButtonDisabled() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(theme.Current().TextMuted()).
		Background(theme.Current().BackgroundDarker()).
		Padding(0, 2)
}

func styleErrorToast() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Current().Error()).
		Foreground(theme.Current().Text()).
		Padding(0, 1)
}

func styleSuccessToast() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Current().Success()).
		Foreground(theme.Current().Text()).
		Padding(0, 1)
}

func styleToastTitle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true)
}

func styleMuted() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(theme.Current().TextMuted())
}

// buildMarkdownRenderer returns a glamour renderer for the given style,
// falling back to plain word wrapping when glamour is unavailable or the
// style is "plain".
func buildMarkdownRenderer(format string, width int) func(string) string {
	fallback := func(input string) string {
		return wordwrap.String(input, width)
	}

	style := strings.ToLower(strings.TrimSpace(format))
	if style == "" || style == "rich" {
		style = "dark"
	}
	if style == "plain" {
		return fallback
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return fallback
	}
	return func(input string) string {
		out, err := renderer.Render(input)
		if err != nil {
			return fallback(input)
		}
		return strings.TrimSpace(out)
	}
}

func styleHelpOverlay() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Current().Primary()).
		Padding(1, 3)
}

func styleHelpTitle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(theme.Current().Accent()).
		Bold(true)
}

func styleHelpSectionHeader() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(theme.Current().Secondary()).
		Bold(true)
}

func styleHelpKey() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(theme.Current().Primary()).
		Bold(true)
}

func styleHelpDesc() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(theme.Current().Text())
}
