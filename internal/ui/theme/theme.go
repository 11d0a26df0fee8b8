// Package theme provides the semantic color system used by the lookup UI.
package theme

import "github.com/charmbracelet/lipgloss"

// Theme exposes the semantic colors the UI renders with. Every method
// returns an AdaptiveColor so light and dark terminals both work.
type Theme interface {
	Primary() lipgloss.AdaptiveColor   // Focused borders, headers
	Secondary() lipgloss.AdaptiveColor // Highlighted results, field labels
	Accent() lipgloss.AdaptiveColor    // Selected record titles

	Error() lipgloss.AdaptiveColor
	Warning() lipgloss.AdaptiveColor
	Success() lipgloss.AdaptiveColor
	Info() lipgloss.AdaptiveColor // Chips

	Text() lipgloss.AdaptiveColor
	TextMuted() lipgloss.AdaptiveColor
	TextEmphasized() lipgloss.AdaptiveColor

	Background() lipgloss.AdaptiveColor
	BackgroundSecondary() lipgloss.AdaptiveColor // Highlighted chip
	BackgroundDarker() lipgloss.AdaptiveColor

	BorderNormal() lipgloss.AdaptiveColor
	BorderFocused() lipgloss.AdaptiveColor
	BorderDim() lipgloss.AdaptiveColor
}

// Palette is a Theme defined by plain color values.
type Palette struct {
	PrimaryColor             lipgloss.AdaptiveColor
	SecondaryColor           lipgloss.AdaptiveColor
	AccentColor              lipgloss.AdaptiveColor
	ErrorColor               lipgloss.AdaptiveColor
	WarningColor             lipgloss.AdaptiveColor
	SuccessColor             lipgloss.AdaptiveColor
	InfoColor                lipgloss.AdaptiveColor
	TextColor                lipgloss.AdaptiveColor
	TextMutedColor           lipgloss.AdaptiveColor
	TextEmphasizedColor      lipgloss.AdaptiveColor
	BackgroundColor          lipgloss.AdaptiveColor
	BackgroundSecondaryColor lipgloss.AdaptiveColor
	BackgroundDarkerColor    lipgloss.AdaptiveColor
	BorderNormalColor        lipgloss.AdaptiveColor
	BorderFocusedColor       lipgloss.AdaptiveColor
	BorderDimColor           lipgloss.AdaptiveColor
}

func (p Palette) Primary() lipgloss.AdaptiveColor             { return p.PrimaryColor }
func (p Palette) Secondary() lipgloss.AdaptiveColor           { return p.SecondaryColor }
func (p Palette) Accent() lipgloss.AdaptiveColor              { return p.AccentColor }
func (p Palette) Error() lipgloss.AdaptiveColor               { return p.ErrorColor }
func (p Palette) Warning() lipgloss.AdaptiveColor             { return p.WarningColor }
func (p Palette) Success() lipgloss.AdaptiveColor             { return p.SuccessColor }
func (p Palette) Info() lipgloss.AdaptiveColor                { return p.InfoColor }
func (p Palette) Text() lipgloss.AdaptiveColor                { return p.TextColor }
func (p Palette) TextMuted() lipgloss.AdaptiveColor           { return p.TextMutedColor }
func (p Palette) TextEmphasized() lipgloss.AdaptiveColor      { return p.TextEmphasizedColor }
func (p Palette) Background() lipgloss.AdaptiveColor          { return p.BackgroundColor }
func (p Palette) BackgroundSecondary() lipgloss.AdaptiveColor { return p.BackgroundSecondaryColor }
func (p Palette) BackgroundDarker() lipgloss.AdaptiveColor    { return p.BackgroundDarkerColor }
func (p Palette) BorderNormal() lipgloss.AdaptiveColor        { return p.BorderNormalColor }
func (p Palette) BorderFocused() lipgloss.AdaptiveColor       { return p.BorderFocusedColor }
func (p Palette) BorderDim() lipgloss.AdaptiveColor           { return p.BorderDimColor }

func c(dark, light string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Dark: dark, Light: light}
}
