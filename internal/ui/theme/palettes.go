package theme

// DefaultName is the theme used when config names none or an unknown one.
const DefaultName = "tokyonight"

var palettes = map[string]Palette{
	"tokyonight": {
		PrimaryColor:             c("#82aaff", "#2e7de9"),
		SecondaryColor:           c("#c099ff", "#9854f1"),
		AccentColor:              c("#ff966c", "#b15c00"),
		ErrorColor:               c("#ff757f", "#f52a65"),
		WarningColor:             c("#ff966c", "#b15c00"),
		SuccessColor:             c("#c3e88d", "#587539"),
		InfoColor:                c("#7dcfff", "#0db9d7"),
		TextColor:                c("#c8d3f5", "#3760bf"),
		TextMutedColor:           c("#636da6", "#848cb5"),
		TextEmphasizedColor:      c("#ffc777", "#8c6c3e"),
		BackgroundColor:          c("#222436", "#e1e2e7"),
		BackgroundSecondaryColor: c("#2f334d", "#c8c9ce"),
		BackgroundDarkerColor:    c("#1e2030", "#d5d6db"),
		BorderNormalColor:        c("#3b4261", "#a8aecb"),
		BorderFocusedColor:       c("#82aaff", "#2e7de9"),
		BorderDimColor:           c("#292e42", "#c8c9ce"),
	},
	"gruvbox": {
		PrimaryColor:             c("#83a598", "#076678"),
		SecondaryColor:           c("#d3869b", "#8f3f71"),
		AccentColor:              c("#fabd2f", "#b57614"),
		ErrorColor:               c("#fb4934", "#9d0006"),
		WarningColor:             c("#fe8019", "#af3a03"),
		SuccessColor:             c("#b8bb26", "#79740e"),
		InfoColor:                c("#83a598", "#076678"),
		TextColor:                c("#ebdbb2", "#3c3836"),
		TextMutedColor:           c("#a89984", "#7c6f64"),
		TextEmphasizedColor:      c("#fabd2f", "#b57614"),
		BackgroundColor:          c("#282828", "#fbf1c7"),
		BackgroundSecondaryColor: c("#504945", "#ebdbb2"),
		BackgroundDarkerColor:    c("#1d2021", "#d5c4a1"),
		BorderNormalColor:        c("#504945", "#bdae93"),
		BorderFocusedColor:       c("#83a598", "#076678"),
		BorderDimColor:           c("#3c3836", "#d5c4a1"),
	},
	"catppuccin": {
		PrimaryColor:             c("#89b4fa", "#1e66f5"),
		SecondaryColor:           c("#cba6f7", "#8839ef"),
		AccentColor:              c("#fab387", "#fe640b"),
		ErrorColor:               c("#f38ba8", "#d20f39"),
		WarningColor:             c("#fab387", "#fe640b"),
		SuccessColor:             c("#a6e3a1", "#40a02b"),
		InfoColor:                c("#89b4fa", "#1e66f5"),
		TextColor:                c("#cdd6f4", "#4c4f69"),
		TextMutedColor:           c("#6c7086", "#9ca0b0"),
		TextEmphasizedColor:      c("#f5e0dc", "#dc8a78"),
		BackgroundColor:          c("#1e1e2e", "#eff1f5"),
		BackgroundSecondaryColor: c("#313244", "#e6e9ef"),
		BackgroundDarkerColor:    c("#181825", "#dce0e8"),
		BorderNormalColor:        c("#6c7086", "#9ca0b0"),
		BorderFocusedColor:       c("#89b4fa", "#1e66f5"),
		BorderDimColor:           c("#45475a", "#ccd0da"),
	},
	"onedark": {
		PrimaryColor:             c("#61afef", "#4078f2"),
		SecondaryColor:           c("#c678dd", "#a626a4"),
		AccentColor:              c("#e5c07b", "#c18401"),
		ErrorColor:               c("#e06c75", "#e45649"),
		WarningColor:             c("#d19a66", "#da8548"),
		SuccessColor:             c("#98c379", "#50a14f"),
		InfoColor:                c("#56b6c2", "#0184bc"),
		TextColor:                c("#abb2bf", "#383a42"),
		TextMutedColor:           c("#5c6370", "#a0a1a7"),
		TextEmphasizedColor:      c("#e5c07b", "#c18401"),
		BackgroundColor:          c("#282c34", "#fafafa"),
		BackgroundSecondaryColor: c("#3e4451", "#e5e5e6"),
		BackgroundDarkerColor:    c("#21252b", "#f0f0f0"),
		BorderNormalColor:        c("#3b4048", "#d3d3d3"),
		BorderFocusedColor:       c("#61afef", "#4078f2"),
		BorderDimColor:           c("#2c313c", "#e5e5e6"),
	},
}

func init() {
	RegisterTheme(DefaultName, palettes[DefaultName])
	for name, p := range palettes {
		if name != DefaultName {
			RegisterTheme(name, p)
		}
	}
}
