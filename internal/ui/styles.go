package ui

import "github.com/charmbracelet/lipgloss"

// Theme names accepted by the client config.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Theme is the palette used for every rendered block.
type Theme struct {
	Name      string
	Primary   lipgloss.Color // workout accents
	Secondary lipgloss.Color // diet accents
	Accent    lipgloss.Color // tips and quotes
	Text      lipgloss.Color
	Subtle    lipgloss.Color
	Success   lipgloss.Color
	Error     lipgloss.Color
}

var (
	darkTheme = Theme{
		Name:      ThemeDark,
		Primary:   lipgloss.Color("205"), // Pink
		Secondary: lipgloss.Color("87"),  // Cyan
		Accent:    lipgloss.Color("214"), // Orange
		Text:      lipgloss.Color("252"),
		Subtle:    lipgloss.Color("241"),
		Success:   lipgloss.Color("42"),
		Error:     lipgloss.Color("160"),
	}

	lightTheme = Theme{
		Name:      ThemeLight,
		Primary:   lipgloss.Color("162"),
		Secondary: lipgloss.Color("31"),
		Accent:    lipgloss.Color("166"),
		Text:      lipgloss.Color("235"),
		Subtle:    lipgloss.Color("245"),
		Success:   lipgloss.Color("28"),
		Error:     lipgloss.Color("124"),
	}
)

// ThemeFor returns the named palette. Unknown names get the dark theme.
func ThemeFor(name string) Theme {
	if name == ThemeLight {
		return lightTheme
	}
	return darkTheme
}

func (t Theme) card(border lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1)
}

func (t Theme) badge(bg lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("0")).
		Background(bg).
		Padding(0, 1)
}

func (t Theme) heading() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(t.Text)
}

func (t Theme) subtle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Subtle)
}

func (t Theme) text() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Text)
}
