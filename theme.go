package main

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/viper"

	"github.com/rshep3087/steamspend/report"
)

// Colors holds the configurable colors of styled output, read from the
// [colors] table of the config file.
type Colors struct {
	Primary string
	Accent  string
	Text    string
	Muted   string
	Border  string
}

func colorsFromViper() Colors {
	return Colors{
		Primary: viper.GetString("colors.primary"),
		Accent:  viper.GetString("colors.accent"),
		Text:    viper.GetString("colors.text"),
		Muted:   viper.GetString("colors.muted"),
		Border:  viper.GetString("colors.border"),
	}
}

// Theme contains the colors used by tree and table output.
type Theme struct {
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Border  lipgloss.Color
}

// newTheme creates a Theme from Colors.
func newTheme(colors Colors) Theme {
	return Theme{
		Primary: parseColor(colors.Primary, "#ffd644"),
		Accent:  parseColor(colors.Accent, "#7D56F4"),
		Text:    parseColor(colors.Text, "#FAFAFA"),
		Muted:   parseColor(colors.Muted, "#7f7d78"),
		Border:  parseColor(colors.Border, "#7D56F4"),
	}
}

// parseColor returns colorStr as a lipgloss.Color, or defaultColor when it
// is empty. Both hex ("#ff0000") and ANSI ("21") values are accepted.
func parseColor(colorStr, defaultColor string) lipgloss.Color {
	if colorStr == "" {
		return lipgloss.Color(defaultColor)
	}
	return lipgloss.Color(colorStr)
}

// treeStyles styles a report tree with the theme.
func (t Theme) treeStyles() report.TreeStyles {
	return report.TreeStyles{
		Root:       lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Group:      lipgloss.NewStyle().Bold(true).Foreground(t.Accent),
		Line:       lipgloss.NewStyle().Foreground(t.Text),
		Nested:     lipgloss.NewStyle().Foreground(t.Muted),
		Enumerator: lipgloss.NewStyle().Foreground(t.Border).MarginRight(1),
	}
}
