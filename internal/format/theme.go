package format

import (
	"github.com/charmbracelet/lipgloss"

	"pkt.systems/matrixterm/schema"
)

// Theme is the palette of a terminal theme.
type Theme struct {
	Name      schema.ThemeName
	Text      lipgloss.Color
	Header    lipgloss.Color
	Command   lipgloss.Color
	Success   lipgloss.Color
	Error     lipgloss.Color
	EasterEgg lipgloss.Color
	Dim       lipgloss.Color
	Prompt    lipgloss.Color
	Border    lipgloss.Color
}

var themes = map[schema.ThemeName]Theme{
	"matrix": {
		Name:      "matrix",
		Text:      lipgloss.Color("#33ff66"),
		Header:    lipgloss.Color("#7dff9b"),
		Command:   lipgloss.Color("#00e64d"),
		Success:   lipgloss.Color("#4ade80"),
		Error:     lipgloss.Color("#f87171"),
		EasterEgg: lipgloss.Color("#facc15"),
		Dim:       lipgloss.Color("#1f8f3f"),
		Prompt:    lipgloss.Color("#86efac"),
		Border:    lipgloss.Color("#14532d"),
	},
	"amber": {
		Name:      "amber",
		Text:      lipgloss.Color("#ffb000"),
		Header:    lipgloss.Color("#ffcc4d"),
		Command:   lipgloss.Color("#ffa31a"),
		Success:   lipgloss.Color("#ffd27f"),
		Error:     lipgloss.Color("#ff5f56"),
		EasterEgg: lipgloss.Color("#fff176"),
		Dim:       lipgloss.Color("#996a00"),
		Prompt:    lipgloss.Color("#ffe0a3"),
		Border:    lipgloss.Color("#663f00"),
	},
}

// ThemeFor returns the named theme, falling back to the default.
func ThemeFor(name schema.ThemeName) Theme {
	if normalized, ok := schema.NormalizeThemeName(string(name)); ok {
		name = normalized
	}
	if theme, ok := themes[name]; ok {
		return theme
	}
	return themes[schema.DefaultTheme]
}
