package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/irinazakhvatkina/RepuntoApp/pkg/toggle"
)

type palette struct {
	accent     lipgloss.Color
	background lipgloss.Color
	text       lipgloss.Color
	muted      lipgloss.Color
	selected   lipgloss.Color
	border     lipgloss.Color
	warn       lipgloss.Color
}

var (
	darkPalette = palette{
		accent:     lipgloss.Color("#50FA7B"),
		background: lipgloss.Color("#282A36"),
		text:       lipgloss.Color("#F8F8F2"),
		muted:      lipgloss.Color("#6272A4"),
		selected:   lipgloss.Color("#8BE9FD"),
		border:     lipgloss.Color("#BD93F9"),
		warn:       lipgloss.Color("#FFB86C"),
	}
	lightPalette = palette{
		accent:     lipgloss.Color("#1E7B34"),
		background: lipgloss.Color("#EEF6EE"),
		text:       lipgloss.Color("#1B1B1B"),
		muted:      lipgloss.Color("#7A7A7A"),
		selected:   lipgloss.Color("#0B5CAD"),
		border:     lipgloss.Color("#2E8B57"),
		warn:       lipgloss.Color("#B35C00"),
	}
)

type styles struct {
	title    lipgloss.Style
	subtitle lipgloss.Style
	text     lipgloss.Style
	dim      lipgloss.Style
	selected lipgloss.Style
	warn     lipgloss.Style
	box      lipgloss.Style
	tab      lipgloss.Style
	tabOn    lipgloss.Style
}

func newStyles(theme toggle.Theme) styles {
	p := lightPalette
	if theme == toggle.Dark {
		p = darkPalette
	}

	return styles{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.accent).
			Background(p.background).
			Padding(0, 1).
			MarginBottom(1),
		subtitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.selected),
		text: lipgloss.NewStyle().
			Foreground(p.text),
		dim: lipgloss.NewStyle().
			Foreground(p.muted),
		selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.selected),
		warn: lipgloss.NewStyle().
			Foreground(p.warn),
		box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.border).
			Padding(0, 2).
			MarginTop(1),
		tab: lipgloss.NewStyle().
			Foreground(p.muted).
			Padding(0, 1),
		tabOn: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.background).
			Background(p.accent).
			Padding(0, 1),
	}
}
