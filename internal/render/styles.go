package render

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title     lipgloss.Style
	label     lipgloss.Style
	value     lipgloss.Style
	header    lipgloss.Style
	cell      lipgloss.Style
	border    lipgloss.Style
	panel     lipgloss.Style
	publisher lipgloss.Style
	headline  lipgloss.Style
	muted     lipgloss.Style
	link      lipgloss.Style
	date      lipgloss.Style
	up        lipgloss.Style
	down      lipgloss.Style
	axis      lipgloss.Style
	volume    lipgloss.Style
}

func newStyles(lg *lipgloss.Renderer) styles {
	return styles{
		title:     lg.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		label:     lg.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		value:     lg.NewStyle().Foreground(lipgloss.Color("11")),
		header:    lg.NewStyle().Bold(true).Foreground(lipgloss.Color("14")).Padding(0, 1),
		cell:      lg.NewStyle().Padding(0, 1),
		border:    lg.NewStyle().Foreground(lipgloss.Color("6")),
		panel:     lg.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("6")).Padding(0, 1).MarginRight(1),
		publisher: lg.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		headline:  lg.NewStyle().Bold(true).Foreground(lipgloss.Color("159")),
		muted:     lg.NewStyle().Foreground(lipgloss.Color("159")),
		link:      lg.NewStyle().Italic(true).Foreground(lipgloss.Color("12")),
		date:      lg.NewStyle().Bold(true),
		up:        lg.NewStyle().Foreground(lipgloss.Color("10")),
		down:      lg.NewStyle().Foreground(lipgloss.Color("9")),
		axis:      lg.NewStyle().Foreground(lipgloss.Color("245")),
		volume:    lg.NewStyle().Foreground(lipgloss.Color("245")),
	}
}
