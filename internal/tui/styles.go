package tui

import (
	"strings"

	catppuccin "github.com/catppuccin/go"
	"github.com/charmbracelet/lipgloss"
)

// flavorFor maps a config theme name to a catppuccin flavor
func flavorFor(theme string) catppuccin.Flavor {
	switch strings.ToLower(theme) {
	case "latte":
		return catppuccin.Latte
	case "frappe":
		return catppuccin.Frappe
	case "macchiato":
		return catppuccin.Macchiato
	default:
		return catppuccin.Mocha
	}
}

// styles holds every lipgloss style the picker renders with
type styles struct {
	title     lipgloss.Style
	status    lipgloss.Style
	current   lipgloss.Style
	prompt    lipgloss.Style
	term      lipgloss.Style
	cursor    lipgloss.Style
	empty     lipgloss.Style
	errorLine lipgloss.Style
	info      lipgloss.Style
	help      lipgloss.Style

	// List items
	selected  lipgloss.Style
	normal    lipgloss.Style
	match     lipgloss.Style
	path      lipgloss.Style
	indicator lipgloss.Style
}

func newStyles(theme string) styles {
	f := flavorFor(theme)
	var (
		primary   = lipgloss.Color(f.Mauve().Hex)
		secondary = lipgloss.Color(f.Green().Hex)
		accent    = lipgloss.Color(f.Peach().Hex)
		danger    = lipgloss.Color(f.Red().Hex)
		muted     = lipgloss.Color(f.Overlay0().Hex)
		fg        = lipgloss.Color(f.Text().Hex)
		surface   = lipgloss.Color(f.Surface0().Hex)
	)

	return styles{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(primary),
		status: lipgloss.NewStyle().
			Foreground(muted),
		current: lipgloss.NewStyle().
			Foreground(secondary).
			Bold(true),
		prompt: lipgloss.NewStyle().
			Foreground(primary).
			Bold(true),
		term: lipgloss.NewStyle().
			Foreground(fg),
		cursor: lipgloss.NewStyle().
			Foreground(primary),
		empty: lipgloss.NewStyle().
			Foreground(muted).
			Italic(true).
			PaddingLeft(2),
		errorLine: lipgloss.NewStyle().
			Foreground(danger).
			Bold(true),
		info: lipgloss.NewStyle().
			Foreground(accent),
		help: lipgloss.NewStyle().
			Foreground(muted),

		selected: lipgloss.NewStyle().
			Background(surface).
			Foreground(fg).
			Bold(true),
		normal: lipgloss.NewStyle().
			Foreground(fg),
		match: lipgloss.NewStyle().
			Foreground(accent).
			Bold(true),
		path: lipgloss.NewStyle().
			Foreground(muted),
		indicator: lipgloss.NewStyle().
			Foreground(primary).
			Bold(true),
	}
}
