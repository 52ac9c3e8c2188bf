package tui

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"
	darkmode "github.com/thiagokokada/dark-mode-go"
)

type ThemePreference int

const (
	ThemeAuto ThemePreference = iota
	ThemeLight
	ThemeDark
)

func (p ThemePreference) String() string {
	switch p {
	case ThemeLight:
		return "light"
	case ThemeDark:
		return "dark"
	default:
		return "auto"
	}
}

// ParseThemePreference accepts auto, light or dark in any case.
func ParseThemePreference(raw string) (ThemePreference, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", ThemeAuto.String():
		return ThemeAuto, nil
	case ThemeLight.String():
		return ThemeLight, nil
	case ThemeDark.String():
		return ThemeDark, nil
	default:
		return ThemeAuto, fmt.Errorf("invalid mode %q: want auto, light or dark", raw)
	}
}

type palette struct {
	name      string
	commit    lipgloss.Color
	lane      lipgloss.Color
	branching lipgloss.Color
	id        lipgloss.Color
	refs      lipgloss.Color
	author    lipgloss.Color
	muted     lipgloss.Color
	selection lipgloss.Color
	added     lipgloss.Color
	removed   lipgloss.Color
	accent    lipgloss.Color
}

var (
	lightPalette = palette{
		name:      "light",
		commit:    "#1a7f37",
		lane:      "#0969da",
		branching: "#8250df",
		id:        "#9a6700",
		refs:      "#1b7c83",
		author:    "#0550ae",
		muted:     "#6e7781",
		selection: "#d0d7de",
		added:     "#1a7f37",
		removed:   "#cf222e",
		accent:    "#bf8700",
	}
	darkPalette = palette{
		name:      "dark",
		commit:    "#3fb950",
		lane:      "#58a6ff",
		branching: "#d2a8ff",
		id:        "#e3b341",
		refs:      "#39c5cf",
		author:    "#79c0ff",
		muted:     "#8b949e",
		selection: "#30363d",
		added:     "#3fb950",
		removed:   "#f85149",
		accent:    "#f0883e",
	}
	detectDarkMode = darkmode.IsDarkMode
)

func paletteFor(pref ThemePreference) palette {
	switch pref {
	case ThemeDark:
		return darkPalette
	case ThemeLight:
		return lightPalette
	default:
		if detectDarkMode != nil {
			dark, err := detectDarkMode()
			if err != nil {
				slog.Debug("detect dark mode", slog.Any("error", err))
			} else if dark {
				return darkPalette
			}
		}
		return lightPalette
	}
}

// Styles holds the lipgloss styles of both screens.
type Styles struct {
	Name string

	GraphCommit  lipgloss.Style
	GraphLane    lipgloss.Style
	GraphBranch  lipgloss.Style
	ShortID      lipgloss.Style
	Merge        lipgloss.Style
	Refs         lipgloss.Style
	Author       lipgloss.Style
	Muted        lipgloss.Style
	Selected     lipgloss.Style
	SelectedText lipgloss.Style
	Match        lipgloss.Style
	Added        lipgloss.Style
	Removed      lipgloss.Style
	Bold         lipgloss.Style
	Pane         lipgloss.Style
	Title        lipgloss.Style
	Prompt       lipgloss.Style
	Notice       lipgloss.Style
}

func NewStyles(pref ThemePreference) Styles {
	p := paletteFor(pref)
	fg := func(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }
	return Styles{
		Name:         p.name,
		GraphCommit:  fg(p.commit),
		GraphLane:    fg(p.lane),
		GraphBranch:  fg(p.branching),
		ShortID:      fg(p.id),
		Merge:        fg(p.branching),
		Refs:         fg(p.refs).Bold(true),
		Author:       fg(p.author),
		Muted:        fg(p.muted),
		Selected:     lipgloss.NewStyle().Background(p.selection),
		SelectedText: lipgloss.NewStyle().Bold(true),
		Match:        fg(p.accent).Bold(true),
		Added:        fg(p.added),
		Removed:      fg(p.removed),
		Bold:         lipgloss.NewStyle().Bold(true),
		Pane: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.muted).
			Padding(0, 1),
		Title:  fg(p.accent).Bold(true),
		Prompt: fg(p.accent).Bold(true),
		Notice: fg(p.removed),
	}
}
