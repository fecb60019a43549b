package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/ramanasai/tripboard/internal/board"
)

// Theme is derived from the board background every frame, so day/night and
// background changes restyle everything at once.
type Theme struct {
	Night      bool
	Background string
	Dot        string
	Ink        string
	Muted      string
	Accent     string
	Danger     string
	Panel      string
	PanelInk   string

	Title   lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Border  lipgloss.Style
	Hint    lipgloss.Style
	Error   lipgloss.Style
	Success lipgloss.Style
}

// Fixed note inks; paper stays light in both modes.
const (
	noteInk      = "#1e3a8a"
	noteText     = "#374151"
	noteMuted    = "#6b7280"
	pinColor     = "#dc2626"
	shadowTint   = "rgba(0, 0, 0, 0.2)"
	trashArmedBg = "#fecaca"
)

func NewTheme(background string, night bool) Theme {
	t := Theme{
		Night:      night,
		Background: background,
	}
	t.Dot = fade(background, board.Blend(background, board.GridDotColor(background)), 0.35)
	if night {
		t.Ink, t.Muted, t.Accent, t.Danger = "#e2e8f0", "#94a3b8", "#89B4FA", "#F38BA8"
		t.Panel, t.PanelInk = "#0f172a", "#e2e8f0"
	} else {
		t.Ink, t.Muted, t.Accent, t.Danger = "#1f2937", "#6b7280", "#2563eb", "#dc2626"
		t.Panel, t.PanelInk = "#ffffff", "#1f2937"
	}

	base := lipgloss.NewStyle().Background(lipgloss.Color(t.Panel))
	t.Title = base.Bold(true).Foreground(lipgloss.Color(t.Accent))
	t.Label = base.Faint(true).Foreground(lipgloss.Color(t.Muted))
	t.Value = base.Foreground(lipgloss.Color(t.PanelInk))
	t.Border = base.Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(t.Muted)).
		BorderBackground(lipgloss.Color(t.Panel)).
		Padding(0, 1)
	t.Hint = base.Faint(true).Foreground(lipgloss.Color("#CBA6F7"))
	t.Error = base.Bold(true).Foreground(lipgloss.Color(t.Danger))
	t.Success = base.Bold(true).Foreground(lipgloss.Color("#16a34a"))
	return t
}

func (t Theme) ink() ink        { return ink{fg: t.Ink, bg: t.Background} }
func (t Theme) muted() ink      { return ink{fg: t.Muted, bg: t.Background, faint: true} }
func (t Theme) panel() ink      { return ink{fg: t.PanelInk, bg: t.Panel} }
func (t Theme) panelMuted() ink { return ink{fg: t.Muted, bg: t.Panel} }

// fade mixes fg into the background at the given opacity.
func fade(bg, fg string, opacity float64) string {
	c, err := board.ParseColor(fg)
	if err != nil || opacity >= 1 {
		return fg
	}
	return board.Blend(bg, fmt.Sprintf("rgba(%d, %d, %d, %.2f)", c.R, c.G, c.B, max(opacity, 0)))
}
