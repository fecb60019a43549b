package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

// OutputFormat represents different output formats
type OutputFormat string

const (
	FormatDefault OutputFormat = "default"
	FormatJSON    OutputFormat = "json"
	FormatCSV     OutputFormat = "csv"
	FormatCompact OutputFormat = "compact"
	FormatQuiet   OutputFormat = "quiet"
)

// ParseFormat maps a --format flag value, defaulting unknown names.
func ParseFormat(s string) OutputFormat {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatCSV, FormatCompact, FormatQuiet:
		return f
	default:
		return FormatDefault
	}
}

// RenderConfig contains configuration for output rendering
type RenderConfig struct {
	Format OutputFormat
	Width  int
	Color  bool
}

// DefaultRenderConfig returns a default render configuration
func DefaultRenderConfig() *RenderConfig {
	width := 100
	if colEnv := os.Getenv("COLUMNS"); colEnv != "" {
		if v, err := strconv.Atoi(colEnv); err == nil && v > 40 {
			width = v
		}
	}
	return &RenderConfig{
		Format: FormatDefault,
		Width:  width,
		Color:  true,
	}
}

// Place is one geocode answer.
type Place struct {
	Query   string  `json:"query"`
	Lng     float64 `json:"lng"`
	Lat     float64 `json:"lat"`
	Source  string  `json:"source"`
	Address string  `json:"address,omitempty"`
	Warning string  `json:"warning,omitempty"`
}

// Answer is one chat exchange.
type Answer struct {
	Location string `json:"location"`
	Question string `json:"question"`
	Reply    string `json:"reply"`
}

// Renderer handles output formatting
type Renderer struct {
	config *RenderConfig
	styles *Styles
}

// Styles contains lipgloss styles for different elements
type Styles struct {
	Title     lipgloss.Style
	Separator lipgloss.Style
	Meta      lipgloss.Style
	Coord     lipgloss.Style
	Source    lipgloss.Style
	Text      lipgloss.Style
	Warning   lipgloss.Style
}

// NewRenderer creates a new renderer with the given config
func NewRenderer(config *RenderConfig) *Renderer {
	if config == nil {
		config = DefaultRenderConfig()
	}
	return &Renderer{
		config: config,
		styles: initStyles(config.Color),
	}
}

func initStyles(color bool) *Styles {
	if !color {
		plain := lipgloss.NewStyle()
		return &Styles{
			Title:     plain.Bold(true),
			Separator: plain,
			Meta:      plain,
			Coord:     plain,
			Source:    plain,
			Text:      plain,
			Warning:   plain,
		}
	}
	return &Styles{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A6E3A1")),
		Separator: lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086")),
		Meta:      lipgloss.NewStyle().Faint(true),
		Coord:     lipgloss.NewStyle().Foreground(lipgloss.Color("#89B4FA")),
		Source:    lipgloss.NewStyle().Faint(true).Foreground(lipgloss.Color("#CBA6F7")),
		Text:      lipgloss.NewStyle(),
		Warning:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FAB387")),
	}
}

func (r *Renderer) rule() string {
	return r.styles.Separator.Render(strings.Repeat("─", min(r.config.Width, 120)))
}

// RenderPlaces renders geocode results according to the configured format
func (r *Renderer) RenderPlaces(places []Place) (string, error) {
	switch r.config.Format {
	case FormatJSON:
		return marshal(places)
	case FormatCSV:
		var b strings.Builder
		b.WriteString("query,lng,lat,source,address\n")
		for _, p := range places {
			fmt.Fprintf(&b, "%s,%.6f,%.6f,%s,%s\n", escapeCSV(p.Query), p.Lng, p.Lat, p.Source, escapeCSV(p.Address))
		}
		return b.String(), nil
	case FormatCompact:
		var b strings.Builder
		for _, p := range places {
			fmt.Fprintf(&b, "%s %s %s\n",
				r.styles.Coord.Render(fmt.Sprintf("%.6f,%.6f", p.Lng, p.Lat)),
				p.Query,
				r.styles.Source.Render("("+p.Source+")"))
		}
		return b.String(), nil
	case FormatQuiet:
		var b strings.Builder
		for _, p := range places {
			fmt.Fprintf(&b, "%.6f,%.6f\n", p.Lng, p.Lat)
		}
		return b.String(), nil
	}

	var b strings.Builder
	b.WriteString(r.styles.Title.Render("Places"))
	b.WriteString("\n")
	b.WriteString(r.rule())
	b.WriteString("\n")
	for _, p := range places {
		b.WriteString(r.styles.Text.Render(p.Query))
		b.WriteString("  ")
		b.WriteString(r.styles.Coord.Render(fmt.Sprintf("%.6f, %.6f", p.Lng, p.Lat)))
		b.WriteString("  ")
		b.WriteString(r.styles.Source.Render(p.Source))
		b.WriteString("\n")
		if p.Address != "" {
			b.WriteString(r.styles.Meta.Render("  " + p.Address))
			b.WriteString("\n")
		}
		if p.Warning != "" {
			b.WriteString(r.styles.Warning.Render("  ! " + p.Warning))
			b.WriteString("\n")
		}
		b.WriteString(r.rule())
		b.WriteString("\n")
	}
	return b.String(), nil
}

// RenderAnswer renders one assistant reply.
func (r *Renderer) RenderAnswer(a Answer) (string, error) {
	switch r.config.Format {
	case FormatJSON:
		return marshal(a)
	case FormatCSV:
		return "location,question,reply\n" +
			escapeCSV(a.Location) + "," + escapeCSV(a.Question) + "," + escapeCSV(a.Reply) + "\n", nil
	case FormatCompact, FormatQuiet:
		return a.Reply + "\n", nil
	}

	var b strings.Builder
	b.WriteString(r.styles.Title.Render("Trip assistant"))
	b.WriteString("  ")
	b.WriteString(r.styles.Meta.Render(a.Location))
	b.WriteString("\n")
	b.WriteString(r.rule())
	b.WriteString("\n")
	b.WriteString(r.styles.Meta.Render("> " + a.Question))
	b.WriteString("\n\n")
	b.WriteString(r.styles.Text.Render(wordwrap.String(a.Reply, min(r.config.Width, 100))))
	b.WriteString("\n")
	return b.String(), nil
}

func marshal(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data) + "\n", nil
}

func escapeCSV(s string) string {
	if strings.ContainsAny(s, ",\"\n") {
		s = strings.ReplaceAll(s, "\"", "\"\"")
		return "\"" + s + "\""
	}
	return s
}
