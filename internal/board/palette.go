package board

import (
	"fmt"
	"image/color"
	"math/rand/v2"
	"strconv"
	"strings"
)

// NoteColors is the sticky paper palette. Paper stays light in night mode.
var NoteColors = []string{
	"#fef3c7", // amber
	"#d1fae5", // emerald
	"#cffafe", // cyan
	"#fce7f3", // pink
	"#e0e7ff", // indigo
}

// HighlighterColors are the translucent marker tints behind the location.
var HighlighterColors = []string{
	"rgba(250, 255, 0, 0.4)",
	"rgba(0, 255, 128, 0.4)",
	"rgba(255, 0, 200, 0.3)",
	"rgba(0, 200, 255, 0.4)",
}

// Swatch is a named board background.
type Swatch struct {
	Name  string
	Value string
}

var LightBoards = []Swatch{
	{Name: "Clean White", Value: "#ffffff"},
	{Name: "Soft Gray", Value: "#f8fafc"},
	{Name: "Warm Paper", Value: "#fffbeb"},
	{Name: "Mint Fresh", Value: "#f0fdf4"},
	{Name: "Lavender Mist", Value: "#f5f3ff"},
	{Name: "Rose Petal", Value: "#fff1f2"},
	{Name: "Sky Breeze", Value: "#f0f9ff"},
	{Name: "Sunset Orange", Value: "#fff7ed"},
}

var DarkBoards = []Swatch{
	{Name: "Midnight Blue", Value: "#1e293b"},
	{Name: "Deep Space", Value: "#0f172a"},
	{Name: "Forest Dark", Value: "#064e3b"},
	{Name: "Charcoal", Value: "#18181b"},
	{Name: "Dark Purple", Value: "#2e1065"},
}

// Default backgrounds per mode.
var (
	DefaultDayBackground   = LightBoards[2].Value
	DefaultNightBackground = DarkBoards[0].Value
)

// ArmedColor tints a note hovering over the trash.
const ArmedColor = "#fee2e2"

// Boards returns the palette for the given mode.
func Boards(night bool) []Swatch {
	if night {
		return DarkBoards
	}
	return LightBoards
}

// SwatchByName finds a background by its display name, case-insensitively.
func SwatchByName(name string) (Swatch, bool) {
	for _, s := range append(append([]Swatch{}, LightBoards...), DarkBoards...) {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return Swatch{}, false
}

func randomNoteColor(r *rand.Rand) string { return NoteColors[r.IntN(len(NoteColors))] }

func randomHighlighter(r *rand.Rand) string {
	return HighlighterColors[r.IntN(len(HighlighterColors))]
}

// randomRotation is uniform in [-3, 3) degrees.
func randomRotation(r *rand.Rand) float64 { return r.Float64()*6 - 3 }

// GridDotColor picks the dot grid ink for a background: dark dots on bright
// boards, faint white dots on dark ones.
func GridDotColor(bg string) string {
	c, err := ParseColor(bg)
	if err != nil || !strings.HasPrefix(bg, "#") {
		return "#334155"
	}
	brightness := (float64(c.R)*299 + float64(c.G)*587 + float64(c.B)*114) / 1000
	if brightness > 128 {
		return "#334155"
	}
	return "rgba(255, 255, 255, 0.5)"
}

// ParseColor understands "#rrggbb" and "rgba(r, g, b, a)".
func ParseColor(s string) (color.RGBA, error) {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "#") && len(s) == 7:
		v, err := strconv.ParseUint(s[1:], 16, 32)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("parse color %q: %w", s, err)
		}
		return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
	case strings.HasPrefix(s, "rgba(") && strings.HasSuffix(s, ")"):
		parts := strings.Split(strings.TrimSuffix(strings.TrimPrefix(s, "rgba("), ")"), ",")
		if len(parts) != 4 {
			return color.RGBA{}, fmt.Errorf("parse color %q: want 4 components", s)
		}
		var ch [3]uint8
		for i := 0; i < 3; i++ {
			v, err := strconv.Atoi(strings.TrimSpace(parts[i]))
			if err != nil {
				return color.RGBA{}, fmt.Errorf("parse color %q: %w", s, err)
			}
			ch[i] = uint8(v)
		}
		a, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("parse color %q: %w", s, err)
		}
		return color.RGBA{R: ch[0], G: ch[1], B: ch[2], A: uint8(a*255 + 0.5)}, nil
	}
	return color.RGBA{}, fmt.Errorf("parse color %q: unsupported format", s)
}

// Blend composites a translucent color over an opaque base and returns the
// result as "#rrggbb". Unparseable input returns base unchanged.
func Blend(base, over string) string {
	b, err := ParseColor(base)
	if err != nil {
		return base
	}
	o, err := ParseColor(over)
	if err != nil {
		return base
	}
	a := float64(o.A) / 255
	mix := func(bc, oc uint8) uint8 { return uint8(float64(oc)*a + float64(bc)*(1-a) + 0.5) }
	return Hex(color.RGBA{R: mix(b.R, o.R), G: mix(b.G, o.G), B: mix(b.B, o.B), A: 0xff})
}

// Hex formats c as "#rrggbb".
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
