package mapview

import (
	"fmt"
	"image"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/image/draw"

	"github.com/ramanasai/tripboard/internal/board"
)

// PixelSize is the image size that fills a panel of cols x rows cells with
// half blocks.
func PixelSize(cols, rows int) (int, int) {
	return cols, rows * 2
}

// Render draws img into cols x rows cells. Every cell shows two pixels, the
// top one as foreground of "▀" and the bottom one as background.
func Render(img image.Image, cols, rows int) string {
	if img == nil || cols <= 0 || rows <= 0 {
		return ""
	}
	w, h := PixelSize(cols, rows)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)

	var b strings.Builder
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			top := board.Hex(dst.RGBAAt(x, 2*y))
			bottom := board.Hex(dst.RGBAAt(x, 2*y+1))
			b.WriteString(lipgloss.NewStyle().
				Foreground(lipgloss.Color(top)).
				Background(lipgloss.Color(bottom)).
				Render("▀"))
		}
		if y < rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Offline draws a hatched placeholder with the destination marked in the
// middle, for when no live map is available.
func Offline(center board.GeoLocation, label, warning string, cols, rows int) string {
	if cols <= 0 || rows <= 0 {
		return ""
	}
	grid := make([][]rune, rows)
	for y := range grid {
		grid[y] = make([]rune, cols)
		for x := range grid[y] {
			switch {
			case (x+y)%6 == 0:
				grid[y][x] = '╱'
			default:
				grid[y][x] = ' '
			}
		}
	}
	put := func(x, y int, s string) {
		if y < 0 || y >= rows {
			return
		}
		for i, r := range []rune(s) {
			if xx := x + i; xx >= 0 && xx < cols {
				grid[y][xx] = r
			}
		}
	}

	cx, cy := cols/2, rows/2
	put(cols-4, 1, "(N)")
	put(cx, cy, "◉")
	caption := label
	if caption == "" {
		caption = "Select a location"
	}
	caption = "Map View: " + caption
	put(cx-len([]rune(caption))/2, cy+2, caption)
	put(cx-len([]rune(center.String()))/2, cy+3, center.String())
	if warning != "" {
		put(1, rows-2, "! "+warning)
	}
	put(cols-4, rows-3, "[+]")
	put(cols-4, rows-2, "[-]")

	lines := make([]string, rows)
	for y := range grid {
		lines[y] = string(grid[y])
	}
	return strings.Join(lines, "\n")
}

// Caption is the one-line status under the map.
func Caption(label string, center board.GeoLocation, origin fmt.Stringer) string {
	if label == "" {
		label = "Unknown Place"
	}
	return fmt.Sprintf("%s · %s (%s)", label, center.String(), origin)
}
