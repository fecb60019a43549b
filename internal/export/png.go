// Package export renders the board to a PNG image.
package export

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"slices"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/ramanasai/tripboard/internal/board"
)

var ErrEmpty = errors.New("export: nothing to export")

// Options control the rendered image.
type Options struct {
	Background string
	CellWidth  float64 // pixels per board column
	CellHeight float64 // pixels per board row
	Padding    float64 // board units around the notes
}

func (o *Options) defaults() {
	if o.Background == "" {
		o.Background = board.DefaultDayBackground
	}
	if o.CellWidth <= 0 {
		o.CellWidth = 10
	}
	if o.CellHeight <= 0 {
		o.CellHeight = 20
	}
	if o.Padding <= 0 {
		o.Padding = 4
	}
}

// WritePNG draws notes, bottom of the stack first, and encodes the image to w.
func WritePNG(w io.Writer, notes []board.Note, opts Options) error {
	dc, err := Draw(notes, opts)
	if err != nil {
		return err
	}
	return dc.EncodePNG(w)
}

// SavePNG is WritePNG to a file.
func SavePNG(path string, notes []board.Note, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := WritePNG(f, notes, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Draw renders into a fresh gg context sized to fit every note.
func Draw(notes []board.Note, opts Options) (*gg.Context, error) {
	if len(notes) == 0 {
		return nil, ErrEmpty
	}
	opts.defaults()

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, n := range notes {
		minX = math.Min(minX, n.Position.X)
		minY = math.Min(minY, n.Position.Y)
		maxX = math.Max(maxX, n.Position.X+n.Width)
		maxY = math.Max(maxY, n.Position.Y+n.Height)
	}
	minX -= opts.Padding
	minY -= opts.Padding
	maxX += opts.Padding
	maxY += opts.Padding

	width := int((maxX - minX) * opts.CellWidth)
	height := int((maxY - minY) * opts.CellHeight)
	dc := gg.NewContext(width, height)

	dc.SetColor(mustColor(opts.Background))
	dc.Clear()
	drawGrid(dc, opts.Background, width, height)

	mono, err := face(gomono.TTF, opts.CellHeight*0.6)
	if err != nil {
		return nil, err
	}
	bold, err := face(gobold.TTF, opts.CellHeight*0.8)
	if err != nil {
		return nil, err
	}

	stack := slices.Clone(notes)
	slices.SortStableFunc(stack, func(a, b board.Note) int { return a.ZIndex - b.ZIndex })
	for _, n := range stack {
		x := (n.Position.X - minX) * opts.CellWidth
		y := (n.Position.Y - minY) * opts.CellHeight
		drawNote(dc, n, x, y, n.Width*opts.CellWidth, n.Height*opts.CellHeight, bold, mono)
	}
	return dc, nil
}

func face(ttf []byte, size float64) (font.Face, error) {
	f, err := truetype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("export: parse font: %w", err)
	}
	return truetype.NewFace(f, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingFull}), nil
}

func drawGrid(dc *gg.Context, bg string, w, h int) {
	dot := mustColor(board.GridDotColor(bg))
	dc.SetColor(dot)
	const step = 24
	for y := step / 2; y < h; y += step {
		for x := step / 2; x < w; x += step {
			dc.DrawCircle(float64(x), float64(y), 1)
		}
	}
	dc.Fill()
}

func drawNote(dc *gg.Context, n board.Note, x, y, w, h float64, title, body font.Face) {
	dc.Push()
	defer dc.Pop()

	dc.RotateAbout(gg.Radians(n.Rotation), x+w/2, y+h/2)

	// shadow
	dc.SetColor(color.NRGBA{A: 40})
	dc.DrawRectangle(x+3, y+6, w, h)
	dc.Fill()

	dc.SetColor(mustColor(n.Color))
	dc.DrawRectangle(x, y, w, h)
	dc.Fill()

	pad := w * 0.06
	location := n.Location
	if location == "" {
		location = "Unknown Place"
	}

	dc.SetFontFace(title)
	lw, lh := dc.MeasureString(location)
	if n.Location != "" {
		dc.SetColor(mustColor(n.HighlighterColor))
		dc.DrawRectangle(x+pad-2, y+pad, math.Min(lw+4, w-2*pad), lh*1.3)
		dc.Fill()
	}
	ink := color.NRGBA{R: 0x1e, G: 0x3a, B: 0x8a, A: 0xff}
	dc.SetColor(ink)
	dc.DrawStringAnchored(location, x+pad, y+pad+lh*0.65, 0, 0.5)

	dc.SetFontFace(body)
	dates := n.DateLabel()
	if dates == "" {
		dates = "No dates"
	}
	dc.SetColor(color.NRGBA{R: 0x6b, G: 0x72, B: 0x80, A: 0xff})
	dc.DrawString(dates, x+pad, y+pad+lh*2.2)

	dc.SetColor(ink)
	if n.Text != "" {
		dc.DrawStringWrapped(n.Text, x+pad, y+pad+lh*2.8, 0, 0, w-2*pad, 1.3, gg.AlignLeft)
	}

	// pin
	dc.SetColor(color.NRGBA{R: 0xdc, G: 0x26, B: 0x26, A: 0xff})
	dc.DrawCircle(x+w/2, y+2, 6)
	dc.Fill()
}

func mustColor(s string) color.Color {
	c, err := board.ParseColor(s)
	if err != nil {
		return color.White
	}
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}
