package ui

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"
)

// ink is the comparable part of a cell style.
type ink struct {
	fg, bg    string
	bold      bool
	faint     bool
	underline bool
	reverse   bool
}

func (k ink) style() lipgloss.Style {
	st := lipgloss.NewStyle()
	if k.fg != "" {
		st = st.Foreground(lipgloss.Color(k.fg))
	}
	if k.bg != "" {
		st = st.Background(lipgloss.Color(k.bg))
	}
	return st.Bold(k.bold).Faint(k.faint).Underline(k.underline).Reverse(k.reverse)
}

type cell struct {
	r    rune // 0 marks the right half of a wide rune
	ink  ink
	wide bool
}

// embed is a pre-rendered block spliced over the cells, one line per row.
type embed struct {
	x, y, w int
	lines   []string
}

// canvas is a cell grid the board is composed on. Prerendered widgets
// (inputs, map images) are laid over it as embeds.
type canvas struct {
	w, h   int
	cells  []cell
	embeds []embed
}

func newCanvas(w, h int, bg string) *canvas {
	c := &canvas{w: max(w, 0), h: max(h, 0)}
	c.cells = make([]cell, c.w*c.h)
	for i := range c.cells {
		c.cells[i] = cell{r: ' ', ink: ink{bg: bg}}
	}
	return c
}

func (c *canvas) in(x, y int) bool { return x >= 0 && y >= 0 && x < c.w && y < c.h }

func (c *canvas) at(x, y int) *cell { return &c.cells[y*c.w+x] }

// bgAt is the background colour under a cell, so text can be drawn on top
// without repainting it.
func (c *canvas) bgAt(x, y int) string {
	if !c.in(x, y) {
		return ""
	}
	return c.at(x, y).ink.bg
}

// set writes one rune and returns the number of cells it covers.
func (c *canvas) set(x, y int, r rune, k ink) int {
	rw := runewidth.RuneWidth(r)
	if rw == 0 {
		return 0
	}
	if !c.in(x, y) {
		return rw
	}
	c.unsplit(x, y)
	if rw == 2 {
		if !c.in(x+1, y) {
			*c.at(x, y) = cell{r: ' ', ink: k}
			return rw
		}
		c.unsplit(x+1, y)
		*c.at(x, y) = cell{r: r, ink: k, wide: true}
		*c.at(x+1, y) = cell{r: 0, ink: k}
		return rw
	}
	*c.at(x, y) = cell{r: r, ink: k}
	return rw
}

// unsplit blanks a wide rune that is about to lose one of its halves.
func (c *canvas) unsplit(x, y int) {
	cl := c.at(x, y)
	switch {
	case cl.wide && c.in(x+1, y):
		*c.at(x+1, y) = cell{r: ' ', ink: cl.ink}
	case cl.r == 0 && x > 0:
		left := c.at(x-1, y)
		*left = cell{r: ' ', ink: left.ink}
	}
}

// text draws s from x and returns the cells used. Newlines are not
// interpreted.
func (c *canvas) text(x, y int, s string, k ink) int {
	used := 0
	for _, r := range s {
		used += c.set(x+used, y, r, k)
	}
	return used
}

// textOn draws s keeping whatever background is already there.
func (c *canvas) textOn(x, y int, s string, k ink) int {
	used := 0
	for _, r := range s {
		kk := k
		kk.bg = c.bgAt(x+used, y)
		used += c.set(x+used, y, r, kk)
	}
	return used
}

// clipped draws at most w cells of s.
func (c *canvas) clipped(x, y, w int, s string, k ink) {
	c.text(x, y, runewidth.Truncate(s, w, ""), k)
}

func (c *canvas) fill(x, y, w, h int, k ink) {
	for yy := y; yy < y+h; yy++ {
		for xx := x; xx < x+w; xx++ {
			if c.in(xx, yy) {
				c.unsplit(xx, yy)
				*c.at(xx, yy) = cell{r: ' ', ink: k}
			}
		}
	}
}

// box draws a rounded frame filled with k.bg.
func (c *canvas) box(x, y, w, h int, k ink) {
	if w < 2 || h < 2 {
		c.fill(x, y, w, h, k)
		return
	}
	c.fill(x, y, w, h, k)
	c.set(x, y, '╭', k)
	c.set(x+w-1, y, '╮', k)
	c.set(x, y+h-1, '╰', k)
	c.set(x+w-1, y+h-1, '╯', k)
	for xx := x + 1; xx < x+w-1; xx++ {
		c.set(xx, y, '─', k)
		c.set(xx, y+h-1, '─', k)
	}
	for yy := y + 1; yy < y+h-1; yy++ {
		c.set(x, yy, '│', k)
		c.set(x+w-1, yy, '│', k)
	}
}

// embedBlock lays a rendered block over the canvas. Lines wider than w are
// cut, shorter ones padded.
func (c *canvas) embedBlock(x, y, w int, block string) {
	if w <= 0 {
		return
	}
	x = max(0, min(x, c.w-1))
	w = min(w, c.w-x)
	c.embeds = append(c.embeds, embed{x: x, y: y, w: w, lines: strings.Split(block, "\n")})
}

func fit(line string, w int) string {
	lw := lipgloss.Width(line)
	if lw > w {
		line = truncate.String(line, uint(w))
		lw = lipgloss.Width(line)
	}
	if lw < w {
		line += strings.Repeat(" ", w-lw)
	}
	return line
}

// span renders cells [x0, x1) of row y.
func (c *canvas) span(y, x0, x1 int) string {
	var (
		b   strings.Builder
		run strings.Builder
		cur ink
		on  bool
	)
	flush := func() {
		if run.Len() > 0 {
			b.WriteString(cur.style().Render(run.String()))
			run.Reset()
		}
	}
	for x := x0; x < x1; x++ {
		cl := c.at(x, y)
		if cl.r == 0 {
			if x == x0 {
				run.WriteByte(' ')
			}
			continue
		}
		if !on || cl.ink != cur {
			flush()
			cur, on = cl.ink, true
		}
		if cl.wide && x+1 >= x1 {
			run.WriteByte(' ')
			continue
		}
		run.WriteRune(cl.r)
	}
	flush()
	return b.String()
}

// piece is the visible part of an embed on one row: columns [off, off+w)
// of line, drawn at x.
type piece struct {
	x, w, off int
	line      string
}

// row splices the embeds covering y between cell spans. Later embeds are on
// top and hide whatever part of earlier ones they overlap.
func (c *canvas) row(y int) string {
	var (
		pieces  []piece
		covered [][2]int
	)
	for i := len(c.embeds) - 1; i >= 0; i-- {
		e := c.embeds[i]
		if y < e.y || y >= e.y+len(e.lines) {
			continue
		}
		line := fit(e.lines[y-e.y], e.w)
		for _, f := range subtract([2]int{e.x, e.x + e.w}, covered) {
			pieces = append(pieces, piece{x: f[0], w: f[1] - f[0], off: f[0] - e.x, line: line})
		}
		covered = append(covered, [2]int{e.x, e.x + e.w})
	}
	if len(pieces) == 0 {
		return c.span(y, 0, c.w)
	}
	slices.SortFunc(pieces, func(a, b piece) int { return a.x - b.x })

	var b strings.Builder
	x := 0
	for _, p := range pieces {
		b.WriteString(c.span(y, x, p.x))
		b.WriteString(cut(p.line, p.off, p.w))
		x = p.x + p.w
	}
	b.WriteString(c.span(y, x, c.w))
	return b.String()
}

// subtract removes every covered interval from iv.
func subtract(iv [2]int, covered [][2]int) [][2]int {
	free := [][2]int{iv}
	for _, cv := range covered {
		var next [][2]int
		for _, f := range free {
			if cv[1] <= f[0] || cv[0] >= f[1] {
				next = append(next, f)
				continue
			}
			if cv[0] > f[0] {
				next = append(next, [2]int{f[0], cv[0]})
			}
			if cv[1] < f[1] {
				next = append(next, [2]int{cv[1], f[1]})
			}
		}
		free = next
	}
	return free
}

// cut returns w columns of a styled line starting at column off. Escape
// sequences before off are kept so the styling carries over.
func cut(line string, off, w int) string {
	if off > 0 {
		var b strings.Builder
		col, i := 0, 0
		for i < len(line) && col < off {
			if line[i] == 0x1b {
				j := escapeEnd(line, i)
				b.WriteString(line[i:j])
				i = j
				continue
			}
			r, size := utf8.DecodeRuneInString(line[i:])
			col += runewidth.RuneWidth(r)
			i += size
		}
		// a wide rune straddling the cut leaves one blank column
		b.WriteString(strings.Repeat(" ", col-off))
		b.WriteString(line[i:])
		line = b.String()
	}
	return fit(line, w)
}

// escapeEnd is the index just past the escape sequence starting at i.
func escapeEnd(s string, i int) int {
	j := i + 1
	if j < len(s) && s[j] == '[' {
		for j++; j < len(s); j++ {
			if s[j] >= 0x40 && s[j] <= 0x7e {
				return j + 1
			}
		}
		return len(s)
	}
	return min(j+1, len(s))
}

func (c *canvas) String() string {
	rows := make([]string, c.h)
	for y := range rows {
		rows[y] = c.row(y)
	}
	return strings.Join(rows, "\n")
}

// plain is the canvas without styling, for tests.
func (c *canvas) plain() []string {
	rows := make([]string, c.h)
	for y := range rows {
		var b strings.Builder
		for x := 0; x < c.w; x++ {
			if r := c.at(x, y).r; r != 0 {
				b.WriteRune(r)
			}
		}
		rows[y] = b.String()
	}
	return rows
}
