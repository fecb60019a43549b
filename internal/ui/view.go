package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/ramanasai/tripboard/internal/board"
	"github.com/ramanasai/tripboard/internal/drag"
	"github.com/ramanasai/tripboard/internal/focus"
)

const (
	dotStepX = 4
	dotStepY = 2
)

func (m Model) theme() Theme {
	return NewTheme(m.store.Background(), m.store.NightMode())
}

func (m Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	th := m.theme()
	v := m.view()
	l := layoutOf(m.width, m.height, m.store)
	c := newCanvas(m.width, m.height, th.Background)

	drawDots(c, th)

	slot := v.Slot
	var focused *drag.Visual
	for _, n := range m.store.Stack() {
		vis := m.engine.Visual(n, &slot)
		if vis.Focused {
			focused = &vis
			continue
		}
		m.drawNote(c, th, n, vis)
	}
	if v.Chrome.Trash {
		m.drawTrash(c, th)
	}
	if v.Mode == focus.Focused && focused != nil {
		m.drawNote(c, th, v.Note, *focused)
		c.embedBlock(l.panel.x, l.panel.y, l.panel.w, m.renderPanel(th, l))
		if l.mapPanel.w > 8 {
			c.embedBlock(l.mapPanel.x, l.mapPanel.y, l.mapPanel.w, m.renderMap(th, l, v.Note))
		}
	}

	m.drawChrome(c, th, v, l)

	if id := m.editor.id; id != "" {
		if r, ok := m.editorBox(id, v); ok {
			c.embedBlock(r.x, r.y, r.w, m.renderEditor(th))
		}
	}
	if _, ok := m.store.EditingDate(); ok {
		r := calendarRect(m.width, m.height)
		cal := newCanvas(r.w, r.h, th.Panel)
		m.drawCalendar(cal, th, rect{0, 0, r.w, r.h})
		c.embedBlock(r.x, r.y, r.w, cal.String())
	}
	if m.finder.open {
		r := finderRect(m.width, m.height)
		c.embedBlock(r.x, r.y, r.w, m.renderFinder(th, r.w, r.h))
	}
	if m.showHelp {
		block := th.Border.Render(lipgloss.JoinVertical(lipgloss.Left,
			th.Title.Render("Tripboard keys"),
			m.help.FullHelpView(keys.FullHelp()),
			th.Hint.Render("drag a note onto the trash to delete it · double-click to edit"),
		))
		bw := lipgloss.Width(block)
		c.embedBlock((m.width-bw)/2, max(1, (m.height-lipgloss.Height(block))/2), bw, block)
	}
	return c.String()
}

func drawDots(c *canvas, th Theme) {
	k := ink{fg: th.Dot, bg: th.Background}
	for y := 1; y < c.h; y += dotStepY {
		for x := 2; x < c.w; x += dotStepX {
			c.set(x, y, '·', k)
		}
	}
}

func (m Model) drawTrash(c *canvas, th Theme) {
	t := m.engine.Trash()
	r := rect{round(t.X), round(t.Y), round(t.W), round(t.H)}
	k := ink{fg: th.Muted, bg: th.Panel}
	label := "🗑 Trash"
	if m.engine.Armed() {
		k = ink{fg: pinColor, bg: trashArmedBg, bold: true}
		label = "🗑 Release"
	}
	c.box(r.x, r.y, r.w, r.h, k)
	c.text(r.x+(r.w-runewidth.StringWidth(label))/2, r.y+r.h/2, label, k)

	// crumpling notes shrink to a ball in the middle of the bin
	p := t.Center()
	for _, n := range m.store.Stack() {
		if m.engine.State(n.ID) == drag.Crumpling {
			c.textOn(round(p.X), round(p.Y)-1, "◍", ink{fg: n.Color, bold: true})
		}
	}
}

// drawNote paints one sticky note. The terminal has no rotation; armed
// notes shrink and turn red. Crumpling notes are drawn by the trash.
func (m Model) drawNote(c *canvas, th Theme, n board.Note, vis drag.Visual) {
	if vis.State == drag.Crumpling || vis.State == drag.Removed {
		return
	}
	r := noteRect(vis)
	if r.w < 4 || r.h < 3 {
		return
	}
	op := vis.Opacity
	paper := fade(th.Background, vis.Color, op)
	tone := func(fg string) string { return fade(paper, fg, op) }

	if !vis.Faded {
		shadow := board.Blend(th.Background, shadowTint)
		c.fill(r.x+1, r.y+r.h, r.w, 1, ink{bg: shadow})
		c.fill(r.x+r.w, r.y+1, 1, r.h, ink{bg: shadow})
	}
	c.fill(r.x, r.y, r.w, r.h, ink{bg: paper})
	c.text(r.x+r.w/2, r.y, "●", ink{fg: tone(pinColor), bg: paper})

	btn := noteButton
	if vis.Focused {
		btn = closeButton
	}
	b := focusButton(r)
	c.text(b.x, b.y, btn, ink{fg: tone(noteMuted), bg: paper})

	inner := r.w - 2
	loc := n.Location
	if loc == "" {
		c.clipped(r.x+1, r.y+1, inner, "Unknown Place", ink{fg: tone(noteMuted), bg: paper, bold: true})
	} else {
		hl := fade(paper, n.HighlighterColor, op)
		c.clipped(r.x+1, r.y+1, inner, loc, ink{fg: tone(noteInk), bg: hl, bold: true})
	}

	dates := n.DateLabel()
	if dates == "" {
		dates = "No dates"
	}
	d := dateRow(r)
	c.clipped(d.x, d.y, d.w, "▦ "+dates, ink{fg: tone(noteMuted), bg: paper, underline: vis.Focused})

	body := r.h - 5
	if vis.Editing {
		body--
		c.clipped(r.x+1, r.y+r.h-1, inner, "✎ editing", ink{fg: tone(noteMuted), bg: paper, faint: true})
	}
	text := n.Text
	if text == "" && !vis.Editing {
		text = "Double-click to add remarks"
	}
	k := ink{fg: tone(noteText), bg: paper}
	if n.Text == "" {
		k.fg, k.faint = tone(noteMuted), true
	}
	for i, line := range strings.Split(wrapTo(text, inner), "\n") {
		if i >= body {
			break
		}
		c.clipped(r.x+1, r.y+4+i, inner, line, k)
	}
}

func (m Model) drawChrome(c *canvas, th Theme, v focus.View, l layout) {
	chip := ink{fg: th.Ink, bg: th.Panel}
	if v.Chrome.ThemePicker {
		c.text(l.night.x, l.night.y, l.nightLabel, chip)
		c.text(l.swatch.x, l.swatch.y, l.swatchLabel, chip)
	}
	c.text(1, 0, "✈ Tripboard", ink{fg: th.Accent, bg: th.Background, bold: true})

	if v.Chrome.Dispenser {
		d := l.dispenser
		pad := ink{fg: noteInk, bg: board.NoteColors[0]}
		c.box(d.x, d.y, d.w, d.h, pad)
		label := "+ New note"
		c.text(d.x+(d.w-runewidth.StringWidth(label))/2, d.y+1, label, ink{fg: noteInk, bg: board.NoteColors[0], bold: true})
	}

	if v.Chrome.UndoToast {
		t := l.toast
		k := ink{fg: th.PanelInk, bg: th.Panel}
		c.fill(t.x, t.y, t.w, t.h, k)
		c.text(t.x+1, t.y, toastText, k)
		c.text(l.undo.x, l.undo.y, undoLabel, ink{fg: th.Accent, bg: th.Panel, bold: true})
	}

	f := l.footer
	hint := m.help.ShortHelpView(keys.ShortHelp())
	hw := lipgloss.Width(hint)
	if m.status != "" {
		k := ink{fg: th.Muted, bg: th.Background}
		if m.statusErr {
			k.fg = th.Danger
		}
		c.clipped(1, f.y, max(0, f.w-hw-3), m.status, k)
	}
	if hw < f.w-2 {
		c.embedBlock(f.w-hw-1, f.y, hw, hint)
	}
}
