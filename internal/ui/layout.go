package ui

import (
	"fmt"
	"math"

	"github.com/mattn/go-runewidth"

	"github.com/ramanasai/tripboard/internal/board"
	"github.com/ramanasai/tripboard/internal/drag"
	"github.com/ramanasai/tripboard/internal/focus"
)

// rect is a screen rectangle in cells, half-open on the far edges.
type rect struct{ x, y, w, h int }

func (r rect) has(x, y int) bool {
	return x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

// layout is where the chrome sits for one frame. View draws from it and the
// mouse handler hit-tests against it, so both always agree.
type layout struct {
	night     rect
	swatch    rect
	dispenser rect
	toast     rect
	undo      rect
	footer    rect

	panel    rect
	tabs     [2]rect
	prevDay  rect
	nextDay  rect
	mapPanel rect

	nightLabel  string
	swatchLabel string
}

const (
	toastText   = "Note deleted (u to undo)"
	undoLabel   = "[Undo]"
	tabItin     = "Itinerary"
	tabChat     = "Chat"
	tabSep      = " │ "
	dispenserW  = 16
	editorW     = 38
	editorH     = 13
	calendarW   = 30
	calendarH   = 13
	noteButton  = "[M]"
	closeButton = "[×]"
)

func swatchName(bg string, night bool) string {
	for _, s := range board.Boards(night) {
		if s.Value == bg {
			return s.Name
		}
	}
	return bg
}

func layoutOf(w, h int, store *board.Store) layout {
	var l layout
	night := store.NightMode()
	if night {
		l.nightLabel = "[☾ Night]"
	} else {
		l.nightLabel = "[☀ Day]"
	}
	l.swatchLabel = "[◐ " + swatchName(store.Background(), night) + "]"

	sw := runewidth.StringWidth(l.swatchLabel)
	nw := runewidth.StringWidth(l.nightLabel)
	l.swatch = rect{w - 1 - sw, 0, sw, 1}
	l.night = rect{l.swatch.x - 1 - nw, 0, nw, 1}

	l.dispenser = rect{1, h - 5, dispenserW, 3}

	tw := runewidth.StringWidth(toastText) + 2 + len(undoLabel) + 2
	l.toast = rect{(w - tw) / 2, h - 3, tw, 1}
	l.undo = rect{l.toast.x + tw - 1 - len(undoLabel), h - 3, len(undoLabel), 1}
	l.footer = rect{0, h - 1, w, 1}

	slot := slotRect(w, h)
	l.panel = rect{slot.x, slot.y + slot.h + 1, slot.w, h - (slot.y + slot.h + 1) - 1}
	inner := l.panel.x + 2
	l.tabs[0] = rect{inner, l.panel.y + 1, runewidth.StringWidth(tabItin), 1}
	l.tabs[1] = rect{inner + l.tabs[0].w + runewidth.StringWidth(tabSep), l.panel.y + 1, runewidth.StringWidth(tabChat), 1}
	l.prevDay = rect{inner, l.panel.y + 3, 1, 1}
	l.nextDay = rect{l.panel.x + l.panel.w - 3, l.panel.y + 3, 1, 1}

	mx := slot.x + slot.w + 2
	l.mapPanel = rect{mx, 1, w - mx - 1, h - 2}
	return l
}

func slotRect(w, h int) rect {
	s := focus.Slot(board.Size{W: float64(w), H: float64(h)})
	return rect{int(s.X), int(s.Y), int(s.W), int(s.H)}
}

func round(v float64) int { return int(math.Round(v)) }

// noteRect is the drawn rectangle for a visual, after scaling about the
// centre.
func noteRect(v drag.Visual) rect {
	r := rect{round(v.Position.X), round(v.Position.Y), round(v.Width), round(v.Height)}
	if v.Scale > 0 && v.Scale < 1 {
		dx := round(float64(r.w) * (1 - v.Scale) / 2)
		dy := round(float64(r.h) * (1 - v.Scale) / 2)
		r = rect{r.x + dx, r.y + dy, r.w - 2*dx, r.h - 2*dy}
	}
	return r
}

func focusButton(r rect) rect { return rect{r.x + r.w - 4, r.y, 3, 1} }
func dateRow(r rect) rect     { return rect{r.x + 1, r.y + 2, r.w - 2, 1} }

// editorRect sits beside the note, on whichever side has room.
func editorRect(note rect, w, h int) rect {
	x := note.x + note.w + 1
	if x+editorW > w {
		x = note.x - editorW - 1
	}
	x = max(0, x)
	y := max(1, min(note.y, h-editorH-1))
	return rect{x, y, editorW, editorH}
}

func calendarRect(w, h int) rect {
	return rect{(w - calendarW) / 2, max(0, (h-calendarH)/2), calendarW, calendarH}
}

func finderRect(w, h int) rect {
	fw := min(60, w-4)
	return rect{(w - fw) / 2, 3, fw, min(12, h-4)}
}

func sizeKey(w, h int) string { return fmt.Sprintf("%dx%d", w, h) }
