package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"github.com/ramanasai/tripboard/internal/board"
	"github.com/ramanasai/tripboard/internal/calendar"
)

// Rows inside the calendar box.
const (
	calNavRow   = 1
	calHeadRow  = 2
	calGridRow  = 3
	calLabelRow = calendarH - 3
	calBtnRow   = calendarH - 2
	clearLabel  = "[Clear]"
	doneLabel   = "[Done]"
)

func (m Model) selection(id string) (calendar.Selection, bool) {
	n, ok := m.store.Note(id)
	if !ok {
		return calendar.Selection{}, false
	}
	return calendar.Selection{Start: n.StartDate, End: n.EndDate}, true
}

func (m *Model) pickDay(id string, day int) {
	sel, ok := m.selection(id)
	if !ok {
		return
	}
	sel = sel.Pick(m.cal.Day(day))
	m.store.UpdateNote(id, board.Patch{Dates: &board.DateRange{Start: sel.Start, End: sel.End}})
}

func (m Model) clickCalendar(x, y int) (Model, tea.Cmd) {
	id, _ := m.store.EditingDate()
	r := calendarRect(m.width, m.height)
	if !r.has(x, y) {
		m.store.ClearEditingDate()
		return m, nil
	}
	row, col := y-r.y, x-r.x

	switch {
	case row == calNavRow && col <= 3:
		m.cal = m.cal.Shift(-1)
	case row == calNavRow && col >= calendarW-4:
		m.cal = m.cal.Shift(1)
	case row >= calGridRow && col >= 2:
		grid := m.cal.Grid()
		wk, c := row-calGridRow, (col-2)/4
		if wk < len(grid) && c < 7 && (col-2)%4 < 3 {
			if d := grid[wk][c]; d > 0 {
				m.pickDay(id, d)
				return m, nil
			}
		}
		if row != calBtnRow {
			return m, nil
		}
		switch {
		case col < 2+len(clearLabel):
			m.store.UpdateNote(id, board.Patch{Dates: &board.DateRange{}})
		case col >= calendarW-2-len(doneLabel):
			m.store.ClearEditingDate()
		}
	}
	return m, nil
}

func (m Model) updateCalendarKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	id, _ := m.store.EditingDate()
	switch msg.String() {
	case "left", "h", "pgup":
		m.cal = m.cal.Shift(-1)
	case "right", "l", "pgdown":
		m.cal = m.cal.Shift(1)
	case "c", "backspace":
		m.store.UpdateNote(id, board.Patch{Dates: &board.DateRange{}})
	case "enter":
		m.store.ClearEditingDate()
	default:
		if key.Matches(msg, keys.Back) || key.Matches(msg, keys.Dates) {
			m.store.ClearEditingDate()
		}
	}
	return m, nil
}

// drawCalendar paints the date picker into r.
func (m Model) drawCalendar(c *canvas, th Theme, r rect) {
	id, ok := m.store.EditingDate()
	if !ok {
		return
	}
	sel, _ := m.selection(id)
	frame := ink{fg: th.Muted, bg: th.Panel}
	body := th.panel()
	title := ink{fg: th.Accent, bg: th.Panel, bold: true}

	c.box(r.x, r.y, r.w, r.h, frame)
	c.text(r.x+2, r.y, " Trip dates ", title)

	month := m.cal.Title()
	c.text(r.x+2, r.y+calNavRow, "‹", title)
	c.text(r.x+(r.w-runewidth.StringWidth(month))/2, r.y+calNavRow, month, ink{fg: th.PanelInk, bg: th.Panel, bold: true})
	c.text(r.x+r.w-3, r.y+calNavRow, "›", title)

	for i, wd := range calendar.Weekdays {
		c.text(r.x+2+i*4+2, r.y+calHeadRow, wd, th.panelMuted())
	}

	today := m.deps.Clock.Now()
	rangeBg := fade(th.Panel, th.Accent, 0.25)
	for wk, week := range m.cal.Grid() {
		for col, d := range week {
			if d == 0 {
				continue
			}
			k := body
			switch m.cal.MarkOf(d, sel) {
			case calendar.Endpoint:
				k = ink{fg: "#ffffff", bg: th.Accent, bold: true}
			case calendar.InRange:
				k = ink{fg: th.PanelInk, bg: rangeBg}
			}
			day := m.cal.Day(d)
			if t := today.In(day.Location()); day.Year() == t.Year() && day.YearDay() == t.YearDay() {
				k.underline = true
			}
			c.text(r.x+2+col*4, r.y+calGridRow+wk, fmt.Sprintf("%3d", d), k)
		}
	}

	label := board.Note{StartDate: sel.Start, EndDate: sel.End}.DateLabel()
	if label == "" {
		label = "No dates"
	}
	c.text(r.x+2, r.y+calLabelRow, label, body)
	c.text(r.x+2, r.y+calBtnRow, clearLabel, ink{fg: th.Danger, bg: th.Panel})
	c.text(r.x+r.w-2-len(doneLabel), r.y+calBtnRow, doneLabel, title)
}
