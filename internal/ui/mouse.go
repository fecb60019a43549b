package ui

import (
	"slices"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ramanasai/tripboard/internal/board"
	"github.com/ramanasai/tripboard/internal/drag"
	"github.com/ramanasai/tripboard/internal/focus"
)

func (m Model) updateMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	p := board.Point{X: float64(msg.X), Y: float64(msg.Y)}

	switch msg.Action {
	case tea.MouseActionMotion:
		m.engine.Move(p)
		return m, nil
	case tea.MouseActionRelease:
		if id, ok := m.engine.Dragging(); ok {
			if st := m.engine.Release(); st == drag.Crumpling {
				m.deps.Logger.Debug("crumpling", "id", id)
			}
		}
		return m, nil
	case tea.MouseActionPress:
	default:
		return m, nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown:
		if m.tab == tabChatIdx && m.view().Mode == focus.Focused {
			if msg.Button == tea.MouseButtonWheelUp {
				m.transcript.LineUp(1)
			} else {
				m.transcript.LineDown(1)
			}
		}
		return m, nil
	case tea.MouseButtonLeft:
		return m.press(msg.X, msg.Y)
	}
	return m, nil
}

// hit is a note under the pointer with its drawn rectangle.
type hit struct {
	note board.Note
	rect rect
}

// noteAt finds the topmost note that accepts input at (x, y).
func (m Model) noteAt(x, y int, v focus.View) (hit, bool) {
	slot := v.Slot
	stack := m.store.Stack()
	slices.Reverse(stack)
	for _, n := range stack {
		if !v.Interactive(n.ID) {
			continue
		}
		vis := m.engine.Visual(n, &slot)
		if vis.State == drag.Crumpling || vis.State == drag.Removed {
			continue
		}
		if r := noteRect(vis); r.has(x, y) {
			return hit{note: n, rect: r}, true
		}
	}
	return hit{}, false
}

func (m Model) press(x, y int) (Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if m.finder.open {
		if !finderRect(m.width, m.height).has(x, y) {
			m.finder.close()
		}
		return m, nil
	}
	if _, ok := m.store.EditingDate(); ok {
		return m.clickCalendar(x, y)
	}

	v := m.view()
	l := layoutOf(m.width, m.height, m.store)
	p := board.Point{X: float64(x), Y: float64(y)}

	if id := m.editor.id; id != "" {
		if r, ok := m.editorBox(id, v); ok && r.has(x, y) {
			return m, nil
		}
	}
	m.engine.PointerDown(p)

	if v.Chrome.ThemePicker {
		switch {
		case l.night.has(x, y):
			m.store.ToggleNightMode()
			return m, nil
		case l.swatch.has(x, y):
			sw := m.store.CycleBackground()
			m.setStatus("background: "+sw.Name, false)
			return m, nil
		}
	}
	if v.Chrome.Dispenser && l.dispenser.has(x, y) {
		m.store.Dispense(m.size())
		return m, nil
	}
	if v.Chrome.UndoToast && l.undo.has(x, y) {
		m.undo()
		return m, nil
	}

	if v.Mode == focus.Focused {
		switch {
		case l.tabs[tabItinIdx].has(x, y):
			return m.selectTab(tabItinIdx)
		case l.tabs[tabChatIdx].has(x, y):
			return m.selectTab(tabChatIdx)
		case m.tab == tabItinIdx && l.prevDay.has(x, y) && m.pager != nil:
			m.pager.Prev()
			return m, nil
		case m.tab == tabItinIdx && l.nextDay.has(x, y) && m.pager != nil:
			m.pager.Next()
			return m, nil
		}
	}

	h, ok := m.noteAt(x, y, v)
	if !ok {
		return m, nil
	}
	id := h.note.ID

	if focusButton(h.rect).has(x, y) {
		if v.Mode == focus.Focused && v.Note.ID == id {
			m.store.ClearFocus()
		} else {
			m.store.SetFocus(id)
		}
		return m, nil
	}
	if dateRow(h.rect).has(x, y) {
		m.store.SetEditingDate(id)
		return m, nil
	}

	now := m.deps.Clock.Now()
	if m.lastClick.id == id && now.Sub(m.lastClick.at) < doubleClick {
		m.lastClick.id = ""
		m.engine.DoubleClick(id)
		return m, nil
	}
	m.lastClick.id, m.lastClick.at = id, now
	m.engine.Press(id, p)
	return m, nil
}

func (m *Model) undo() {
	n, ok := m.store.RestoreNote()
	if !ok {
		return
	}
	m.engine.Reset(n.ID)
	m.setStatus("restored "+noteTitle(n), false)
}

func noteTitle(n board.Note) string {
	if n.Location != "" {
		return n.Location
	}
	return "note"
}
