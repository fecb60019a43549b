package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ramanasai/tripboard/internal/focus"
)

type keyMap struct {
	New        key.Binding
	Undo       key.Binding
	Focus      key.Binding
	Dates      key.Binding
	Night      key.Binding
	Background key.Binding
	Find       key.Binding
	Export     key.Binding
	Copy       key.Binding
	Tab        key.Binding
	PrevDay    key.Binding
	NextDay    key.Binding
	Help       key.Binding
	Back       key.Binding
	Quit       key.Binding
}

var keys = keyMap{
	New:        key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new note")),
	Undo:       key.NewBinding(key.WithKeys("u", "ctrl+z"), key.WithHelp("u", "undo delete")),
	Focus:      key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "plan top note")),
	Dates:      key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "trip dates")),
	Night:      key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "day/night")),
	Background: key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "background")),
	Find:       key.NewBinding(key.WithKeys("/", "ctrl+f"), key.WithHelp("/", "find note")),
	Export:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export png")),
	Copy:       key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy note")),
	Tab:        key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "itinerary/chat")),
	PrevDay:    key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev day")),
	NextDay:    key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next day")),
	Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Back:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.New, k.Undo, k.Focus, k.Find, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.New, k.Undo, k.Focus, k.Dates},
		{k.Night, k.Background, k.Find, k.Export, k.Copy},
		{k.Tab, k.PrevDay, k.NextDay, k.Help, k.Back, k.Quit},
	}
}

// editor keys are only active while a note is open for editing
type editorKeyMap struct {
	Switch key.Binding
	Pick   key.Binding
	Done   key.Binding
}

var editorKeys = editorKeyMap{
	Switch: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "location/remarks")),
	Pick:   key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "next suggestion")),
	Done:   key.NewBinding(key.WithKeys("esc", "ctrl+s"), key.WithHelp("esc", "done")),
}

// updateKey routes a key to the topmost open layer: help, finder, date
// picker, editor, focus panels, then the board.
func (m Model) updateKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if m.finder.open {
		return m.updateFinderKey(msg)
	}
	if _, ok := m.store.EditingDate(); ok {
		return m.updateCalendarKey(msg)
	}
	if m.editor.id != "" {
		return m.updateEditorKey(msg)
	}

	v := m.view()
	if v.Mode == focus.Focused {
		switch {
		case key.Matches(msg, keys.Back):
			m.store.ClearFocus()
			return m, nil
		case key.Matches(msg, keys.Tab):
			return m.selectTab(1 - m.tab)
		}
		if m.tab == tabChatIdx {
			switch msg.Type {
			case tea.KeyEnter:
				return m.submitChat()
			case tea.KeyPgUp:
				m.transcript.HalfViewUp()
				return m, nil
			case tea.KeyPgDown:
				m.transcript.HalfViewDown()
				return m, nil
			}
			var cmd tea.Cmd
			m.chatInput, cmd = m.chatInput.Update(msg)
			return m, cmd
		}
		switch {
		case key.Matches(msg, keys.PrevDay):
			if m.pager != nil {
				m.pager.Prev()
			}
			return m, nil
		case key.Matches(msg, keys.NextDay):
			if m.pager != nil {
				m.pager.Next()
			}
			return m, nil
		case key.Matches(msg, keys.Focus):
			m.store.ClearFocus()
			return m, nil
		}
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Help):
		m.showHelp = true
	case key.Matches(msg, keys.Back):
		m.setStatus("", false)
	case key.Matches(msg, keys.New) && v.Chrome.Dispenser:
		m.store.Dispense(m.size())
	case key.Matches(msg, keys.Undo) && v.Chrome.UndoToast:
		m.undo()
	case key.Matches(msg, keys.Night) && v.Chrome.ThemePicker:
		m.store.ToggleNightMode()
	case key.Matches(msg, keys.Background) && v.Chrome.ThemePicker:
		sw := m.store.CycleBackground()
		m.setStatus("background: "+sw.Name, false)
	case key.Matches(msg, keys.Focus):
		if n, ok := m.target(); ok {
			m.store.SetFocus(n.ID)
		}
	case key.Matches(msg, keys.Dates):
		if n, ok := m.target(); ok {
			m.store.SetEditingDate(n.ID)
		}
	case key.Matches(msg, keys.Find):
		return m, m.finder.show(m.store.Notes())
	case key.Matches(msg, keys.Export):
		return m, m.export()
	case key.Matches(msg, keys.Copy):
		return m, m.copyNote()
	}
	return m, nil
}
