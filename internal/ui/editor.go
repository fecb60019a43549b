package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ramanasai/tripboard/internal/board"
	"github.com/ramanasai/tripboard/internal/focus"
)

const (
	fieldLocation = iota
	fieldRemarks
)

const maxSuggestions = 3

// editorState mirrors the note the engine has open for editing. Every
// keystroke is written straight back to the store.
type editorState struct {
	id       string
	field    int
	location AutocompleteModel
	remarks  textarea.Model
	original string
}

func newEditor(suggest Suggester) editorState {
	ta := textarea.New()
	ta.Placeholder = "Remarks..."
	ta.ShowLineNumbers = false
	ta.Prompt = ""
	ta.SetWidth(editorW - 4)
	ta.SetHeight(3)
	ta.CharLimit = 2000

	loc := NewAutocomplete(suggest, maxSuggestions)
	loc.SetWidth(editorW - 8)

	return editorState{location: loc, remarks: ta}
}

func (e *editorState) open(n board.Note) tea.Cmd {
	e.id = n.ID
	e.original = n.Location
	e.location.SetValue(n.Location)
	e.remarks.SetValue(n.Text)
	e.field = fieldLocation
	e.remarks.Blur()
	return e.location.Focus()
}

func (e *editorState) focusField(f int) tea.Cmd {
	e.field = f
	if f == fieldRemarks {
		e.location.Blur()
		return e.remarks.Focus()
	}
	e.remarks.Blur()
	return e.location.Focus()
}

// passthrough feeds non-key messages (cursor blink) to the active input.
func (e editorState) passthrough(msg tea.Msg) (editorState, tea.Cmd) {
	if e.id == "" {
		return e, nil
	}
	var cmd tea.Cmd
	if e.field == fieldRemarks {
		e.remarks, cmd = e.remarks.Update(msg)
	} else {
		e.location, cmd = e.location.Update(msg)
	}
	return e, cmd
}

// syncEditor follows the engine: a newly opened note loads into the editor,
// a closed one is committed.
func (m Model) syncEditor() (Model, tea.Cmd) {
	id, ok := m.engine.Editor()
	if ok && id == m.editor.id {
		return m, nil
	}
	var cmds []tea.Cmd
	if m.editor.id != "" {
		cmds = append(cmds, m.commitEditor())
	}
	if ok {
		if n, found := m.store.Note(id); found {
			cmds = append(cmds, m.editor.open(n))
		}
	}
	return m, tea.Batch(cmds...)
}

// commitEditor closes the editor and re-geocodes a changed location.
func (m *Model) commitEditor() tea.Cmd {
	id, original := m.editor.id, m.editor.original
	m.editor.id = ""
	m.editor.location.Blur()
	m.editor.remarks.Blur()

	n, ok := m.store.Note(id)
	if !ok || n.Location == original {
		return nil
	}
	m.deps.Logger.Debug("location changed", "id", id, "from", original, "to", n.Location)
	if strings.TrimSpace(n.Location) == "" {
		delete(m.origins, id)
		m.store.UpdateNote(id, board.Patch{ClearGeo: true})
		return nil
	}
	return m.geocode(id, n.Location)
}

func (m Model) updateEditorKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	id := m.editor.id
	switch {
	case key.Matches(msg, editorKeys.Done):
		if m.editor.field == fieldLocation && m.editor.location.Showing() && msg.String() == "esc" {
			break
		}
		m.engine.StopEditing(id)
		return m, nil
	case key.Matches(msg, editorKeys.Switch):
		return m, m.editor.focusField(1 - m.editor.field)
	case key.Matches(msg, keys.Dates):
		m.store.SetEditingDate(id)
		return m, nil
	}

	var cmd tea.Cmd
	if m.editor.field == fieldRemarks {
		m.editor.remarks, cmd = m.editor.remarks.Update(msg)
		text := m.editor.remarks.Value()
		m.store.UpdateNote(id, board.Patch{Text: &text})
		return m, cmd
	}

	if msg.String() == "enter" && !m.editor.location.Showing() {
		return m, m.editor.focusField(fieldRemarks)
	}
	m.editor.location, cmd = m.editor.location.Update(msg)
	loc := m.editor.location.Value()
	m.store.UpdateNote(id, board.Patch{Location: &loc})
	return m, cmd
}

// editorBox is where the editor is drawn for note id.
func (m Model) editorBox(id string, v focus.View) (rect, bool) {
	n, ok := m.store.Note(id)
	if !ok {
		return rect{}, false
	}
	slot := v.Slot
	return editorRect(noteRect(m.engine.Visual(n, &slot)), m.width, m.height), true
}

func (m Model) renderEditor(th Theme) string {
	label := func(s string, active bool) string {
		if active {
			return th.Title.Render(s)
		}
		return th.Label.Render(s)
	}
	e := m.editor
	loc := strings.Split(e.location.View(), "\n")
	for len(loc) < 1+maxSuggestions {
		loc = append(loc, "")
	}
	lines := []string{
		th.Title.Render("✎ Edit note"),
		label("Location", e.field == fieldLocation),
	}
	lines = append(lines, loc...)
	lines = append(lines,
		label("Remarks", e.field == fieldRemarks),
		e.remarks.View(),
		th.Hint.Render("tab switch · ctrl+d dates · esc done"),
	)
	return th.Border.Width(editorW - 2).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
