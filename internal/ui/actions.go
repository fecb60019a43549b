package ui

import (
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ramanasai/tripboard/internal/board"
	"github.com/ramanasai/tripboard/internal/export"
)

// exportLayout stamps exported file names.
const exportLayout = "20060102-150405"

func (m Model) export() tea.Cmd {
	notes := m.store.Notes()
	if len(notes) == 0 {
		return func() tea.Msg { return statusMsg{text: "nothing to export", err: true} }
	}
	bg := m.store.Background()
	path := filepath.Join(m.deps.ExportDir, "tripboard-"+m.deps.Clock.Now().Format(exportLayout)+".png")
	return func() tea.Msg {
		return exportedMsg{path: path, err: export.SavePNG(path, notes, export.Options{Background: bg})}
	}
}

// target is the note keyboard actions apply to: the focused note, the one
// being edited, else the top of the stack.
func (m Model) target() (board.Note, bool) {
	if id, ok := m.store.Focused(); ok {
		return m.store.Note(id)
	}
	if m.editor.id != "" {
		return m.store.Note(m.editor.id)
	}
	stack := m.store.Stack()
	if len(stack) == 0 {
		return board.Note{}, false
	}
	return stack[len(stack)-1], true
}

// Summary is the plain text copy of a note.
func Summary(n board.Note) string {
	var b strings.Builder
	b.WriteString(noteTitle(n))
	if d := n.DateLabel(); d != "" {
		b.WriteString("\n" + d)
	}
	if t := strings.TrimSpace(n.Text); t != "" {
		b.WriteString("\n\n" + t)
	}
	return b.String()
}

func (m Model) copyNote() tea.Cmd {
	n, ok := m.target()
	if !ok {
		return nil
	}
	text, write := Summary(n), m.deps.Clipboard
	return func() tea.Msg {
		if err := write(text); err != nil {
			return statusMsg{text: "copy failed: " + err.Error(), err: true}
		}
		return statusMsg{text: "copied " + noteTitle(n)}
	}
}
