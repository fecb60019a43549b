package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ramanasai/tripboard/internal/board"
)

// noteSource lets fuzzy search location and remarks together.
type noteSource []board.Note

func (s noteSource) String(i int) string { return searchText(s[i]) }
func (s noteSource) Len() int            { return len(s) }

func searchText(n board.Note) string {
	text := strings.Join(strings.Fields(n.Text), " ")
	if n.Location == "" {
		return text
	}
	return n.Location + " · " + text
}

type finderState struct {
	open    bool
	input   textinput.Model
	notes   []board.Note
	matches fuzzy.Matches
	cursor  int
}

func newFinder() finderState {
	in := textinput.New()
	in.Placeholder = "place or remark..."
	in.Prompt = "/ "
	in.CharLimit = 80
	return finderState{input: in}
}

func (f *finderState) show(notes []board.Note) tea.Cmd {
	f.open = true
	f.notes = notes
	f.cursor = 0
	f.input.SetValue("")
	f.refresh()
	return f.input.Focus()
}

func (f *finderState) close() {
	f.open = false
	f.input.Blur()
}

func (f *finderState) refresh() {
	q := strings.TrimSpace(f.input.Value())
	if q == "" {
		f.matches = make(fuzzy.Matches, len(f.notes))
		for i, n := range f.notes {
			f.matches[i] = fuzzy.Match{Str: searchText(n), Index: i}
		}
	} else {
		f.matches = fuzzy.FindFrom(q, noteSource(f.notes))
	}
	f.cursor = min(f.cursor, max(0, len(f.matches)-1))
}

// selected is the highlighted note.
func (f *finderState) selected() (board.Note, bool) {
	if f.cursor >= len(f.matches) {
		return board.Note{}, false
	}
	return f.notes[f.matches[f.cursor].Index], true
}

func (m Model) updateFinderKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	f := &m.finder
	switch {
	case key.Matches(msg, keys.Back):
		f.close()
		return m, nil
	case msg.String() == "up" || msg.String() == "ctrl+p":
		f.cursor = max(0, f.cursor-1)
		return m, nil
	case msg.String() == "down" || msg.String() == "ctrl+n":
		f.cursor = max(0, min(len(f.matches)-1, f.cursor+1))
		return m, nil
	case msg.String() == "enter":
		if n, ok := f.selected(); ok {
			m.store.SetFocus(n.ID)
		}
		f.close()
		return m, nil
	}
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	f.refresh()
	return m, cmd
}

func (m Model) renderFinder(th Theme, w, h int) string {
	f := m.finder
	rows := max(1, h-5)
	lines := []string{th.Title.Render("Find note"), f.input.View()}

	hl := th.Value.Bold(true).Foreground(lipgloss.Color(th.Accent))
	start := max(0, f.cursor-rows+1)
	for i := start; i < len(f.matches) && i < start+rows; i++ {
		match := f.matches[i]
		var b strings.Builder
		marked := map[int]bool{}
		for _, idx := range match.MatchedIndexes {
			marked[idx] = true
		}
		for bi, r := range match.Str {
			if marked[bi] {
				b.WriteString(hl.Render(string(r)))
			} else {
				b.WriteString(th.Value.Render(string(r)))
			}
		}
		prefix := "  "
		if i == f.cursor {
			prefix = "▶ "
		}
		lines = append(lines, th.Value.Render(prefix)+b.String())
	}
	if len(f.matches) == 0 {
		lines = append(lines, th.Label.Render("no matching notes"))
	}
	for len(lines) < rows+2 {
		lines = append(lines, "")
	}
	return th.Border.Width(w - 2).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
