package ui

import (
	"os"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramanasai/tripboard/internal/board"
	"github.com/ramanasai/tripboard/internal/config"
	"github.com/ramanasai/tripboard/internal/drag"
	"github.com/ramanasai/tripboard/internal/focus"
	"github.com/ramanasai/tripboard/internal/geo"
	"github.com/ramanasai/tripboard/internal/schedule"
)

var testStart = time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)

type harness struct {
	clock  *schedule.Fake
	copied []string
}

func newModel(t *testing.T) (Model, *harness) {
	t.Helper()
	h := &harness{clock: schedule.NewFake(testStart)}
	seed := uint64(3)
	m := New(Deps{
		Config:    config.Default(),
		Clock:     h.clock,
		Seed:      &seed,
		ExportDir: t.TempDir(),
		Clipboard: func(s string) error {
			h.copied = append(h.copied, s)
			return nil
		},
	})
	m = step(t, m, tea.WindowSizeMsg{Width: 160, Height: 48})
	return m, h
}

func step(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out
}

func press(t *testing.T, m Model, x, y int) Model {
	t.Helper()
	return step(t, m, tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
}

func typeKeys(t *testing.T, m Model, s string) Model {
	t.Helper()
	return step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func welcome(t *testing.T, m Model) board.Note {
	t.Helper()
	notes := m.store.Notes()
	require.Len(t, notes, 1)
	return notes[0]
}

func welcomeRect(t *testing.T, m Model) rect {
	t.Helper()
	n := welcome(t, m)
	return noteRect(m.engine.Visual(n, nil))
}

func TestBootstrap_WelcomeNote(t *testing.T) {
	m, _ := newModel(t)

	n := welcome(t, m)
	assert.Equal(t, "Paris, France", n.Location)
	_, editing := m.engine.Editor()
	assert.False(t, editing, "the welcome note is not opened for editing")

	out := m.View()
	assert.Contains(t, out, "Paris, France")
	assert.Contains(t, out, "Tripboard")
	assert.Contains(t, out, "New note")
}

func TestBootstrap_TripOverrides(t *testing.T) {
	start := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)
	m := New(Deps{
		Config: config.Default(),
		Clock:  schedule.NewFake(testStart),
		Trip:   Trip{Location: "Lisbon", Start: &start},
	})
	m = step(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	n := welcome(t, m)
	assert.Equal(t, "Lisbon", n.Location)
	require.NotNil(t, n.StartDate)
	assert.True(t, n.StartDate.Equal(start))
	require.NotNil(t, n.EndDate, "unset end keeps the default")
}

func TestDispenser_OpensEditor(t *testing.T) {
	m, _ := newModel(t)
	l := layoutOf(m.width, m.height, m.store)

	m = press(t, m, l.dispenser.x+3, l.dispenser.y+1)
	require.Equal(t, 2, m.store.Len())
	id := m.editor.id
	require.NotEmpty(t, id)
	assert.True(t, m.engine.Editing(id))

	m = typeKeys(t, m, "Rome")
	n, _ := m.store.Note(id)
	assert.Equal(t, "Rome", n.Location)

	m = step(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = typeKeys(t, m, "pasta")
	n, _ = m.store.Note(id)
	assert.Equal(t, "pasta", n.Text)

	m = step(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Empty(t, m.editor.id)
	assert.False(t, m.engine.Editing(id))
	assert.Equal(t, "Rome", m.geocoding[id], "a changed location is geocoded")
}

func TestDrag_TrashAndUndo(t *testing.T) {
	m, h := newModel(t)
	id := welcome(t, m).ID
	r := welcomeRect(t, m)

	m = press(t, m, r.x+3, r.y+5)
	got, ok := m.engine.Dragging()
	require.True(t, ok)
	assert.Equal(t, id, got)

	trash := m.engine.Trash()
	tx, ty := round(trash.X)+trash2(trash.W), round(trash.Y)+trash2(trash.H)
	m = step(t, m, tea.MouseMsg{X: tx, Y: ty, Action: tea.MouseActionMotion})
	assert.True(t, m.engine.Armed())
	assert.Contains(t, m.View(), "Release")

	m = step(t, m, tea.MouseMsg{X: tx, Y: ty, Action: tea.MouseActionRelease})
	assert.Equal(t, drag.Crumpling, m.engine.State(id))
	assert.Equal(t, 1, m.store.Len(), "kept until the crumple finishes")

	h.clock.Advance(drag.DefaultCrumpleDelay)
	assert.Zero(t, m.store.Len())
	m = step(t, m, removedMsg{id: id})
	assert.Contains(t, m.View(), undoLabel)

	m = typeKeys(t, m, "u")
	require.Equal(t, 1, m.store.Len())
	assert.Equal(t, drag.Idle, m.engine.State(id))
	assert.NotContains(t, m.View(), undoLabel)
}

func TestDrag_DiscardForgetsNote(t *testing.T) {
	m, h := newModel(t)
	n := welcome(t, m)
	r := welcomeRect(t, m)
	trash := m.engine.Trash()
	tx, ty := round(trash.X)+trash2(trash.W), round(trash.Y)+trash2(trash.H)

	m = press(t, m, r.x+3, r.y+5)
	m = step(t, m, tea.MouseMsg{X: tx, Y: ty, Action: tea.MouseActionMotion})
	m = step(t, m, tea.MouseMsg{X: tx, Y: ty, Action: tea.MouseActionRelease})
	h.clock.Advance(drag.DefaultCrumpleDelay)
	require.Equal(t, drag.Removed, m.engine.State(n.ID))

	m = step(t, m, discardedMsg{note: n})
	assert.Equal(t, drag.Idle, m.engine.State(n.ID))
}

func trash2(v float64) int { return int(v) / 2 }

func TestDrag_DropOutsideTrashMoves(t *testing.T) {
	m, _ := newModel(t)
	r := welcomeRect(t, m)

	m = press(t, m, r.x+3, r.y+5)
	m = step(t, m, tea.MouseMsg{X: r.x + 13, Y: r.y + 7, Action: tea.MouseActionMotion})
	m = step(t, m, tea.MouseMsg{X: r.x + 13, Y: r.y + 7, Action: tea.MouseActionRelease})

	n := welcome(t, m)
	assert.InDelta(t, float64(r.x+10), n.Position.X, 0.001)
	assert.InDelta(t, float64(r.y+2), n.Position.Y, 0.001)
	assert.Equal(t, drag.Idle, m.engine.State(n.ID))
}

func TestDoubleClick_Edits(t *testing.T) {
	m, h := newModel(t)
	r := welcomeRect(t, m)

	m = press(t, m, r.x+3, r.y+5)
	m = step(t, m, tea.MouseMsg{X: r.x + 3, Y: r.y + 5, Action: tea.MouseActionRelease})
	h.clock.Advance(100 * time.Millisecond)
	m = press(t, m, r.x+3, r.y+5)

	assert.Equal(t, welcome(t, m).ID, m.editor.id)
	assert.Contains(t, m.View(), "Edit note")
}

func TestEditor_ClearingLocationDropsCoordinate(t *testing.T) {
	m, h := newModel(t)
	id := welcome(t, m).ID
	m.store.UpdateNote(id, board.Patch{
		Location:    board.Ptr("Rome"),
		GeoLocation: &board.GeoLocation{Lng: 12.4964, Lat: 41.9028},
	})
	r := welcomeRect(t, m)

	m = press(t, m, r.x+3, r.y+5)
	m = step(t, m, tea.MouseMsg{X: r.x + 3, Y: r.y + 5, Action: tea.MouseActionRelease})
	h.clock.Advance(100 * time.Millisecond)
	m = press(t, m, r.x+3, r.y+5)
	require.Equal(t, id, m.editor.id)

	for range len("Rome") {
		m = step(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	}
	m = step(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	require.Empty(t, m.editor.id)

	n := welcome(t, m)
	assert.Empty(t, n.Location)
	assert.Nil(t, n.GeoLocation)
}

func TestFocus_ToggleAndPanels(t *testing.T) {
	m, _ := newModel(t)
	id := welcome(t, m).ID
	b := focusButton(welcomeRect(t, m))

	m = press(t, m, b.x, b.y)
	v := m.view()
	require.Equal(t, focus.Focused, v.Mode)
	assert.Equal(t, id, v.Note.ID)
	assert.Equal(t, "Paris, France", m.geocoding[id])

	out := m.View()
	assert.Contains(t, out, tabItin)
	assert.Contains(t, out, "Day 1")
	assert.NotContains(t, out, "New note", "chrome hides in focus mode")

	m = step(t, m, geocodedMsg{id: id, place: "Paris, France", res: geo.Resolution{
		Location: board.GeoLocation{Lng: 2.35, Lat: 48.85}, Origin: geo.FromCache,
	}})
	n, _ := m.store.Note(id)
	require.NotNil(t, n.GeoLocation)
	assert.Contains(t, m.View(), "no map key")

	m = step(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, focus.Overview, m.view().Mode)
}

func TestFocus_PagerKeys(t *testing.T) {
	m, _ := newModel(t)
	m = typeKeys(t, m, "m")
	require.Equal(t, focus.Focused, m.view().Mode)
	require.NotNil(t, m.pager)

	m = typeKeys(t, m, "]")
	assert.Equal(t, 1, m.pager.Index())
	m = typeKeys(t, m, "[")
	m = typeKeys(t, m, "[")
	assert.Equal(t, 0, m.pager.Index())
}

func TestChat_SubmitAndReply(t *testing.T) {
	m, _ := newModel(t)
	m = typeKeys(t, m, "m")
	m = step(t, m, tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, tabChatIdx, m.tab)

	m = typeKeys(t, m, "best bakery?")
	m = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	s := m.session()
	require.NotNil(t, s)
	assert.True(t, s.Pending())
	assert.Empty(t, m.chatInput.Value())

	m = step(t, m, chatMsg{session: s, reply: "Try Du Pain et des Idées."})
	assert.False(t, s.Pending())
	entries := s.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "best bakery?", entries[1].Text)
	assert.Contains(t, m.transcript.View(), "Du Pain")
}

func TestCalendar_PickRange(t *testing.T) {
	m, _ := newModel(t)
	id := welcome(t, m).ID
	d := dateRow(welcomeRect(t, m))

	m = press(t, m, d.x+2, d.y)
	got, ok := m.store.EditingDate()
	require.True(t, ok)
	assert.Equal(t, id, got)
	assert.Contains(t, m.View(), "Trip dates")

	r := calendarRect(m.width, m.height)
	clickDay := func(m Model, day int) Model {
		for wk, week := range m.cal.Grid() {
			for col, dd := range week {
				if dd == day {
					return press(t, m, r.x+2+col*4+2, r.y+calGridRow+wk)
				}
			}
		}
		t.Fatalf("day %d not in grid", day)
		return m
	}

	m = clickDay(m, 20)
	m = clickDay(m, 23)
	n, _ := m.store.Note(id)
	assert.Equal(t, "Oct 20 - Oct 23", n.DateLabel())

	m = press(t, m, r.x+r.w-4, r.y+calBtnRow)
	_, ok = m.store.EditingDate()
	assert.False(t, ok)
}

func TestFinder_FocusesMatch(t *testing.T) {
	m, _ := newModel(t)
	l := layoutOf(m.width, m.height, m.store)
	m = press(t, m, l.dispenser.x+3, l.dispenser.y+1)
	m = typeKeys(t, m, "Kyoto")
	m = step(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	require.Empty(t, m.editor.id)

	m = typeKeys(t, m, "/")
	require.True(t, m.finder.open)
	assert.Len(t, m.finder.matches, 2)

	m = typeKeys(t, m, "kyo")
	require.Len(t, m.finder.matches, 1)
	m = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.False(t, m.finder.open)
	v := m.view()
	require.Equal(t, focus.Focused, v.Mode)
	assert.Equal(t, "Kyoto", v.Note.Location)
}

func TestThemePicker(t *testing.T) {
	m, _ := newModel(t)
	l := layoutOf(m.width, m.height, m.store)

	m = press(t, m, l.night.x, l.night.y)
	assert.True(t, m.store.NightMode())
	assert.Contains(t, m.View(), "Night")

	before := m.store.Background()
	m = typeKeys(t, m, "b")
	assert.NotEqual(t, before, m.store.Background())
	assert.True(t, strings.HasPrefix(m.status, "background: "))
}

func TestExportAndCopy(t *testing.T) {
	m, h := newModel(t)

	msg := m.export()()
	exp, ok := msg.(exportedMsg)
	require.True(t, ok)
	require.NoError(t, exp.err)
	assert.Contains(t, exp.path, "tripboard-20261014-090000.png")
	_, err := os.Stat(exp.path)
	assert.NoError(t, err)

	st, ok := m.copyNote()().(statusMsg)
	require.True(t, ok)
	assert.False(t, st.err)
	require.Len(t, h.copied, 1)
	assert.Equal(t, Summary(welcome(t, m)), h.copied[0])
	assert.True(t, strings.HasPrefix(h.copied[0], "Paris, France\nOct 14 - Oct 17"))
}

func TestHelpOverlay(t *testing.T) {
	m, _ := newModel(t)
	m = typeKeys(t, m, "?")
	assert.True(t, m.showHelp)
	assert.Contains(t, m.View(), "Tripboard keys")

	m = typeKeys(t, m, "x")
	assert.False(t, m.showHelp)
}

func TestView_SmallTerminal(t *testing.T) {
	m := New(Deps{Config: config.Default(), Clock: schedule.NewFake(testStart)})
	assert.Empty(t, m.View())

	m = step(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	out := m.View()
	assert.Len(t, strings.Split(out, "\n"), 24)
	m = typeKeys(t, m, "m")
	assert.NotEmpty(t, m.View())
}

func TestConfigReload_RetunesBoard(t *testing.T) {
	m, _ := newModel(t)
	cfg := config.Default()
	cfg.Board.Trash = drag.TrashConfig{Width: 20, Height: 6}

	m = step(t, m, configMsg{cfg: cfg})
	assert.Equal(t, board.Rect{X: 140, Y: 42, W: 20, H: 6}, m.engine.Trash())
	assert.Equal(t, "config reloaded", m.status)
}
