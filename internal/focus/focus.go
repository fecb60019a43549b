// Package focus decides what the board looks like when one note is pulled
// out for planning.
package focus

import (
	"time"

	"github.com/ramanasai/tripboard/internal/board"
)

// FocusedHeight is the fixed height of the focused note, leaving the rest of
// the left column to the itinerary and chat panels.
const FocusedHeight = 8

type Mode int

const (
	Overview Mode = iota
	Focused
)

func (m Mode) String() string {
	if m == Focused {
		return "focused"
	}
	return "overview"
}

// Chrome lists the board-level controls that are visible.
type Chrome struct {
	ThemePicker bool
	Dispenser   bool
	Trash       bool
	UndoToast   bool
}

// Panels is what the auxiliary panels are keyed off.
type Panels struct {
	Location  string
	Geo       *board.GeoLocation
	StartDate *time.Time
	EndDate   *time.Time
}

// View is the projection of the store for one frame.
type View struct {
	Mode   Mode
	Note   board.Note
	Slot   board.Rect
	Chrome Chrome
	Panels Panels
}

// Reader is what Project needs from the store.
type Reader interface {
	Focused() (string, bool)
	Note(id string) (board.Note, bool)
	LastDeleted() (board.Note, bool)
}

// Slot is the top-left rectangle the focused note moves into.
func Slot(viewport board.Size) board.Rect {
	w := viewport.W/4 - 2
	if w < board.NoteWidth {
		w = board.NoteWidth
	}
	return board.Rect{X: 1, Y: 2, W: w, H: FocusedHeight}
}

// Project computes the view. A focus id pointing at a note that no longer
// exists is treated as overview.
func Project(r Reader, viewport board.Size) View {
	_, pending := r.LastDeleted()
	overview := View{
		Mode: Overview,
		Chrome: Chrome{
			ThemePicker: true,
			Dispenser:   true,
			Trash:       true,
			UndoToast:   pending,
		},
	}

	id, ok := r.Focused()
	if !ok {
		return overview
	}
	n, ok := r.Note(id)
	if !ok {
		return overview
	}
	return View{
		Mode: Focused,
		Note: n,
		Slot: Slot(viewport),
		Panels: Panels{
			Location:  n.Location,
			Geo:       n.GeoLocation,
			StartDate: n.StartDate,
			EndDate:   n.EndDate,
		},
	}
}

// Interactive reports whether the note accepts pointer input in this view.
// While a note is focused every other note is faded out of reach.
func (v View) Interactive(id string) bool {
	return v.Mode == Overview || v.Note.ID == id
}
