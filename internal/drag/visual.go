package drag

import "github.com/ramanasai/tripboard/internal/board"

// FocusedZ keeps the focused note above everything else.
const FocusedZ = 99999

// Visual is how a note should be drawn right now. It never feeds back into
// the store.
type Visual struct {
	Position board.Point
	Width    float64
	Height   float64
	Rotation float64
	Scale    float64
	Opacity  float64
	ZIndex   int
	Color    string

	State    State
	Editing  bool
	Focused  bool
	Faded    bool // another note is focused
	Dragging bool
}

// Visual projects n, with the focused slot taken from slot when n is the
// focused note.
func (e *Engine) Visual(n board.Note, slot *board.Rect) Visual {
	e.mu.Lock()
	defer e.mu.Unlock()

	v := Visual{
		Position: n.Position,
		Width:    n.Width,
		Height:   n.Height,
		Rotation: n.Rotation,
		Scale:    1,
		Opacity:  1,
		ZIndex:   n.ZIndex,
		Color:    n.Color,
	}
	if ns, ok := e.notes[n.ID]; ok {
		v.State = ns.state
		v.Editing = ns.editing
	}
	v.Dragging = e.active != nil && e.active.id == n.ID

	if id, ok := e.board.Focused(); ok {
		if id == n.ID {
			v.Focused = true
			v.Rotation = 0
			v.ZIndex = FocusedZ
			if slot != nil {
				v.Position = board.Point{X: slot.X, Y: slot.Y}
				v.Width, v.Height = slot.W, slot.H
			}
			return v
		}
		v.Faded = true
		v.Opacity = 0.4
	}

	switch v.State {
	case Armed:
		v.Color = board.ArmedColor
		v.Rotation = 15
		v.Scale = 0.9
		v.Opacity = 0.8
	case Crumpling, Removed:
		c := e.trash.Center()
		v.Position = board.Point{X: c.X - n.Width/2, Y: c.Y - n.Height/2}
		v.Rotation = 720
		v.Scale = 0.1
		v.Opacity = 0
	}
	return v
}
