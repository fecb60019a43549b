// Package drag turns pointer events into note moves, trash drops and edit
// toggles. It owns the per-note interaction state; the board store owns the
// notes themselves.
package drag

import (
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/ramanasai/tripboard/internal/board"
	"github.com/ramanasai/tripboard/internal/schedule"
)

// State is where a note sits in the drag lifecycle.
type State int

const (
	Idle State = iota
	Dragging
	Armed
	Crumpling
	Removed
)

func (s State) String() string {
	switch s {
	case Dragging:
		return "dragging"
	case Armed:
		return "armed"
	case Crumpling:
		return "crumpling"
	case Removed:
		return "removed"
	default:
		return "idle"
	}
}

// Board is the slice of the store the engine writes through.
type Board interface {
	Note(id string) (board.Note, bool)
	UpdateNote(id string, p board.Patch) bool
	BringToFront(id string) bool
	DeleteNote(id string) bool
	Focused() (string, bool)
}

const (
	DefaultCrumpleDelay = 500 * time.Millisecond
	DefaultFreshWindow  = 1000 * time.Millisecond
)

// Options tune an Engine. Zero fields fall back to defaults.
type Options struct {
	Trash        TrashConfig
	CrumpleDelay time.Duration
	FreshWindow  time.Duration
	Clock        schedule.Clock

	// FocusSlot places the focused note. Without it the focused note keeps
	// its board footprint.
	FocusSlot func(viewport board.Size) board.Rect

	// OnHover fires when a drag enters or leaves the trash zone. It runs
	// after the engine lock is released.
	OnHover func(over bool)
	// OnRemoved fires on the timer goroutine once a crumpled note is gone.
	OnRemoved func(id string)

	Logger *slog.Logger
}

type noteState struct {
	state   State
	editing bool
	mounted bool
	timer   schedule.Timer
}

type grab struct {
	id     string
	offset board.Point
	armed  bool
}

// Engine is safe for concurrent use; crumple timers call back into it.
type Engine struct {
	mu       sync.Mutex
	board    Board
	opts     Options
	viewport board.Size
	trash    board.Rect
	active   *grab
	notes    map[string]*noteState
}

func (o *Options) tune() {
	if o.Trash == (TrashConfig{}) {
		o.Trash = DefaultTrash
	}
	if o.CrumpleDelay <= 0 {
		o.CrumpleDelay = DefaultCrumpleDelay
	}
	if o.FreshWindow <= 0 {
		o.FreshWindow = DefaultFreshWindow
	}
}

func New(b Board, opts Options) *Engine {
	opts.tune()
	if opts.Clock == nil {
		opts.Clock = schedule.Real()
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{board: b, opts: opts, notes: map[string]*noteState{}}
}

// SetViewport recomputes the trash zone for a new screen size.
func (e *Engine) SetViewport(v board.Size) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.viewport = v
	e.trash = TrashZone(e.opts.Trash, v)
}

// Retune swaps the trash geometry and timings of a running engine. Crumples
// already scheduled keep their delay.
func (e *Engine) Retune(trash TrashConfig, crumple, fresh time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opts.Trash, e.opts.CrumpleDelay, e.opts.FreshWindow = trash, crumple, fresh
	e.opts.tune()
	e.trash = TrashZone(e.opts.Trash, e.viewport)
}

// Trash is the current drop zone.
func (e *Engine) Trash() board.Rect {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.trash
}

// OverTrash is the hit test Move uses to arm a drag.
func (e *Engine) OverTrash(p board.Point) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.trash.Contains(p)
}

func (e *Engine) get(id string) *noteState {
	ns, ok := e.notes[id]
	if !ok {
		ns = &noteState{}
		e.notes[id] = ns
	}
	return ns
}

// Press starts dragging the note under the pointer. It refuses while the
// note is being edited, crumpled or focused. Keeping other notes out of
// reach during focus mode is up to the caller.
func (e *Engine) Press(id string, p board.Point) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.active != nil {
		return false
	}
	n, ok := e.board.Note(id)
	if !ok {
		return false
	}
	if focused, ok := e.board.Focused(); ok && focused == id {
		return false
	}
	ns := e.get(id)
	if ns.editing || ns.state == Crumpling || ns.state == Removed {
		return false
	}

	e.board.BringToFront(id)
	e.active = &grab{id: id, offset: p.Sub(n.Position)}
	ns.state = Dragging
	return true
}

// Move follows the pointer with the grabbed note and tracks whether it is
// over the trash.
func (e *Engine) Move(p board.Point) bool {
	e.mu.Lock()
	g := e.active
	if g == nil {
		e.mu.Unlock()
		return false
	}
	pos := p.Sub(g.offset)
	e.board.UpdateNote(g.id, board.Patch{Position: &pos})

	over := e.trash.Contains(p)
	changed := over != g.armed
	if changed {
		g.armed = over
		if over {
			e.get(g.id).state = Armed
		} else {
			e.get(g.id).state = Dragging
		}
	}
	e.mu.Unlock()

	if changed {
		e.hover(over)
	}
	return true
}

// Release ends the drag. A note armed by the last Move crumples and is
// deleted from the board after the crumple delay. The release position is
// not hit-tested again.
func (e *Engine) Release() State {
	e.mu.Lock()
	g := e.active
	if g == nil {
		e.mu.Unlock()
		return Idle
	}
	e.active = nil
	ns := e.get(g.id)

	if !g.armed {
		ns.state = Idle
		e.mu.Unlock()
		return Idle
	}

	ns.state = Crumpling
	id := g.id
	ns.timer = e.opts.Clock.AfterFunc(e.opts.CrumpleDelay, func() { e.remove(id) })
	e.mu.Unlock()

	e.opts.Logger.Debug("note dropped on trash", "id", id)
	e.hover(false)
	return Crumpling
}

func (e *Engine) remove(id string) {
	e.mu.Lock()
	ns, ok := e.notes[id]
	if !ok || ns.state != Crumpling {
		e.mu.Unlock()
		return
	}
	ns.state = Removed
	ns.timer = nil
	ns.editing = false
	e.board.DeleteNote(id)
	e.mu.Unlock()

	if e.opts.OnRemoved != nil {
		e.opts.OnRemoved(id)
	}
}

func (e *Engine) hover(over bool) {
	if e.opts.OnHover != nil {
		e.opts.OnHover(over)
	}
}

// Mount is called the first time a note is drawn. A just-dispensed empty
// note enters editing; every later call is a no-op.
func (e *Engine) Mount(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	ns := e.get(id)
	if ns.mounted {
		return false
	}
	ns.mounted = true
	n, ok := e.board.Note(id)
	if !ok || !n.Fresh(e.opts.Clock.Now(), e.opts.FreshWindow) {
		return false
	}
	ns.editing = true
	return true
}

// DoubleClick opens the note for editing, focused or not.
func (e *Engine) DoubleClick(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.board.Note(id); !ok {
		return false
	}
	ns := e.get(id)
	if ns.state == Crumpling || ns.state == Removed {
		return false
	}
	ns.editing = true
	return true
}

func (e *Engine) StopEditing(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if ns, ok := e.notes[id]; ok {
		ns.editing = false
	}
}

// PointerDown closes editing on every note the press landed outside of.
// It returns the ids that stopped editing.
func (e *Engine) PointerDown(p board.Point) []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	var closed []string
	for id, ns := range e.notes {
		if !ns.editing {
			continue
		}
		n, ok := e.board.Note(id)
		if ok && e.bounds(n).Contains(p) {
			continue
		}
		ns.editing = false
		closed = append(closed, id)
	}
	return closed
}

func (e *Engine) bounds(n board.Note) board.Rect {
	if id, ok := e.board.Focused(); ok && id == n.ID && e.opts.FocusSlot != nil {
		slot := e.opts.FocusSlot(e.viewport)
		return board.Rect{X: slot.X, Y: slot.Y, W: slot.W - 1, H: slot.H - 1}
	}
	return n.Bounds()
}

func (e *Engine) State(id string) State {
	e.mu.Lock()
	defer e.mu.Unlock()
	if ns, ok := e.notes[id]; ok {
		return ns.state
	}
	return Idle
}

func (e *Engine) Editing(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	ns, ok := e.notes[id]
	return ok && ns.editing
}

// Editor returns the note currently being edited, if any. Several notes may
// be in editing at once; the most recently raised one wins.
func (e *Engine) Editor() (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var (
		best string
		z    = -1
	)
	for id, ns := range e.notes {
		if !ns.editing {
			continue
		}
		if n, ok := e.board.Note(id); ok && n.ZIndex > z {
			best, z = id, n.ZIndex
		}
	}
	return best, z >= 0
}

// Dragging returns the grabbed note id.
func (e *Engine) Dragging() (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.active == nil {
		return "", false
	}
	return e.active.id, true
}

// Armed reports whether the current drag hovers over the trash.
func (e *Engine) Armed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active != nil && e.active.armed
}

// Reset returns a note to Idle, as after an undo. A pending crumple is
// cancelled.
func (e *Engine) Reset(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	ns, ok := e.notes[id]
	if !ok {
		return
	}
	if ns.timer != nil {
		ns.timer.Stop()
		ns.timer = nil
	}
	ns.state = Idle
	ns.editing = false
	ns.mounted = true
}

// Forget drops all interaction state for a note that can no longer be
// restored.
func (e *Engine) Forget(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if ns, ok := e.notes[id]; ok && ns.timer != nil {
		ns.timer.Stop()
	}
	delete(e.notes, id)
	if e.active != nil && e.active.id == id {
		e.active = nil
	}
}
