package board

import (
	"io"
	"log/slog"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ramanasai/tripboard/internal/schedule"
)

// DefaultUndoWindow is how long a deleted note stays restorable.
const DefaultUndoWindow = 4 * time.Second

// WelcomeText is written on the bootstrap note.
const WelcomeText = "Welcome!\n1. Click [M] on a note to plan.\n2. Double-click to edit, ctrl+d for dates.\n3. Drag to trash to delete."

// Store owns every note on the board plus the board-wide display state.
// All mutations go through its methods; reads return copies.
type Store struct {
	mu sync.Mutex

	notes   []Note
	maxZ    int
	pending *pendingDelete

	focused     string
	editingDate string
	night       bool
	background  string

	clock      schedule.Clock
	rng        *rand.Rand
	newID      func() string
	undoWindow time.Duration
	spawn      Point
	onDiscard  func(Note)
	logger     *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

func WithClock(c schedule.Clock) Option { return func(s *Store) { s.clock = c } }

// WithRand injects the random source for colors, highlighters and tilt.
func WithRand(r *rand.Rand) Option { return func(s *Store) { s.rng = r } }

// WithSeed is WithRand over a PCG source seeded with seed.
func WithSeed(seed uint64) Option {
	return WithRand(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

func WithIDs(fn func() string) Option { return func(s *Store) { s.newID = fn } }

func WithUndoWindow(d time.Duration) Option { return func(s *Store) { s.undoWindow = d } }

// SetUndoWindow changes the window for later deletions.
func (s *Store) SetUndoWindow(d time.Duration) {
	if d <= 0 {
		d = DefaultUndoWindow
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.undoWindow = d
}

// WithSpawn sets where notes without an explicit position appear.
func WithSpawn(p Point) Option { return func(s *Store) { s.spawn = p } }

// WithDiscardHook is called once a deleted note can no longer be restored.
func WithDiscardHook(fn func(Note)) Option { return func(s *Store) { s.onDiscard = fn } }

func WithLogger(l *slog.Logger) Option { return func(s *Store) { s.logger = l } }

// NewStore creates an empty board in day mode.
func NewStore(opts ...Option) *Store {
	s := &Store{
		maxZ:       1,
		background: DefaultDayBackground,
		clock:      schedule.Real(),
		newID:      uuid.NewString,
		undoWindow: DefaultUndoWindow,
		spawn:      Point{X: 8, Y: 4},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s
}

// CreateNote appends a new note on top of the stack. Unset fields get
// randomized defaults. It never fails.
func (s *Store) CreateNote(o Overrides) Note {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.maxZ++
	n := Note{
		ID:               s.newID(),
		HighlighterColor: randomHighlighter(s.rng),
		Color:            randomNoteColor(s.rng),
		Rotation:         randomRotation(s.rng),
		Position:         s.spawn,
		ZIndex:           s.maxZ,
		CreatedAt:        s.clock.Now(),
		Width:            NoteWidth,
		Height:           NoteHeight,
	}
	if o.Text != nil {
		n.Text = *o.Text
	}
	if o.Location != nil {
		n.Location = *o.Location
	}
	n.StartDate = millis(o.StartDate)
	n.EndDate = millis(o.EndDate)
	if o.Color != nil {
		n.Color = *o.Color
	}
	if o.HighlighterColor != nil {
		n.HighlighterColor = *o.HighlighterColor
	}
	if o.Rotation != nil {
		n.Rotation = *o.Rotation
	}
	if o.Position != nil {
		n.Position = *o.Position
	}

	s.notes = append(s.notes, n)
	s.logger.Debug("note created", "id", n.ID, "z", n.ZIndex)
	return n
}

// UpdateNote merges p into the note. Unknown ids are ignored.
func (s *Store) UpdateNote(id string, p Patch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	p.apply(&s.notes[i])
	return true
}

// DeleteNote removes the note and parks it in the undo slot, restarting the
// undo window. A note already in the slot is lost for good. Unknown ids are
// ignored.
func (s *Store) DeleteNote(id string) bool {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	n := s.notes[i]
	s.notes = slices.Delete(s.notes, i, i+1)
	if s.focused == id {
		s.focused = ""
	}
	if s.editingDate == id {
		s.editingDate = ""
	}
	lost, hadLost := s.park(n)
	s.mu.Unlock()

	s.logger.Debug("note deleted", "id", id)
	if hadLost {
		s.discarded(lost)
	}
	return true
}

// BringToFront gives the note a new maximum zIndex. It does nothing while a
// note is focused.
func (s *Store) BringToFront(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.focused != "" {
		return false
	}
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.maxZ++
	s.notes[i].ZIndex = s.maxZ
	return true
}

// Note returns a copy of the live note with the given id.
func (s *Store) Note(id string) (Note, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return s.notes[i], true
	}
	return Note{}, false
}

// Notes returns the live notes in insertion order.
func (s *Store) Notes() []Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.notes)
}

// Stack returns the live notes ordered bottom to top.
func (s *Store) Stack() []Note {
	out := s.Notes()
	slices.SortStableFunc(out, func(a, b Note) int { return a.ZIndex - b.ZIndex })
	return out
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.notes)
}

// MaxZ is the running stacking maximum.
func (s *Store) MaxZ() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.maxZ
}

// Now is the store's clock reading.
func (s *Store) Now() time.Time { return s.clock.Now() }

func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.notes, func(n Note) bool { return n.ID == id })
}

// Focused returns the focused note id, if any.
func (s *Store) Focused() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.focused, s.focused != ""
}

// SetFocus focuses the note, replacing any previous focus.
func (s *Store) SetFocus(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOf(id) < 0 {
		return false
	}
	s.focused = id
	return true
}

func (s *Store) ClearFocus() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.focused = ""
}

// EditingDate returns the note whose dates are being picked.
func (s *Store) EditingDate() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editingDate, s.editingDate != ""
}

func (s *Store) SetEditingDate(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOf(id) < 0 {
		return false
	}
	s.editingDate = id
	return true
}

func (s *Store) ClearEditingDate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editingDate = ""
}

func (s *Store) NightMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.night
}

// ToggleNightMode flips day/night and resets the background to the new
// mode's default. Note colors are unaffected.
func (s *Store) ToggleNightMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.night = !s.night
	if s.night {
		s.background = DefaultNightBackground
	} else {
		s.background = DefaultDayBackground
	}
	return s.night
}

func (s *Store) Background() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.background
}

func (s *Store) SetBackground(hex string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.background = hex
}

// CycleBackground steps to the next swatch of the current mode's palette.
func (s *Store) CycleBackground() Swatch {
	s.mu.Lock()
	defer s.mu.Unlock()
	boards := Boards(s.night)
	i := slices.IndexFunc(boards, func(sw Swatch) bool { return sw.Value == s.background })
	next := boards[(i+1)%len(boards)]
	s.background = next.Value
	return next
}

// Bootstrap places the welcome note in the middle of the viewport.
func (s *Store) Bootstrap(viewport Size) Note {
	now := s.clock.Now()
	end := now.Add(3 * 24 * time.Hour)
	return s.CreateNote(Overrides{
		Text:      Ptr(WelcomeText),
		Location:  Ptr("Paris, France"),
		StartDate: &now,
		EndDate:   &end,
		Color:     Ptr(NoteColors[0]),
		Rotation:  Ptr(-2.0),
		Position:  Ptr(Point{X: viewport.W/2 - NoteWidth/2, Y: viewport.H/2 - NoteHeight/2}),
	})
}

// Dispense pulls a fresh note from the dispenser in the bottom-left corner,
// jittered so repeated pulls do not stack exactly.
func (s *Store) Dispense(viewport Size) Note {
	s.mu.Lock()
	off := float64(s.rng.IntN(4))
	s.mu.Unlock()
	return s.CreateNote(Overrides{
		Position: Ptr(Point{X: 4 + off, Y: viewport.H - NoteHeight - 6 - off/2}),
	})
}
