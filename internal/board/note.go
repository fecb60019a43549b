package board

import (
	"fmt"
	"time"
)

// Notes have a fixed footprint on the board, in cells.
const (
	NoteWidth  = 26
	NoteHeight = 10
)

// Point is a position in board coordinates.
type Point struct {
	X, Y float64
}

func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Size is a width/height pair, usually the viewport.
type Size struct {
	W, H float64
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether p lies inside r. Both edges are inclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.W &&
		p.Y >= r.Y && p.Y <= r.Y+r.H
}

func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// GeoLocation is a resolved longitude/latitude pair.
type GeoLocation struct {
	Lng float64 `json:"lng"`
	Lat float64 `json:"lat"`
}

func (g GeoLocation) String() string {
	return fmt.Sprintf("%.4f, %.4f", g.Lng, g.Lat)
}

// Note is one sticky note on the board.
type Note struct {
	ID               string
	Text             string
	Location         string
	GeoLocation      *GeoLocation
	StartDate        *time.Time
	EndDate          *time.Time
	HighlighterColor string
	Position         Point
	Color            string
	ZIndex           int
	Rotation         float64
	CreatedAt        time.Time
	Width            float64
	Height           float64
}

// Bounds is the note's footprint at its stored position.
func (n Note) Bounds() Rect {
	return Rect{X: n.Position.X, Y: n.Position.Y, W: n.Width - 1, H: n.Height - 1}
}

// Fresh reports whether the note was just dispensed and nothing was typed
// into it yet.
func (n Note) Fresh(now time.Time, window time.Duration) bool {
	return n.Text == "" && n.Location == "" && now.Sub(n.CreatedAt) < window
}

// DateLabel formats the trip range as "Jan 2 - Jan 5". A missing side is
// shown as "?"; with no dates at all the label is empty.
func (n Note) DateLabel() string {
	if n.StartDate == nil && n.EndDate == nil {
		return ""
	}
	return shortDate(n.StartDate) + " - " + shortDate(n.EndDate)
}

func shortDate(t *time.Time) string {
	if t == nil {
		return "?"
	}
	return t.Format("Jan 2")
}

// DateRange sets both trip dates at once. A nil side clears that date.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// Patch is a partial update. Nil fields are left untouched. Fields fixed at
// creation (id, colors, rotation, zIndex, createdAt, size) cannot be patched.
type Patch struct {
	Text        *string
	Location    *string
	GeoLocation *GeoLocation
	Dates       *DateRange
	Position    *Point

	// ClearGeo forgets the resolved coordinate. GeoLocation wins if both
	// are set.
	ClearGeo bool
}

func (p Patch) apply(n *Note) {
	if p.Text != nil {
		n.Text = *p.Text
	}
	if p.Location != nil {
		n.Location = *p.Location
	}
	if p.ClearGeo {
		n.GeoLocation = nil
	}
	if p.GeoLocation != nil {
		g := *p.GeoLocation
		n.GeoLocation = &g
	}
	if p.Dates != nil {
		n.StartDate = millis(p.Dates.Start)
		n.EndDate = millis(p.Dates.End)
	}
	if p.Position != nil {
		n.Position = *p.Position
	}
}

// Overrides replaces randomized or default fields when creating a note.
type Overrides struct {
	Text             *string
	Location         *string
	StartDate        *time.Time
	EndDate          *time.Time
	Color            *string
	HighlighterColor *string
	Rotation         *float64
	Position         *Point
}

// Ptr is a small helper for building Patch and Overrides literals.
func Ptr[T any](v T) *T { return &v }

// Trip dates are kept at millisecond precision.
func millis(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.Truncate(time.Millisecond)
	return &v
}
