package board

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/ramanasai/tripboard/internal/schedule"
)

var epoch = time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)

func newTestStore(opts ...Option) (*Store, *schedule.Fake) {
	clk := schedule.NewFake(epoch)
	n := 0
	base := []Option{
		WithClock(clk),
		WithSeed(42),
		WithIDs(func() string { n++; return fmt.Sprintf("note-%d", n) }),
	}
	return NewStore(append(base, opts...)...), clk
}

func TestCreateNote_Defaults(t *testing.T) {
	s, _ := newTestStore()
	n := s.CreateNote(Overrides{})

	assert.Equal(t, "note-1", n.ID)
	assert.Equal(t, "", n.Text)
	assert.Equal(t, "", n.Location)
	assert.Nil(t, n.StartDate)
	assert.Nil(t, n.EndDate)
	assert.Nil(t, n.GeoLocation)
	assert.Contains(t, NoteColors, n.Color)
	assert.Contains(t, HighlighterColors, n.HighlighterColor)
	assert.GreaterOrEqual(t, n.Rotation, -3.0)
	assert.Less(t, n.Rotation, 3.0)
	assert.Equal(t, epoch, n.CreatedAt)
	assert.Equal(t, float64(NoteWidth), n.Width)
	assert.Equal(t, float64(NoteHeight), n.Height)
	assert.Equal(t, 2, n.ZIndex)
}

func TestCreateNote_Overrides(t *testing.T) {
	s, _ := newTestStore()
	start := epoch.Add(1500 * time.Microsecond)
	n := s.CreateNote(Overrides{
		Text:      Ptr("remarks"),
		Location:  Ptr("Tokyo"),
		StartDate: &start,
		Color:     Ptr("#e0e7ff"),
		Rotation:  Ptr(1.5),
		Position:  Ptr(Point{X: 10, Y: 20}),
	})

	assert.Equal(t, "remarks", n.Text)
	assert.Equal(t, "Tokyo", n.Location)
	require.NotNil(t, n.StartDate)
	assert.Equal(t, epoch.Add(time.Millisecond), *n.StartDate, "dates are kept at millisecond precision")
	assert.Nil(t, n.EndDate)
	assert.Equal(t, "#e0e7ff", n.Color)
	assert.Equal(t, 1.5, n.Rotation)
	assert.Equal(t, Point{X: 10, Y: 20}, n.Position)
}

func TestCreateNote_SeedIsDeterministic(t *testing.T) {
	a, _ := newTestStore()
	b, _ := newTestStore()
	for i := 0; i < 5; i++ {
		na, nb := a.CreateNote(Overrides{}), b.CreateNote(Overrides{})
		assert.Equal(t, na.Color, nb.Color)
		assert.Equal(t, na.HighlighterColor, nb.HighlighterColor)
		assert.Equal(t, na.Rotation, nb.Rotation)
	}
}

func TestCreateNote_ZIndexStrictlyIncreasing(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s, _ := newTestStore()
		count := rapid.IntRange(1, 40).Draw(t, "count")
		seen := map[int]bool{}
		last := 0
		for i := 0; i < count; i++ {
			if rapid.Bool().Draw(t, "bump") && s.Len() > 0 {
				notes := s.Notes()
				target := notes[rapid.IntRange(0, len(notes)-1).Draw(t, "target")]
				s.BringToFront(target.ID)
			}
			n := s.CreateNote(Overrides{})
			if n.ZIndex <= last {
				t.Fatalf("zIndex %d not greater than previous %d", n.ZIndex, last)
			}
			if seen[n.ZIndex] {
				t.Fatalf("zIndex %d reused", n.ZIndex)
			}
			seen[n.ZIndex] = true
			last = n.ZIndex
		}
		live := map[int]bool{}
		for _, n := range s.Notes() {
			if live[n.ZIndex] {
				t.Fatalf("duplicate live zIndex %d", n.ZIndex)
			}
			live[n.ZIndex] = true
		}
	})
}

func TestUpdateNote_LocationRoundTrip(t *testing.T) {
	s, _ := newTestStore()
	before := s.CreateNote(Overrides{Text: Ptr("keep me")})

	require.True(t, s.UpdateNote(before.ID, Patch{Location: Ptr("Tokyo")}))

	after, ok := s.Note(before.ID)
	require.True(t, ok)
	assert.Equal(t, "Tokyo", after.Location)
	after.Location = before.Location
	assert.Equal(t, before, after, "every other field is unchanged")
}

func TestUpdateNote_ClearGeo(t *testing.T) {
	s, _ := newTestStore()
	n := s.CreateNote(Overrides{})
	s.UpdateNote(n.ID, Patch{GeoLocation: &GeoLocation{Lng: 2.3522, Lat: 48.8566}})

	s.UpdateNote(n.ID, Patch{ClearGeo: true})
	got, _ := s.Note(n.ID)
	assert.Nil(t, got.GeoLocation)

	s.UpdateNote(n.ID, Patch{ClearGeo: true, GeoLocation: &GeoLocation{Lng: 1, Lat: 2}})
	got, _ = s.Note(n.ID)
	require.NotNil(t, got.GeoLocation)
	assert.Equal(t, GeoLocation{Lng: 1, Lat: 2}, *got.GeoLocation)
}

func TestUpdateNote_UnknownIDIsNoop(t *testing.T) {
	s, _ := newTestStore()
	s.CreateNote(Overrides{})
	before := s.Notes()

	assert.False(t, s.UpdateNote("missing", Patch{Text: Ptr("x")}))
	assert.Equal(t, before, s.Notes())
}

func TestUpdateNote_DatesDoNotRevalidateOrder(t *testing.T) {
	s, _ := newTestStore()
	n := s.CreateNote(Overrides{})
	start, end := epoch.Add(48*time.Hour), epoch

	s.UpdateNote(n.ID, Patch{Dates: &DateRange{Start: &start, End: &end}})

	got, _ := s.Note(n.ID)
	require.NotNil(t, got.StartDate)
	require.NotNil(t, got.EndDate)
	assert.True(t, got.StartDate.After(*got.EndDate), "store keeps reversed ranges as given")
}

func TestUpdateNote_GeoLocationIsCopied(t *testing.T) {
	s, _ := newTestStore()
	n := s.CreateNote(Overrides{})
	geo := GeoLocation{Lng: 2.35, Lat: 48.85}

	s.UpdateNote(n.ID, Patch{GeoLocation: &geo})
	geo.Lng = 0

	got, _ := s.Note(n.ID)
	require.NotNil(t, got.GeoLocation)
	assert.Equal(t, 2.35, got.GeoLocation.Lng)
}

func TestDeleteRestore_RoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s, _ := newTestStore()
		count := rapid.IntRange(1, 10).Draw(t, "count")
		for i := 0; i < count; i++ {
			s.CreateNote(Overrides{Text: Ptr(fmt.Sprint(i))})
		}
		before := s.Notes()
		victim := before[rapid.IntRange(0, count-1).Draw(t, "victim")]

		if !s.DeleteNote(victim.ID) {
			t.Fatalf("delete of live note reported false")
		}
		restored, ok := s.RestoreNote()
		if !ok {
			t.Fatalf("restore with occupied slot reported false")
		}
		if restored != victim {
			t.Fatalf("restored note differs: %+v vs %+v", restored, victim)
		}
		assert.ElementsMatch(t, before, s.Notes())
	})
}

func TestRestore_KeepsStaleZIndex(t *testing.T) {
	s, _ := newTestStore()
	a := s.CreateNote(Overrides{})
	s.DeleteNote(a.ID)
	b := s.CreateNote(Overrides{})

	restored, ok := s.RestoreNote()
	require.True(t, ok)
	assert.Equal(t, a.ZIndex, restored.ZIndex)
	assert.Less(t, restored.ZIndex, b.ZIndex, "restored note renders beneath newer notes")

	stack := s.Stack()
	assert.Equal(t, a.ID, stack[0].ID)
}

func TestRestore_EmptySlotIsNoop(t *testing.T) {
	s, _ := newTestStore()
	s.CreateNote(Overrides{})
	before := s.Notes()

	_, ok := s.RestoreNote()
	assert.False(t, ok)
	assert.Equal(t, before, s.Notes())
}

func TestDelete_UnknownIDIsNoop(t *testing.T) {
	s, clk := newTestStore()
	s.CreateNote(Overrides{})

	assert.False(t, s.DeleteNote("missing"))
	_, ok := s.LastDeleted()
	assert.False(t, ok)
	assert.Equal(t, 0, clk.Pending())
}

func TestDelete_WindowExpires(t *testing.T) {
	var discarded []string
	s, clk := newTestStore(WithDiscardHook(func(n Note) { discarded = append(discarded, n.ID) }))
	n := s.CreateNote(Overrides{})
	s.DeleteNote(n.ID)

	clk.Advance(DefaultUndoWindow - time.Millisecond)
	_, ok := s.LastDeleted()
	assert.True(t, ok, "still restorable just before the window closes")

	clk.Advance(time.Millisecond)
	_, ok = s.LastDeleted()
	assert.False(t, ok)
	assert.Equal(t, []string{n.ID}, discarded)

	_, ok = s.RestoreNote()
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len())
}

func TestSetUndoWindow_AppliesToLaterDeletes(t *testing.T) {
	s, clk := newTestStore()
	s.SetUndoWindow(time.Second)
	n := s.CreateNote(Overrides{})
	s.DeleteNote(n.ID)

	clk.Advance(time.Second)
	_, ok := s.LastDeleted()
	assert.False(t, ok)

	s.SetUndoWindow(0)
	n = s.CreateNote(Overrides{})
	s.DeleteNote(n.ID)
	clk.Advance(DefaultUndoWindow - time.Millisecond)
	_, ok = s.LastDeleted()
	assert.True(t, ok, "zero falls back to the default")
}

func TestDelete_SecondDeletionWins(t *testing.T) {
	var discarded []string
	s, clk := newTestStore(WithDiscardHook(func(n Note) { discarded = append(discarded, n.ID) }))
	a := s.CreateNote(Overrides{})
	b := s.CreateNote(Overrides{})

	s.DeleteNote(a.ID)
	clk.Advance(3 * time.Second)
	s.DeleteNote(b.ID)

	assert.Equal(t, []string{a.ID}, discarded, "first note is lost as soon as it is displaced")

	clk.Advance(2 * time.Second)
	last, ok := s.LastDeleted()
	require.True(t, ok, "second deletion got a fresh window, not the remainder of the first")
	assert.Equal(t, b.ID, last.ID)

	restored, ok := s.RestoreNote()
	require.True(t, ok)
	assert.Equal(t, b.ID, restored.ID)
	_, ok = s.Note(a.ID)
	assert.False(t, ok)
}

func TestRestore_CancelsTimer(t *testing.T) {
	var discarded []string
	s, clk := newTestStore(WithDiscardHook(func(n Note) { discarded = append(discarded, n.ID) }))
	n := s.CreateNote(Overrides{})
	s.DeleteNote(n.ID)

	_, ok := s.RestoreNote()
	require.True(t, ok)
	assert.Equal(t, 0, clk.Pending())

	clk.Advance(10 * time.Second)
	assert.Empty(t, discarded)
	_, ok = s.Note(n.ID)
	assert.True(t, ok, "restored note is not re-discarded by a stale timer")
}

func TestRestore_ThenDeleteAgainGetsFullWindow(t *testing.T) {
	s, clk := newTestStore()
	n := s.CreateNote(Overrides{})
	s.DeleteNote(n.ID)
	clk.Advance(3 * time.Second)
	s.RestoreNote()
	s.DeleteNote(n.ID)

	clk.Advance(3 * time.Second)
	_, ok := s.LastDeleted()
	assert.True(t, ok)
}

func TestBringToFront_TwiceKeepsMaximum(t *testing.T) {
	s, _ := newTestStore()
	a := s.CreateNote(Overrides{})
	b := s.CreateNote(Overrides{})
	c := s.CreateNote(Overrides{})

	require.True(t, s.BringToFront(a.ID))
	first, _ := s.Note(a.ID)
	require.True(t, s.BringToFront(a.ID))
	second, _ := s.Note(a.ID)

	assert.Greater(t, second.ZIndex, first.ZIndex)
	assert.Equal(t, s.MaxZ(), second.ZIndex)
	for _, other := range []Note{b, c} {
		got, _ := s.Note(other.ID)
		assert.Equal(t, other.ZIndex, got.ZIndex)
		assert.Less(t, got.ZIndex, second.ZIndex)
	}
}

func TestBringToFront_SuppressedWhileFocused(t *testing.T) {
	s, _ := newTestStore()
	a := s.CreateNote(Overrides{})
	b := s.CreateNote(Overrides{})
	require.True(t, s.SetFocus(b.ID))

	assert.False(t, s.BringToFront(a.ID))
	got, _ := s.Note(a.ID)
	assert.Equal(t, a.ZIndex, got.ZIndex)

	s.ClearFocus()
	assert.True(t, s.BringToFront(a.ID))
}

func TestFocus_ReplacesPrevious(t *testing.T) {
	s, _ := newTestStore()
	a := s.CreateNote(Overrides{})
	b := s.CreateNote(Overrides{})

	s.SetFocus(a.ID)
	s.SetFocus(b.ID)
	id, ok := s.Focused()
	assert.True(t, ok)
	assert.Equal(t, b.ID, id)

	assert.False(t, s.SetFocus("missing"))
	id, _ = s.Focused()
	assert.Equal(t, b.ID, id)
}

func TestDelete_ClearsFocusAndDateEditing(t *testing.T) {
	s, _ := newTestStore()
	n := s.CreateNote(Overrides{})
	s.SetFocus(n.ID)
	s.SetEditingDate(n.ID)

	s.DeleteNote(n.ID)

	_, focused := s.Focused()
	_, editing := s.EditingDate()
	assert.False(t, focused)
	assert.False(t, editing)
}

func TestNightMode_ResetsBackground(t *testing.T) {
	s, _ := newTestStore()
	assert.Equal(t, DefaultDayBackground, s.Background())

	assert.True(t, s.ToggleNightMode())
	assert.Equal(t, DefaultNightBackground, s.Background())

	s.SetBackground(DarkBoards[3].Value)
	assert.False(t, s.ToggleNightMode())
	assert.Equal(t, DefaultDayBackground, s.Background())
}

func TestCycleBackground_StaysInMode(t *testing.T) {
	s, _ := newTestStore()
	next := s.CycleBackground()
	assert.Equal(t, LightBoards[3], next)

	s.ToggleNightMode()
	for i := 0; i < len(DarkBoards); i++ {
		sw := s.CycleBackground()
		assert.Contains(t, DarkBoards, sw)
	}
	assert.Equal(t, DefaultNightBackground, s.Background(), "a full cycle returns to the start")
}

func TestBootstrap_WelcomeNote(t *testing.T) {
	s, _ := newTestStore()
	n := s.Bootstrap(Size{W: 120, H: 40})

	assert.Equal(t, "Paris, France", n.Location)
	assert.Equal(t, NoteColors[0], n.Color)
	assert.Equal(t, -2.0, n.Rotation)
	assert.Equal(t, Point{X: 60 - NoteWidth/2, Y: 20 - NoteHeight/2}, n.Position)
	require.NotNil(t, n.EndDate)
	assert.Equal(t, 72*time.Hour, n.EndDate.Sub(*n.StartDate))
	assert.False(t, n.Fresh(epoch, time.Second), "bootstrap note has content so it does not auto-edit")
}

func TestDispense_BottomLeft(t *testing.T) {
	s, _ := newTestStore()
	n := s.Dispense(Size{W: 120, H: 40})

	assert.GreaterOrEqual(t, n.Position.X, 4.0)
	assert.Less(t, n.Position.X, 8.0)
	assert.Less(t, n.Position.Y, 40.0-NoteHeight)
	assert.True(t, n.Fresh(epoch, time.Second))
}

func TestDateLabel(t *testing.T) {
	start := time.Date(2026, 12, 6, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 12, 9, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "", Note{}.DateLabel())
	assert.Equal(t, "Dec 6 - Dec 9", Note{StartDate: &start, EndDate: &end}.DateLabel())
	assert.Equal(t, "Dec 6 - ?", Note{StartDate: &start}.DateLabel())
}

func TestRectContains_Inclusive(t *testing.T) {
	r := Rect{X: 10, Y: 10, W: 5, H: 5}
	assert.True(t, r.Contains(Point{X: 10, Y: 10}))
	assert.True(t, r.Contains(Point{X: 15, Y: 15}))
	assert.False(t, r.Contains(Point{X: 15.01, Y: 12}))
	assert.False(t, r.Contains(Point{X: 12, Y: 9.99}))
}
