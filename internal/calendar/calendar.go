// Package calendar is the month grid behind the date picker.
package calendar

import "time"

// Selection is a trip date range being picked.
type Selection struct {
	Start *time.Time
	End   *time.Time
}

// Pick applies one day click: the first click sets the start, a later day
// sets the end, anything else starts over from the clicked day.
func (s Selection) Pick(day time.Time) Selection {
	d := day
	switch {
	case s.Start == nil:
		return Selection{Start: &d}
	case s.End == nil && d.After(*s.Start):
		start := *s.Start
		return Selection{Start: &start, End: &d}
	default:
		return Selection{Start: &d}
	}
}

// Month is a page of the calendar.
type Month struct {
	Year  int
	Month time.Month
	Loc   *time.Location
}

// MonthOf is the page showing t, or now when t is nil.
func MonthOf(t *time.Time, now time.Time) Month {
	ref := now
	if t != nil {
		ref = *t
	}
	return Month{Year: ref.Year(), Month: ref.Month(), Loc: ref.Location()}
}

func (m Month) loc() *time.Location {
	if m.Loc == nil {
		return time.Local
	}
	return m.Loc
}

// Shift moves by delta months.
func (m Month) Shift(delta int) Month {
	t := time.Date(m.Year, m.Month+time.Month(delta), 1, 0, 0, 0, 0, m.loc())
	return Month{Year: t.Year(), Month: t.Month(), Loc: m.Loc}
}

func (m Month) Days() int {
	return time.Date(m.Year, m.Month+1, 0, 0, 0, 0, 0, m.loc()).Day()
}

// Day is local midnight of the given day of the month.
func (m Month) Day(n int) time.Time {
	return time.Date(m.Year, m.Month, n, 0, 0, 0, 0, m.loc())
}

// Title reads "Oct 2026".
func (m Month) Title() string {
	return m.Day(1).Format("Jan 2006")
}

// Weekdays heads the grid columns, Sunday first.
var Weekdays = [7]string{"S", "M", "T", "W", "T", "F", "S"}

// Grid lays the month out in weeks. Zero is a blank cell before the 1st or
// after the last day.
func (m Month) Grid() [][7]int {
	lead := int(m.Day(1).Weekday())
	var (
		weeks [][7]int
		week  [7]int
	)
	col := lead
	for d := 1; d <= m.Days(); d++ {
		week[col] = d
		col++
		if col == 7 {
			weeks = append(weeks, week)
			week, col = [7]int{}, 0
		}
	}
	if col > 0 {
		weeks = append(weeks, week)
	}
	return weeks
}

// Mark is how a grid cell is decorated.
type Mark int

const (
	Plain Mark = iota
	Endpoint
	InRange
)

// MarkOf classifies a day of m against the selection. Endpoints match by
// calendar day; the range is strictly between the endpoints.
func (m Month) MarkOf(day int, s Selection) Mark {
	d := m.Day(day)
	if sameDay(s.Start, d) || sameDay(s.End, d) {
		return Endpoint
	}
	if s.Start != nil && s.End != nil && d.After(*s.Start) && d.Before(*s.End) {
		return InRange
	}
	return Plain
}

func sameDay(t *time.Time, d time.Time) bool {
	if t == nil {
		return false
	}
	a := t.In(d.Location())
	return a.Year() == d.Year() && a.YearDay() == d.YearDay()
}
