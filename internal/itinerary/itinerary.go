// Package itinerary holds the day-by-day plan shown next to a focused note.
package itinerary

import "time"

type Transport string

const (
	Car   Transport = "car"
	Walk  Transport = "walk"
	Train Transport = "train"
	Bus   Transport = "bus"
)

// Icon is a short glyph for the transport kind.
func (t Transport) Icon() string {
	switch t {
	case Walk:
		return "🚶"
	case Train:
		return "🚆"
	case Bus:
		return "🚌"
	default:
		return "🚗"
	}
}

type Leg struct {
	Kind     Transport
	Duration string
}

type Event struct {
	ID    string
	Time  string
	Title string
	Next  *Leg // transport to the following event
}

type Day struct {
	Number  int
	Date    string
	Weekday string
	Weather string
	Temp    string
	Summary string
	Hotel   string
	Events  []Event
}

var sample = []Day{
	{
		Number:  1,
		Date:    "Oct 12",
		Weekday: "Saturday",
		Weather: "Sunny",
		Temp:    "22°C",
		Summary: "Arrival and Old Town exploration. Enjoying the local cuisine and sunset views.",
		Hotel:   "Grand Hotel Central",
		Events: []Event{
			{ID: "e1", Time: "10:00 AM", Title: "Arrival at Airport", Next: &Leg{Kind: Car, Duration: "45 min"}},
			{ID: "e2", Time: "12:00 PM", Title: "Check-in & Lunch", Next: &Leg{Kind: Walk, Duration: "15 min"}},
			{ID: "e3", Time: "02:00 PM", Title: "Historic Market Tour", Next: &Leg{Kind: Walk, Duration: "10 min"}},
			{ID: "e4", Time: "05:00 PM", Title: "Sunset at Cathedral"},
		},
	},
	{
		Number:  2,
		Date:    "Oct 13",
		Weekday: "Sunday",
		Weather: "Cloudy",
		Temp:    "19°C",
		Summary: "Museum day and river cruise. Visiting the famous art gallery in the morning.",
		Hotel:   "Grand Hotel Central",
		Events: []Event{
			{ID: "e5", Time: "09:00 AM", Title: "Modern Art Museum", Next: &Leg{Kind: Bus, Duration: "20 min"}},
			{ID: "e6", Time: "01:00 PM", Title: "Riverside Lunch", Next: &Leg{Kind: Walk, Duration: "5 min"}},
			{ID: "e7", Time: "03:00 PM", Title: "Boat Tour"},
		},
	},
}

// Plan returns the sample plan. With a start date, day labels follow the
// trip's calendar instead of the sample dates.
func Plan(start *time.Time) []Day {
	days := make([]Day, len(sample))
	for i, d := range sample {
		d.Events = append([]Event(nil), d.Events...)
		if start != nil {
			t := start.AddDate(0, 0, i)
			d.Date = t.Format("Jan 2")
			d.Weekday = t.Weekday().String()
		}
		days[i] = d
	}
	return days
}

// Pager steps through days without wrapping.
type Pager struct {
	days []Day
	idx  int
}

func NewPager(days []Day) *Pager { return &Pager{days: days} }

func (p *Pager) Current() (Day, bool) {
	if len(p.days) == 0 {
		return Day{}, false
	}
	return p.days[p.idx], true
}

func (p *Pager) Index() int    { return p.idx }
func (p *Pager) Len() int      { return len(p.days) }
func (p *Pager) HasPrev() bool { return p.idx > 0 }
func (p *Pager) HasNext() bool { return p.idx < len(p.days)-1 }

func (p *Pager) Next() bool {
	if !p.HasNext() {
		return false
	}
	p.idx++
	return true
}

func (p *Pager) Prev() bool {
	if !p.HasPrev() {
		return false
	}
	p.idx--
	return true
}
