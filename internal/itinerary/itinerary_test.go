package itinerary

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlan_Sample(t *testing.T) {
	days := Plan(nil)
	require.Len(t, days, 2)
	assert.Equal(t, "Oct 12", days[0].Date)
	assert.Equal(t, "Saturday", days[0].Weekday)
	require.Len(t, days[0].Events, 4)
	assert.Nil(t, days[0].Events[3].Next, "last stop has no onward leg")
	assert.Equal(t, Bus, days[1].Events[0].Next.Kind)
}

func TestPlan_FollowsTripStart(t *testing.T) {
	start := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
	days := Plan(&start)

	assert.Equal(t, "Dec 31", days[0].Date)
	assert.Equal(t, "Thursday", days[0].Weekday)
	assert.Equal(t, "Jan 1", days[1].Date)
	assert.Equal(t, "Oct 12", Plan(nil)[0].Date, "sample data is not mutated")
}

func TestPager(t *testing.T) {
	p := NewPager(Plan(nil))
	assert.False(t, p.HasPrev())
	assert.False(t, p.Prev())

	require.True(t, p.Next())
	d, _ := p.Current()
	assert.Equal(t, 2, d.Number)
	assert.False(t, p.Next(), "no wrap past the last day")
	assert.Equal(t, 1, p.Index())

	empty := NewPager(nil)
	_, ok := empty.Current()
	assert.False(t, ok)
	assert.False(t, empty.Next())
}
