package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFake_FiresInDeadlineOrder(t *testing.T) {
	clk := NewFake(time.Unix(0, 0))
	var got []string

	clk.AfterFunc(300*time.Millisecond, func() { got = append(got, "late") })
	clk.AfterFunc(100*time.Millisecond, func() { got = append(got, "early") })

	clk.Advance(200 * time.Millisecond)
	assert.Equal(t, []string{"early"}, got)

	clk.Advance(100 * time.Millisecond)
	assert.Equal(t, []string{"early", "late"}, got)
	assert.Equal(t, 0, clk.Pending())
}

func TestFake_StopCancels(t *testing.T) {
	clk := NewFake(time.Unix(0, 0))
	fired := false
	tm := clk.AfterFunc(time.Second, func() { fired = true })

	assert.True(t, tm.Stop())
	assert.False(t, tm.Stop(), "second stop reports already stopped")

	clk.Advance(2 * time.Second)
	assert.False(t, fired)
}

func TestFake_CallbackSchedulesFollowUp(t *testing.T) {
	clk := NewFake(time.Unix(0, 0))
	var at []time.Duration
	start := clk.Now()

	clk.AfterFunc(time.Second, func() {
		at = append(at, clk.Now().Sub(start))
		clk.AfterFunc(time.Second, func() {
			at = append(at, clk.Now().Sub(start))
		})
	})

	clk.Advance(5 * time.Second)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, at)
	assert.Equal(t, 5*time.Second, clk.Now().Sub(start))
}

func TestFake_StopAfterFire(t *testing.T) {
	clk := NewFake(time.Unix(0, 0))
	tm := clk.AfterFunc(time.Millisecond, func() {})
	clk.Advance(time.Millisecond)
	assert.False(t, tm.Stop())
}
