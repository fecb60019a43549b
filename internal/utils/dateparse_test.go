package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Wednesday
var now = time.Date(2026, 10, 14, 15, 30, 0, 0, time.UTC)

func day(m time.Month, d int) time.Time {
	return time.Date(2026, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseFlexibleDate(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"today", day(10, 14)},
		{"Tomorrow", day(10, 15)},
		{"in 3 days", day(10, 17)},
		{"+2w", day(10, 28)},
		{"next week", day(10, 19)},
		{"next month", day(11, 1)},
		{"friday", day(10, 16)},
		{"wednesday", day(10, 14)},
		{"next wed", day(10, 21)},
		{"weekend", day(10, 17)},
		{"2026-12-06", day(12, 6)},
		{"Dec 6", day(12, 6)},
		{"Jan 3", time.Date(2027, 1, 3, 0, 0, 0, 0, time.UTC)},
		{"oct 14", day(10, 14)},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseFlexibleDate(tc.in, now)
			require.NoError(t, err)
			assert.True(t, tc.want.Equal(got), "got %s", got)
		})
	}
}

func TestParseFlexibleDate_Errors(t *testing.T) {
	for _, in := range []string{"", "  ", "someday", "32/13"} {
		_, err := ParseFlexibleDate(in, now)
		assert.Error(t, err, in)
	}
}

func TestParseTripRange(t *testing.T) {
	start, end, err := ParseTripRange("Dec 6", "+3d", now)
	require.NoError(t, err)
	assert.True(t, day(12, 6).Equal(*start))
	assert.True(t, day(12, 9).Equal(*end))

	start, end, err = ParseTripRange("", "friday", now)
	require.NoError(t, err)
	assert.Nil(t, start)
	assert.True(t, day(10, 16).Equal(*end))

	start, end, err = ParseTripRange("", "", now)
	require.NoError(t, err)
	assert.Nil(t, start)
	assert.Nil(t, end)

	_, _, err = ParseTripRange("nope", "", now)
	assert.ErrorContains(t, err, "--from")
}
