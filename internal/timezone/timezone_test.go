package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func offset(loc *time.Location) int {
	_, off := time.Date(2025, 1, 6, 12, 0, 0, 0, loc).Zone()
	return off
}

func TestLocationFallsBackToIST(t *testing.T) {
	assert.Equal(t, 19800, offset(Location("Asia/Kolkata")))
	assert.Equal(t, 19800, offset(Location("")))
	assert.Equal(t, 19800, offset(Location("Mars/Olympus_Mons")))
	assert.False(t, IsValid(""))
	assert.False(t, IsValid("Mars/Olympus_Mons"))
}

func TestFixedClockToday(t *testing.T) {
	loc := Location(DefaultTimezone)
	c := Fixed(time.Date(2025, 3, 10, 23, 59, 0, 0, loc))

	today := Today(c)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, loc), today)
	assert.Equal(t, loc, c.Location())
}

func TestParseHM(t *testing.T) {
	cases := map[string]int{
		"00:00":   0,
		"09:30":   570,
		"9:30":    570,
		" 17:00 ": 1020,
		"23:59":   1439,
	}
	for in, want := range cases {
		got, err := ParseHM(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, bad := range []string{"", "9am", "24:00", "12:60", "12", "12:30:00", "-1:00"} {
		_, err := ParseHM(bad)
		assert.Error(t, err, bad)
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "09:05", FormatHM(545))
	assert.Equal(t, "09:00 AM", FormatDisplay(540))
	assert.Equal(t, "12:00 PM", FormatDisplay(720))
	assert.Equal(t, "05:30 PM", FormatDisplay(1050))
}

func TestAtAndSameDay(t *testing.T) {
	loc := Location(DefaultTimezone)
	d, err := ParseDate("2025-01-06", loc)
	require.NoError(t, err)

	at := At(d, 570, loc)
	assert.Equal(t, 9, at.Hour())
	assert.Equal(t, 30, at.Minute())
	assert.True(t, SameDay(d, at))
	assert.False(t, SameDay(d, at.AddDate(0, 0, 1)))

	_, err = ParseDate("06/01/2025", loc)
	assert.Error(t, err)
}

func TestDayIndexIsMondayFirst(t *testing.T) {
	assert.Equal(t, 0, DayIndex(time.Monday))
	assert.Equal(t, 5, DayIndex(time.Saturday))
	assert.Equal(t, 6, DayIndex(time.Sunday))

	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		assert.Equal(t, wd, WeekdayOf(DayIndex(wd)))
	}
}
