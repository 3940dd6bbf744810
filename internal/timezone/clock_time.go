package timezone

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// ParseHM parses an "HH:MM" wall-clock value into minutes since midnight.
func ParseHM(hm string) (int, error) {
	parts := strings.Split(strings.TrimSpace(hm), ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q", hm)
	}

	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", hm)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", hm)
	}

	return h*60 + m, nil
}

func FormatHM(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// FormatDisplay renders minutes since midnight as "09:30 AM".
func FormatDisplay(minutes int) string {
	t := time.Date(2000, 1, 1, minutes/60, minutes%60, 0, 0, time.UTC)
	return t.Format("03:04 PM")
}

func ParseDate(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(s), loc)
}

// At combines a calendar date with a wall-clock offset in loc.
func At(date time.Time, minutes int, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), minutes/60, minutes%60, 0, 0, loc)
}

func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DayIndex numbers weekdays the way day_of_week is stored and sent over the
// API: 0 = Monday ... 6 = Sunday.
func DayIndex(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}

// WeekdayOf is the inverse of DayIndex.
func WeekdayOf(day int) time.Weekday {
	return time.Weekday((day + 1) % 7)
}
