package timezone

import "time"

// DefaultTimezone is the single business timezone every "now" and
// "is past" comparison is made in.
const DefaultTimezone = "Asia/Kolkata"

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		return time.FixedZone("IST", 5*60*60+30*60)
	}
	return loc
}

func Now() time.Time {
	return time.Now().In(Location(DefaultTimezone))
}

// Clock is injected wherever the core needs the current business time.
type Clock interface {
	Now() time.Time
	Location() *time.Location
}

type BusinessClock struct {
	loc *time.Location
}

func NewClock(tz string) *BusinessClock {
	return &BusinessClock{loc: Location(tz)}
}

func (c *BusinessClock) Now() time.Time {
	return time.Now().In(c.loc)
}

func (c *BusinessClock) Location() *time.Location {
	return c.loc
}

// FixedClock always reports the same instant.
type FixedClock struct {
	At time.Time
}

func Fixed(at time.Time) *FixedClock {
	return &FixedClock{At: at}
}

func (c *FixedClock) Now() time.Time {
	return c.At
}

func (c *FixedClock) Location() *time.Location {
	return c.At.Location()
}

// Today returns midnight of t's calendar day in t's location.
func Today(c Clock) time.Time {
	return DayStart(c.Now())
}

func DayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
