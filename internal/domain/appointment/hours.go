package appointment

import (
	"github.com/slotbook/booking-saas/internal/timezone"
)

// Layer names the availability source an hours row came from.
type Layer string

const (
	LayerStaff    Layer = "staff"
	LayerService  Layer = "service"
	LayerProvider Layer = "provider"
)

// DayHours is one weekday row, in minutes since midnight.
type DayHours struct {
	Start int  `json:"start"`
	End   int  `json:"end"`
	Open  bool `json:"open"`
}

// HoursLookup is the outcome of reading one layer for one weekday: either
// the layer has no row (Found=false) or it has one, open or closed.
type HoursLookup struct {
	Layer Layer    `json:"layer"`
	Found bool     `json:"found"`
	Hours DayHours `json:"hours"`
}

func Absent(layer Layer) HoursLookup {
	return HoursLookup{Layer: layer}
}

func Present(layer Layer, hours DayHours) HoursLookup {
	return HoursLookup{Layer: layer, Found: true, Hours: hours}
}

// HoursFromRow converts stored "HH:MM" strings. Unparseable or empty ranges
// are treated as a closed day rather than as an error.
func HoursFromRow(start, end string, available bool) DayHours {
	if !available {
		return DayHours{}
	}
	s, err := timezone.ParseHM(start)
	if err != nil {
		return DayHours{}
	}
	e, err := timezone.ParseHM(end)
	if err != nil || e <= s {
		return DayHours{}
	}
	return DayHours{Start: s, End: e, Open: true}
}

// EffectiveHours are the opening hours that apply to a booking on one day.
type EffectiveHours struct {
	Start  int
	End    int
	Source Layer
}

// ResolveEffectiveHours walks lookups from most to least specific; the first
// layer with a row decides. No row in any layer means closed.
func ResolveEffectiveHours(lookups ...HoursLookup) (EffectiveHours, bool) {
	for _, l := range lookups {
		if !l.Found {
			continue
		}
		if !l.Hours.Open {
			return EffectiveHours{}, false
		}
		return EffectiveHours{
			Start:  l.Hours.Start,
			End:    l.Hours.End,
			Source: l.Layer,
		}, true
	}
	return EffectiveHours{}, false
}
