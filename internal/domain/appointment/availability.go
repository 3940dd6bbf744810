package appointment

import (
	"time"

	"github.com/slotbook/booking-saas/internal/timezone"
)

const (
	DefaultSlotGranularity = 30
	DefaultBufferMinutes   = 15
)

// SupportedDurations is the closed set of service lengths, in minutes.
var SupportedDurations = []int{15, 30, 45, 60, 90, 120, 180}

func IsSupportedDuration(minutes int) bool {
	for _, d := range SupportedDurations {
		if d == minutes {
			return true
		}
	}
	return false
}

type AvailabilityInput struct {
	ProviderID uint
	ServiceID  uint
	StaffID    *uint
	Date       time.Time
}

type SlotCandidate struct {
	StartTime    string `json:"time"`
	DisplayLabel string `json:"display"`
	IsAvailable  bool   `json:"available"`
	IsPast       bool   `json:"is_past"`
	IsBooked     bool   `json:"is_booked"`
}

type SlotParams struct {
	Hours           EffectiveHours
	Date            time.Time
	DurationMinutes int
	Granularity     int
	// BufferMinutes is carried for callers but does not space slots apart.
	BufferMinutes int
	Now           time.Time
	Booked        map[string]bool
}

// BuildSlots walks start times from opening to closing in Granularity steps
// and keeps every start whose service still ends by closing time.
func BuildSlots(p SlotParams) []SlotCandidate {
	step := p.Granularity
	if step <= 0 {
		step = DefaultSlotGranularity
	}
	if p.DurationMinutes <= 0 {
		return []SlotCandidate{}
	}

	loc := p.Now.Location()
	today := timezone.SameDay(p.Date, p.Now)

	slots := make([]SlotCandidate, 0, (p.Hours.End-p.Hours.Start)/step+1)
	for cur := p.Hours.Start; cur < p.Hours.End; cur += step {
		if cur+p.DurationMinutes > p.Hours.End {
			continue
		}

		hm := timezone.FormatHM(cur)

		isPast := false
		if today {
			isPast = timezone.At(p.Date, cur, loc).Before(p.Now)
		}
		isBooked := p.Booked[hm]

		slots = append(slots, SlotCandidate{
			StartTime:    hm,
			DisplayLabel: timezone.FormatDisplay(cur),
			IsAvailable:  !isPast && !isBooked,
			IsPast:       isPast,
			IsBooked:     isBooked,
		})
	}

	return slots
}

func HasAvailable(slots []SlotCandidate) bool {
	for _, s := range slots {
		if s.IsAvailable {
			return true
		}
	}
	return false
}
