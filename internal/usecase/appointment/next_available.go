package appointment

import (
	"context"
	"time"

	domain "github.com/slotbook/booking-saas/internal/domain/appointment"
	"github.com/slotbook/booking-saas/internal/timezone"
)

const DefaultSearchDays = 30

type NextAvailableInput struct {
	ProviderID uint
	ServiceID  uint
	StaffID    *uint
	From       time.Time
	DaysAhead  int
}

type NextAvailableDate struct {
	slots *GetAvailability
}

func NewNextAvailableDate(slots *GetAvailability) *NextAvailableDate {
	return &NextAvailableDate{slots: slots}
}

// Execute returns the first day, starting at From, with at least one
// available slot. ok is false when none is found within DaysAhead days.
func (uc *NextAvailableDate) Execute(
	ctx context.Context,
	in NextAvailableInput,
) (date time.Time, ok bool, err error) {

	days := in.DaysAhead
	if days <= 0 {
		days = DefaultSearchDays
	}

	from := in.From
	if from.IsZero() {
		from = uc.slots.clock.Now()
	}
	day := timezone.DayStart(from.In(uc.slots.clock.Location()))

	for i := 0; i < days; i++ {
		d := day.AddDate(0, 0, i)

		slots, err := uc.slots.Execute(ctx, domain.AvailabilityInput{
			ProviderID: in.ProviderID,
			ServiceID:  in.ServiceID,
			StaffID:    in.StaffID,
			Date:       d,
		})
		if err != nil {
			return time.Time{}, false, err
		}
		if domain.HasAvailable(slots) {
			return d, true, nil
		}
	}

	return time.Time{}, false, nil
}
