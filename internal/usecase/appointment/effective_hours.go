package appointment

import (
	"context"
	"time"

	domain "github.com/slotbook/booking-saas/internal/domain/appointment"
	"github.com/slotbook/booking-saas/internal/timezone"
)

// HoursResolver reads the staff, service and provider layers for one weekday
// and lets the most specific row decide. Layers below the deciding one are
// not read.
type HoursResolver struct {
	store domain.HoursStore
}

func NewHoursResolver(store domain.HoursStore) *HoursResolver {
	return &HoursResolver{store: store}
}

type layerRead func(ctx context.Context) (domain.HoursLookup, error)

func (r *HoursResolver) Resolve(
	ctx context.Context,
	providerID uint,
	serviceID uint,
	staffID *uint,
	day time.Weekday,
) (domain.EffectiveHours, bool, error) {

	d := timezone.DayIndex(day)
	reads := make([]layerRead, 0, 3)

	if staffID != nil {
		reads = append(reads, func(ctx context.Context) (domain.HoursLookup, error) {
			return r.store.StaffHours(ctx, *staffID, d)
		})
	}
	reads = append(reads,
		func(ctx context.Context) (domain.HoursLookup, error) {
			return r.store.ServiceHours(ctx, serviceID, d)
		},
		func(ctx context.Context) (domain.HoursLookup, error) {
			return r.store.ProviderHours(ctx, providerID, d)
		},
	)

	for _, read := range reads {
		l, err := read(ctx)
		if err != nil {
			return domain.EffectiveHours{}, false, err
		}
		if l.Found {
			hours, open := domain.ResolveEffectiveHours(l)
			return hours, open, nil
		}
	}

	return domain.EffectiveHours{}, false, nil
}
