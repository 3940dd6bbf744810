package appointment

import (
	"context"

	domain "github.com/slotbook/booking-saas/internal/domain/appointment"
	"github.com/slotbook/booking-saas/internal/domain/provider"
	"github.com/slotbook/booking-saas/internal/timezone"
)

type GetAvailability struct {
	repo     domain.Repository
	caps     *provider.Capabilities
	hours    *HoursResolver
	clock    timezone.Clock
	settings Settings
}

func NewGetAvailability(
	repo domain.Repository,
	caps *provider.Capabilities,
	hours *HoursResolver,
	clock timezone.Clock,
	settings Settings,
) *GetAvailability {
	return &GetAvailability{
		repo:     repo,
		caps:     caps,
		hours:    hours,
		clock:    clock,
		settings: settings,
	}
}

// Execute lists the day's start times for the service, ascending. A closed
// day yields an empty list.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) ([]domain.SlotCandidate, error) {

	svc, err := loadService(ctx, uc.repo, in.ProviderID, in.ServiceID)
	if err != nil {
		return nil, err
	}
	if err := requireStaffFeature(ctx, uc.repo, uc.caps, in.ProviderID, in.StaffID); err != nil {
		return nil, err
	}
	if err := loadStaff(ctx, uc.repo, in.ProviderID, in.StaffID); err != nil {
		return nil, err
	}

	loc := uc.clock.Location()
	date := timezone.DayStart(in.Date.In(loc))

	hours, open, err := uc.hours.Resolve(ctx, in.ProviderID, svc.ID, in.StaffID, date.Weekday())
	if err != nil {
		return nil, err
	}
	if !open {
		return []domain.SlotCandidate{}, nil
	}

	booked, err := uc.repo.ListBookedTimes(
		ctx,
		in.ProviderID,
		uc.settings.staffKey(in.StaffID),
		date.Format(timezone.DateLayout),
	)
	if err != nil {
		return nil, err
	}

	return domain.BuildSlots(domain.SlotParams{
		Hours:           hours,
		Date:            date,
		DurationMinutes: svc.DurationMinutes,
		Granularity:     uc.settings.Granularity,
		BufferMinutes:   uc.settings.BufferMinutes,
		Now:             uc.clock.Now().In(loc),
		Booked:          booked,
	}), nil
}
