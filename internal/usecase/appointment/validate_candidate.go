package appointment

import (
	"context"
	"time"

	domain "github.com/slotbook/booking-saas/internal/domain/appointment"
	"github.com/slotbook/booking-saas/internal/domain/provider"
	"github.com/slotbook/booking-saas/internal/models"
	"github.com/slotbook/booking-saas/internal/timezone"
)

type ValidateCandidateInput struct {
	ProviderID uint
	ServiceID  uint
	StaffID    *uint
	Date       string
	Time       string
}

type ValidateCandidate struct {
	repo     domain.Repository
	caps     *provider.Capabilities
	hours    *HoursResolver
	clock    timezone.Clock
	settings Settings
}

func NewValidateCandidate(
	repo domain.Repository,
	caps *provider.Capabilities,
	hours *HoursResolver,
	clock timezone.Clock,
	settings Settings,
) *ValidateCandidate {
	return &ValidateCandidate{
		repo:     repo,
		caps:     caps,
		hours:    hours,
		clock:    clock,
		settings: settings,
	}
}

// Execute reports the first rule the candidate breaks, or ok.
func (uc *ValidateCandidate) Execute(
	ctx context.Context,
	in ValidateCandidateInput,
) (domain.ValidationResult, error) {

	svc, err := loadService(ctx, uc.repo, in.ProviderID, in.ServiceID)
	if err != nil {
		return domain.ValidationResult{}, err
	}
	if err := requireStaffFeature(ctx, uc.repo, uc.caps, in.ProviderID, in.StaffID); err != nil {
		return domain.ValidationResult{}, err
	}
	if err := loadStaff(ctx, uc.repo, in.ProviderID, in.StaffID); err != nil {
		return domain.ValidationResult{}, err
	}

	_, res, err := uc.check(ctx, in.ProviderID, svc, in.StaffID, in.Date, in.Time)
	return res, err
}

func (uc *ValidateCandidate) check(
	ctx context.Context,
	providerID uint,
	svc *models.Service,
	staffID *uint,
	date string,
	hm string,
) (domain.CandidateSlot, domain.ValidationResult, error) {

	slot, res, err := domain.CheckCandidate(domain.CandidateParams{
		Date:            date,
		Time:            hm,
		DurationMinutes: svc.DurationMinutes,
		Now:             uc.clock.Now().In(uc.clock.Location()),
		Hours: func(d time.Time) (domain.EffectiveHours, bool, error) {
			return uc.hours.Resolve(ctx, providerID, svc.ID, staffID, d.Weekday())
		},
	})
	if err != nil || !res.OK {
		return slot, res, err
	}

	taken, err := uc.repo.IsSlotTaken(
		ctx,
		providerID,
		uc.settings.staffKey(staffID),
		slot.DateString(),
		slot.TimeString(),
	)
	if err != nil {
		return slot, domain.ValidationResult{}, err
	}
	if taken {
		return slot, domain.Rejected(domain.ReasonSlotTaken), nil
	}

	return slot, domain.Valid(), nil
}
