package provider

import (
	"context"
	"fmt"

	domain "github.com/slotbook/booking-saas/internal/domain/provider"
	"github.com/slotbook/booking-saas/internal/timezone"
)

// ResetMonthlyCounters zeroes every provider's appointment counter for the
// current period. Reads already treat an old period as zero, so a late or
// missed run only delays the stored value.
type ResetMonthlyCounters struct {
	repo  domain.Repository
	clock timezone.Clock
}

func NewResetMonthlyCounters(repo domain.Repository, clock timezone.Clock) *ResetMonthlyCounters {
	return &ResetMonthlyCounters{repo: repo, clock: clock}
}

func (uc *ResetMonthlyCounters) Name() string { return "reset-counters" }

func (uc *ResetMonthlyCounters) Run(ctx context.Context) (int, error) {
	now := uc.clock.Now()

	n, err := uc.repo.ResetMonthlyCounters(ctx, domain.Period(now), now)
	if err != nil {
		return 0, fmt.Errorf("reset monthly counters: %w", err)
	}
	return int(n), nil
}
