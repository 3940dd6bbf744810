package provider

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/slotbook/booking-saas/internal/audit"
	domain "github.com/slotbook/booking-saas/internal/domain/provider"
	"github.com/slotbook/booking-saas/internal/models"
	"github.com/slotbook/booking-saas/internal/timezone"
)

// DowngradeIfExpired persists the downgrade of an expired pro plan.
type DowngradeIfExpired struct {
	repo  domain.Repository
	caps  *domain.Capabilities
	audit *audit.Dispatcher
}

func NewDowngradeIfExpired(
	repo domain.Repository,
	caps *domain.Capabilities,
	audit *audit.Dispatcher,
) *DowngradeIfExpired {
	return &DowngradeIfExpired{repo: repo, caps: caps, audit: audit}
}

func (uc *DowngradeIfExpired) DowngradeIfExpired(ctx context.Context, p *models.Provider) (bool, error) {
	if !uc.caps.DowngradeIfExpired(p) {
		return false, nil
	}

	if err := uc.repo.SaveProviderPlan(ctx, p); err != nil {
		return false, fmt.Errorf("save downgraded plan: %w", err)
	}

	uc.audit.Dispatch(audit.Event{
		ProviderID: p.ID,
		Action:     "plan_downgraded",
		Entity:     "provider",
		EntityID:   &p.ID,
	})

	return true, nil
}

// ExpirePlans is the daily sweep over every expired pro plan.
type ExpirePlans struct {
	repo      domain.Repository
	downgrade *DowngradeIfExpired
	clock     timezone.Clock
	log       *zap.Logger
}

func NewExpirePlans(
	repo domain.Repository,
	downgrade *DowngradeIfExpired,
	clock timezone.Clock,
	log *zap.Logger,
) *ExpirePlans {
	return &ExpirePlans{repo: repo, downgrade: downgrade, clock: clock, log: log}
}

func (uc *ExpirePlans) Name() string { return "expire-plans" }

func (uc *ExpirePlans) Run(ctx context.Context) (int, error) {
	expired, err := uc.repo.ListExpiredPro(ctx, timezone.Today(uc.clock))
	if err != nil {
		return 0, fmt.Errorf("list expired plans: %w", err)
	}

	n := 0
	for i := range expired {
		changed, err := uc.downgrade.DowngradeIfExpired(ctx, &expired[i])
		if err != nil {
			uc.log.Error("downgrade failed", zap.Uint("provider_id", expired[i].ID), zap.Error(err))
			continue
		}
		if changed {
			n++
		}
	}

	return n, nil
}
