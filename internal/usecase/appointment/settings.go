package appointment

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	domain "github.com/slotbook/booking-saas/internal/domain/appointment"
	"github.com/slotbook/booking-saas/internal/domain/provider"
	"github.com/slotbook/booking-saas/internal/httperr"
	"github.com/slotbook/booking-saas/internal/models"
	"github.com/slotbook/booking-saas/internal/notification"
)

// Settings are the slot calendar knobs shared by every use case here.
type Settings struct {
	Granularity   int
	BufferMinutes int
	// StaffParallel gives each staff member a calendar of their own.
	// Off, every staff member shares the provider's single calendar.
	StaffParallel bool
}

func DefaultSettings() Settings {
	return Settings{
		Granularity:   domain.DefaultSlotGranularity,
		BufferMinutes: domain.DefaultBufferMinutes,
	}
}

func (s Settings) staffKey(staffID *uint) uint {
	if s.StaffParallel && staffID != nil {
		return *staffID
	}
	return 0
}

// Notifier is the fire-and-forget notification boundary.
type Notifier interface {
	Enqueue(kind notification.Kind, appointmentID uint, sendSMS bool)
}

// PlanGuard downgrades an expired plan before it is used.
type PlanGuard interface {
	DowngradeIfExpired(ctx context.Context, p *models.Provider) (bool, error)
}

func notFound(err error, code string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.ErrBusiness(code)
	}
	return fmt.Errorf("%s: %w", code, err)
}

func loadService(ctx context.Context, repo domain.Repository, providerID, serviceID uint) (*models.Service, error) {
	svc, err := repo.GetService(ctx, providerID, serviceID)
	if err != nil {
		return nil, notFound(err, "service_not_found")
	}
	if !svc.Active {
		return nil, httperr.ErrBusiness("service_inactive")
	}
	return svc, nil
}

// requireStaffFeature rejects staff-scoped reads for providers without the
// staff feature, matching what booking would answer.
func requireStaffFeature(ctx context.Context, repo domain.Repository, caps *provider.Capabilities, providerID uint, staffID *uint) error {
	if staffID == nil {
		return nil
	}
	p, err := repo.GetProviderByID(ctx, providerID)
	if err != nil {
		return notFound(err, "provider_not_found")
	}
	if !caps.Has(p, provider.FeatureStaff) {
		return httperr.ErrBusiness("feature_requires_pro")
	}
	return nil
}

func loadStaff(ctx context.Context, repo domain.Repository, providerID uint, staffID *uint) error {
	if staffID == nil {
		return nil
	}
	m, err := repo.GetStaffMember(ctx, providerID, *staffID)
	if err != nil {
		return notFound(err, "staff_not_found")
	}
	if !m.Active {
		return httperr.ErrBusiness("staff_inactive")
	}
	return nil
}
