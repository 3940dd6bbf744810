package provider

import (
	"context"

	domain "github.com/slotbook/booking-saas/internal/domain/provider"
	"github.com/slotbook/booking-saas/internal/dto"
	"github.com/slotbook/booking-saas/internal/timezone"
)

// AdmissionController answers the plan questions asked before a booking or
// a new service.
type AdmissionController struct {
	repo  domain.Repository
	caps  *domain.Capabilities
	clock timezone.Clock
}

func NewAdmissionController(
	repo domain.Repository,
	caps *domain.Capabilities,
	clock timezone.Clock,
) *AdmissionController {
	return &AdmissionController{repo: repo, caps: caps, clock: clock}
}

func (uc *AdmissionController) CanAdmitAppointment(ctx context.Context, providerID uint) (bool, error) {
	p, err := uc.repo.GetProviderByID(ctx, providerID)
	if err != nil {
		return false, notFound(err, "provider_not_found")
	}
	return uc.caps.CanAdmitAppointment(p), nil
}

func (uc *AdmissionController) CanAddService(ctx context.Context, providerID uint) (bool, error) {
	p, err := uc.repo.GetProviderByID(ctx, providerID)
	if err != nil {
		return false, notFound(err, "provider_not_found")
	}
	n, err := uc.repo.CountActiveServices(ctx, providerID)
	if err != nil {
		return false, err
	}
	return uc.caps.CanAddService(p, n), nil
}

func (uc *AdmissionController) Usage(ctx context.Context, providerID uint) (*dto.UsageDTO, error) {
	p, err := uc.repo.GetProviderByID(ctx, providerID)
	if err != nil {
		return nil, notFound(err, "provider_not_found")
	}

	services, err := uc.repo.CountActiveServices(ctx, providerID)
	if err != nil {
		return nil, err
	}
	staff, err := uc.repo.CountStaff(ctx, providerID)
	if err != nil {
		return nil, err
	}

	limits := uc.caps.Limits()
	remaining, unlimited := uc.caps.RemainingAppointments(p)

	return &dto.UsageDTO{
		Plan:                  p.CurrentPlan,
		IsPro:                 uc.caps.IsPro(p),
		Period:                domain.Period(uc.clock.Now()),
		AppointmentsThisMonth: uc.caps.UsageThisMonth(p),
		AppointmentLimit:      limits.FreeAppointments,
		RemainingAppointments: remaining,
		Unlimited:             unlimited,
		ActiveServices:        services,
		ServiceLimit:          limits.FreeServices,
		CanAddService:         uc.caps.CanAddService(p, services),
		CanAddStaff:           uc.caps.CanAddStaff(p, staff),
		AcceptingAppointments: p.AcceptingAppointments,
	}, nil
}
