package provider

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/slotbook/booking-saas/internal/audit"
	"github.com/slotbook/booking-saas/internal/domain/appointment"
	domain "github.com/slotbook/booking-saas/internal/domain/provider"
	"github.com/slotbook/booking-saas/internal/httperr"
	"github.com/slotbook/booking-saas/internal/models"
)

type ServiceInput struct {
	Name            string
	Description     string
	DurationMinutes int
	Price           decimal.Decimal
}

// ServicePatch carries only the fields being changed.
type ServicePatch struct {
	Name            *string
	Description     *string
	DurationMinutes *int
	Price           *decimal.Decimal
	Active          *bool
}

func validateService(name string, minutes int, price decimal.Decimal) error {
	if strings.TrimSpace(name) == "" {
		return httperr.ErrBusiness("service_name_required")
	}
	if !appointment.IsSupportedDuration(minutes) {
		return httperr.ErrBusiness("invalid_duration")
	}
	if price.IsNegative() {
		return httperr.ErrBusiness("invalid_price")
	}
	return nil
}

// ======================================================
// Create
// ======================================================

type CreateService struct {
	repo  domain.Repository
	caps  *domain.Capabilities
	audit *audit.Dispatcher
}

func NewCreateService(repo domain.Repository, caps *domain.Capabilities, audit *audit.Dispatcher) *CreateService {
	return &CreateService{repo: repo, caps: caps, audit: audit}
}

func (uc *CreateService) Execute(ctx context.Context, providerID uint, in ServiceInput) (*models.Service, error) {
	if err := validateService(in.Name, in.DurationMinutes, in.Price); err != nil {
		return nil, err
	}

	p, err := uc.repo.GetProviderByID(ctx, providerID)
	if err != nil {
		return nil, notFound(err, "provider_not_found")
	}

	svc := &models.Service{
		ProviderID:      providerID,
		Name:            strings.TrimSpace(in.Name),
		Description:     in.Description,
		DurationMinutes: in.DurationMinutes,
		Price:           in.Price,
		Active:          true,
	}

	err = uc.repo.CreateServiceWithinLimit(
		ctx,
		svc,
		uc.caps.Limits().FreeServices,
		uc.caps.Has(p, domain.FeatureUnlimitedServices),
	)
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ProviderID: providerID,
		Action:     "service_created",
		Entity:     "service",
		EntityID:   &svc.ID,
	})

	return svc, nil
}

// ======================================================
// Update
// ======================================================

type UpdateService struct {
	repo  domain.Repository
	caps  *domain.Capabilities
	audit *audit.Dispatcher
}

func NewUpdateService(repo domain.Repository, caps *domain.Capabilities, audit *audit.Dispatcher) *UpdateService {
	return &UpdateService{repo: repo, caps: caps, audit: audit}
}

// Execute applies the patch. Services are deactivated, never deleted, and
// reactivating one counts against the service quota again.
func (uc *UpdateService) Execute(ctx context.Context, providerID, serviceID uint, patch ServicePatch) (*models.Service, error) {
	svc, err := uc.repo.GetService(ctx, providerID, serviceID)
	if err != nil {
		return nil, notFound(err, "service_not_found")
	}

	reactivating := patch.Active != nil && *patch.Active && !svc.Active

	if patch.Name != nil {
		svc.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		svc.Description = *patch.Description
	}
	if patch.DurationMinutes != nil {
		svc.DurationMinutes = *patch.DurationMinutes
	}
	if patch.Price != nil {
		svc.Price = *patch.Price
	}
	if patch.Active != nil {
		svc.Active = *patch.Active
	}

	if err := validateService(svc.Name, svc.DurationMinutes, svc.Price); err != nil {
		return nil, err
	}

	if reactivating {
		p, err := uc.repo.GetProviderByID(ctx, providerID)
		if err != nil {
			return nil, notFound(err, "provider_not_found")
		}
		n, err := uc.repo.CountActiveServices(ctx, providerID)
		if err != nil {
			return nil, err
		}
		if !uc.caps.CanAddService(p, n) {
			return nil, httperr.ErrBusiness("service_limit_reached")
		}
	}

	if err := uc.repo.UpdateService(ctx, svc); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ProviderID: providerID,
		Action:     "service_updated",
		Entity:     "service",
		EntityID:   &svc.ID,
	})

	return svc, nil
}

// ======================================================
// List
// ======================================================

type ListServices struct {
	repo domain.Repository
}

func NewListServices(repo domain.Repository) *ListServices {
	return &ListServices{repo: repo}
}

func (uc *ListServices) Execute(ctx context.Context, providerID uint, activeOnly bool) ([]models.Service, error) {
	return uc.repo.ListServices(ctx, providerID, activeOnly)
}
