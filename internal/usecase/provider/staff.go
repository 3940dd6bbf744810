package provider

import (
	"context"
	"strings"

	"github.com/slotbook/booking-saas/internal/audit"
	domain "github.com/slotbook/booking-saas/internal/domain/provider"
	"github.com/slotbook/booking-saas/internal/httperr"
	"github.com/slotbook/booking-saas/internal/models"
)

type StaffInput struct {
	Name         string
	Email        string
	Phone        string
	DisplayOrder int
}

type CreateStaff struct {
	repo  domain.Repository
	caps  *domain.Capabilities
	audit *audit.Dispatcher
}

func NewCreateStaff(repo domain.Repository, caps *domain.Capabilities, audit *audit.Dispatcher) *CreateStaff {
	return &CreateStaff{repo: repo, caps: caps, audit: audit}
}

func (uc *CreateStaff) Execute(ctx context.Context, providerID uint, in StaffInput) (*models.StaffMember, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, httperr.ErrBusiness("staff_name_required")
	}

	p, err := uc.repo.GetProviderByID(ctx, providerID)
	if err != nil {
		return nil, notFound(err, "provider_not_found")
	}
	if !uc.caps.Has(p, domain.FeatureStaff) {
		return nil, httperr.ErrBusiness("feature_requires_pro")
	}

	n, err := uc.repo.CountStaff(ctx, providerID)
	if err != nil {
		return nil, err
	}
	if !uc.caps.CanAddStaff(p, n) {
		return nil, httperr.ErrBusiness("staff_limit_reached")
	}

	m := &models.StaffMember{
		ProviderID:   providerID,
		Name:         strings.TrimSpace(in.Name),
		Email:        in.Email,
		Phone:        in.Phone,
		Active:       true,
		DisplayOrder: in.DisplayOrder,
	}
	if err := uc.repo.CreateStaffMember(ctx, m); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ProviderID: providerID,
		Action:     "staff_created",
		Entity:     "staff_member",
		EntityID:   &m.ID,
	})

	return m, nil
}

type ListStaff struct {
	repo domain.Repository
}

func NewListStaff(repo domain.Repository) *ListStaff {
	return &ListStaff{repo: repo}
}

func (uc *ListStaff) Execute(ctx context.Context, providerID uint) ([]models.StaffMember, error) {
	return uc.repo.ListStaff(ctx, providerID)
}
