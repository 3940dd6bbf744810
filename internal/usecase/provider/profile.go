package provider

import (
	"context"

	"github.com/slotbook/booking-saas/internal/audit"
	domain "github.com/slotbook/booking-saas/internal/domain/provider"
	"github.com/slotbook/booking-saas/internal/models"
)

type FindBySlug struct {
	repo domain.Repository
}

func NewFindBySlug(repo domain.Repository) *FindBySlug {
	return &FindBySlug{repo: repo}
}

func (uc *FindBySlug) Execute(ctx context.Context, slug string) (*models.Provider, error) {
	p, err := uc.repo.GetProviderBySlug(ctx, slug)
	if err != nil {
		return nil, notFound(err, "provider_not_found")
	}
	return p, nil
}

// SetAccepting opens or closes public booking. Walk-ins are unaffected.
type SetAccepting struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewSetAccepting(repo domain.Repository, audit *audit.Dispatcher) *SetAccepting {
	return &SetAccepting{repo: repo, audit: audit}
}

func (uc *SetAccepting) Execute(ctx context.Context, providerID uint, accepting bool) error {
	if err := uc.repo.SetAcceptingAppointments(ctx, providerID, accepting); err != nil {
		return err
	}

	uc.audit.Dispatch(audit.Event{
		ProviderID: providerID,
		Action:     "accepting_appointments_changed",
		Entity:     "provider",
		EntityID:   &providerID,
		Metadata:   map[string]bool{"accepting": accepting},
	})
	return nil
}
